package glog

import (
	"context"
	"fmt"

	reqid "github.com/healthwaite/handoff/internal/util/request_id"
)

const requestIDField = "trans_id"

// redactSecretArgs replaces any []byte argument with a length-only
// placeholder before it reaches a log line. Signing keys and raw
// signatures are the one argument shape this subsystem ever has reason to
// pass around as bytes, and the invariant that secrets never reach a log
// line is cheaper to enforce once here than to trust at every call site.
func redactSecretArgs(args []interface{}) []interface{} {
	redacted := args
	copied := false
	for i, a := range args {
		if b, ok := a.([]byte); ok {
			if !copied {
				redacted = append([]interface{}{}, args...)
				copied = true
			}
			redacted[i] = fmt.Sprintf("<redacted:%dB>", len(b))
		}
	}
	return redacted
}

// formatMetaTag returns a formatted transaction ID tag from the context,
// like "trans_id:abc123". Returns an empty string if no transaction ID is
// present; every Handoff log line that can be tied to one request carries
// this so operators can grep a single transaction end to end.
func formatMetaTag(ctx context.Context) string {
	if requestID := reqid.Get(ctx); requestID != "" {
		return fmt.Sprintf("%s:%s", requestIDField, requestID)
	}
	return ""
}

// InfoCtx is a context-aware alternative to Verbose.Info.
func (v Verbose) InfoCtx(ctx context.Context, args ...interface{}) {
	if !v {
		return
	}
	args = redactSecretArgs(args)
	if metaTag := formatMetaTag(ctx); metaTag != "" {
		args = append([]interface{}{metaTag}, args...)
	}
	logging.print(infoLog, args...)
}

// InfofCtx is a context-aware alternative to Verbose.Infof.
func (v Verbose) InfofCtx(ctx context.Context, format string, args ...interface{}) {
	if !v {
		return
	}
	args = redactSecretArgs(args)
	if metaTag := formatMetaTag(ctx); metaTag != "" {
		format = metaTag + " " + format
	}
	logging.printf(infoLog, format, args...)
}

// InfofCtx logs a formatted message at info level, prepending the
// transaction ID from the context if one is present.
func InfofCtx(ctx context.Context, format string, args ...interface{}) {
	args = redactSecretArgs(args)
	if metaTag := formatMetaTag(ctx); metaTag != "" {
		format = metaTag + " " + format
	}
	logging.printf(infoLog, format, args...)
}

// WarningfCtx logs a formatted message at warning level, prepending a
// transaction ID from the context if it exists.
func WarningfCtx(ctx context.Context, format string, args ...interface{}) {
	args = redactSecretArgs(args)
	if metaTag := formatMetaTag(ctx); metaTag != "" {
		format = metaTag + " " + format
	}
	logging.printf(warningLog, format, args...)
}

// ErrorfCtx logs a formatted message at error level, prepending a
// transaction ID from the context if it exists.
func ErrorfCtx(ctx context.Context, format string, args ...interface{}) {
	args = redactSecretArgs(args)
	if metaTag := formatMetaTag(ctx); metaTag != "" {
		format = metaTag + " " + format
	}
	logging.printf(errorLog, format, args...)
}
