// Package acc implements the Authorization Context Capture: an optional,
// policy-gated snapshot of method/bucket/object-key/headers/path/query
// attached to a verification request when the runtime capture mode calls
// for it.
package acc

import (
	"strings"

	"github.com/healthwaite/handoff/internal/core"
)

const (
	headerPrefix    = "HTTP_"
	amzHeaderPrefix = "HTTP_X_AMZ_"
)

// Capture decides, per the current capture mode and whether the request
// carries a session token, whether to build an AuthorizationParameters
// snapshot. It returns core.InvalidAuthorizationParameters when capture is
// skipped by policy or when the request shape can't be parsed.
func Capture(req *core.RequestSnapshot, mode core.AuthorizationCaptureMode) core.AuthorizationParameters {
	if !shouldCapture(mode, req.SessionToken) {
		return core.InvalidAuthorizationParameters
	}

	if req.Method == "" {
		return core.InvalidAuthorizationParameters
	}

	bucket, objectKey, ok := splitPath(req.Path)
	if !ok {
		return core.InvalidAuthorizationParameters
	}

	return core.NewAuthorizationParameters(req.Method, bucket, objectKey, req.Path, captureHeaders(req.Headers), req.QueryParameters)
}

func shouldCapture(mode core.AuthorizationCaptureMode, sessionToken string) bool {
	switch mode {
	case core.CaptureAlways:
		return true
	case core.CaptureWithToken:
		return sessionToken != ""
	default:
		return false
	}
}

// splitPath strips the leading "/" and splits the remainder on the first
// subsequent "/" into bucket and object key. A path with no leading slash
// is invalid. An empty remainder after the leading slash is valid, with
// both bucket and object key empty.
func splitPath(path string) (bucket, objectKey string, ok bool) {
	if !strings.HasPrefix(path, "/") {
		return "", "", false
	}
	rest := path[1:]
	if rest == "" {
		return "", "", true
	}
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		return rest[:idx], rest[idx+1:], true
	}
	return rest, "", true
}

// captureHeaders extracts every header whose environment-map key begins
// with "HTTP_X_AMZ_", rewriting the key from "HTTP_X_AMZ_FOO_BAR" to
// "x-amz-foo-bar".
func captureHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if !strings.HasPrefix(k, amzHeaderPrefix) {
			continue
		}
		trimmed := strings.TrimPrefix(k, headerPrefix)
		key := strings.ToLower(strings.ReplaceAll(trimmed, "_", "-"))
		out[key] = v
	}
	return out
}
