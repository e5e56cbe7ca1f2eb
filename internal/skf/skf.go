// Package skf implements the Streaming Key Fetcher: for chunked uploads,
// it requests a bounded-lifetime HMAC signing key over the same verifier
// transport and attaches it to an already-Ok verdict.
package skf

import (
	"context"

	"github.com/healthwaite/handoff/internal/core"
	"github.com/healthwaite/handoff/internal/metrics"
)

const contentSHA256Header = "HTTP_X_AMZ_CONTENT_SHA256"

// StreamingPayloadSentinel is the X-Amz-Content-SHA256 value that marks a
// chunked, streaming-signature upload.
const StreamingPayloadSentinel = "STREAMING-AWS4-HMAC-SHA256-PAYLOAD"

// SigningKeyFetcher is the narrow capability skf needs from a Verifier.
type SigningKeyFetcher interface {
	GetSigningKey(ctx context.Context, transactionID, authorizationHeader string) ([]byte, error)
}

// IsChunkedUpload reports whether req declares a streaming chunked payload.
func IsChunkedUpload(req *core.RequestSnapshot) bool {
	v, _ := req.Header(contentSHA256Header)
	return v == StreamingPayloadSentinel
}

// Attach fetches the per-day signing key and attaches it to verdict if the
// request is a chunked upload and chunkedUploadEnabled is true. If the
// request isn't chunked, verdict passes through unchanged. If chunked
// uploads are disabled, it fails closed. If verdict is already an Err, it
// passes through unchanged: SKF only ever acts after a successful base
// verification. A failed GetSigningKey call downgrades the whole
// authentication to access-denied.
func Attach(ctx context.Context, fetcher SigningKeyFetcher, req *core.RequestSnapshot, authorizationHeader core.AuthorizationHeader, chunkedUploadEnabled bool, verdict core.Verdict) core.Verdict {
	if !verdict.IsOk() {
		return verdict
	}
	if !IsChunkedUpload(req) {
		return verdict
	}
	if !chunkedUploadEnabled {
		return core.VerdictErr(core.AuthError, core.ErrAccess, "chunked upload is disabled")
	}

	key, err := fetcher.GetSigningKey(ctx, req.TransactionID, authorizationHeader.String())
	if err != nil {
		metrics.SigningKeyFetchesTotal.WithLabelValues("error").Inc()
		return core.VerdictErr(core.TransportError, core.ErrAccess, "signing key fetch failed: "+err.Error())
	}
	metrics.SigningKeyFetchesTotal.WithLabelValues("ok").Inc()
	return verdict.WithSigningKey(key)
}
