// Package verifier defines the capability the Handoff Engine dispatches a
// verification request through, independent of which transport (gRPC or
// HTTP) actually carries it.
package verifier

import (
	"context"

	"github.com/healthwaite/handoff/internal/core"
)

// Request is the transport-agnostic shape of a verification call: the
// common fields both transports send, plus the optional AuthorizationParameters
// captured by ACC.
type Request struct {
	TransactionID       string
	AccessKeyID         string
	StringToSign        []byte
	AuthorizationHeader string
	Method              string
	Bucket              string
	ObjectKey           string
	Headers             map[string]string
	Path                string
	QueryParameters     map[string]string

	// Params is the AuthorizationParameters ACC captured, or the invalid
	// zero value if ACC skipped capture for this request.
	Params core.AuthorizationParameters
}

// Verifier is the capability the Handoff Engine depends on: verify a
// request and, for chunked uploads, fetch the per-day signing key. Both the
// gRPC and HTTP transports implement this behind the same interface so the
// engine never branches on transport.
type Verifier interface {
	Verify(ctx context.Context, req *Request) core.Verdict
	GetSigningKey(ctx context.Context, transactionID, authorizationHeader string) ([]byte, error)
}
