// Package request_id carries a per-request correlation ID on a
// context.Context so every log line for one Authenticate call can be
// grepped together. Engine.Authenticate stores the TransactionID of the
// core.RequestSnapshot it is handling here.
package request_id

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	RequestIdHttpHeader = "X-Request-ID"
	RequestIDKey        = "x-request-id"
)

// New mints a fresh correlation ID. Callers that receive a request with no
// inbound X-Request-ID header use this instead of leaving the context bare.
func New() string {
	return uuid.NewString()
}

func Set(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func Get(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func InjectToRequest(ctx context.Context, req *http.Request) {
	if req != nil {
		req.Header.Set(RequestIdHttpHeader, Get(ctx))
	}
}
