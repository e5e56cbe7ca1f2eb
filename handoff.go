// Package handoff is the delegated S3 authentication core: it normalizes
// the many equivalent shapes of an inbound AWS signature into a single
// Authorization credential, hands the canonicalized inputs to an external
// Authenticator over gRPC or HTTP, and returns a typed Verdict. It never
// sees or stores a secret key itself.
package handoff

import (
	"context"
	"time"

	"github.com/healthwaite/handoff/internal/acc"
	"github.com/healthwaite/handoff/internal/core"
	"github.com/healthwaite/handoff/internal/glog"
	"github.com/healthwaite/handoff/internal/handoffconfig"
	"github.com/healthwaite/handoff/internal/sin"
	"github.com/healthwaite/handoff/internal/skf"
	reqid "github.com/healthwaite/handoff/internal/util/request_id"
	"github.com/healthwaite/handoff/internal/verifier"
)

// Type aliases re-export the shared data model under the public package so
// callers never need to import the internal/core package directly.
type (
	RequestSnapshot         = core.RequestSnapshot
	AuthorizationHeader     = core.AuthorizationHeader
	AuthorizationParameters = core.AuthorizationParameters
	Verdict                 = core.Verdict
	ErrorCategory           = core.ErrorCategory
	GatewayErrorCode        = core.GatewayErrorCode
	RuntimeConfig           = core.RuntimeConfig
	AuthorizationCaptureMode = core.AuthorizationCaptureMode
)

const (
	NoError        = core.NoError
	TransportError = core.TransportError
	AuthError      = core.AuthError
	InternalError  = core.InternalError
)

const (
	CaptureNever     = core.CaptureNever
	CaptureWithToken = core.CaptureWithToken
	CaptureAlways    = core.CaptureAlways
)

var InvalidAuthorizationParameters = core.InvalidAuthorizationParameters

// Engine orchestrates SIN -> ACC -> VC -> SKF for each inbound request. It
// holds the runtime-mutable config behind a RWMutex-guarded store so a
// config change picked up mid-request never mutates the toggles a request
// already started reading.
type Engine struct {
	config   *core.RuntimeConfigStore
	verifier verifier.Verifier
}

// NewEngine constructs an Engine bound to a Verifier transport and an
// initial RuntimeConfig. A handoffconfig.Observer given the Engine as its
// FlagsTarget applies tracked toggle changes to it.
func NewEngine(v verifier.Verifier, initial core.RuntimeConfig) *Engine {
	return &Engine{
		config:   core.NewRuntimeConfigStore(initial),
		verifier: v,
	}
}

// SetChunkedUploadMode, SetSignatureV2, and SetAuthorizationMode together
// satisfy handoffconfig.FlagsTarget, letting a handoffconfig.Observer drive
// toggle changes straight into the Engine's RuntimeConfigStore under its
// own write lock.
func (e *Engine) SetChunkedUploadMode(enabled bool) {
	e.config.Mutate(func(c core.RuntimeConfig) core.RuntimeConfig {
		c.ChunkedUploadEnabled = enabled
		return c
	})
}

func (e *Engine) SetSignatureV2(enabled bool) {
	e.config.Mutate(func(c core.RuntimeConfig) core.RuntimeConfig {
		c.SignatureV2Enabled = enabled
		return c
	})
}

func (e *Engine) SetAuthorizationMode(mode handoffconfig.AuthParamMode) {
	e.config.Mutate(func(c core.RuntimeConfig) core.RuntimeConfig {
		c.AuthorizationCapture = captureModeOf(mode)
		return c
	})
}

func captureModeOf(mode handoffconfig.AuthParamMode) core.AuthorizationCaptureMode {
	switch mode {
	case handoffconfig.AuthParamAlways:
		return core.CaptureAlways
	case handoffconfig.AuthParamWithToken:
		return core.CaptureWithToken
	default:
		return core.CaptureNever
	}
}

// RuntimeConfigFromSnapshot builds the initial RuntimeConfig a host passes
// to NewEngine from a handoffconfig.Snapshot, so every boot-only and
// runtime-mutable toggle this engine reads is actually sourced from config
// rather than left at its zero value. GRPCMode reflects whichever transport
// the host has a URI configured for: a gRPC URI takes precedence, and the
// HTTP fields (VerifySSL, URI) remain on the Snapshot for the host to pass
// to httptransport.New directly, since RuntimeConfig itself carries no
// transport-construction parameters.
func RuntimeConfigFromSnapshot(s handoffconfig.Snapshot) RuntimeConfig {
	return RuntimeConfig{
		GRPCMode:             s.GRPCURI != "",
		PresignedExpiryCheck: s.EnablePresignedExpiryCheck,
		SignatureV2Enabled:   s.EnableSignatureV2,
		ChunkedUploadEnabled: s.EnableChunkedUpload,
		AuthorizationCapture: captureModeOf(s.AuthParamMode),
	}
}

// Authenticate is the single inbound entry point: it takes a
// RequestSnapshot already assembled by the REST host and returns a typed
// Verdict. The whole call runs under one shared read of the runtime
// config, so toggles are stable for the life of this request even if the
// Reconfiguration Observer applies a change concurrently.
func (e *Engine) Authenticate(ctx context.Context, req *RequestSnapshot) Verdict {
	if req.TransactionID == "" {
		withID := *req
		withID.TransactionID = reqid.New()
		req = &withID
	}
	ctx = reqid.Set(ctx, req.TransactionID)
	cfg := e.config.Snapshot()

	glog.V(1).InfoCtx(ctx, "handoff: authenticating access_key_id=", req.AccessKeyID)

	header, err := sin.Normalize(req, cfg.PresignedExpiryCheck, cfg.SignatureV2Enabled, time.Now())
	if err != nil {
		glog.WarningfCtx(ctx, "handoff: signature normalization failed: %v", err)
		return core.VerdictErr(core.AuthError, core.ErrAccess, err.Error())
	}

	params := acc.Capture(req, cfg.AuthorizationCapture)

	if skf.IsChunkedUpload(req) && !cfg.ChunkedUploadEnabled {
		return core.VerdictErr(core.AuthError, core.ErrAccess, "chunked upload is disabled")
	}

	vreq := &verifier.Request{
		TransactionID:       req.TransactionID,
		AccessKeyID:         req.AccessKeyID,
		StringToSign:        req.StringToSign,
		AuthorizationHeader: header.String(),
		Path:                req.Path,
		QueryParameters:     req.QueryParameters,
		Params:              params,
	}
	if params.Valid() {
		vreq.Method = params.Method()
		vreq.Bucket = params.Bucket()
		vreq.ObjectKey = params.ObjectKey()
		vreq.Headers = params.Headers()
	}

	verdict := e.verifier.Verify(ctx, vreq)
	if !verdict.IsOk() {
		glog.WarningfCtx(ctx, "handoff: verification denied: category=%v code=%v", verdict.ErrorCategory(), verdict.Code())
		return verdict
	}

	return skf.Attach(ctx, e.verifier, req, header, cfg.ChunkedUploadEnabled, verdict)
}
