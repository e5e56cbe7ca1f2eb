// Package grpctransport implements the Verifier capability over the
// primary RPC transport: a single shared channel to the Authenticator,
// rebuilt atomically whenever the Reconfiguration Observer picks up a new
// URI. New backoff parameters are staged and take effect on the next
// rebuild.
package grpctransport

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/healthwaite/handoff/internal/authenticatorpb"
	"github.com/healthwaite/handoff/internal/core"
	"github.com/healthwaite/handoff/internal/errtranslate"
	"github.com/healthwaite/handoff/internal/glog"
	"github.com/healthwaite/handoff/internal/metrics"
	"github.com/healthwaite/handoff/internal/verifier"
)

const maxMessageSize = 1 << 20 // 1 MB; Authenticator messages are small.

// Transport is a verifier.Verifier backed by a gRPC channel to the
// Authenticator. The channel is replaced wholesale on a URI change under
// an exclusive lock, and the previous *grpc.ClientConn is closed right
// after the swap; a call still in flight on the old connection is not
// kept alive and fails.
type Transport struct {
	mu   sync.RWMutex
	conn *grpc.ClientConn
	stub authenticatorpb.AuthenticatorServiceClient
	uri  string

	argsMu               sync.Mutex
	initialBackoffMillis int
	minBackoffMillis     int
	maxBackoffMillis     int

	dialOpts []grpc.DialOption
}

// New constructs a Transport with no channel yet; call SetChannelURI to
// dial. Extra dial options (e.g. transport credentials) can be supplied by
// the caller for use on every (re)dial.
func New(dialOpts ...grpc.DialOption) *Transport {
	return &Transport{
		initialBackoffMillis: 1000,
		minBackoffMillis:     1000,
		maxBackoffMillis:     30000,
		dialOpts:             dialOpts,
	}
}

// SetChannelArgs records fresh backoff parameters for the next dial; it
// does not by itself rebuild the channel, mirroring the original
// config-observer behavior where argument changes are staged and only
// take effect on the next URI-triggered rebuild.
func (t *Transport) SetChannelArgs(initialMs, minMs, maxMs int) {
	t.argsMu.Lock()
	defer t.argsMu.Unlock()
	t.initialBackoffMillis = initialMs
	t.minBackoffMillis = minMs
	t.maxBackoffMillis = maxMs
}

// SetChannelURI dials a fresh channel for uri and swaps it in under the
// exclusive lock. On dial failure the previous channel, if any, is left in
// place and an error is returned for the caller to log.
func (t *Transport) SetChannelURI(ctx context.Context, uri string) error {
	if uri == "" {
		return nil
	}

	t.argsMu.Lock()
	initialMs, minMs, maxMs := t.initialBackoffMillis, t.minBackoffMillis, t.maxBackoffMillis
	t.argsMu.Unlock()

	opts := append([]grpc.DialOption{}, t.dialOpts...)
	opts = append(opts,
		grpc.WithDefaultCallOptions(
			grpc.MaxCallSendMsgSize(maxMessageSize),
			grpc.MaxCallRecvMsgSize(maxMessageSize),
		),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff: backoff.Config{
				BaseDelay:  time.Duration(initialMs) * time.Millisecond,
				Multiplier: backoff.DefaultConfig.Multiplier,
				Jitter:     backoff.DefaultConfig.Jitter,
				MaxDelay:   time.Duration(maxMs) * time.Millisecond,
			},
			MinConnectTimeout: time.Duration(minMs) * time.Millisecond,
		}),
	)

	conn, err := grpc.DialContext(ctx, uri, opts...)
	if err != nil {
		metrics.ChannelRebuildsTotal.WithLabelValues("error").Inc()
		return err
	}

	old := t.swap(uri, conn)
	if old != nil {
		_ = old.Close()
	}
	metrics.ChannelRebuildsTotal.WithLabelValues("ok").Inc()
	return nil
}

func (t *Transport) swap(uri string, conn *grpc.ClientConn) *grpc.ClientConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	old := t.conn
	t.conn = conn
	t.stub = authenticatorpb.NewAuthenticatorServiceClient(conn)
	t.uri = uri
	return old
}

func (t *Transport) client() (authenticatorpb.AuthenticatorServiceClient, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stub, t.stub != nil
}

// Verify dispatches a request over the shared channel. A TransportError
// (dial/connectivity failure, or a status with no attached S3ErrorDetails)
// is mapped to access-denied; a status carrying S3ErrorDetails is mapped
// through the Error Translator.
func (t *Transport) Verify(ctx context.Context, req *verifier.Request) core.Verdict {
	stub, ok := t.client()
	if !ok {
		glog.ErrorfCtx(ctx, "handoff: grpc verify with no channel configured")
		metrics.VerifyRequestsTotal.WithLabelValues("grpc", string(core.ErrAccess)).Inc()
		return core.VerdictErr(core.TransportError, core.ErrAccess, "no Authenticator channel configured")
	}

	grpcReq := &authenticatorpb.AuthenticateRESTRequest{
		TransactionId:       req.TransactionID,
		StringToSign:        req.StringToSign,
		AuthorizationHeader: req.AuthorizationHeader,
		HttpMethod:          httpMethodOf(req.Method),
		BucketName:          req.Bucket,
		ObjectKey:           req.ObjectKey,
		XAmzHeaders:         req.Headers,
		QueryParameters:     req.QueryParameters,
	}

	start := time.Now()
	resp, err := stub.AuthenticateREST(ctx, grpcReq)
	metrics.VerifyLatencySeconds.WithLabelValues("grpc").Observe(time.Since(start).Seconds())

	if err != nil {
		verdict := verdictFromError(err)
		metrics.VerifyRequestsTotal.WithLabelValues("grpc", string(verdict.Code())).Inc()
		return verdict
	}
	metrics.VerifyRequestsTotal.WithLabelValues("grpc", "ok").Inc()
	return core.VerdictOk(resp.UserId, "", nil)
}

// GetSigningKey issues the companion RPC used by the Streaming Key Fetcher.
func (t *Transport) GetSigningKey(ctx context.Context, transactionID, authorizationHeader string) ([]byte, error) {
	stub, ok := t.client()
	if !ok {
		return nil, status.Error(codes.Unavailable, "no Authenticator channel configured")
	}
	resp, err := stub.GetSigningKey(ctx, &authenticatorpb.GetSigningKeyRequest{
		TransactionId:       transactionID,
		AuthorizationHeader: authorizationHeader,
	})
	if err != nil {
		return nil, err
	}
	return resp.SigningKey, nil
}

func verdictFromError(err error) core.Verdict {
	st, ok := status.FromError(err)
	if !ok {
		return core.VerdictErr(core.TransportError, core.ErrAccess, err.Error())
	}
	if d := extractS3ErrorDetails(st.Details()); d != nil {
		return core.VerdictErr(core.AuthError, errtranslate.Translate(d), d.Message)
	}
	return core.VerdictErr(core.TransportError, core.ErrAccess, st.Message())
}

// extractS3ErrorDetails picks the first S3ErrorDetails out of a status's
// detail list, if present.
func extractS3ErrorDetails(details []interface{}) *authenticatorpb.S3ErrorDetails {
	for _, detail := range details {
		if d, ok := detail.(*authenticatorpb.S3ErrorDetails); ok {
			return d
		}
	}
	return nil
}

func httpMethodOf(method string) authenticatorpb.HTTPMethod {
	switch method {
	case "GET":
		return authenticatorpb.HTTPMethodGet
	case "PUT":
		return authenticatorpb.HTTPMethodPut
	case "POST":
		return authenticatorpb.HTTPMethodPost
	case "DELETE":
		return authenticatorpb.HTTPMethodDelete
	case "HEAD":
		return authenticatorpb.HTTPMethodHead
	default:
		return authenticatorpb.HTTPMethodUnspecified
	}
}
