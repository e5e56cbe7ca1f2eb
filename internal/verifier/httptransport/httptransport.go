// Package httptransport implements the Verifier capability over the
// legacy/fallback HTTP transport: a single JSON POST per verification
// request against a configured base URI.
package httptransport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/healthwaite/handoff/internal/core"
	"github.com/healthwaite/handoff/internal/metrics"
	"github.com/healthwaite/handoff/internal/verifier"
)

// eakParameters is the JSON shape of a captured AuthorizationParameters
// snapshot, named to match the wire field the Authenticator expects.
type eakParameters struct {
	Method        string `json:"method"`
	BucketName    string `json:"bucketName"`
	ObjectKeyName string `json:"objectKeyName"`
}

type verifyRequestBody struct {
	StringToSign  string         `json:"stringToSign"`
	AccessKeyID   string         `json:"accessKeyId"`
	Authorization string         `json:"authorization"`
	EAKParameters *eakParameters `json:"eakParameters,omitempty"`
}

type verifyResponseBody struct {
	Message string `json:"message"`
	UID     string `json:"uid"`
}

// Transport is a verifier.Verifier that POSTs JSON to <base>/verify. It has
// no long-lived channel, so the Reconfiguration Observer only needs to
// hand it flag changes, never a ChannelTarget.
type Transport struct {
	client  *http.Client
	baseURI string
}

// New builds a Transport against baseURI, normalizing a missing trailing
// slash. verifySSL governs whether TLS certificate verification is
// performed on the outbound call.
func New(baseURI string, verifySSL bool) *Transport {
	transport := &http.Transport{MaxIdleConnsPerHost: 64}
	if !verifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Transport{
		client:  &http.Client{Transport: transport},
		baseURI: strings.TrimSuffix(baseURI, "/"),
	}
}

func (t *Transport) verifyURL() string {
	return t.baseURI + "/verify"
}

// Verify POSTs the verification request and maps the HTTP status per the
// fixed table: 200 ok, 401 signature mismatch, 404 invalid access key,
// anything else (including a transport-level failure) access-denied.
func (t *Transport) Verify(ctx context.Context, req *verifier.Request) (verdict core.Verdict) {
	start := time.Now()
	defer func() {
		metrics.VerifyLatencySeconds.WithLabelValues("http").Observe(time.Since(start).Seconds())
		if verdict.IsOk() {
			metrics.VerifyRequestsTotal.WithLabelValues("http", "ok").Inc()
		} else {
			metrics.VerifyRequestsTotal.WithLabelValues("http", string(verdict.Code())).Inc()
		}
	}()

	body := verifyRequestBody{
		StringToSign:  base64.StdEncoding.EncodeToString(req.StringToSign),
		AccessKeyID:   req.AccessKeyID,
		Authorization: req.AuthorizationHeader,
	}
	if req.Params.Valid() {
		body.EAKParameters = &eakParameters{
			Method:        req.Params.Method(),
			BucketName:    req.Params.Bucket(),
			ObjectKeyName: req.Params.ObjectKey(),
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return core.VerdictErr(core.InternalError, core.ErrInternalError, err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.verifyURL(), bytes.NewReader(payload))
	if err != nil {
		return core.VerdictErr(core.TransportError, core.ErrAccess, err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return core.VerdictErr(core.TransportError, core.ErrAccess, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.VerdictErr(core.TransportError, core.ErrAccess, err.Error())
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var parsed verifyResponseBody
		if err := json.Unmarshal(raw, &parsed); err != nil || parsed.UID == "" {
			return core.VerdictErr(core.InternalError, core.ErrInternalError, "unparseable verify response")
		}
		return core.VerdictOk(parsed.UID, parsed.Message, nil)
	case http.StatusUnauthorized:
		return core.VerdictErr(core.AuthError, core.ErrSignatureNoMatch, string(raw))
	case http.StatusNotFound:
		return core.VerdictErr(core.AuthError, core.ErrInvalidAccessKey, string(raw))
	default:
		return core.VerdictErr(core.TransportError, core.ErrAccess, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, raw))
	}
}

// GetSigningKey has no HTTP-transport equivalent in the original protocol;
// chunked-upload signing keys are only ever fetched over gRPC.
func (t *Transport) GetSigningKey(ctx context.Context, transactionID, authorizationHeader string) ([]byte, error) {
	return nil, fmt.Errorf("httptransport: GetSigningKey is not supported over the HTTP transport")
}

