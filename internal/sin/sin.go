// Package sin implements the Signature Input Normalizer: it produces a
// single canonical Authorization credential string for a request, reading
// it straight off the wire when present and synthesizing it from presigned
// URL query parameters otherwise.
package sin

import (
	"fmt"
	"strconv"
	"time"

	"github.com/healthwaite/handoff/internal/core"
)

// ErrMissingCredential is returned when no Authorization header could be
// found or synthesized, or when a presigned URL has expired.
type ErrMissingCredential struct {
	Reason string
}

func (e *ErrMissingCredential) Error() string {
	return fmt.Sprintf("sin: missing credential: %s", e.Reason)
}

const (
	queryAWSAccessKeyID   = "AWSAccessKeyId"
	queryAWSSignature     = "Signature"
	queryAWSExpires       = "Expires"
	queryV4Credential     = "x-amz-credential"
	queryV4SignedHeaders  = "x-amz-signedheaders"
	queryV4Signature      = "x-amz-signature"
	queryV4Date           = "x-amz-date"
	queryV4Expires        = "x-amz-expires"
	headerAuthorization   = "HTTP_AUTHORIZATION"
)

// v4DateLayout is the AWS x-amz-date format: YYYYMMDDTHHMMSSZ.
const v4DateLayout = "20060102T150405Z"

// Normalize produces the canonical AuthorizationHeader for req, or fails
// closed with an ErrMissingCredential.
func Normalize(req *core.RequestSnapshot, presignedExpiryCheck bool, signatureV2Enabled bool, now time.Time) (core.AuthorizationHeader, error) {
	header, synthesized, err := resolve(req)
	if err != nil {
		return "", err
	}

	if synthesized && presignedExpiryCheck {
		if err := checkExpiry(req, now); err != nil {
			return "", err
		}
	}

	if header.IsV2() && !signatureV2Enabled {
		return "", &ErrMissingCredential{Reason: "V2 signatures disabled"}
	}

	return header, nil
}

func resolve(req *core.RequestSnapshot) (core.AuthorizationHeader, bool, error) {
	if raw, ok := req.Header(headerAuthorization); ok && raw != "" {
		return core.AuthorizationHeader(raw), false, nil
	}

	q := req.QueryParameters

	if accessKeyID, ok := q[queryAWSAccessKeyID]; ok {
		signature, ok := q[queryAWSSignature]
		if !ok || accessKeyID == "" || signature == "" {
			return "", false, &ErrMissingCredential{Reason: "incomplete v2 presigned parameters"}
		}
		return core.AuthorizationHeader(fmt.Sprintf("AWS %s:%s", accessKeyID, signature)), true, nil
	}

	if credential, ok := q[queryV4Credential]; ok {
		signedHeaders, hasSH := q[queryV4SignedHeaders]
		signature, hasSig := q[queryV4Signature]
		if !hasSH || !hasSig || credential == "" || signedHeaders == "" || signature == "" {
			return "", false, &ErrMissingCredential{Reason: "incomplete v4 presigned parameters"}
		}
		header := fmt.Sprintf("AWS4-HMAC-SHA256 Credential=%s, SignedHeaders=%s, Signature=%s", credential, signedHeaders, signature)
		return core.AuthorizationHeader(header), true, nil
	}

	return "", false, &ErrMissingCredential{Reason: "no Authorization header or presigned parameters"}
}

func checkExpiry(req *core.RequestSnapshot, now time.Time) error {
	q := req.QueryParameters

	if _, ok := q[queryAWSAccessKeyID]; ok {
		raw, ok := q[queryAWSExpires]
		if !ok {
			return &ErrMissingCredential{Reason: "expired: missing Expires"}
		}
		expires, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return &ErrMissingCredential{Reason: "expired: unparseable Expires"}
		}
		if expires < now.Unix() {
			return &ErrMissingCredential{Reason: "expired presigned v2 URL"}
		}
		return nil
	}

	dateRaw, hasDate := q[queryV4Date]
	expiresRaw, hasExpires := q[queryV4Expires]
	if !hasDate || !hasExpires {
		return &ErrMissingCredential{Reason: "expired: missing x-amz-date or x-amz-expires"}
	}
	date, err := time.Parse(v4DateLayout, dateRaw)
	if err != nil {
		return &ErrMissingCredential{Reason: "expired: unparseable x-amz-date"}
	}
	expiresSeconds, err := strconv.ParseInt(expiresRaw, 10, 64)
	if err != nil || expiresSeconds < 0 {
		return &ErrMissingCredential{Reason: "expired: unparseable x-amz-expires"}
	}
	if date.Add(time.Duration(expiresSeconds) * time.Second).Before(now) {
		return &ErrMissingCredential{Reason: "expired presigned v4 URL"}
	}
	return nil
}
