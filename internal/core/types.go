// Package core holds the data model shared by every Handoff component: the
// per-request snapshot, the authorization header shapes, and the verdict
// sum type. It exists as its own package so the leaf components (sin, acc,
// verifier, skf, errtranslate) and the top-level orchestrator can all depend
// on the same types without an import cycle back to the orchestrator.
package core

import "fmt"

// RequestSnapshot carries the inputs needed to authenticate one request.
// It is built once by the REST host and never mutated afterwards.
type RequestSnapshot struct {
	TransactionID string
	StringToSign  []byte
	AccessKeyID   string
	SessionToken  string
	Method        string
	Path          string

	// Headers mirrors the CGI-style environment map the original handler
	// inspects: keys like "HTTP_AUTHORIZATION", "HTTP_X_AMZ_DATE".
	Headers map[string]string

	// QueryParameters is the parsed query string; X-Amz-* parameter names
	// have already been lowercased by the REST host, per convention.
	QueryParameters map[string]string

	Bucket    string
	ObjectKey string
}

// Header looks up a request header by its CGI-style environment key.
func (s *RequestSnapshot) Header(envKey string) (string, bool) {
	v, ok := s.Headers[envKey]
	return v, ok
}

// AuthorizationHeader is the single normalized credential string SIN
// produces, in either the v2 or v4 shape.
type AuthorizationHeader string

// IsV2 reports whether the header uses the "AWS <key>:<sig>" shape.
func (h AuthorizationHeader) IsV2() bool {
	return len(h) >= 4 && h[:4] == "AWS "
}

// IsV4 reports whether the header uses the "AWS4-HMAC-SHA256 ..." shape.
func (h AuthorizationHeader) IsV4() bool {
	return len(h) >= 17 && h[:17] == "AWS4-HMAC-SHA256 "
}

func (h AuthorizationHeader) String() string { return string(h) }

// AuthorizationParameters is the optional enriched snapshot ACC captures.
// Accessing any field other than Valid on an invalid instance is a
// programmer error and panics, matching the way Verdict guards user_id.
type AuthorizationParameters struct {
	valid bool

	method          string
	bucket          string
	objectKey       string
	headers         map[string]string
	path            string
	queryParameters map[string]string
}

// InvalidAuthorizationParameters is the canonical "not captured" value.
var InvalidAuthorizationParameters = AuthorizationParameters{}

// NewAuthorizationParameters builds a valid captured snapshot.
func NewAuthorizationParameters(method, bucket, objectKey, path string, headers, queryParameters map[string]string) AuthorizationParameters {
	return AuthorizationParameters{
		valid:           true,
		method:          method,
		bucket:          bucket,
		objectKey:       objectKey,
		headers:         headers,
		path:            path,
		queryParameters: queryParameters,
	}
}

func (p AuthorizationParameters) Valid() bool { return p.valid }

func (p AuthorizationParameters) mustBeValid() {
	if !p.valid {
		panic("core: accessed a field of invalid AuthorizationParameters")
	}
}

func (p AuthorizationParameters) Method() string {
	p.mustBeValid()
	return p.method
}

func (p AuthorizationParameters) Bucket() string {
	p.mustBeValid()
	return p.bucket
}

func (p AuthorizationParameters) ObjectKey() string {
	p.mustBeValid()
	return p.objectKey
}

func (p AuthorizationParameters) Headers() map[string]string {
	p.mustBeValid()
	return p.headers
}

func (p AuthorizationParameters) Path() string {
	p.mustBeValid()
	return p.path
}

func (p AuthorizationParameters) QueryParameters() map[string]string {
	p.mustBeValid()
	return p.queryParameters
}

// String renders a diagnostic form that elides the object key, since keys
// can carry sensitive path segments that shouldn't land in a log line.
func (p AuthorizationParameters) String() string {
	if !p.valid {
		return "AuthorizationParameters{invalid}"
	}
	redactedKey := "<redacted>"
	if p.objectKey == "" {
		redactedKey = ""
	}
	return fmt.Sprintf("AuthorizationParameters{method=%s bucket=%s objectKey=%s}", p.method, p.bucket, redactedKey)
}

// ErrorCategory classifies why a Verdict denied a request.
type ErrorCategory int

const (
	NoError ErrorCategory = iota
	TransportError
	AuthError
	InternalError
)

func (c ErrorCategory) String() string {
	switch c {
	case NoError:
		return "NoError"
	case TransportError:
		return "TransportError"
	case AuthError:
		return "AuthError"
	case InternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// GatewayErrorCode is one of the S3 REST-layer error codes the Error
// Translator maps onto.
type GatewayErrorCode string

const (
	ErrAccess               GatewayErrorCode = "ACCESS"
	ErrInvalidRequest       GatewayErrorCode = "INVALID_REQUEST"
	ErrInternalError        GatewayErrorCode = "INTERNAL_ERROR"
	ErrInvalidAccessKey     GatewayErrorCode = "INVALID_ACCESS_KEY"
	ErrInvalid              GatewayErrorCode = "INVALID"
	ErrInvalidIdentityToken GatewayErrorCode = "INVALID_IDENTITY_TOKEN"
	ErrMethodNotAllowed     GatewayErrorCode = "METHOD_NOT_ALLOWED"
	ErrRequestTimeSkewed    GatewayErrorCode = "REQUEST_TIME_SKEWED"
	ErrSignatureNoMatch     GatewayErrorCode = "SIGNATURE_NO_MATCH"
	ErrNotFound             GatewayErrorCode = "NOT_FOUND"
)

// Verdict is the discriminated result of authenticating a request. user_id
// is only meaningful on an Ok verdict; asking for it on an Err verdict is a
// programmer error and panics rather than returning a zero value, the same
// way the original implementation treats reading the wrong variant of a
// sum type as a bug, not a runtime condition to recover from.
type Verdict struct {
	ok bool

	userID     string
	message    string
	signingKey []byte

	category ErrorCategory
	code     GatewayErrorCode
}

// VerdictOk builds a successful verdict. signingKey may be nil when the
// request wasn't a chunked upload.
func VerdictOk(userID, message string, signingKey []byte) Verdict {
	return Verdict{ok: true, userID: userID, message: message, signingKey: signingKey}
}

// VerdictErr builds a denying verdict.
func VerdictErr(category ErrorCategory, code GatewayErrorCode, message string) Verdict {
	return Verdict{ok: false, category: category, code: code, message: message}
}

func (v Verdict) IsOk() bool { return v.ok }

// UserID returns the authenticated user ID. Panics if the verdict is Err.
func (v Verdict) UserID() string {
	if !v.ok {
		panic("core: UserID accessed on an Err Verdict")
	}
	return v.userID
}

// SigningKey returns the attached per-day signing key, if any. Panics if
// the verdict is Err.
func (v Verdict) SigningKey() ([]byte, bool) {
	if !v.ok {
		panic("core: SigningKey accessed on an Err Verdict")
	}
	return v.signingKey, v.signingKey != nil
}

func (v Verdict) Message() string { return v.message }

// ErrorCategory returns the denial category. Panics if the verdict is Ok.
func (v Verdict) ErrorCategory() ErrorCategory {
	if v.ok {
		panic("core: ErrorCategory accessed on an Ok Verdict")
	}
	return v.category
}

// Code returns the gateway error code. Panics if the verdict is Ok.
func (v Verdict) Code() GatewayErrorCode {
	if v.ok {
		panic("core: Code accessed on an Ok Verdict")
	}
	return v.code
}

// WithSigningKey returns a copy of an Ok verdict carrying the given key,
// used by the Streaming Key Fetcher to attach a key after the base
// verification verdict already came back.
func (v Verdict) WithSigningKey(key []byte) Verdict {
	if !v.ok {
		panic("core: WithSigningKey called on an Err Verdict")
	}
	v.signingKey = key
	return v
}
