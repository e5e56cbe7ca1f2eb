// Package authenticatorpb holds the wire types exchanged with the external
// Authenticator service over gRPC. It is written in the shape generated
// code from a .proto definition would take, hand-maintained here because
// this module vendors no protoc step; a real deployment would regenerate
// these from authenticator/v1/authenticator.proto.
package authenticatorpb

// HTTPMethod mirrors the http_method field of AuthenticateRESTRequest.
type HTTPMethod int32

const (
	HTTPMethodUnspecified HTTPMethod = 0
	HTTPMethodGet         HTTPMethod = 1
	HTTPMethodPut         HTTPMethod = 2
	HTTPMethodPost        HTTPMethod = 3
	HTTPMethodDelete      HTTPMethod = 4
	HTTPMethodHead        HTTPMethod = 5
)

// AuthenticateRESTRequest is the request message for
// AuthenticatorService.AuthenticateREST.
type AuthenticateRESTRequest struct {
	TransactionId       string
	StringToSign        []byte
	AuthorizationHeader string
	HttpMethod          HTTPMethod
	BucketName          string
	ObjectKey           string
	XAmzHeaders         map[string]string
	QueryParameters     map[string]string
}

// AuthenticateRESTResponse is the success-path response message. Failures
// are surfaced as a gRPC status carrying an S3ErrorDetails detail message,
// not as a field on this struct.
type AuthenticateRESTResponse struct {
	UserId string
}

// GetSigningKeyRequest is the request message for
// AuthenticatorService.GetSigningKey.
type GetSigningKeyRequest struct {
	TransactionId       string
	AuthorizationHeader string
}

// GetSigningKeyResponse carries the per-day HMAC signing key.
type GetSigningKeyResponse struct {
	SigningKey []byte
}

// S3ErrorDetailsType enumerates the Authenticator's error taxonomy, attached
// to a failed AuthenticateREST call as a structured gRPC status detail
// (the "richer error model", see https://grpc.io/docs/guides/error/).
type S3ErrorDetailsType int32

const (
	S3ErrorDetailsTypeUnspecified                 S3ErrorDetailsType = 0
	S3ErrorDetailsTypeAccessDenied                S3ErrorDetailsType = 1
	S3ErrorDetailsTypeAuthorizationHeaderMalformed S3ErrorDetailsType = 2
	S3ErrorDetailsTypeExpiredToken                S3ErrorDetailsType = 3
	S3ErrorDetailsTypeInternalError                S3ErrorDetailsType = 4
	S3ErrorDetailsTypeInvalidAccessKeyID           S3ErrorDetailsType = 5
	S3ErrorDetailsTypeInvalidRequest               S3ErrorDetailsType = 6
	S3ErrorDetailsTypeInvalidSecurity              S3ErrorDetailsType = 7
	S3ErrorDetailsTypeInvalidToken                 S3ErrorDetailsType = 8
	S3ErrorDetailsTypeInvalidURI                   S3ErrorDetailsType = 9
	S3ErrorDetailsTypeMethodNotAllowed             S3ErrorDetailsType = 10
	S3ErrorDetailsTypeMissingSecurityHeader        S3ErrorDetailsType = 11
	S3ErrorDetailsTypeRequestTimeTooSkewed         S3ErrorDetailsType = 12
	S3ErrorDetailsTypeSignatureDoesNotMatch        S3ErrorDetailsType = 13
	S3ErrorDetailsTypeTokenRefreshRequired         S3ErrorDetailsType = 14
)

// S3ErrorDetails is the structured detail payload the Authenticator attaches
// to a denying gRPC status.
type S3ErrorDetails struct {
	Type           S3ErrorDetailsType
	HttpStatusCode int32
	Message        string
}
