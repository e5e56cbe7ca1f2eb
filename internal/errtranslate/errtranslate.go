// Package errtranslate maps the Authenticator's typed error taxonomy onto
// the gateway's S3 error codes.
package errtranslate

import (
	"github.com/healthwaite/handoff/internal/authenticatorpb"
	"github.com/healthwaite/handoff/internal/core"
)

var byType = map[authenticatorpb.S3ErrorDetailsType]core.GatewayErrorCode{
	authenticatorpb.S3ErrorDetailsTypeAccessDenied:                 core.ErrAccess,
	authenticatorpb.S3ErrorDetailsTypeAuthorizationHeaderMalformed: core.ErrInvalidRequest,
	authenticatorpb.S3ErrorDetailsTypeExpiredToken:                 core.ErrAccess,
	authenticatorpb.S3ErrorDetailsTypeInternalError:                core.ErrInternalError,
	authenticatorpb.S3ErrorDetailsTypeInvalidAccessKeyID:           core.ErrInvalidAccessKey,
	authenticatorpb.S3ErrorDetailsTypeInvalidRequest:                core.ErrInvalid,
	authenticatorpb.S3ErrorDetailsTypeInvalidSecurity:               core.ErrInvalid,
	authenticatorpb.S3ErrorDetailsTypeInvalidToken:                  core.ErrInvalidIdentityToken,
	authenticatorpb.S3ErrorDetailsTypeInvalidURI:                    core.ErrInvalidRequest,
	authenticatorpb.S3ErrorDetailsTypeMethodNotAllowed:              core.ErrMethodNotAllowed,
	authenticatorpb.S3ErrorDetailsTypeMissingSecurityHeader:         core.ErrInvalidRequest,
	authenticatorpb.S3ErrorDetailsTypeRequestTimeTooSkewed:          core.ErrRequestTimeSkewed,
	authenticatorpb.S3ErrorDetailsTypeSignatureDoesNotMatch:         core.ErrSignatureNoMatch,
	authenticatorpb.S3ErrorDetailsTypeTokenRefreshRequired:          core.ErrInvalidRequest,
}

// Translate maps a structured S3ErrorDetails to a gateway error code. When
// the type isn't in the table (including Unspecified), it falls back to
// the Authenticator's declared HTTP status code.
func Translate(details *authenticatorpb.S3ErrorDetails) core.GatewayErrorCode {
	if details == nil {
		return core.ErrAccess
	}
	if code, ok := byType[details.Type]; ok {
		return code
	}
	return fromHTTPStatus(details.HttpStatusCode)
}

func fromHTTPStatus(status int32) core.GatewayErrorCode {
	switch status {
	case 400:
		return core.ErrInvalid
	case 404:
		return core.ErrNotFound
	default:
		return core.ErrAccess
	}
}
