package errtranslate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healthwaite/handoff/internal/authenticatorpb"
	"github.com/healthwaite/handoff/internal/core"
)

func TestTranslateKnownTypes(t *testing.T) {
	tests := []struct {
		name string
		typ  authenticatorpb.S3ErrorDetailsType
		want core.GatewayErrorCode
	}{
		{"access denied", authenticatorpb.S3ErrorDetailsTypeAccessDenied, core.ErrAccess},
		{"header malformed", authenticatorpb.S3ErrorDetailsTypeAuthorizationHeaderMalformed, core.ErrInvalidRequest},
		{"expired token", authenticatorpb.S3ErrorDetailsTypeExpiredToken, core.ErrAccess},
		{"internal error", authenticatorpb.S3ErrorDetailsTypeInternalError, core.ErrInternalError},
		{"invalid access key", authenticatorpb.S3ErrorDetailsTypeInvalidAccessKeyID, core.ErrInvalidAccessKey},
		{"invalid request", authenticatorpb.S3ErrorDetailsTypeInvalidRequest, core.ErrInvalid},
		{"invalid security", authenticatorpb.S3ErrorDetailsTypeInvalidSecurity, core.ErrInvalid},
		{"invalid token", authenticatorpb.S3ErrorDetailsTypeInvalidToken, core.ErrInvalidIdentityToken},
		{"invalid uri", authenticatorpb.S3ErrorDetailsTypeInvalidURI, core.ErrInvalidRequest},
		{"method not allowed", authenticatorpb.S3ErrorDetailsTypeMethodNotAllowed, core.ErrMethodNotAllowed},
		{"missing security header", authenticatorpb.S3ErrorDetailsTypeMissingSecurityHeader, core.ErrInvalidRequest},
		{"request time skewed", authenticatorpb.S3ErrorDetailsTypeRequestTimeTooSkewed, core.ErrRequestTimeSkewed},
		{"signature mismatch", authenticatorpb.S3ErrorDetailsTypeSignatureDoesNotMatch, core.ErrSignatureNoMatch},
		{"token refresh required", authenticatorpb.S3ErrorDetailsTypeTokenRefreshRequired, core.ErrInvalidRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Translate(&authenticatorpb.S3ErrorDetails{Type: tc.typ, HttpStatusCode: 999})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTranslateUnknownTypeFallsBackToHTTPStatus(t *testing.T) {
	tests := []struct {
		status int32
		want   core.GatewayErrorCode
	}{
		{400, core.ErrInvalid},
		{404, core.ErrNotFound},
		{403, core.ErrAccess},
		{500, core.ErrAccess},
	}
	for _, tc := range tests {
		got := Translate(&authenticatorpb.S3ErrorDetails{Type: authenticatorpb.S3ErrorDetailsTypeUnspecified, HttpStatusCode: tc.status})
		assert.Equal(t, tc.want, got)
	}
}

func TestTranslateNilDetails(t *testing.T) {
	assert.Equal(t, core.ErrAccess, Translate(nil))
}
