package acc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthwaite/handoff/internal/core"
)

func TestCapturePolicy(t *testing.T) {
	req := &core.RequestSnapshot{Method: "GET", Path: "/bucket/key", SessionToken: ""}

	assert.False(t, Capture(req, core.CaptureNever).Valid())
	assert.False(t, Capture(req, core.CaptureWithToken).Valid())
	assert.True(t, Capture(req, core.CaptureAlways).Valid())

	req.SessionToken = "sts-token"
	assert.True(t, Capture(req, core.CaptureWithToken).Valid())
}

func TestCaptureSplitsBucketAndKey(t *testing.T) {
	req := &core.RequestSnapshot{Method: "PUT", Path: "/my-bucket/dir/object.txt"}
	params := Capture(req, core.CaptureAlways)
	require.True(t, params.Valid())
	assert.Equal(t, "my-bucket", params.Bucket())
	assert.Equal(t, "dir/object.txt", params.ObjectKey())
}

func TestCaptureBucketOnlyPath(t *testing.T) {
	req := &core.RequestSnapshot{Method: "GET", Path: "/my-bucket"}
	params := Capture(req, core.CaptureAlways)
	require.True(t, params.Valid())
	assert.Equal(t, "my-bucket", params.Bucket())
	assert.Equal(t, "", params.ObjectKey())
}

func TestCaptureRootPathIsValidButEmpty(t *testing.T) {
	req := &core.RequestSnapshot{Method: "GET", Path: "/"}
	params := Capture(req, core.CaptureAlways)
	require.True(t, params.Valid())
	assert.Equal(t, "", params.Bucket())
	assert.Equal(t, "", params.ObjectKey())
}

func TestCaptureMissingMethodIsInvalid(t *testing.T) {
	req := &core.RequestSnapshot{Method: "", Path: "/bucket/key"}
	assert.False(t, Capture(req, core.CaptureAlways).Valid())
}

func TestCapturePathWithoutLeadingSlashIsInvalid(t *testing.T) {
	req := &core.RequestSnapshot{Method: "GET", Path: "bucket/key"}
	assert.False(t, Capture(req, core.CaptureAlways).Valid())
}

func TestCaptureHeaders(t *testing.T) {
	req := &core.RequestSnapshot{
		Method: "GET",
		Path:   "/bucket/key",
		Headers: map[string]string{
			"HTTP_X_AMZ_DATE":          "20231012T000000Z",
			"HTTP_X_AMZ_CONTENT_SHA256": "abc",
			"HTTP_AUTHORIZATION":       "AWS key:sig",
			"HTTP_HOST":                "s3.example.com",
		},
	}
	params := Capture(req, core.CaptureAlways)
	require.True(t, params.Valid())
	headers := params.Headers()
	assert.Equal(t, "20231012T000000Z", headers["x-amz-date"])
	assert.Equal(t, "abc", headers["x-amz-content-sha256"])
	_, hasAuth := headers["authorization"]
	assert.False(t, hasAuth)
	_, hasHost := headers["host"]
	assert.False(t, hasHost)
}

func TestInvalidAuthorizationParametersPanicsOnAccess(t *testing.T) {
	params := core.InvalidAuthorizationParameters
	assert.Panics(t, func() { params.Bucket() })
}

func TestAuthorizationParametersStringRedactsObjectKey(t *testing.T) {
	req := &core.RequestSnapshot{Method: "GET", Path: "/bucket/secret-object"}
	params := Capture(req, core.CaptureAlways)
	require.True(t, params.Valid())
	assert.NotContains(t, params.String(), "secret-object")
}
