package sin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthwaite/handoff/internal/core"
)

func snapshot(headers, query map[string]string) *core.RequestSnapshot {
	return &core.RequestSnapshot{Headers: headers, QueryParameters: query}
}

func TestNormalizeInboundHeader(t *testing.T) {
	req := snapshot(map[string]string{"HTTP_AUTHORIZATION": "AWS 0555b35654ad1656d804:ZbQ5L3Rlc3Qv"}, nil)
	header, err := Normalize(req, true, true, time.Now())
	require.NoError(t, err)
	assert.Equal(t, core.AuthorizationHeader("AWS 0555b35654ad1656d804:ZbQ5L3Rlc3Qv"), header)
	assert.True(t, header.IsV2())
}

func TestNormalizeV2Disabled(t *testing.T) {
	req := snapshot(map[string]string{"HTTP_AUTHORIZATION": "AWS 0555b35654ad1656d804:ZbQ5L3Rlc3Qv"}, nil)
	_, err := Normalize(req, true, false, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "V2 signatures disabled")
}

func TestNormalizeV2PresignedSynthesis(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	req := snapshot(nil, map[string]string{
		"AWSAccessKeyId": "0555b35654ad1656d804",
		"Signature":      "ZbQ5L3Rlc3Qv",
		"Expires":        "1700000500",
	})
	header, err := Normalize(req, true, true, now)
	require.NoError(t, err)
	assert.Equal(t, core.AuthorizationHeader("AWS 0555b35654ad1656d804:ZbQ5L3Rlc3Qv"), header)
}

func TestNormalizeV2PresignedExpired(t *testing.T) {
	now := time.Unix(1_700_000_600, 0).UTC()
	req := snapshot(nil, map[string]string{
		"AWSAccessKeyId": "0555b35654ad1656d804",
		"Signature":      "ZbQ5L3Rlc3Qv",
		"Expires":        "1700000500",
	})
	_, err := Normalize(req, true, true, now)
	require.Error(t, err)
}

func TestNormalizeV4PresignedSynthesis(t *testing.T) {
	now := time.Date(2023, 10, 12, 0, 0, 0, 0, time.UTC)
	req := snapshot(nil, map[string]string{
		"x-amz-credential":    "0555b35654ad1656d804/20231012/eu-west-2/s3/aws4_request",
		"x-amz-signedheaders": "host",
		"x-amz-signature":     "d63fbb17",
		"x-amz-date":          "20231012T000000Z",
		"x-amz-expires":       "600",
	})
	header, err := Normalize(req, true, true, now)
	require.NoError(t, err)
	assert.Equal(t, core.AuthorizationHeader("AWS4-HMAC-SHA256 Credential=0555b35654ad1656d804/20231012/eu-west-2/s3/aws4_request, SignedHeaders=host, Signature=d63fbb17"), header)
	assert.True(t, header.IsV4())
}

func TestNormalizeV4PresignedExpired(t *testing.T) {
	now := time.Date(2023, 10, 12, 0, 20, 0, 0, time.UTC)
	req := snapshot(nil, map[string]string{
		"x-amz-credential":    "0555b35654ad1656d804/20231012/eu-west-2/s3/aws4_request",
		"x-amz-signedheaders": "host",
		"x-amz-signature":     "d63fbb17",
		"x-amz-date":          "20231012T000000Z",
		"x-amz-expires":       "600",
	})
	_, err := Normalize(req, true, true, now)
	require.Error(t, err)
}

func TestNormalizeMissingCredential(t *testing.T) {
	cases := []struct {
		name  string
		query map[string]string
	}{
		{"empty request", nil},
		{"v2 missing signature", map[string]string{"AWSAccessKeyId": "key"}},
		{"v4 missing signed headers", map[string]string{"x-amz-credential": "key/date/region/s3/aws4_request", "x-amz-signature": "sig"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := snapshot(nil, tc.query)
			_, err := Normalize(req, false, true, time.Now())
			require.Error(t, err)
			var missing *ErrMissingCredential
			assert.ErrorAs(t, err, &missing)
		})
	}
}

func TestNormalizeExpiryCheckDisabledSkipsValidation(t *testing.T) {
	req := snapshot(nil, map[string]string{
		"AWSAccessKeyId": "key",
		"Signature":      "sig",
	})
	_, err := Normalize(req, false, true, time.Now())
	require.NoError(t, err)
}
