package skf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthwaite/handoff/internal/core"
)

type fakeFetcher struct {
	key []byte
	err error
}

func (f *fakeFetcher) GetSigningKey(ctx context.Context, transactionID, authorizationHeader string) ([]byte, error) {
	return f.key, f.err
}

func chunkedRequest() *core.RequestSnapshot {
	return &core.RequestSnapshot{
		TransactionID: "t1",
		Headers:       map[string]string{contentSHA256Header: StreamingPayloadSentinel},
	}
}

func TestAttachNonChunkedPassesThrough(t *testing.T) {
	req := &core.RequestSnapshot{}
	base := core.VerdictOk("testid", "", nil)
	got := Attach(context.Background(), &fakeFetcher{}, req, "AWS key:sig", true, base)
	key, has := got.SigningKey()
	assert.False(t, has)
	assert.Nil(t, key)
}

func TestAttachErrVerdictPassesThrough(t *testing.T) {
	req := chunkedRequest()
	base := core.VerdictErr(core.AuthError, core.ErrSignatureNoMatch, "nope")
	got := Attach(context.Background(), &fakeFetcher{}, req, "AWS key:sig", true, base)
	assert.False(t, got.IsOk())
	assert.Equal(t, core.ErrSignatureNoMatch, got.Code())
}

func TestAttachChunkedDisabledFailsClosed(t *testing.T) {
	req := chunkedRequest()
	base := core.VerdictOk("testid", "", nil)
	got := Attach(context.Background(), &fakeFetcher{}, req, "AWS key:sig", false, base)
	require.False(t, got.IsOk())
	assert.Equal(t, core.AuthError, got.ErrorCategory())
}

func TestAttachChunkedSuccess(t *testing.T) {
	req := chunkedRequest()
	base := core.VerdictOk("testid", "", nil)
	key := make([]byte, 32)
	got := Attach(context.Background(), &fakeFetcher{key: key}, req, "AWS key:sig", true, base)
	require.True(t, got.IsOk())
	signingKey, has := got.SigningKey()
	assert.True(t, has)
	assert.Len(t, signingKey, 32)
}

func TestAttachChunkedFetchFailureDowngradesToDenied(t *testing.T) {
	req := chunkedRequest()
	base := core.VerdictOk("testid", "", nil)
	got := Attach(context.Background(), &fakeFetcher{err: errors.New("dial timeout")}, req, "AWS key:sig", true, base)
	require.False(t, got.IsOk())
	assert.Equal(t, core.TransportError, got.ErrorCategory())
}

func TestIsChunkedUpload(t *testing.T) {
	assert.True(t, IsChunkedUpload(chunkedRequest()))
	assert.False(t, IsChunkedUpload(&core.RequestSnapshot{}))
}
