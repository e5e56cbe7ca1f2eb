package storequery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucketIndex struct {
	versionPages   [][]ObjectVersionEntry
	multipartPages [][]MultipartUploadEntry
	versionErr     error
	multipartErr   error
}

func (f *fakeBucketIndex) ListObjectVersions(ctx context.Context, bucket, prefix, marker string, limit int) ([]ObjectVersionEntry, string, bool, error) {
	if f.versionErr != nil {
		return nil, "", false, f.versionErr
	}
	page := pageIndexFromMarker(marker)
	if page >= len(f.versionPages) {
		return nil, "", false, nil
	}
	truncated := page+1 < len(f.versionPages)
	return f.versionPages[page], nextMarkerFor(page), truncated, nil
}

func (f *fakeBucketIndex) ListMultipartUploads(ctx context.Context, bucket, prefix, marker string, limit int) ([]MultipartUploadEntry, string, bool, error) {
	if f.multipartErr != nil {
		return nil, "", false, f.multipartErr
	}
	page := pageIndexFromMarker(marker)
	if page >= len(f.multipartPages) {
		return nil, "", false, nil
	}
	truncated := page+1 < len(f.multipartPages)
	return f.multipartPages[page], nextMarkerFor(page), truncated, nil
}

func pageIndexFromMarker(marker string) int {
	if marker == "" {
		return 0
	}
	n := 0
	for _, c := range marker {
		_ = c
		n++
	}
	return n
}

func nextMarkerFor(page int) string {
	out := ""
	for i := 0; i <= page; i++ {
		out += "m"
	}
	return out
}

func TestObjectStatusFoundCommittedNotDeleted(t *testing.T) {
	index := &fakeBucketIndex{
		versionPages: [][]ObjectVersionEntry{
			{{Key: "my-key", VersionID: "v123", IsCurrent: true, IsDeleteMarker: false, Size: 123}},
		},
	}
	resp, err := ObjectStatus(context.Background(), index, "bucket", "my-key")
	require.NoError(t, err)
	assert.False(t, resp.Result.Deleted)
	assert.False(t, resp.Result.MultipartUploadInProgress)
	assert.Equal(t, int64(123), resp.Result.Size)
	assert.Equal(t, "v123", resp.Result.VersionID)
}

func TestObjectStatusFoundDeleted(t *testing.T) {
	index := &fakeBucketIndex{
		versionPages: [][]ObjectVersionEntry{
			{{Key: "my-key", IsCurrent: true, IsDeleteMarker: true}},
		},
	}
	resp, err := ObjectStatus(context.Background(), index, "bucket", "my-key")
	require.NoError(t, err)
	assert.True(t, resp.Result.Deleted)
	assert.Equal(t, int64(0), resp.Result.Size)
}

func TestObjectStatusMultipartInProgress(t *testing.T) {
	index := &fakeBucketIndex{
		versionPages:   [][]ObjectVersionEntry{{}},
		multipartPages: [][]MultipartUploadEntry{{{Key: "my-key", UploadID: "u-1"}}},
	}
	resp, err := ObjectStatus(context.Background(), index, "bucket", "my-key")
	require.NoError(t, err)
	assert.True(t, resp.Result.MultipartUploadInProgress)
	assert.Equal(t, "u-1", resp.Result.MultipartUploadID)
}

func TestObjectStatusNotFoundAnywhere(t *testing.T) {
	index := &fakeBucketIndex{
		versionPages:   [][]ObjectVersionEntry{{}},
		multipartPages: [][]MultipartUploadEntry{{}},
	}
	_, err := ObjectStatus(context.Background(), index, "bucket", "my-key")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestObjectStatusPaginatesAcrossVersionPages(t *testing.T) {
	index := &fakeBucketIndex{
		versionPages: [][]ObjectVersionEntry{
			{{Key: "aaa", IsCurrent: true}},
			{{Key: "my-key", IsCurrent: true, Size: 55}},
		},
	}
	resp, err := ObjectStatus(context.Background(), index, "bucket", "my-key")
	require.NoError(t, err)
	assert.Equal(t, int64(55), resp.Result.Size)
}

func TestObjectStatusListFailurePropagates(t *testing.T) {
	index := &fakeBucketIndex{versionErr: errors.New("list failed")}
	_, err := ObjectStatus(context.Background(), index, "bucket", "my-key")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectNotFound)
}
