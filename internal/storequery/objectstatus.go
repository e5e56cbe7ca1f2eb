package storequery

import (
	"context"
	"errors"
)

const objectStatusPageSize = 100

// ObjectVersionEntry is one entry of a bucket's version-ordered listing.
type ObjectVersionEntry struct {
	Key            string
	VersionID      string
	IsCurrent      bool
	IsDeleteMarker bool
	Size           int64
}

// MultipartUploadEntry is one entry of a bucket's in-progress multipart
// upload listing.
type MultipartUploadEntry struct {
	Key      string
	UploadID string
}

// BucketIndex is the narrow view onto the underlying object store that
// objectstatus needs: paginated, marker-driven listings of committed
// object versions and in-progress multipart uploads.
type BucketIndex interface {
	ListObjectVersions(ctx context.Context, bucket, prefix, marker string, limit int) (entries []ObjectVersionEntry, nextMarker string, truncated bool, err error)
	ListMultipartUploads(ctx context.Context, bucket, prefix, marker string, limit int) (entries []MultipartUploadEntry, nextMarker string, truncated bool, err error)
}

// ErrObjectNotFound is returned when neither pass finds the object; the
// REST layer should render this as ENOENT / 404.
var ErrObjectNotFound = errors.New("storequery: object not found")

// ObjectStatusObject is the Object sub-document of an objectstatus
// response.
type ObjectStatusObject struct {
	Bucket                     string `json:"bucket"`
	Key                        string `json:"key"`
	Deleted                    bool   `json:"deleted"`
	MultipartUploadInProgress  bool   `json:"multipart_upload_in_progress"`
	VersionID                  string `json:"version_id,omitempty"`
	Size                       int64  `json:"size,omitempty"`
	MultipartUploadID          string `json:"multipart_upload_id,omitempty"`
}

// ObjectStatusResponse is the full JSON document the REST layer writes
// back, rooted at StoreQueryObjectStatusResult.
type ObjectStatusResponse struct {
	Result ObjectStatusObject `json:"StoreQueryObjectStatusResult"`
}

// ObjectStatus runs the two-pass objectstatus algorithm: a bucket listing
// pass for committed versions, followed — only if that pass found nothing
// — by a multipart-upload listing pass.
func ObjectStatus(ctx context.Context, index BucketIndex, bucket, key string) (ObjectStatusResponse, error) {
	found, obj, err := findCommittedVersion(ctx, index, bucket, key)
	if err != nil {
		return ObjectStatusResponse{}, err
	}
	if found {
		return ObjectStatusResponse{Result: obj}, nil
	}

	found, obj, err = findMultipartUpload(ctx, index, bucket, key)
	if err != nil {
		return ObjectStatusResponse{}, err
	}
	if found {
		return ObjectStatusResponse{Result: obj}, nil
	}

	return ObjectStatusResponse{}, ErrObjectNotFound
}

func findCommittedVersion(ctx context.Context, index BucketIndex, bucket, key string) (bool, ObjectStatusObject, error) {
	marker := ""
	for {
		entries, nextMarker, truncated, err := index.ListObjectVersions(ctx, bucket, key, marker, objectStatusPageSize)
		if err != nil {
			return false, ObjectStatusObject{}, err
		}

		for _, entry := range entries {
			if entry.Key != key || !entry.IsCurrent {
				continue
			}
			obj := ObjectStatusObject{
				Bucket:                    bucket,
				Key:                       key,
				Deleted:                   entry.IsDeleteMarker,
				MultipartUploadInProgress: false,
			}
			if !entry.IsDeleteMarker {
				obj.VersionID = entry.VersionID
				obj.Size = entry.Size
			}
			return true, obj, nil
		}

		if !truncated {
			return false, ObjectStatusObject{}, nil
		}
		marker = nextMarker
	}
}

func findMultipartUpload(ctx context.Context, index BucketIndex, bucket, key string) (bool, ObjectStatusObject, error) {
	marker := ""
	for {
		entries, nextMarker, truncated, err := index.ListMultipartUploads(ctx, bucket, key, marker, objectStatusPageSize)
		if err != nil {
			return false, ObjectStatusObject{}, err
		}

		for _, entry := range entries {
			if entry.Key != key {
				continue
			}
			return true, ObjectStatusObject{
				Bucket:                    bucket,
				Key:                       key,
				Deleted:                   false,
				MultipartUploadInProgress: true,
				MultipartUploadID:         entry.UploadID,
			}, nil
		}

		if !truncated {
			return false, ObjectStatusObject{}, nil
		}
		marker = nextMarker
	}
}
