package dataset

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
)

// MinIOSource fetches the dataset object from MinIO or any S3-compatible
// endpoint reachable through the minio client.
type MinIOSource struct {
	client *minio.Client
	bucket string
	object string
}

// NewMinIOSource creates a Source reading the given bucket/object.
func NewMinIOSource(client *minio.Client, bucket, object string) *MinIOSource {
	return &MinIOSource{
		client: client,
		bucket: bucket,
		object: object,
	}
}

// Open opens the object for streaming reads, decompressing by object suffix.
func (s *MinIOSource) Open(ctx context.Context) (io.ReadCloser, error) {
	// Stat first so a missing object fails here rather than on first Read.
	_, err := s.client.StatObject(ctx, s.bucket, s.object, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, ErrNotFound
		}
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return decompress(s.object, obj)
}
