package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Source fetches the dataset object from Amazon S3.
type S3Source struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Source creates a Source reading the given bucket/key.
func NewS3Source(client *s3.Client, bucket, key string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		key:    key,
	}
}

// Open downloads the object into memory and returns a reader over it,
// decompressing by key suffix. Datasets are expected to fit in memory;
// the whole table is materialized during a fit cycle anyway.
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	downloader := manager.NewDownloader(s.client)
	buf := manager.NewWriteAtBuffer(nil)

	_, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return decompress(s.key, io.NopCloser(bytes.NewReader(buf.Bytes())))
}
