package dataset

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SourceFromURL builds a Source from a dataset location string.
//
// Supported forms:
//
//	/path/to/data.csv            local file (also .csv.gz/.zst/.lz4)
//	s3://bucket/key              Amazon S3 (ambient AWS credentials)
//	minio://host:port/bucket/key MinIO over plain HTTP (env credentials)
//	minios://host:port/bucket/key MinIO over TLS
func SourceFromURL(ctx context.Context, raw string) (Source, error) {
	if !strings.Contains(raw, "://") {
		return NewLocalSource(raw), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse dataset url %q: %w", raw, err)
	}

	switch u.Scheme {
	case "file":
		return NewLocalSource(u.Path), nil
	case "s3":
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("s3 url %q must be s3://bucket/key", raw)
		}
		return NewS3Source(s3.NewFromConfig(cfg), u.Host, key), nil
	case "minio", "minios":
		bucket, object, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if !ok || u.Host == "" || bucket == "" || object == "" {
			return nil, fmt.Errorf("minio url %q must be minio://host/bucket/key", raw)
		}
		client, err := minio.New(u.Host, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: u.Scheme == "minios",
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return NewMinIOSource(client, bucket, object), nil
	default:
		return nil, fmt.Errorf("unsupported dataset url scheme %q", u.Scheme)
	}
}
