package dataset

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrNotFound is returned when a source dataset does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Source is an abstraction for fetching the raw dataset bytes.
//
// Open returns a fresh reader over the full dataset; a fit cycle opens the
// source once, consumes it, and closes it.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// LocalSource reads the dataset from the local file system.
type LocalSource struct {
	path string
}

// NewLocalSource creates a Source rooted at the given file path.
func NewLocalSource(path string) *LocalSource {
	return &LocalSource{path: path}
}

// Open opens the file for reading, decompressing by filename suffix.
func (s *LocalSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	return decompress(s.path, f)
}

// decompress wraps rc with a decompressor chosen by the name suffix.
// Supported: .zst (zstd), .gz (gzip), .lz4 (lz4 frame). Anything else
// passes through untouched.
func decompress(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(rc)
		if err != nil {
			_ = rc.Close()
			return nil, err
		}
		return &zstdReadCloser{zr: zr, underlying: rc}, nil
	case strings.HasSuffix(name, ".gz"):
		gr, err := gzip.NewReader(rc)
		if err != nil {
			_ = rc.Close()
			return nil, err
		}
		return &chainedReadCloser{Reader: gr, closers: []io.Closer{gr, rc}}, nil
	case strings.HasSuffix(name, ".lz4"):
		return &chainedReadCloser{Reader: lz4.NewReader(rc), closers: []io.Closer{rc}}, nil
	default:
		return rc, nil
	}
}

type zstdReadCloser struct {
	zr         *zstd.Decoder
	underlying io.ReadCloser
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.zr.Read(p)
}

func (z *zstdReadCloser) Close() error {
	z.zr.Close()
	return z.underlying.Close()
}

type chainedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *chainedReadCloser) Close() error {
	var firstErr error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
