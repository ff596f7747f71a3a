package dataset

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSource(t *testing.T, src Source) string {
	t.Helper()
	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestLocalSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	assert.Equal(t, sampleCSV, readSource(t, NewLocalSource(path)))
}

func TestLocalSourceMissing(t *testing.T) {
	_, err := NewLocalSource(filepath.Join(t.TempDir(), "nope.csv")).Open(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalSourceGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	assert.Equal(t, sampleCSV, readSource(t, NewLocalSource(path)))
}

func TestLocalSourceZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = zw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	assert.Equal(t, sampleCSV, readSource(t, NewLocalSource(path)))
}

func TestLocalSourceLZ4(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv.lz4")
	f, err := os.Create(path)
	require.NoError(t, err)
	lw := lz4.NewWriter(f)
	_, err = lw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, lw.Close())
	require.NoError(t, f.Close())

	assert.Equal(t, sampleCSV, readSource(t, NewLocalSource(path)))
}

func TestSourceFromURL(t *testing.T) {
	ctx := context.Background()

	src, err := SourceFromURL(ctx, "/tmp/data.csv")
	require.NoError(t, err)
	assert.IsType(t, &LocalSource{}, src)

	_, err = SourceFromURL(ctx, "ftp://host/data.csv")
	assert.ErrorContains(t, err, "unsupported dataset url scheme")

	_, err = SourceFromURL(ctx, "s3://bucket-only")
	assert.Error(t, err)
}
