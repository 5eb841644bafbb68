package loader

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression extensions recognised on locators.
const (
	extGzip = ".gz"
	extZstd = ".zst"
)

// stripCompression removes a trailing compression extension.
func stripCompression(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case extGzip, extZstd:
		return p[:len(p)-len(path.Ext(p))]
	}
	return p
}

// decompress wraps r in a decoder chosen by the locator extension. The
// returned closer releases both the decoder and r.
func decompress(locator string, r io.ReadCloser) (io.ReadCloser, error) {
	switch strings.ToLower(path.Ext(locatorPath(locator))) {
	case extGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr, r}}, nil
	case extZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), r}}, nil
	default:
		return r, nil
	}
}

type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
