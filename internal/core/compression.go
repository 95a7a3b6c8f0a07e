package core

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// CompressionType identifies how a catalog file is compressed.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionGZ
	CompressionZSTD
	CompressionXZ
)

// String returns the file extension for the compression type.
func (c CompressionType) String() string {
	switch c {
	case CompressionGZ:
		return ".gz"
	case CompressionZSTD:
		return ".zst"
	case CompressionXZ:
		return ".xz"
	default:
		return ""
	}
}

// detectCompression returns the compression type implied by path and the
// path with the compression extension removed.
func detectCompression(path string) (CompressionType, string) {
	ext := strings.ToLower(filepath.Ext(path))
	inner := strings.TrimSuffix(path, filepath.Ext(path))
	switch ext {
	case ".gz":
		return CompressionGZ, inner
	case ".zst":
		return CompressionZSTD, inner
	case ".xz":
		return CompressionXZ, inner
	default:
		return CompressionNone, path
	}
}

// decompress returns the decompressed contents of data.
func decompress(ct CompressionType, data []byte) ([]byte, error) {
	var r io.Reader
	switch ct {
	case CompressionNone:
		return data, nil

	case CompressionGZ:
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz

	case CompressionZSTD:
		dec, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec

	case CompressionXZ:
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = xr

	default:
		return nil, fmt.Errorf("unsupported compression type: %d", ct)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", ct, err)
	}
	return out, nil
}
