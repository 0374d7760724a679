package provider

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// Compression is the algorithm the cube data of a chunk is compressed with. It is stored along with every chunk,
// so chunks written with one Compression remain readable after switching to another.
type Compression byte

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionBrotli
)

// ParseCompression parses the name of a Compression: "none", "zstd" or "brotli".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "brotli":
		return CompressionBrotli, nil
	}
	return 0, fmt.Errorf("unknown compression %q", s)
}

// String ...
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionBrotli:
		return "brotli"
	}
	return fmt.Sprintf("Compression(%d)", byte(c))
}

// compress compresses data with the Compression.
func (c Compression) compress(data []byte) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(data)/4))
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		w, err := zstd.NewWriter(buf)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case CompressionBrotli:
		w := brotli.NewWriterLevel(buf, brotli.DefaultCompression)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown compression %v", byte(c))
	}
	return buf.Bytes(), nil
}

// decompress reverses compress.
func (c Compression) decompress(data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		r, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		if _, err := buf.ReadFrom(r); err != nil {
			return nil, err
		}
	case CompressionBrotli:
		if _, err := buf.ReadFrom(brotli.NewReader(bytes.NewReader(data))); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown compression %v", byte(c))
	}
	return buf.Bytes(), nil
}
