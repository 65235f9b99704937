package csfile

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/agentstation/csutil/pkg/constants"
)

// Compression identifies the stream codec wrapped around a table.
type Compression uint8

const (
	// CompressionNone stores the .npy bytes as is.
	CompressionNone Compression = iota
	// CompressionZSTD wraps the table in a zstd stream (.zst).
	CompressionZSTD
	// CompressionLZ4 wraps the table in an LZ4 frame (.lz4).
	CompressionLZ4
)

// String returns the codec name.
func (c Compression) String() string {
	switch c {
	case CompressionZSTD:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// CompressionFor picks the codec from the file extension.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case constants.ExtZstd:
		return CompressionZSTD
	case constants.ExtLZ4:
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// TrimExt removes a compression suffix and then the .cs extension.
func TrimExt(path string) string {
	if CompressionFor(path) != CompressionNone {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return strings.TrimSuffix(path, constants.ExtDataset)
}

// nopCloser adapts a writer with nothing to flush.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// newReader wraps r with the decompressor for c. The returned close func
// releases decoder resources; it does not close r.
func newReader(r io.Reader, c Compression) (io.Reader, func(), error) {
	switch c {
	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	case CompressionLZ4:
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}

// newWriter wraps w with the compressor for c. Close flushes the stream but
// does not close w.
func newWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionZSTD:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopCloser{w}, nil
	}
}
