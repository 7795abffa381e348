package compression

import (
	"io"
	"sort"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const (
	Gzip    = "gzip"
	Deflate = "deflate"
	Zlib    = "zlib"
	Brotli  = "br"
	Zstd    = "zstd"
)

// DefaultCodecs is the set negotiated when nothing else is configured.
var DefaultCodecs = []string{Gzip, Deflate, Zlib}

// Codec is a named streaming encoder. Closing the writer must flush all
// pending output to the underlying writer.
type Codec interface {
	Name() string
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

type codecFunc struct {
	name string
	fn   func(io.Writer) (io.WriteCloser, error)
}

func (c codecFunc) Name() string                                  { return c.name }
func (c codecFunc) NewWriter(w io.Writer) (io.WriteCloser, error) { return c.fn(w) }

// NewCodec builds a Codec from a name and a writer constructor.
func NewCodec(name string, fn func(io.Writer) (io.WriteCloser, error)) Codec {
	return codecFunc{name: name, fn: fn}
}

// All encoders run at their fastest level; the level is not configurable.
var registry = map[string]Codec{
	Gzip: NewCodec(Gzip, func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriterLevel(w, gzip.BestSpeed)
	}),
	Deflate: NewCodec(Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestSpeed)
	}),
	Zlib: NewCodec(Zlib, func(w io.Writer) (io.WriteCloser, error) {
		return zlib.NewWriterLevel(w, zlib.BestSpeed)
	}),
	Brotli: NewCodec(Brotli, func(w io.Writer) (io.WriteCloser, error) {
		return brotli.NewWriterLevel(w, brotli.BestSpeed), nil
	}),
	Zstd: NewCodec(Zstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	}),
}

// Lookup returns the registered codec called name.
func Lookup(name string) (Codec, error) {
	if codec, ok := registry[name]; ok {
		return codec, nil
	}
	return nil, errors.Errorf("unknown codec %q, known codecs are %v", name, Known())
}

func Known() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
