// Package compression re-encodes HTTP responses with a codec negotiated
// from the request's Accept-Encoding header.
package compression

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/jamoo-dev/curtain/pkg/negotiation"
	"github.com/pkg/errors"
)

const (
	headerAcceptEncoding  = "Accept-Encoding"
	headerContentEncoding = "Content-Encoding"
	headerContentLength   = "Content-Length"
	headerContentRange    = "Content-Range"
	headerContentType     = "Content-Type"
	headerVary            = "Vary"
)

var ErrCompression = errors.New("compression failed")

// Error is returned when a codec fails while encoding a body.
type Error struct {
	Codec string
	Err   error
}

func (e *Error) Error() string {
	return ErrCompression.Error() + " (" + e.Codec + "): " + e.Err.Error()
}

func (e *Error) Unwrap() error        { return e.Err }
func (e *Error) Is(target error) bool { return target == ErrCompression }
func (e *Error) Cause() error         { return e.Err }

// Eligible reports whether a response with the given Content-Type is worth
// compressing: text/*, application/javascript, application/json,
// application/xml and application/*+xml.
func Eligible(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}

	top, sub, found := strings.Cut(mediaType, "/")
	if !found || sub == "" {
		return false
	}

	switch top {
	case "text":
		return true
	case "application":
		switch sub {
		case "javascript", "json", "xml":
			return true
		}
		return strings.HasSuffix(sub, "+xml")
	}
	return false
}

// Encode pipes body through a fresh encoder of codec.
func Encode(codec Codec, body []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	wr, err := codec.NewWriter(buf)
	if err != nil {
		return nil, &Error{Codec: codec.Name(), Err: errors.WithMessage(err, "creating encoder")}
	}

	if _, err := wr.Write(body); err != nil {
		_ = wr.Close()
		return nil, &Error{Codec: codec.Name(), Err: errors.WithMessage(err, "writing body")}
	}

	if err := wr.Close(); err != nil {
		return nil, &Error{Codec: codec.Name(), Err: errors.WithMessage(err, "closing encoder")}
	}

	return buf.Bytes(), nil
}

// Response is a fully buffered response as produced by a wrapped handler.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

type Compressor struct {
	codecs []Codec
	names  []string
}

// New returns a Compressor negotiating between the named registered codecs.
func New(names ...string) (*Compressor, error) {
	codecs := make([]Codec, 0, len(names))
	for _, name := range names {
		codec, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, codec)
	}
	return NewWithCodecs(codecs...), nil
}

func NewWithCodecs(codecs ...Codec) *Compressor {
	c := &Compressor{}
	for _, codec := range codecs {
		c.codecs = append(c.codecs, codec)
		c.names = append(c.names, codec.Name())
	}
	return c
}

func (c *Compressor) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Compressor) codec(name string) Codec {
	for _, codec := range c.codecs {
		if codec.Name() == name {
			return codec
		}
	}
	return nil
}

func bodyless(status int) bool {
	return (status >= 100 && status < 200) ||
		status == http.StatusNoContent ||
		status == http.StatusPartialContent ||
		status == http.StatusNotModified
}

// Apply compresses resp in place when its content type is eligible, it is
// not already encoded, and acceptEncoding selects one of the codecs. It
// returns the name of the codec used, or "" when resp was left untouched.
func (c *Compressor) Apply(resp *Response, acceptEncoding string) (string, error) {
	if bodyless(resp.Status) || len(resp.Body) == 0 {
		return "", nil
	}
	if resp.Header.Get(headerContentEncoding) != "" || resp.Header.Get(headerContentRange) != "" {
		return "", nil
	}
	if !Eligible(resp.Header.Get(headerContentType)) {
		return "", nil
	}

	resp.Header.Add(headerVary, headerAcceptEncoding)

	if strings.TrimSpace(acceptEncoding) == "" {
		return "", nil
	}

	name, ok := negotiation.Parse(acceptEncoding).Best(c.names...)
	if !ok {
		return "", nil
	}

	codec := c.codec(name)
	encoded, err := Encode(codec, resp.Body)
	if err != nil {
		return name, err
	}

	resp.Body = encoded
	resp.Header.Set(headerContentEncoding, codec.Name())
	resp.Header.Set(headerContentLength, strconv.Itoa(len(encoded)))
	return codec.Name(), nil
}
