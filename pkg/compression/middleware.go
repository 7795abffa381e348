package compression

import (
	"bytes"
	"net/http"

	"github.com/pascaldekloe/metrics"
	"go.uber.org/zap"
)

var (
	metricCompressed     = metrics.MustCounter("curtain_responses_compressed", "Number of responses re-encoded with a negotiated codec")
	metricCompressedIn   = metrics.MustCounter("curtain_compression_bytes_in", "Bytes handed to response encoders")
	metricCompressedOut  = metrics.MustCounter("curtain_compression_bytes_out", "Bytes produced by response encoders")
	metricCompressFailed = metrics.MustCounter("curtain_compression_failures", "Number of responses that failed to encode")
)

// recorder buffers everything a handler writes so it can be re-encoded
// before anything reaches the client.
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{header: http.Header{}}
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(p)
}

func (r *recorder) response() *Response {
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{Status: status, Header: r.header, Body: r.body.Bytes()}
}

type compressHandler struct {
	log        *zap.Logger
	handler    http.Handler
	compressor *Compressor
}

// Middleware wraps handlers so their responses are compressed according to
// the request's Accept-Encoding. Encoder failures produce a 500 instead of
// an uncompressed fallback.
func Middleware(log *zap.Logger, compressor *Compressor) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return &compressHandler{
			log:        log,
			handler:    h,
			compressor: compressor,
		}
	}
}

func (c *compressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		c.handler.ServeHTTP(w, r)
		return
	}

	rec := newRecorder()
	c.handler.ServeHTTP(rec, r)
	resp := rec.response()
	size := len(resp.Body)

	codec, err := c.compressor.Apply(resp, r.Header.Get(headerAcceptEncoding))
	if err != nil {
		metricCompressFailed.Add(1)
		c.log.Error("compressing response failed",
			zap.String("codec", codec),
			zap.String("url", r.URL.String()),
			zap.Error(err),
		)
		http.Error(w, "compressing response failed", http.StatusInternalServerError)
		return
	}

	if codec != "" {
		metricCompressed.Add(1)
		metricCompressedIn.Add(uint64(size))
		metricCompressedOut.Add(uint64(len(resp.Body)))
		c.log.Debug("compressed response",
			zap.String("codec", codec),
			zap.Int("size", size),
			zap.Int("compressed", len(resp.Body)),
		)
	}

	header := w.Header()
	for key, values := range resp.Header {
		header[key] = values
	}
	w.WriteHeader(resp.Status)
	if _, err := w.Write(resp.Body); err != nil {
		c.log.Debug("writing response", zap.Error(err))
	}
}
