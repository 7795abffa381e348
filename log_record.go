package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LogRecord wraps a http.ResponseWriter and records the status and size
type LogRecord struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *LogRecord) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.size += n
	return n, err
}

// WriteHeader overrides ResponseWriter.WriteHeader to keep track of the response code
func (r *LogRecord) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withHTTPLogging adds HTTP request logging to the Handler h
func withHTTPLogging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			url := r.URL.String()
			isMetric := r.URL.Path == "/metrics"

			start := time.Now()
			record := &LogRecord{
				ResponseWriter: w,
				status:         http.StatusOK,
			}
			h.ServeHTTP(record, r)
			metricRequests.Add(1)

			level := log.Debug
			if record.status >= http.StatusInternalServerError {
				level = log.Error
			}

			if !(isMetric && record.status == http.StatusOK) {
				level("RES",
					zap.String("ident", r.Host),
					zap.String("method", r.Method),
					zap.String("url", url),
					zap.String("accept_encoding", r.Header.Get("Accept-Encoding")),
					zap.String("content_encoding", record.Header().Get("Content-Encoding")),
					zap.Int("status_code", record.status),
					zap.Int("size", record.size),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}
