package main

import (
	"net/http"

	"github.com/jamoo-dev/curtain/pkg/content"
	"github.com/jamoo-dev/curtain/pkg/pages"
	"github.com/jamoo-dev/curtain/pkg/percent"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// errorStatus maps an error from the content pipeline to a response status.
// Malformed or unresolvable identifiers look the same as missing files.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, percent.ErrDecode),
		errors.Is(err, content.ErrPathResolution),
		errors.Is(err, pages.ErrNotFound),
		errors.Is(err, pages.ErrInvalidName):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the response for err and reports whether there was
// one. Details only reach the client for bad requests.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}

	status := errorStatus(err)
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
		zap.Int("status_code", status),
		zap.Error(err),
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", fields...)
	} else {
		s.log.Debug("request rejected", fields...)
	}

	if ce := s.log.Check(zap.DebugLevel, "error details"); ce != nil {
		ce.Write(zap.String("details", pretty.Sprint(err)))
	}

	message := http.StatusText(status)
	if status == http.StatusBadRequest {
		message = err.Error()
	}
	http.Error(w, message, status)
	return true
}

type notFound struct {
	log *zap.Logger
}

func (n notFound) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.log.Debug("no route", zap.String("method", r.Method), zap.String("url", r.URL.String()))
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
