package main

import (
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jamoo-dev/curtain/pkg/compression"
	"github.com/pascaldekloe/metrics"
	"go.uber.org/zap"
)

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	// post identifiers are matched percent-encoded and decoded by the store
	r.UseEncodedPath()
	r.NotFoundHandler = notFound{log: s.log}

	r.Use(
		handlers.RecoveryHandler(
			handlers.PrintRecoveryStack(true),
			handlers.RecoveryLogger(zap.NewStdLog(s.log)),
		),
		withHTTPLogging(s.log),
		compression.Middleware(s.log, s.compressor),
	)

	r.HandleFunc("/", s.index).Methods("GET", "HEAD")
	r.HandleFunc("/feed", s.feed).Methods("GET", "HEAD")
	r.HandleFunc("/posts/{id}", s.post).Methods("GET", "HEAD")
	r.HandleFunc("/pages/{template}", s.page).Methods("GET", "HEAD")
	r.HandleFunc("/static/{file}", s.staticFile).Methods("GET", "HEAD")
	r.HandleFunc("/metrics", metrics.ServeHTTP).Methods("GET")

	return r
}
