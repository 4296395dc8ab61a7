// Package server exposes the read-only viewer over HTTP: published posts by
// id with recomputed image display URLs, and raw blob payloads backing
// those URLs. Unpublished and unknown posts are indistinguishable from the
// outside.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"bcms/internal/blobstore"
	"bcms/internal/posts"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server wraps HTTP handlers for the bcms viewer.
type Server struct {
	addr    string
	manager *posts.Manager
	blobs   blobstore.BlobStore
	logger  *slog.Logger
}

// New creates a new server instance.
func New(addr string, manager *posts.Manager, blobs blobstore.BlobStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:    addr,
		manager: manager,
		blobs:   blobs,
		logger:  logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting viewer", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.withRequestLogging(s.routes()),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	return server.ListenAndServe()
}
