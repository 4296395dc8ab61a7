package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Published post view; drafts and unknown ids degrade to not found.
	mux.HandleFunc("GET /post/{id}", s.handlePost)

	// Raw blob payloads backing the transient image display URLs.
	mux.HandleFunc("GET /blobs/{id}", s.handleBlob)

	return mux
}
