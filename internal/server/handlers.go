package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"bcms/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePost serves one published post. Unpublished and missing posts both
// answer not-found so draft content is never exposed.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	post, ok := s.manager.Get(id)
	if !ok || !post.Published {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
		return
	}

	writeJSON(w, http.StatusOK, s.rehydrated(post))
}

// handleBlob streams one stored payload with its sniffed content type.
func (s *Server) handleBlob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	asset, err := s.blobs.Get(r.Context(), id)
	if err != nil {
		s.logger.Error("read blob", "blob", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage unavailable"})
		return
	}
	if asset == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "blob not found"})
		return
	}

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(asset.Payload)
}

// rehydrated returns the post with display URLs injected into its image
// blocks. The URLs are derived from the blob ids on every request and are
// never persisted.
func (s *Server) rehydrated(post models.Post) models.Post {
	if post.Content == nil {
		return post
	}
	out := post.Clone()
	for i, block := range out.Content.Blocks {
		if id := block.ImageID(); id != "" {
			out.Content.Blocks[i] = block.WithImageURL(fmt.Sprintf("/blobs/%s", id))
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
