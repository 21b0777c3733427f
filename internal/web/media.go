package web

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// MediaHandler serves locally stored post images.
type MediaHandler struct {
	root string
}

// NewMediaHandler creates a handler rooted at the local media directory.
func NewMediaHandler(root string) *MediaHandler {
	return &MediaHandler{root: root}
}

// ServeFile handles GET /media/{filename}.
func (h *MediaHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	cleaned := filepath.Clean(filename)
	// Stored refs are plain sanitized names; reject anything else.
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		http.Error(w, "invalid filename", http.StatusBadRequest)
		return
	}
	abs := filepath.Join(h.root, cleaned)
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}
