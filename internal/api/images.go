package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

type ImageHandler struct {
	dir string
}

// NewImageHandler serves rendered PNGs from dir.
func NewImageHandler(dir string) *ImageHandler {
	return &ImageHandler{dir: dir}
}

func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name != filepath.Base(name) || !strings.EqualFold(filepath.Ext(name), ".png") {
		writeError(w, http.StatusBadRequest, "invalid image name")
		return
	}
	path := filepath.Join(h.dir, name)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, path)
}
