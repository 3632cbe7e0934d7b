package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/weavehq/weave/internal/apperr"
	"github.com/weavehq/weave/internal/storage"
)

const maxUploadBytes = 10 << 20 // 10 MB

// UploadHandler accepts Markdown source uploads and runs them through the pipeline.
type UploadHandler struct {
	store storage.Provider
	svc   *Service
}

// NewUploadHandler creates an upload handler writing into the posts root.
func NewUploadHandler(store storage.Provider, svc *Service) *UploadHandler {
	return &UploadHandler{store: store, svc: svc}
}

// safeName validates that the filename is a plain .md name (no path separators,
// no traversal).
func safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	if !strings.HasSuffix(strings.ToLower(cleaned), ".md") {
		return "", fmt.Errorf("only .md files are accepted")
	}
	return cleaned, nil
}

// exists reports whether a source file already occupies name.
func (h *UploadHandler) exists(name string) error {
	if _, err := h.store.Read(name); err == nil {
		return fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, name)
	}
	return nil
}

// Upload handles POST /api/posts (multipart/form-data, field "file").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	name, err := safeName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	// Uploads never overwrite an existing source; re-uploads go through the
	// process endpoint instead.
	if err := h.exists(name); err != nil {
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
		return
	}

	if err := h.store.Write(name, content); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to store file"))
		return
	}

	res, err := h.svc.ProcessPath(r.Context(), name, false)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to process file"))
		return
	}

	status := "processed"
	if res.Skipped {
		status = "skipped"
	}
	writeJSON(w, http.StatusCreated, UploadResponse{
		Path:   name,
		Slug:   res.Slug,
		Size:   int64(len(content)),
		Status: status,
	})
}
