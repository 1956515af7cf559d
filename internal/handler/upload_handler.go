package handler

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"go-storefront/internal/service"
	"go-storefront/pkg/apierror"
)

type UploadHandler struct {
	service     *service.UploadService
	fileField   string
	maxBodySize int64
}

func NewUploadHandler(service *service.UploadService, fileField string, maxBodySize int64) *UploadHandler {
	return &UploadHandler{service: service, fileField: fileField, maxBodySize: maxBodySize}
}

// Upload stores the single image sent under the configured form field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	defer cleanupForm(r)

	isForm, err := parseForm(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !isForm {
		writeError(w, apierror.NoFile(h.fileField))
		return
	}

	file, header, err := formFile(r, h.fileField)
	if err != nil {
		writeError(w, err)
		return
	}
	if file == nil {
		writeError(w, apierror.NoFile(h.fileField))
		return
	}
	defer file.Close()

	result, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Serve streams a stored upload back by name.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	blob, err := h.service.Open(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	defer blob.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, blob); err != nil {
		slog.Warn("failed to stream upload", "name", name, "error", err)
	}
}
