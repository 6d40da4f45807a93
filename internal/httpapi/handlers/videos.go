package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"clipcap/internal/httpkit"
)

// maxVideoBytes caps uploads; anything bigger belongs on a direct-to-bucket
// path, not this endpoint.
const maxVideoBytes = 512 << 20

// PostVideo stores an uploaded source video under uploads/ and returns the
// object key the caller passes back when creating a job.
func (h *Handler) PostVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxVideoBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "file is required", map[string]any{"field": "file"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".mp4"
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	data, err := io.ReadAll(file)
	if err != nil {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "could not read upload", nil)
		return
	}

	key := fmt.Sprintf("uploads/%s%s", uuid.NewString(), ext)
	if err := h.objects.Upload(ctx, data, key, contentType); err != nil {
		h.log.FromContext(ctx).WithError(err).Error("video upload failed", "key", key)
		httpkit.WriteErr(w, 500, "STORAGE_ERROR", "storage put failed", nil)
		return
	}

	httpkit.WriteJSON(w, 201, map[string]any{
		"video": map[string]any{
			"key":        key,
			"provider":   h.objects.Provider(),
			"mime":       contentType,
			"size_bytes": len(data),
		},
	})
}
