package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"ringkasan/internal/upload/model"
	"ringkasan/internal/upload/service"
	"ringkasan/pkg/apperror"
)

// DefaultMaxBytes bounds an upload when no limit is configured.
const DefaultMaxBytes = 10 << 20

type UploadHandler struct {
	Reader   *service.Reader
	MaxBytes int64
	Redact   bool
}

func NewUploadHandler(reader *service.Reader, maxBytes int64, redact bool) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &UploadHandler{Reader: reader, MaxBytes: maxBytes, Redact: redact}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		apperror.Write(w, h.formError(err), h.Redact)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apperror.Write(w, h.formError(err), h.Redact)
		return
	}

	ext, err := h.Reader.Read(r.Context(), header.Filename, data)
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.UploadResponse{
		Filename:  header.Filename,
		Format:    service.Format(header.Filename),
		Size:      int64(len(data)),
		Pages:     ext.Pages,
		WordCount: len(strings.Fields(ext.Text)),
		Text:      ext.Text,
	})
}

func (h *UploadHandler) formError(err error) error {
	var tooLarge *http.MaxBytesError
	// multipart may flatten the error into its own message.
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return apperror.TooLarge("upload exceeds %d bytes", h.MaxBytes)
	}
	if errors.Is(err, http.ErrMissingFile) {
		return apperror.InvalidArgument("file is required")
	}
	return apperror.InvalidArgument("invalid multipart upload: %v", err)
}
