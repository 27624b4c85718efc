package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"ringkasan/internal/export/model"
	"ringkasan/internal/export/service"
	histmodel "ringkasan/internal/history/model"
	"ringkasan/pkg/apperror"
	"ringkasan/pkg/logger"
)

// RevisionSource resolves a document revision to export.
type RevisionSource interface {
	GetVersion(docID, versionID string) (histmodel.Revision, bool)
	GetLatestVersion(docID string) (histmodel.Revision, bool)
}

type ExportHandler struct {
	Renderer  *service.Renderer
	Revisions RevisionSource
	Redact    bool
}

func NewExportHandler(renderer *service.Renderer, revisions RevisionSource, redact bool) *ExportHandler {
	return &ExportHandler{Renderer: renderer, Revisions: revisions, Redact: redact}
}

// Export renders the request's content, or the selected revision when no
// content is given, and sends it as an attachment.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, apperror.InvalidArgument("invalid request body"), h.Redact)
		return
	}

	content, err := h.content(req)
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	exp, err := h.Renderer.Render(content, req.Format, req.Options)
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}
	defer func() {
		if err := h.Renderer.Cleanup(exp.Ref); err != nil {
			logger.Sugar.Warnf("Failed to clean up export %s: %v", exp.Ref, err)
		}
	}()

	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Payload)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(exp.Payload); err != nil {
		logger.Sugar.Warnf("Failed to send export %s: %v", exp.Filename, err)
	}
}

func (h *ExportHandler) content(req model.ExportRequest) (string, error) {
	if req.Content != "" || req.DocID == "" {
		return req.Content, nil
	}
	if h.Revisions == nil {
		return "", apperror.InvalidArgument("content is required")
	}

	var (
		rev histmodel.Revision
		ok  bool
	)
	if req.VersionID != "" {
		rev, ok = h.Revisions.GetVersion(req.DocID, req.VersionID)
	} else {
		rev, ok = h.Revisions.GetLatestVersion(req.DocID)
	}
	if !ok {
		return "", apperror.NotFound("no revision to export for document %s", req.DocID)
	}
	return rev.Content, nil
}

func (h *ExportHandler) GetFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"formats": service.SupportedFormats()})
}
