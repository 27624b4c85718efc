package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"ringkasan/internal/history/model"
	"ringkasan/internal/history/service"
	"ringkasan/middleware"
	"ringkasan/pkg/apperror"
)

type VersionHandler struct {
	Service *service.VersionService
	Redact  bool // hide 5xx details from clients
}

func NewVersionHandler(service *service.VersionService, redact bool) *VersionHandler {
	return &VersionHandler{Service: service, Redact: redact}
}

func (h *VersionHandler) SaveVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.SaveVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, apperror.InvalidArgument("invalid request body"), h.Redact)
		return
	}

	authorID := req.AuthorID
	if authorID == "" {
		authorID = middleware.UserID(r)
	}

	rev, err := h.Service.SaveVersion(req.DocID, req.Content, model.SaveOptions{
		AuthorID: authorID,
		Action:   req.Action,
		Extra:    req.Extra,
	})
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	writeJSON(w, http.StatusCreated, rev)
}

func (h *VersionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		apperror.Write(w, apperror.InvalidArgument("offset must be an integer"), h.Redact)
		return
	}
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		apperror.Write(w, apperror.InvalidArgument("limit must be an integer"), h.Redact)
		return
	}

	page, err := h.Service.ListVersions(q.Get("docId"), offset, limit)
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	docID := r.URL.Query().Get("docId")
	versionID := r.URL.Query().Get("versionId")
	if docID == "" || versionID == "" {
		apperror.Write(w, apperror.InvalidArgument("docId and versionId are required"), h.Redact)
		return
	}

	rev, ok := h.Service.GetVersion(docID, versionID)
	if !ok {
		apperror.Write(w, apperror.NotFound("version %s not found for document %s", versionID, docID), h.Redact)
		return
	}

	writeJSON(w, http.StatusOK, rev)
}

func (h *VersionHandler) GetLatestVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	docID := r.URL.Query().Get("docId")
	if docID == "" {
		apperror.Write(w, apperror.InvalidArgument("docId is required"), h.Redact)
		return
	}

	rev, ok := h.Service.GetLatestVersion(docID)
	if !ok {
		apperror.Write(w, apperror.NotFound("document %s has no versions", docID), h.Redact)
		return
	}

	writeJSON(w, http.StatusOK, rev)
}

func (h *VersionHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.RestoreVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, apperror.InvalidArgument("invalid request body"), h.Redact)
		return
	}
	if req.VersionID == "" {
		apperror.Write(w, apperror.InvalidArgument("version_id is required"), h.Redact)
		return
	}

	authorID := req.AuthorID
	if authorID == "" {
		authorID = middleware.UserID(r)
	}

	rev, err := h.Service.RestoreVersion(req.DocID, req.VersionID, authorID)
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	writeJSON(w, http.StatusCreated, rev)
}

func (h *VersionHandler) CompareVersions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	if q.Get("v1") == "" || q.Get("v2") == "" {
		apperror.Write(w, apperror.InvalidArgument("v1 and v2 are required"), h.Redact)
		return
	}

	cmp, err := h.Service.CompareVersions(q.Get("docId"), q.Get("v1"), q.Get("v2"))
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	writeJSON(w, http.StatusOK, cmp)
}

func (h *VersionHandler) GetVersionStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.Service.GetVersionStats(r.URL.Query().Get("docId"))
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *VersionHandler) ExportVersionHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	bundle, err := h.Service.ExportVersionHistory(r.URL.Query().Get("docId"))
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "history-"+bundle.DocumentID+".json"))
	writeJSON(w, http.StatusOK, bundle)
}

func (h *VersionHandler) CleanupOldVersions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.CleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, apperror.InvalidArgument("invalid request body"), h.Redact)
		return
	}

	keep := h.Service.CleanupKeep
	if req.KeepCount != nil {
		keep = *req.KeepCount
	}

	removed, err := h.Service.CleanupOldVersions(req.DocID, keep)
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	writeJSON(w, http.StatusOK, model.CleanupResponse{DocID: req.DocID, Removed: removed})
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
