package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	histmodel "ringkasan/internal/history/model"
	"ringkasan/internal/summary/model"
	"ringkasan/middleware"
	"ringkasan/pkg/apperror"
	"ringkasan/pkg/validation"
)

type Summarizer interface {
	Summarize(ctx context.Context, content, instruction string) (model.Result, error)
}

// RevisionSaver records the produced summary as a document revision.
type RevisionSaver interface {
	SaveVersion(docID, content string, opts histmodel.SaveOptions) (histmodel.Revision, error)
}

type SummaryHandler struct {
	Summarizer Summarizer // nil when no provider is configured
	Versions   RevisionSaver
	Redact     bool
}

func NewSummaryHandler(summarizer Summarizer, versions RevisionSaver, redact bool) *SummaryHandler {
	return &SummaryHandler{Summarizer: summarizer, Versions: versions, Redact: redact}
}

func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, apperror.InvalidArgument("invalid request body"), h.Redact)
		return
	}
	if err := validation.Struct(req); err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	if h.Summarizer == nil {
		apperror.Write(w, apperror.UpstreamFailure(nil, "summarization is not configured"), h.Redact)
		return
	}

	result, err := h.Summarizer.Summarize(r.Context(), req.Content, req.Instruction)
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	docID := strings.TrimSpace(req.DocID)
	if docID == "" {
		docID = uuid.NewString()
	}
	authorID := req.AuthorID
	if authorID == "" {
		authorID = middleware.UserID(r)
	}

	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		instruction = model.DefaultInstruction
	}
	rev, err := h.Versions.SaveVersion(docID, result.Text, histmodel.SaveOptions{
		AuthorID: authorID,
		Action:   histmodel.ActionImport,
		Extra: map[string]any{
			"instruction": instruction,
			"provider":    result.Provider,
		},
	})
	if err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(model.SummarizeResponse{
		DocID:    docID,
		Provider: result.Provider,
		Summary:  rev.Content,
		Revision: rev,
	})
}
