package handler

import (
	"context"
	"encoding/json"
	"net/http"

	histmodel "ringkasan/internal/history/model"
	"ringkasan/internal/mail/model"
	"ringkasan/pkg/apperror"
	"ringkasan/pkg/validation"
)

type Sender interface {
	Send(ctx context.Context, to []string, subject, body string) (string, error)
}

type LatestRevisions interface {
	GetLatestVersion(docID string) (histmodel.Revision, bool)
}

type MailHandler struct {
	Sender    Sender // nil when SMTP is not configured
	Revisions LatestRevisions
	Redact    bool
}

func NewMailHandler(sender Sender, revisions LatestRevisions, redact bool) *MailHandler {
	return &MailHandler{Sender: sender, Revisions: revisions, Redact: redact}
}

func (h *MailHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, apperror.InvalidArgument("invalid request body"), h.Redact)
		return
	}
	if err := validation.Struct(req); err != nil {
		apperror.Write(w, err, h.Redact)
		return
	}

	body := req.Content
	if body == "" {
		rev, ok := h.Revisions.GetLatestVersion(req.DocID)
		if !ok {
			apperror.Write(w, apperror.NotFound("document %s has no versions", req.DocID), h.Redact)
			return
		}
		body = rev.Content
	}

	if h.Sender == nil {
		apperror.Write(w, apperror.UpstreamFailure(nil, "email is not configured"), h.Redact)
		return
	}

	messageID, err := h.Sender.Send(r.Context(), req.To, req.Subject, body)
	if err != nil {
		apperror.Write(w, apperror.UpstreamFailure(err, "sending email"), h.Redact)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.SendEmailResponse{MessageID: messageID, To: req.To})
}
