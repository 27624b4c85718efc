package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	histmodel "ringkasan/internal/history/model"
	"ringkasan/internal/mail/model"
)

type stubSender struct {
	to   []string
	body string
	err  error
}

func (s *stubSender) Send(ctx context.Context, to []string, subject, body string) (string, error) {
	s.to, s.body = to, body
	return "<id@example.com>", s.err
}

type latest map[string]histmodel.Revision

func (l latest) GetLatestVersion(docID string) (histmodel.Revision, bool) {
	rev, ok := l[docID]
	return rev, ok
}

func post(h *MailHandler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.SendEmail(rec, httptest.NewRequest(http.MethodPost, "/api/email", strings.NewReader(body)))
	return rec
}

func TestSendEmail(t *testing.T) {
	sender := &stubSender{}
	h := NewMailHandler(sender, latest{}, false)

	rec := post(h, `{"to":["a@example.com"],"subject":"Notes","content":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.SendEmailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "<id@example.com>", resp.MessageID)
	assert.Equal(t, "hello", sender.body)
}

func TestSendEmailFromLatestRevision(t *testing.T) {
	sender := &stubSender{}
	h := NewMailHandler(sender, latest{"doc-1": {Content: "saved summary"}}, false)

	rec := post(h, `{"to":["a@example.com"],"subject":"Notes","document_id":"doc-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "saved summary", sender.body)

	rec = post(h, `{"to":["a@example.com"],"subject":"Notes","document_id":"doc-2"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendEmailValidation(t *testing.T) {
	h := NewMailHandler(&stubSender{}, latest{}, false)

	for _, body := range []string{
		`{"to":[],"subject":"s","content":"c"}`,
		`{"to":["not-an-email"],"subject":"s","content":"c"}`,
		`{"to":["a@example.com"],"subject":" ","content":"c"}`,
		`{"to":["a@example.com"],"subject":"s"}`,
		`nope`,
	} {
		rec := post(h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestSendEmailUpstreamFailures(t *testing.T) {
	rec := post(NewMailHandler(nil, latest{}, false), `{"to":["a@example.com"],"subject":"s","content":"c"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = post(NewMailHandler(&stubSender{err: errors.New("smtp down")}, latest{}, true),
		`{"to":["a@example.com"],"subject":"s","content":"c"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "smtp down")
}
