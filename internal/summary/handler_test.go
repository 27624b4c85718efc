package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	histmodel "ringkasan/internal/history/model"
	"ringkasan/internal/history/repository"
	"ringkasan/internal/history/service"
	"ringkasan/internal/summary/model"
	"ringkasan/pkg/apperror"
)

type stubSummarizer struct {
	result model.Result
	err    error
	got    string
}

func (s *stubSummarizer) Summarize(ctx context.Context, content, instruction string) (model.Result, error) {
	s.got = content
	return s.result, s.err
}

func newHandler(sum *stubSummarizer) (*SummaryHandler, *service.VersionService) {
	versions := service.NewVersionService(repository.NewRevisionRepository(10), nil, nil)
	return NewSummaryHandler(sum, versions, false), versions
}

func post(h *SummaryHandler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Summarize(rec, httptest.NewRequest(http.MethodPost, "/api/summarize", strings.NewReader(body)))
	return rec
}

func TestSummarizeSavesImportRevision(t *testing.T) {
	sum := &stubSummarizer{result: model.Result{Text: "Key points:\n- ship it", Provider: "anthropic"}}
	h, versions := newHandler(sum)

	rec := post(h, `{"content":"long transcript","document_id":"doc-9","author_id":"alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp model.SummarizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "doc-9", resp.DocID)
	assert.Equal(t, "anthropic", resp.Provider)
	assert.Equal(t, "Key points:\n- ship it", resp.Summary)
	assert.Equal(t, "long transcript", sum.got)

	latest, ok := versions.GetLatestVersion("doc-9")
	require.True(t, ok)
	assert.Equal(t, histmodel.ActionImport, latest.Action)
	assert.Equal(t, "alice", latest.AuthorID)
	assert.Equal(t, "anthropic", latest.Extra["provider"])
	assert.Equal(t, model.DefaultInstruction, latest.Extra["instruction"])
}

func TestSummarizeGeneratesDocumentID(t *testing.T) {
	h, _ := newHandler(&stubSummarizer{result: model.Result{Text: "summary", Provider: "openai"}})

	rec := post(h, `{"content":"transcript"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp model.SummarizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp.DocID)
	assert.NoError(t, err)
	assert.Equal(t, "anonymous", resp.Revision.AuthorID)
}

func TestSummarizeErrors(t *testing.T) {
	h, _ := newHandler(&stubSummarizer{})

	rec := post(h, `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(h, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	failing, _ := newHandler(&stubSummarizer{err: apperror.UpstreamFailure(errors.New("down"), "all summary providers failed")})
	rec = post(failing, `{"content":"transcript"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body apperror.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperror.KindUpstreamFailure, body.Error.Kind)
}

func TestSummarizeWithoutProvider(t *testing.T) {
	versions := service.NewVersionService(repository.NewRevisionRepository(10), nil, nil)
	h := NewSummaryHandler(nil, versions, false)

	rec := post(h, `{"content":"transcript"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
