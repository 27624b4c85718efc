package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("compare: %w", NotFound("version %s not found", "abc"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "compare: version abc not found", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidArgument("x")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(UnsupportedFormat("x")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(RenderFailure(errors.New("disk"), "x")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(UpstreamFailure(errors.New("api"), "x")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, HTTPStatus(TooLarge("x")))
	assert.Equal(t, http.StatusUnsupportedMediaType, HTTPStatus(UnsupportedMedia("x")))
}

func TestTitlesAreDistinct(t *testing.T) {
	seen := map[string]Kind{}
	for kind := range titles {
		title := Title(kind)
		prev, dup := seen[title]
		assert.False(t, dup, "kinds %s and %s share a title", prev, kind)
		seen[title] = kind
	}
}

func TestRenderFailureUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := RenderFailure(cause, "writing export")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "writing export: disk full", err.Error())
}

func TestWriteRedactsServerErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, RenderFailure(errors.New("/tmp/secret path"), "writing export"), true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, KindRenderFailure, body.Error.Kind)
	assert.Equal(t, Title(KindRenderFailure), body.Error.Message)
}

func TestWriteKeepsClientMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, InvalidArgument("documentId is required"), true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "documentId is required", body.Error.Message)
}
