package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringkasan/config"
	exportService "ringkasan/internal/export/service"
	"ringkasan/internal/history/repository"
	historyService "ringkasan/internal/history/service"
	uploadService "ringkasan/internal/upload/service"
	"ringkasan/pkg/metrics"
	"ringkasan/socket"
)

func newServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	m, err := metrics.New()
	require.NoError(t, err)

	versions := historyService.NewVersionService(repository.NewRevisionRepository(50), nil, m)
	renderer, err := exportService.NewRenderer(t.TempDir(), m)
	require.NoError(t, err)
	t.Cleanup(func() { renderer.Close() })

	srv := httptest.NewServer(Setup(cfg, Deps{
		Versions: versions,
		Hub:      socket.NewHub(nil),
		Renderer: renderer,
		Reader:   uploadService.NewReader(nil),
		Metrics:  m,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes(t *testing.T) {
	srv := newServer(t, &config.Config{CORSOrigins: "*", MaxUploadBytes: 1 << 20})

	resp, err := http.Post(srv.URL+"/api/versions/save", "application/json",
		strings.NewReader(`{"document_id":"doc-1","content":"first draft"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	for path, want := range map[string]int{
		"/api/versions?docId=doc-1":        http.StatusOK,
		"/api/versions/latest?docId=doc-1": http.StatusOK,
		"/api/versions/latest?docId=none":  http.StatusNotFound,
		"/api/versions/stats?docId=doc-1":  http.StatusOK,
		"/api/export/formats":              http.StatusOK,
		"/healthz":                         http.StatusOK,
		"/metrics":                         http.StatusOK,
		"/ws":                              http.StatusBadRequest,
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, path)
	}

	resp, err = http.Post(srv.URL+"/api/summarize", "application/json", strings.NewReader(`{"content":"x"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestRoutesRequireTokenWhenSecretSet(t *testing.T) {
	srv := newServer(t, &config.Config{JWTSecret: "secret", MaxUploadBytes: 1 << 20})

	resp, err := http.Get(srv.URL + "/api/versions?docId=doc-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/export/formats")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
