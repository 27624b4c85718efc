package router

import (
	"net/http"

	"ringkasan/config"
	exportHandler "ringkasan/internal/export"
	exportService "ringkasan/internal/export/service"
	historyHandler "ringkasan/internal/history"
	historyService "ringkasan/internal/history/service"
	mailHandler "ringkasan/internal/mail"
	summaryHandler "ringkasan/internal/summary"
	uploadHandler "ringkasan/internal/upload"
	uploadService "ringkasan/internal/upload/service"
	"ringkasan/middleware"
	"ringkasan/pkg/metrics"
	"ringkasan/socket"
)

// Deps are the long-lived services behind the routes. Summarizer and Sender
// may be nil when the matching collaborator is not configured.
type Deps struct {
	Versions   *historyService.VersionService
	Hub        *socket.Hub
	Renderer   *exportService.Renderer
	Summarizer summaryHandler.Summarizer
	Sender     mailHandler.Sender
	Reader     *uploadService.Reader
	Metrics    *metrics.Metrics
}

func Setup(cfg *config.Config, d Deps) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.Auth(cfg.JWTSecret)
	redact := cfg.Production()

	// WebSocket
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(d.Hub, w, r, middleware.UserID(r))
	})
	mux.Handle("/ws", auth(wsHandler))

	// Version history
	versions := historyHandler.NewVersionHandler(d.Versions, redact)
	mux.Handle("/api/versions/save", auth(http.HandlerFunc(versions.SaveVersion)))
	mux.Handle("/api/versions", auth(http.HandlerFunc(versions.ListVersions)))
	mux.Handle("/api/versions/get", auth(http.HandlerFunc(versions.GetVersion)))
	mux.Handle("/api/versions/latest", auth(http.HandlerFunc(versions.GetLatestVersion)))
	mux.Handle("/api/versions/restore", auth(http.HandlerFunc(versions.RestoreVersion)))
	mux.Handle("/api/versions/compare", auth(http.HandlerFunc(versions.CompareVersions)))
	mux.Handle("/api/versions/stats", auth(http.HandlerFunc(versions.GetVersionStats)))
	mux.Handle("/api/versions/export", auth(http.HandlerFunc(versions.ExportVersionHistory)))
	mux.Handle("/api/versions/cleanup", auth(http.HandlerFunc(versions.CleanupOldVersions)))

	// Export
	exports := exportHandler.NewExportHandler(d.Renderer, d.Versions, redact)
	mux.Handle("/api/export", auth(http.HandlerFunc(exports.Export)))
	mux.Handle("/api/export/formats", http.HandlerFunc(exports.GetFormats))

	// Collaborators
	summaries := summaryHandler.NewSummaryHandler(d.Summarizer, d.Versions, redact)
	mux.Handle("/api/summarize", auth(http.HandlerFunc(summaries.Summarize)))
	mail := mailHandler.NewMailHandler(d.Sender, d.Versions, redact)
	mux.Handle("/api/email", auth(http.HandlerFunc(mail.SendEmail)))
	uploads := uploadHandler.NewUploadHandler(d.Reader, cfg.MaxUploadBytes, redact)
	mux.Handle("/api/upload", auth(http.HandlerFunc(uploads.Upload)))

	// Ops
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics.Handler())
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	var handler http.Handler = mux
	handler = limiter.Middleware(handler)
	handler = middleware.RequestLogger(d.Metrics)(handler)
	handler = middleware.CORSMiddleware(middleware.ParseOrigins(cfg.CORSOrigins))(handler)
	return handler
}
