package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ringkasan/config"
	exportService "ringkasan/internal/export/service"
	"ringkasan/internal/history/repository"
	historyService "ringkasan/internal/history/service"
	mailService "ringkasan/internal/mail/service"
	summaryService "ringkasan/internal/summary/service"
	uploadService "ringkasan/internal/upload/service"
	"ringkasan/pkg/logger"
	"ringkasan/pkg/metrics"
	"ringkasan/router"
	"ringkasan/socket"
)

const gracefulTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		envFile string
		port    int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "path of the .env file to load")
	cmd.Flags().IntVar(&port, "port", 0, "listen port, overrides PORT")
	return cmd
}

func serve(parent context.Context, cfg *config.Config) error {
	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := metrics.New()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	versions := historyService.NewVersionService(repository.NewRevisionRepository(cfg.RetentionCap), nil, m)
	versions.CleanupKeep = cfg.CleanupKeep

	hub := socket.NewHub(func(docID string) (any, bool) {
		return versions.GetLatestVersion(docID)
	})
	versions.Notifier = hub
	go hub.Run(ctx)

	renderer, err := exportService.NewRenderer(cfg.ExportDir, m)
	if err != nil {
		return err
	}
	defer renderer.Close()

	deps := router.Deps{
		Versions: versions,
		Hub:      hub,
		Renderer: renderer,
		Reader:   uploadService.NewReader(nil),
		Metrics:  m,
	}
	if chain := summaryChain(cfg, m); chain != nil {
		deps.Summarizer = chain
	}
	if cfg.SMTPHost != "" {
		deps.Sender = mailService.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, m)
	} else {
		logger.Sugar.Warn("SMTP_HOST is not set, email delivery is disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Sugar.Infof("Ringkasan listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Sugar.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-hub.Done()
	return nil
}

// summaryChain returns nil when no provider has an API key.
func summaryChain(cfg *config.Config, m *metrics.Metrics) *summaryService.Chain {
	var providers []summaryService.Provider
	if cfg.AnthropicAPIKey != "" {
		providers = append(providers, summaryService.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL))
	}
	if cfg.FallbackAPIKey != "" {
		providers = append(providers, summaryService.NewOpenAIProvider(cfg.FallbackAPIKey, cfg.FallbackModel, cfg.FallbackBaseURL))
	}
	if len(providers) == 0 {
		logger.Sugar.Warn("No summary provider API key is set, summarization is disabled")
		return nil
	}
	return summaryService.NewChain(m, providers...)
}
