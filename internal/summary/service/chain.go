package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ringkasan/internal/summary/model"
	"ringkasan/pkg/apperror"
	"ringkasan/pkg/logger"
	"ringkasan/pkg/metrics"
	"ringkasan/pkg/retry"
)

var errNoProvider = errors.New("no summary provider configured")

// Chain asks each provider in turn, retrying transient failures, and returns
// the first completion.
type Chain struct {
	Providers []Provider
	Retry     retry.Config
	Metrics   *metrics.Metrics
}

func NewChain(m *metrics.Metrics, providers ...Provider) *Chain {
	return &Chain{Providers: providers, Retry: retry.DefaultConfig(), Metrics: m}
}

// Summarize fails with UPSTREAM_FAILURE when every provider fails.
func (c *Chain) Summarize(ctx context.Context, content, instruction string) (model.Result, error) {
	if len(c.Providers) == 0 {
		return model.Result{}, apperror.UpstreamFailure(errNoProvider, "summarization is unavailable")
	}

	start := time.Now()
	defer func() { c.Metrics.SummaryDuration(time.Since(start)) }()

	prompt := BuildPrompt(content, instruction)

	var errs []error
	for _, p := range c.Providers {
		var text string
		err := retry.WithBackoff(ctx, c.Retry, func(ctx context.Context) error {
			var err error
			text, err = p.Complete(ctx, prompt)
			return err
		})
		c.Metrics.SummaryAttempt(p.Name(), err)
		if err == nil {
			return model.Result{Text: text, Provider: p.Name()}, nil
		}

		logger.Sugar.Warnf("Summary provider %s failed: %v", p.Name(), err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return model.Result{}, apperror.UpstreamFailure(errors.Join(errs...), "all summary providers failed")
}
