package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ringkasan/internal/summary/model"
	"ringkasan/pkg/retry"
)

const (
	defaultMaxTokens = 2048
	requestTimeout   = 120 * time.Second
	maxErrorBody     = 512
)

// Provider turns a prompt into a completion.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// BuildPrompt combines the instruction and the transcript into one prompt.
func BuildPrompt(content, instruction string) string {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		instruction = model.DefaultInstruction
	}

	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString("\n\nTranscript:\n")
	sb.WriteString(strings.TrimSpace(content))
	sb.WriteString("\n\nRespond with the summary only, without any preamble.")
	return sb.String()
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// postJSON sends body to url and decodes a 2xx response into out. Statuses
// that are not worth retrying come back as retry.Permanent errors.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return retry.Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(respBody)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		statusErr := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(snippet))
		if !retry.HTTPStatusRetryable(resp.StatusCode) {
			return retry.Permanent(statusErr)
		}
		return statusErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return retry.Permanent(fmt.Errorf("failed to parse response: %w", err))
	}
	return nil
}
