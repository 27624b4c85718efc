package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ringkasan/pkg/retry"
)

const DefaultOpenAIBaseURL = "https://api.openai.com"

// OpenAIProvider calls any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
	client    *http.Client
}

func NewOpenAIProvider(apiKey, model, baseURL string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return &OpenAIProvider{
		apiKey:    apiKey,
		model:     model,
		baseURL:   strings.TrimRight(baseURL, "/"),
		maxTokens: defaultMaxTokens,
		client:    newHTTPClient(),
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	var apiResp chatResponse
	if err := postJSON(ctx, p.client, p.baseURL+"/v1/chat/completions", headers, reqBody, &apiResp); err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(apiResp.Choices) == 0 || strings.TrimSpace(apiResp.Choices[0].Message.Content) == "" {
		return "", retry.Permanent(fmt.Errorf("openai: empty response"))
	}
	return apiResp.Choices[0].Message.Content, nil
}
