package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAnthropicURL     = "https://api.anthropic.com/v1/messages"
	anthropicVersion        = "2023-06-01"
	defaultAnthropicTimeout = 20 * time.Second
)

// AnthropicBackend implements Backend against the Anthropic Messages API.
type AnthropicBackend struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

// AnthropicOption configures the AnthropicBackend.
type AnthropicOption func(*AnthropicBackend)

// WithAnthropicURL overrides the default messages endpoint.
func WithAnthropicURL(u string) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.url = u
	}
}

// WithAnthropicHTTPClient overrides the default HTTP client.
func WithAnthropicHTTPClient(hc *http.Client) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.client = hc
	}
}

// NewAnthropicBackend creates an Anthropic-backed estimator.
func NewAnthropicBackend(apiKey, model string, opts ...AnthropicOption) *AnthropicBackend {
	b := &AnthropicBackend{
		apiKey: apiKey,
		model:  model,
		url:    defaultAnthropicURL,
		client: &http.Client{Timeout: defaultAnthropicTimeout},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Estimate asks the model for a single-number price.
func (b *AnthropicBackend) Estimate(ctx context.Context, item ItemDetails) (float64, error) {
	payload := anthropicRequest{
		Model:     b.model,
		MaxTokens: 32,
		Messages: []anthropicMessage{
			{Role: "user", Content: estimatePrompt(item)},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return 0, fmt.Errorf("empty completion")
	}

	return parsePriceFromText(parsed.Content[0].Text)
}
