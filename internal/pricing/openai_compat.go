package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAICompatBackend implements Backend against any OpenAI-compatible
// chat completions endpoint, which covers self-hosted and proxy setups.
type OpenAICompatBackend struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// OpenAICompatOption configures the OpenAICompatBackend.
type OpenAICompatOption func(*OpenAICompatBackend)

// WithOpenAICompatHTTPClient overrides the default HTTP client.
func WithOpenAICompatHTTPClient(hc *http.Client) OpenAICompatOption {
	return func(b *OpenAICompatBackend) {
		b.client = hc
	}
}

// NewOpenAICompatBackend creates an estimator for the given endpoint.
// endpoint is the API base, e.g. "https://api.openai.com/v1".
func NewOpenAICompatBackend(endpoint, apiKey, model string, opts ...OpenAICompatOption) *OpenAICompatBackend {
	b := &OpenAICompatBackend{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
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

// Estimate asks the model for a single-number price.
func (b *OpenAICompatBackend) Estimate(ctx context.Context, item ItemDetails) (float64, error) {
	payload := chatRequest{
		Model: b.model,
		Messages: []chatMessage{
			{Role: "user", Content: estimatePrompt(item)},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, b.endpoint+"/chat/completions", bytes.NewReader(data),
	)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
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
		return 0, fmt.Errorf("completion error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return 0, fmt.Errorf("empty completion")
	}

	return parsePriceFromText(parsed.Choices[0].Message.Content)
}
