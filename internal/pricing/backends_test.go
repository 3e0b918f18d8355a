package pricing_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberryhq/bluberry/internal/pricing"
)

func TestAnthropicBackend_Estimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-sonnet-4-5", req["model"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"85.50"}]}`))
	}))
	defer srv.Close()

	backend := pricing.NewAnthropicBackend("test-key", "claude-sonnet-4-5",
		pricing.WithAnthropicURL(srv.URL))

	price, err := backend.Estimate(context.Background(), testItem())
	require.NoError(t, err)
	assert.InDelta(t, 85.50, price, 0.001)
}

func TestAnthropicBackend_ProseWrappedNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"type":"text","text":"I would estimate around $120 for this."}]}`))
	}))
	defer srv.Close()

	backend := pricing.NewAnthropicBackend("k", "m", pricing.WithAnthropicURL(srv.URL))

	price, err := backend.Estimate(context.Background(), testItem())
	require.NoError(t, err)
	assert.InDelta(t, 120, price, 0.001)
}

func TestAnthropicBackend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"overloaded_error"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	backend := pricing.NewAnthropicBackend("k", "m", pricing.WithAnthropicURL(srv.URL))

	_, err := backend.Estimate(context.Background(), testItem())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestOpenAICompatBackend_Estimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"42"}}]}`))
	}))
	defer srv.Close()

	backend := pricing.NewOpenAICompatBackend(srv.URL+"/v1", "test-key", "gpt-4o-mini")

	price, err := backend.Estimate(context.Background(), testItem())
	require.NoError(t, err)
	assert.InDelta(t, 42, price, 0.001)
}

func TestOpenAICompatBackend_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	backend := pricing.NewOpenAICompatBackend(srv.URL, "k", "m")

	_, err := backend.Estimate(context.Background(), testItem())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion")
}
