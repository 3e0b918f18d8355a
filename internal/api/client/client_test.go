package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bluberryhq/bluberry/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, _, err := c.ListSubmissions(context.Background(), "", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, _, err := c.ListSubmissions(context.Background(), "", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
}

func TestClient_ListSubmissions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/submissions", r.URL.Path)
		assert.Equal(t, "approved", r.URL.Query().Get("status"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(submissionList{
			Submissions: []domain.Submission{{ID: "sub-1", Name: "Headphones"}},
			Total:       1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	subs, total, err := c.ListSubmissions(context.Background(), "approved", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, subs, 1)
	assert.Equal(t, "sub-1", subs[0].ID)
}

func TestClient_GetSubmission(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/submissions/sub-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.Submission{ID: "sub-1", Name: "Blender"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	sub, err := c.GetSubmission(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "Blender", sub.Name)
}

func TestClient_ApproveSubmission(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/submissions/sub-1/approve", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "approved"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.ApproveSubmission(context.Background(), "sub-1")
	require.NoError(t, err)
}

func TestClient_ListOnEbay(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/submissions/sub-1/list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ListingResult{
			Success:   true,
			ListingID: "110587858",
			Message:   "Item listed successfully on eBay",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.ListOnEbay(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "110587858", result.ListingID)
}

func TestClient_EstimateSubmission(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/submissions/sub-1/estimate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(EstimateResult{Price: "85.00", Source: "ai"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.EstimateSubmission(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "85.00", result.Price)
	assert.Equal(t, "ai", result.Source)
}

func TestClient_AdminPasswordHeader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s3cret", r.Header.Get(adminPasswordHeader))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]domain.JobRun{})
	}))
	defer srv.Close()

	c := New(srv.URL, WithAdminPassword("s3cret"))
	_, err := c.ListJobs(context.Background())
	require.NoError(t, err)
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := New("http://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)
}
