// Package images prepares submission photos for the marketplace:
// crop-to-cover square resize, JPEG re-encode, and re-upload to object
// storage under a listing-scoped path.
package images

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ObjectStorage uploads optimized image bytes and returns a public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// BucketClient implements ObjectStorage against a Supabase-style storage
// REST API: objects are created with an authenticated POST and served
// from a public URL prefix.
type BucketClient struct {
	endpoint  string
	apiKey    string
	bucket    string
	publicURL string
	client    *http.Client
}

// BucketOption configures the BucketClient.
type BucketOption func(*BucketClient)

// WithBucketHTTPClient overrides the default HTTP client.
func WithBucketHTTPClient(hc *http.Client) BucketOption {
	return func(c *BucketClient) {
		c.client = hc
	}
}

// NewBucketClient creates a storage client for one bucket. publicURL is
// the prefix public objects are served from; when empty, the endpoint's
// public object path is used.
func NewBucketClient(endpoint, apiKey, bucket, publicURL string, opts ...BucketOption) *BucketClient {
	c := &BucketClient{
		endpoint:  strings.TrimRight(endpoint, "/"),
		apiKey:    apiKey,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	if c.publicURL == "" {
		c.publicURL = c.endpoint + "/storage/v1/object/public/" + bucket
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload stores the object and returns its public URL. Existing objects
// at the same path are overwritten.
func (c *BucketClient) Upload(
	ctx context.Context,
	path string,
	data []byte,
	contentType string,
) (string, error) {
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.endpoint, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024)) //nolint:errcheck // best-effort diagnostics
		return "", fmt.Errorf("storage upload failed (status %d): %s", resp.StatusCode, string(body))
	}

	return c.publicURL + "/" + path, nil
}
