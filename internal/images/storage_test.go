package images_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberryhq/bluberry/internal/images"
)

func TestBucketClient_Upload(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := images.NewBucketClient(srv.URL, "service-key", "listings", "https://cdn.test/listings")

	url, err := client.Upload(
		context.Background(),
		"ebay-optimized/sub-1/123-0.jpg",
		[]byte("jpeg bytes"),
		"image/jpeg",
	)
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/listings/ebay-optimized/sub-1/123-0.jpg", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, []byte("jpeg bytes"), gotBody)
	assert.Equal(t, "https://cdn.test/listings/ebay-optimized/sub-1/123-0.jpg", url)
}

func TestBucketClient_DefaultPublicURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := images.NewBucketClient(srv.URL, "key", "listings", "")

	url, err := client.Upload(context.Background(), "a/b.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/listings/a/b.jpg", url)
}

func TestBucketClient_UploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"bucket not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := images.NewBucketClient(srv.URL, "key", "missing", "")

	_, err := client.Upload(context.Background(), "a/b.jpg", []byte("x"), "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "bucket not found")
}
