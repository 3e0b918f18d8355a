package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	// Decoders for the formats submissions actually arrive in.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/bluberryhq/bluberry/internal/metrics"
)

// Marketplace thumbnail requirements: square, at least 500px, baseline
// JPEG. 1600 is the size eBay recommends for zoom support.
const (
	targetSize   = 1600
	jpegQuality  = 90
	maxImageSize = 20 << 20 // refuse downloads over 20 MiB
)

// Preparer downloads, resizes, and re-uploads submission images. One
// goroutine per image; a failed image is dropped from the batch and the
// relative order of successes is preserved.
type Preparer struct {
	storage ObjectStorage
	client  *http.Client
	log     *slog.Logger
	nowFunc func() time.Time
}

// PreparerOption configures the Preparer.
type PreparerOption func(*Preparer)

// WithPreparerHTTPClient overrides the download HTTP client.
func WithPreparerHTTPClient(hc *http.Client) PreparerOption {
	return func(p *Preparer) {
		p.client = hc
	}
}

// WithPreparerNowFunc overrides the time function for testing.
func WithPreparerNowFunc(f func() time.Time) PreparerOption {
	return func(p *Preparer) {
		p.nowFunc = f
	}
}

// NewPreparer creates an image preparer backed by the given storage.
func NewPreparer(storage ObjectStorage, log *slog.Logger, opts ...PreparerOption) *Preparer {
	p := &Preparer{
		storage: storage,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare optimizes the submission's images concurrently and returns the
// new public URLs in input order, with failed slots dropped. An empty
// result with a nil error means every image failed; the caller decides
// whether to fall back to the originals.
func (p *Preparer) Prepare(ctx context.Context, submissionID string, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	timestamp := p.nowFunc().Unix()
	results := make([]string, len(urls))

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(idx int, src string) {
			defer wg.Done()

			path := fmt.Sprintf("ebay-optimized/%s/%d-%d.jpg", submissionID, timestamp, idx)
			publicURL, err := p.prepareOne(ctx, src, path)
			if err != nil {
				metrics.ImageFailuresTotal.Inc()
				p.log.Warn("image preparation failed, dropping from batch",
					"submission_id", submissionID, "url", src, "error", err)
				return
			}
			metrics.ImagesPreparedTotal.Inc()
			results[idx] = publicURL
		}(i, u)
	}
	wg.Wait()

	prepared := make([]string, 0, len(urls))
	for _, r := range results {
		if r != "" {
			prepared = append(prepared, r)
		}
	}
	return prepared, nil
}

func (p *Preparer) prepareOne(ctx context.Context, src, path string) (string, error) {
	data, err := p.download(ctx, src)
	if err != nil {
		return "", fmt.Errorf("downloading: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding: %w", err)
	}

	optimized, err := encodeSquareJPEG(img)
	if err != nil {
		return "", fmt.Errorf("encoding: %w", err)
	}

	publicURL, err := p.storage.Upload(ctx, path, optimized, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("uploading: %w", err)
	}
	return publicURL, nil
}

func (p *Preparer) download(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageSize)
	}
	return data, nil
}

// encodeSquareJPEG crops the image to a centered square covering the
// full target area, scales it to targetSize, and encodes baseline JPEG.
// Cover cropping, not letterboxing: marketplace thumbnails reject
// padded borders.
func encodeSquareJPEG(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}

	// Largest centered square inside the source.
	side := w
	if h < side {
		side = h
	}
	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
