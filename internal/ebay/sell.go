package ebay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bluberryhq/bluberry/internal/metrics"
)

// APIError is a non-2xx response from the Sell Inventory API. The raw
// response body is preserved so callers can surface the marketplace's own
// error details.
type APIError struct {
	Stage  string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eBay %s failed (status %d): %s", e.Stage, e.Status, e.Body)
}

// SellClient implements SellAPI against /sell/inventory/v1.
type SellClient struct {
	tokens      TokenProvider
	baseURL     string
	marketplace string
	client      *http.Client
	rateLimiter *RateLimiter

	callTimeout time.Duration
	maxRetries  int
	backoff     time.Duration
}

// SellOption configures the SellClient.
type SellOption func(*SellClient)

// WithSellBaseURL overrides the default API base URL.
func WithSellBaseURL(u string) SellOption {
	return func(c *SellClient) {
		c.baseURL = u
	}
}

// WithSellMarketplace overrides the default marketplace.
func WithSellMarketplace(m string) SellOption {
	return func(c *SellClient) {
		c.marketplace = m
	}
}

// WithSellHTTPClient overrides the default HTTP client.
func WithSellHTTPClient(hc *http.Client) SellOption {
	return func(c *SellClient) {
		c.client = hc
	}
}

// WithSellRateLimiter injects a shared rate limiter.
func WithSellRateLimiter(r *RateLimiter) SellOption {
	return func(c *SellClient) {
		c.rateLimiter = r
	}
}

// WithSellCallTimeout bounds each individual API call.
func WithSellCallTimeout(d time.Duration) SellOption {
	return func(c *SellClient) {
		c.callTimeout = d
	}
}

// WithSellRetry sets the retry count and backoff for transient failures.
func WithSellRetry(maxRetries int, backoff time.Duration) SellOption {
	return func(c *SellClient) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// NewSellClient creates a new Sell Inventory API client.
func NewSellClient(tokens TokenProvider, opts ...SellOption) *SellClient {
	c := &SellClient{
		tokens:      tokens,
		baseURL:     defaultAPIBaseURL,
		marketplace: defaultMarketplace,
		client:      &http.Client{Timeout: 30 * time.Second},
		callTimeout: 30 * time.Second,
		maxRetries:  2,
		backoff:     time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateOrReplaceInventoryItem PUTs the inventory item record for a SKU.
// A 204 No Content response indicates success.
func (c *SellClient) CreateOrReplaceInventoryItem(
	ctx context.Context,
	sku string,
	item *InventoryItem,
) error {
	u := fmt.Sprintf("%s/sell/inventory/v1/inventory_item/%s", c.baseURL, sku)

	_, err := c.do(ctx, "inventory_item", http.MethodPut, u, item)
	return err
}

type createOfferResponse struct {
	OfferID string `json:"offerId"`
}

// CreateOffer POSTs a new offer and returns its id.
func (c *SellClient) CreateOffer(ctx context.Context, offer *Offer) (string, error) {
	u := c.baseURL + "/sell/inventory/v1/offer"

	body, err := c.do(ctx, "offer", http.MethodPost, u, offer)
	if err != nil {
		return "", err
	}

	var resp createOfferResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing offer response: %w", err)
	}
	if resp.OfferID == "" {
		return "", fmt.Errorf("offer response missing offerId")
	}
	return resp.OfferID, nil
}

type publishOfferResponse struct {
	ListingID string `json:"listingId"`
}

// PublishOffer POSTs the publish action, making the offer a live listing.
func (c *SellClient) PublishOffer(ctx context.Context, offerID string) (*PublishResult, error) {
	u := fmt.Sprintf("%s/sell/inventory/v1/offer/%s/publish", c.baseURL, offerID)

	body, err := c.do(ctx, "publish", http.MethodPost, u, nil)
	if err != nil {
		return nil, err
	}

	var resp publishOfferResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing publish response: %w", err)
	}
	if resp.ListingID == "" {
		return nil, fmt.Errorf("publish response missing listingId")
	}
	return &PublishResult{ListingID: resp.ListingID}, nil
}

// do executes one Sell API call with a bounded timeout, retrying transport
// errors and 5xx responses. 4xx responses are returned immediately since
// retrying a rejected payload cannot succeed.
func (c *SellClient) do(
	ctx context.Context,
	stage, method, u string,
	payload any,
) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		body, retryable, err := c.doOnce(ctx, stage, method, u, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *SellClient) doOnce(
	ctx context.Context,
	stage, method, u string,
	payload any,
) (body []byte, retryable bool, err error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, false, fmt.Errorf("rate limit: %w", err)
		}
		metrics.EbayDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}
	metrics.EbayAPICallsTotal.WithLabelValues(stage).Inc()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("getting auth token: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var reqBody io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, false, fmt.Errorf("encoding %s payload: %w", stage, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(callCtx, method, u, reqBody)
	if err != nil {
		return nil, false, fmt.Errorf("creating %s request: %w", stage, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Language", "en-US")
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("executing %s request: %w", stage, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("reading %s response: %w", stage, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Stage: stage, Status: resp.StatusCode, Body: string(respBody)}
		return nil, resp.StatusCode >= 500, apiErr
	}
	return respBody, false, nil
}
