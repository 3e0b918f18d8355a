package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bluberryhq/bluberry/internal/metrics"
)

// BrowseClient implements BrowseAPI against /buy/browse/v1. It is used to
// find sold-alike comparables when estimating a resale price.
type BrowseClient struct {
	tokens      TokenProvider
	baseURL     string
	marketplace string
	client      *http.Client
	rateLimiter *RateLimiter
}

// BrowseOption configures the BrowseClient.
type BrowseOption func(*BrowseClient)

// WithBrowseBaseURL overrides the default API base URL.
func WithBrowseBaseURL(u string) BrowseOption {
	return func(c *BrowseClient) {
		c.baseURL = u
	}
}

// WithBrowseMarketplace overrides the default marketplace.
func WithBrowseMarketplace(m string) BrowseOption {
	return func(c *BrowseClient) {
		c.marketplace = m
	}
}

// WithBrowseHTTPClient overrides the default HTTP client.
func WithBrowseHTTPClient(hc *http.Client) BrowseOption {
	return func(c *BrowseClient) {
		c.client = hc
	}
}

// WithBrowseRateLimiter injects a shared rate limiter.
func WithBrowseRateLimiter(r *RateLimiter) BrowseOption {
	return func(c *BrowseClient) {
		c.rateLimiter = r
	}
}

// NewBrowseClient creates a new Browse API client.
func NewBrowseClient(tokens TokenProvider, opts ...BrowseOption) *BrowseClient {
	c := &BrowseClient{
		tokens:      tokens,
		baseURL:     defaultAPIBaseURL,
		marketplace: defaultMarketplace,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type browseSearchResponse struct {
	Total        int `json:"total"`
	ItemSummaries []struct {
		ItemID string `json:"itemId"`
		Title  string `json:"title"`
		Price  struct {
			Value    string `json:"value"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"itemSummaries"`
}

// Search queries the Browse item_summary endpoint.
func (c *BrowseClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.EbayDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}
	metrics.EbayAPICallsTotal.WithLabelValues("browse_search").Inc()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("limit", strconv.Itoa(limit))

	u := c.baseURL + "/buy/browse/v1/item_summary/search?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"eBay browse_search error (status %d): %s",
			resp.StatusCode, string(body),
		)
	}

	var wire browseSearchResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	out := &SearchResponse{Total: wire.Total}
	for _, item := range wire.ItemSummaries {
		out.Items = append(out.Items, SearchItem{
			ItemID: item.ItemID,
			Title:  item.Title,
			Price: ItemPrice{
				Value:    item.Price.Value,
				Currency: item.Price.Currency,
			},
		})
	}
	return out, nil
}
