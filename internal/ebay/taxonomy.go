package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bluberryhq/bluberry/internal/metrics"
)

const (
	defaultAPIBaseURL  = "https://api.ebay.com"
	defaultMarketplace = "EBAY_US"
)

// TaxonomyClient implements TaxonomyAPI against the eBay Commerce Taxonomy
// and Sell Metadata APIs.
type TaxonomyClient struct {
	tokens      TokenProvider
	baseURL     string
	marketplace string
	client      *http.Client
	rateLimiter *RateLimiter
}

// TaxonomyOption configures the TaxonomyClient.
type TaxonomyOption func(*TaxonomyClient)

// WithTaxonomyBaseURL overrides the default API base URL.
func WithTaxonomyBaseURL(u string) TaxonomyOption {
	return func(c *TaxonomyClient) {
		c.baseURL = u
	}
}

// WithTaxonomyMarketplace overrides the default marketplace.
func WithTaxonomyMarketplace(m string) TaxonomyOption {
	return func(c *TaxonomyClient) {
		c.marketplace = m
	}
}

// WithTaxonomyHTTPClient overrides the default HTTP client.
func WithTaxonomyHTTPClient(hc *http.Client) TaxonomyOption {
	return func(c *TaxonomyClient) {
		c.client = hc
	}
}

// WithTaxonomyRateLimiter injects a shared rate limiter.
func WithTaxonomyRateLimiter(r *RateLimiter) TaxonomyOption {
	return func(c *TaxonomyClient) {
		c.rateLimiter = r
	}
}

// NewTaxonomyClient creates a new taxonomy client.
func NewTaxonomyClient(tokens TokenProvider, opts ...TaxonomyOption) *TaxonomyClient {
	c := &TaxonomyClient{
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

type defaultTreeResponse struct {
	CategoryTreeID string `json:"categoryTreeId"`
}

type suggestionsResponse struct {
	CategorySuggestions []struct {
		Category struct {
			CategoryID   string `json:"categoryId"`
			CategoryName string `json:"categoryName"`
		} `json:"category"`
		Relevancy json.Number `json:"relevancy"`
	} `json:"categorySuggestions"`
}

type aspectsResponse struct {
	Aspects []struct {
		LocalizedAspectName string `json:"localizedAspectName"`
		AspectConstraint    struct {
			AspectRequired bool `json:"aspectRequired"`
		} `json:"aspectConstraint"`
		AspectValues []struct {
			LocalizedValue string `json:"localizedValue"`
		} `json:"aspectValues"`
	} `json:"aspects"`
}

type conditionPoliciesResponse struct {
	ItemConditionPolicies []struct {
		CategoryID     string `json:"categoryId"`
		ItemConditions []struct {
			ConditionID          string `json:"conditionId"`
			ConditionDescription string `json:"conditionDescription"`
		} `json:"itemConditions"`
	} `json:"itemConditionPolicies"`
}

// DefaultCategoryTreeID returns the marketplace's default taxonomy tree id.
func (c *TaxonomyClient) DefaultCategoryTreeID(ctx context.Context) (string, error) {
	u := fmt.Sprintf(
		"%s/commerce/taxonomy/v1/get_default_category_tree_id?marketplace_id=%s",
		c.baseURL, url.QueryEscape(c.marketplace),
	)

	var resp defaultTreeResponse
	if err := c.getJSON(ctx, "taxonomy_tree", u, &resp); err != nil {
		return "", err
	}
	if resp.CategoryTreeID == "" {
		return "", fmt.Errorf("taxonomy response missing categoryTreeId")
	}
	return resp.CategoryTreeID, nil
}

// CategorySuggestions returns candidate categories for a query, in the
// order the taxonomy service returned them.
func (c *TaxonomyClient) CategorySuggestions(
	ctx context.Context,
	treeID, query string,
) ([]CategorySuggestion, error) {
	u := fmt.Sprintf(
		"%s/commerce/taxonomy/v1/category_tree/%s/get_category_suggestions?q=%s",
		c.baseURL, url.PathEscape(treeID), url.QueryEscape(query),
	)

	var resp suggestionsResponse
	if err := c.getJSON(ctx, "category_suggestions", u, &resp); err != nil {
		return nil, err
	}

	suggestions := make([]CategorySuggestion, 0, len(resp.CategorySuggestions))
	for _, s := range resp.CategorySuggestions {
		relevancy, _ := s.Relevancy.Float64() //nolint:errcheck // missing relevancy scores as 0
		suggestions = append(suggestions, CategorySuggestion{
			CategoryID:   s.Category.CategoryID,
			CategoryName: s.Category.CategoryName,
			Relevancy:    relevancy,
		})
	}
	return suggestions, nil
}

// AspectsForCategory returns all aspects the marketplace defines for a
// category, with their required flag and allowed values.
func (c *TaxonomyClient) AspectsForCategory(
	ctx context.Context,
	treeID, categoryID string,
) ([]Aspect, error) {
	u := fmt.Sprintf(
		"%s/commerce/taxonomy/v1/category_tree/%s/get_item_aspects_for_category?category_id=%s",
		c.baseURL, url.PathEscape(treeID), url.QueryEscape(categoryID),
	)

	var resp aspectsResponse
	if err := c.getJSON(ctx, "category_aspects", u, &resp); err != nil {
		return nil, err
	}

	aspects := make([]Aspect, 0, len(resp.Aspects))
	for _, a := range resp.Aspects {
		values := make([]string, 0, len(a.AspectValues))
		for _, v := range a.AspectValues {
			values = append(values, v.LocalizedValue)
		}
		aspects = append(aspects, Aspect{
			Name:     a.LocalizedAspectName,
			Required: a.AspectConstraint.AspectRequired,
			Values:   values,
		})
	}
	return aspects, nil
}

// AllowedConditions returns the condition enum values a category accepts.
func (c *TaxonomyClient) AllowedConditions(
	ctx context.Context,
	categoryID string,
) ([]AllowedCondition, error) {
	u := fmt.Sprintf(
		"%s/sell/metadata/v1/marketplace/%s/get_item_condition_policies?filter=categoryIds:%%7B%s%%7D",
		c.baseURL, url.PathEscape(c.marketplace), url.QueryEscape(categoryID),
	)

	var resp conditionPoliciesResponse
	if err := c.getJSON(ctx, "condition_policies", u, &resp); err != nil {
		return nil, err
	}

	var conditions []AllowedCondition
	for _, policy := range resp.ItemConditionPolicies {
		if policy.CategoryID != categoryID {
			continue
		}
		for _, cond := range policy.ItemConditions {
			conditions = append(conditions, AllowedCondition{
				ID:          cond.ConditionID,
				Description: cond.ConditionDescription,
			})
		}
	}
	return conditions, nil
}

func (c *TaxonomyClient) getJSON(ctx context.Context, endpoint, u string, out any) error {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
		metrics.EbayDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}
	metrics.EbayAPICallsTotal.WithLabelValues(endpoint).Inc()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("getting auth token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("Content-Language", "en-US")
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(
			"eBay %s error (status %d): %s",
			endpoint, resp.StatusCode, string(body),
		)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing %s response: %w", endpoint, err)
	}
	return nil
}
