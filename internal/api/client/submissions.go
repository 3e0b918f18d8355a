package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/bluberryhq/bluberry/pkg/types"
)

// submissionList is the paged list response shape.
type submissionList struct {
	Submissions []domain.Submission `json:"submissions"`
	Total       int                 `json:"total"`
}

// ListSubmissions returns submissions, optionally filtered by status.
func (c *Client) ListSubmissions(
	ctx context.Context,
	status string,
	limit, offset int,
) ([]domain.Submission, int, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	path := "/api/v1/submissions"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list submissionList
	if err := c.get(ctx, path, &list); err != nil {
		return nil, 0, err
	}
	return list.Submissions, list.Total, nil
}

// GetSubmission returns a single submission by ID.
func (c *Client) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	var sub domain.Submission
	if err := c.get(ctx, "/api/v1/submissions/"+id, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ApproveSubmission marks a submission ready for listing.
func (c *Client) ApproveSubmission(ctx context.Context, id string) error {
	return c.post(ctx, fmt.Sprintf("/api/v1/submissions/%s/approve", id), nil, nil)
}

// ListingResult is the listing-publication response.
type ListingResult struct {
	Success         bool     `json:"success"`
	ListingID       string   `json:"listingId"`
	EbayOfferID     string   `json:"ebay_offer_id"`
	OptimizedImages []string `json:"optimized_images"`
	Message         string   `json:"message"`
	Warning         string   `json:"warning,omitempty"`
}

// ListOnEbay triggers the listing-publication pipeline for a submission.
func (c *Client) ListOnEbay(ctx context.Context, id string) (*ListingResult, error) {
	var result ListingResult
	if err := c.post(ctx, fmt.Sprintf("/api/v1/submissions/%s/list", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EstimateResult is the price-estimation response.
type EstimateResult struct {
	Price  string `json:"price"`
	Source string `json:"source"`
}

// EstimateSubmission prices a submission and persists the estimate.
func (c *Client) EstimateSubmission(ctx context.Context, id string) (*EstimateResult, error) {
	var result EstimateResult
	if err := c.post(ctx, fmt.Sprintf("/api/v1/submissions/%s/estimate", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
