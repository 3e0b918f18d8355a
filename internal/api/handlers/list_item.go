package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bluberryhq/bluberry/internal/ebay"
	"github.com/bluberryhq/bluberry/internal/listing"
	"github.com/bluberryhq/bluberry/internal/notify"
	"github.com/bluberryhq/bluberry/internal/store"
)

// Lister runs one listing-publication attempt for a submission.
type Lister interface {
	List(ctx context.Context, id string) (*listing.Result, error)
}

// ListItemHandler handles the eBay listing-publication endpoint.
type ListItemHandler struct {
	lister   Lister
	store    SubmissionsProvider
	notifier notify.Notifier
	log      *slog.Logger
}

// NewListItemHandler creates a new ListItemHandler.
func NewListItemHandler(
	lister Lister,
	s SubmissionsProvider,
	n notify.Notifier,
	log *slog.Logger,
) *ListItemHandler {
	return &ListItemHandler{lister: lister, store: s, notifier: n, log: log}
}

// ListItemInput is the path input for a listing attempt.
type ListItemInput struct {
	ID string `path:"id" doc:"Submission id"`
}

// ListItemOutput is the successful listing response.
type ListItemOutput struct {
	Body struct {
		Success         bool     `json:"success" example:"true"`
		ListingID       string   `json:"listingId" doc:"eBay listing id"`
		EbayListingID   string   `json:"ebay_listing_id"`
		EbayOfferID     string   `json:"ebay_offer_id"`
		OptimizedImages []string `json:"optimized_images"`
		Message         string   `json:"message" example:"Item listed successfully on eBay"`
		Warning         string   `json:"warning,omitempty" doc:"Set when the listing published but the local status write failed"`
	}
}

// ListItem publishes a submission as a live eBay listing.
func (h *ListItemHandler) ListItem(
	ctx context.Context,
	input *ListItemInput,
) (*ListItemOutput, error) {
	result, err := h.lister.List(ctx, input.ID)
	if err != nil {
		return nil, h.mapError(err)
	}

	// Post-publish notification is fire and forget.
	if sub, gerr := h.store.GetSubmission(ctx, input.ID); gerr == nil {
		if nerr := h.notifier.SubmissionListed(ctx, sub, result.ListingID); nerr != nil {
			h.log.Warn("listed notification failed", "submission_id", input.ID, "error", nerr)
		}
	}

	resp := &ListItemOutput{}
	resp.Body.Success = true
	resp.Body.ListingID = result.ListingID
	resp.Body.EbayListingID = result.ListingID
	resp.Body.EbayOfferID = result.OfferID
	resp.Body.OptimizedImages = result.OptimizedImages
	resp.Body.Message = "Item listed successfully on eBay"
	resp.Body.Warning = result.Warning
	return resp, nil
}

// mapError translates pipeline errors to HTTP status codes. The raw
// marketplace response body is passed through for operator diagnosis.
func (h *ListItemHandler) mapError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return huma.Error404NotFound("submission not found")
	case errors.Is(err, listing.ErrListingConflict):
		return huma.Error409Conflict("a listing attempt is already in progress for this submission")
	case errors.Is(err, listing.ErrMissingPolicies):
		return huma.Error500InternalServerError("marketplace policy configuration is incomplete")
	}

	var apiErr *ebay.APIError
	if errors.As(err, &apiErr) {
		return huma.Error500InternalServerError(
			"eBay " + apiErr.Stage + " call failed: " + apiErr.Body,
		)
	}
	return huma.Error500InternalServerError("listing failed: " + err.Error())
}

// RegisterListItemRoutes registers the listing endpoint with the Huma API.
func RegisterListItemRoutes(api huma.API, h *ListItemHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-item-on-ebay",
		Method:      http.MethodPost,
		Path:        "/api/v1/submissions/{id}/list",
		Summary:     "Publish a submission as an eBay listing",
		Description: "Runs the full publication pipeline: category resolution, " +
			"condition mapping, aspect auto-fill, image optimization, then the " +
			"inventory/offer/publish sequence.",
		Tags: []string{"listing"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, h.ListItem)
}
