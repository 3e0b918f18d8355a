package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bluberryhq/bluberry/internal/pricing"
	"github.com/bluberryhq/bluberry/internal/store"
	domain "github.com/bluberryhq/bluberry/pkg/types"
)

// PriceEstimator runs the pricing cascade.
type PriceEstimator interface {
	Estimate(ctx context.Context, item pricing.ItemDetails) pricing.Estimate
}

// EstimateProvider defines the store methods the estimate handler needs.
type EstimateProvider interface {
	GetSubmission(ctx context.Context, id string) (*domain.Submission, error)
	UpdateEstimate(ctx context.Context, id string, price string, source string) error
}

// EstimateHandler handles price estimation requests.
type EstimateHandler struct {
	estimator PriceEstimator
	store     EstimateProvider
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(e PriceEstimator, s EstimateProvider) *EstimateHandler {
	return &EstimateHandler{estimator: e, store: s}
}

// EstimateInput is the path input for an estimate request.
type EstimateInput struct {
	ID string `path:"id" doc:"Submission id"`
}

// EstimateOutput is the estimate response.
type EstimateOutput struct {
	Body struct {
		Price  string `json:"price" example:"85.00" doc:"Estimated resale price in USD"`
		Source string `json:"source" enum:"ai,comparables,heuristic" doc:"Cascade layer that produced the price"`
	}
}

// Estimate prices a submission and persists the result.
func (h *EstimateHandler) Estimate(
	ctx context.Context,
	input *EstimateInput,
) (*EstimateOutput, error) {
	sub, err := h.store.GetSubmission(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("submission not found")
		}
		return nil, huma.Error500InternalServerError("fetching submission: " + err.Error())
	}

	est := h.estimator.Estimate(ctx, pricing.ItemDetails{
		Name:        sub.Name,
		Description: sub.Description,
		Condition:   sub.Condition,
		Issues:      sub.Issues,
	})

	price := fmt.Sprintf("%.2f", est.Price)
	if err := h.store.UpdateEstimate(ctx, input.ID, price, est.Source); err != nil {
		return nil, huma.Error500InternalServerError("persisting estimate: " + err.Error())
	}

	resp := &EstimateOutput{}
	resp.Body.Price = price
	resp.Body.Source = est.Source
	return resp, nil
}

// RegisterEstimateRoutes registers the estimate endpoint with the Huma API.
func RegisterEstimateRoutes(api huma.API, h *EstimateHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "estimate-submission",
		Method:      http.MethodPost,
		Path:        "/api/v1/submissions/{id}/estimate",
		Summary:     "Estimate a submission's resale price",
		Description: "Runs the estimation cascade: AI completion, then active " +
			"marketplace comparables, then a static heuristic.",
		Tags:   []string{"pricing"},
		Errors: []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Estimate)
}
