// Package handlers implements HTTP handlers for the bluberry API.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/bluberryhq/bluberry/internal/notify"
	"github.com/bluberryhq/bluberry/internal/store"
	domain "github.com/bluberryhq/bluberry/pkg/types"
)

// SubmissionsProvider defines the store methods the submissions handler needs.
type SubmissionsProvider interface {
	CreateSubmission(ctx context.Context, s *domain.Submission) error
	GetSubmission(ctx context.Context, id string) (*domain.Submission, error)
	ListSubmissions(ctx context.Context, opts *store.SubmissionQuery) ([]domain.Submission, int, error)
	SetStatus(ctx context.Context, id string, status domain.Status) error
}

// SubmissionsHandler handles submission intake and review operations.
type SubmissionsHandler struct {
	store    SubmissionsProvider
	notifier notify.Notifier
	log      *slog.Logger
}

// NewSubmissionsHandler creates a new SubmissionsHandler.
func NewSubmissionsHandler(s SubmissionsProvider, n notify.Notifier, log *slog.Logger) *SubmissionsHandler {
	return &SubmissionsHandler{store: s, notifier: n, log: log}
}

// CreateSubmissionInput is the intake request body.
type CreateSubmissionInput struct {
	Body struct {
		Name        string   `json:"name" minLength:"1" doc:"Item name"`
		Description string   `json:"description" minLength:"1" doc:"Item description"`
		Condition   string   `json:"condition" doc:"Free-text condition, e.g. like-new"`
		Issues      string   `json:"issues,omitempty" doc:"Known issues, defaults to None"`
		ImageURLs   []string `json:"image_urls,omitempty" doc:"Photo URLs"`
		Email       string   `json:"email,omitempty" format:"email"`
		Phone       string   `json:"phone,omitempty"`
		Address     string   `json:"address,omitempty"`
		PickupNotes string   `json:"pickup_notes,omitempty"`
	}
}

// CreateSubmissionOutput returns the created submission.
type CreateSubmissionOutput struct {
	Status int
	Body   domain.Submission
}

// Create handles intake of a new submission.
func (h *SubmissionsHandler) Create(
	ctx context.Context,
	input *CreateSubmissionInput,
) (*CreateSubmissionOutput, error) {
	issues := input.Body.Issues
	if issues == "" {
		issues = "None"
	}

	sub := &domain.Submission{
		ID:          uuid.NewString(),
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Condition:   input.Body.Condition,
		Issues:      issues,
		ImageList:   input.Body.ImageURLs,
		Email:       input.Body.Email,
		Phone:       input.Body.Phone,
		Address:     input.Body.Address,
		PickupNotes: input.Body.PickupNotes,
		Status:      domain.StatusPending,
	}

	if err := h.store.CreateSubmission(ctx, sub); err != nil {
		return nil, huma.Error500InternalServerError("creating submission: " + err.Error())
	}

	// Intake confirmation is fire and forget.
	if err := h.notifier.SubmissionReceived(ctx, sub); err != nil {
		h.log.Warn("intake notification failed", "submission_id", sub.ID, "error", err)
	}

	return &CreateSubmissionOutput{Status: http.StatusCreated, Body: *sub}, nil
}

// ListSubmissionsInput defines list filters.
type ListSubmissionsInput struct {
	Status string `query:"status" enum:"pending,approved,listing,listed" required:"false" doc:"Filter by lifecycle status"`
	Limit  int    `query:"limit" minimum:"1" maximum:"500" required:"false" doc:"Page size, default 50"`
	Offset int    `query:"offset" minimum:"0" required:"false" doc:"Page offset"`
}

// ListSubmissionsOutput is the paged submission list.
type ListSubmissionsOutput struct {
	Body struct {
		Submissions []domain.Submission `json:"submissions"`
		Total       int                 `json:"total" doc:"Total rows matching the filter"`
	}
}

// List returns submissions for the admin dashboard.
func (h *SubmissionsHandler) List(
	ctx context.Context,
	input *ListSubmissionsInput,
) (*ListSubmissionsOutput, error) {
	query := &store.SubmissionQuery{Limit: input.Limit, Offset: input.Offset}
	if input.Status != "" {
		status := domain.Status(input.Status)
		query.Status = &status
	}

	subs, total, err := h.store.ListSubmissions(ctx, query)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing submissions: " + err.Error())
	}
	if subs == nil {
		subs = []domain.Submission{}
	}

	resp := &ListSubmissionsOutput{}
	resp.Body.Submissions = subs
	resp.Body.Total = total
	return resp, nil
}

// GetSubmissionInput is the path input for a single submission.
type GetSubmissionInput struct {
	ID string `path:"id" doc:"Submission id"`
}

// GetSubmissionOutput returns one submission.
type GetSubmissionOutput struct {
	Body domain.Submission
}

// Get returns a single submission by id.
func (h *SubmissionsHandler) Get(
	ctx context.Context,
	input *GetSubmissionInput,
) (*GetSubmissionOutput, error) {
	sub, err := h.store.GetSubmission(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("submission not found")
		}
		return nil, huma.Error500InternalServerError("fetching submission: " + err.Error())
	}
	return &GetSubmissionOutput{Body: *sub}, nil
}

// ApproveOutput is the approval response.
type ApproveOutput struct {
	Body StatusResponse
}

// Approve marks a submission ready for listing.
func (h *SubmissionsHandler) Approve(
	ctx context.Context,
	input *GetSubmissionInput,
) (*ApproveOutput, error) {
	if err := h.store.SetStatus(ctx, input.ID, domain.StatusApproved); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("submission not found")
		}
		return nil, huma.Error500InternalServerError("approving submission: " + err.Error())
	}
	return &ApproveOutput{Body: StatusResponse{Status: "approved"}}, nil
}

// RegisterSubmissionRoutes registers the public intake endpoints with the
// Huma API.
func RegisterSubmissionRoutes(api huma.API, h *SubmissionsHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-submission",
		Method:        http.MethodPost,
		Path:          "/api/v1/submissions",
		Summary:       "Submit an item for resale",
		Tags:          []string{"submissions"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "get-submission",
		Method:      http.MethodGet,
		Path:        "/api/v1/submissions/{id}",
		Summary:     "Get a submission",
		Tags:        []string{"submissions"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Get)
}

// RegisterSubmissionAdminRoutes registers the review endpoints, mounted
// behind the admin password guard.
func RegisterSubmissionAdminRoutes(api huma.API, h *SubmissionsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-submissions",
		Method:      http.MethodGet,
		Path:        "/api/v1/submissions",
		Summary:     "List submissions",
		Tags:        []string{"submissions"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "approve-submission",
		Method:      http.MethodPost,
		Path:        "/api/v1/submissions/{id}/approve",
		Summary:     "Approve a submission for listing",
		Tags:        []string{"submissions"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Approve)
}
