package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bluberryhq/bluberry/internal/store"
	"github.com/bluberryhq/bluberry/internal/verify"
)

// VerifyProvider defines the store method the verification handler needs.
type VerifyProvider interface {
	SetPhoneVerified(ctx context.Context, id string) error
}

// VerifyHandler handles phone verification.
type VerifyHandler struct {
	verifier verify.Verifier
	store    VerifyProvider
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(v verify.Verifier, s VerifyProvider) *VerifyHandler {
	return &VerifyHandler{verifier: v, store: s}
}

// StartVerificationInput is the code-issue request body.
type StartVerificationInput struct {
	Body struct {
		Phone string `json:"phone" minLength:"1" doc:"Phone number in E.164 format"`
	}
}

// StartVerificationOutput acknowledges the SMS send.
type StartVerificationOutput struct {
	Body StatusResponse
}

// Start sends a verification code to the phone number.
func (h *VerifyHandler) Start(
	ctx context.Context,
	input *StartVerificationInput,
) (*StartVerificationOutput, error) {
	if err := h.verifier.Start(ctx, input.Body.Phone); err != nil {
		return nil, huma.Error502BadGateway("sending verification code: " + err.Error())
	}
	return &StartVerificationOutput{Body: StatusResponse{Status: "code sent"}}, nil
}

// CheckVerificationInput is the code-check request body.
type CheckVerificationInput struct {
	Body struct {
		SubmissionID string `json:"submission_id" minLength:"1" doc:"Submission to mark verified"`
		Phone        string `json:"phone" minLength:"1"`
		Code         string `json:"code" minLength:"1" doc:"Code the user received"`
	}
}

// CheckVerificationOutput reports whether the code was accepted.
type CheckVerificationOutput struct {
	Body struct {
		Verified bool `json:"verified"`
	}
}

// Check validates the code and marks the submission's phone verified.
func (h *VerifyHandler) Check(
	ctx context.Context,
	input *CheckVerificationInput,
) (*CheckVerificationOutput, error) {
	ok, err := h.verifier.Check(ctx, input.Body.Phone, input.Body.Code)
	if err != nil {
		return nil, huma.Error502BadGateway("checking verification code: " + err.Error())
	}

	resp := &CheckVerificationOutput{}
	resp.Body.Verified = ok
	if !ok {
		return resp, nil
	}

	if err := h.store.SetPhoneVerified(ctx, input.Body.SubmissionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("submission not found")
		}
		return nil, huma.Error500InternalServerError("marking phone verified: " + err.Error())
	}
	return resp, nil
}

// RegisterVerifyRoutes registers verification endpoints with the Huma API.
func RegisterVerifyRoutes(api huma.API, h *VerifyHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "start-verification",
		Method:      http.MethodPost,
		Path:        "/api/v1/verify/start",
		Summary:     "Send a phone verification code",
		Tags:        []string{"verification"},
		Errors:      []int{http.StatusBadGateway},
	}, h.Start)

	huma.Register(api, huma.Operation{
		OperationID: "check-verification",
		Method:      http.MethodPost,
		Path:        "/api/v1/verify/check",
		Summary:     "Check a phone verification code",
		Tags:        []string{"verification"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusBadGateway,
			http.StatusInternalServerError,
		},
	}, h.Check)
}
