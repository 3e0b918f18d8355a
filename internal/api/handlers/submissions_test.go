package handlers_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberryhq/bluberry/internal/api/handlers"
	"github.com/bluberryhq/bluberry/internal/store"
	domain "github.com/bluberryhq/bluberry/pkg/types"
)

// mockSubmissionsStore is a test double for SubmissionsProvider.
type mockSubmissionsStore struct {
	submissions map[string]*domain.Submission
	listResult  []domain.Submission
	listTotal   int
	lastQuery   *store.SubmissionQuery
	statusSet   map[string]domain.Status

	createErr error
	getErr    error
	listErr   error
	statusErr error
}

func newMockSubmissionsStore() *mockSubmissionsStore {
	return &mockSubmissionsStore{
		submissions: map[string]*domain.Submission{},
		statusSet:   map[string]domain.Status{},
	}
}

func (m *mockSubmissionsStore) CreateSubmission(_ context.Context, s *domain.Submission) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.submissions[s.ID] = s
	return nil
}

func (m *mockSubmissionsStore) GetSubmission(_ context.Context, id string) (*domain.Submission, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	sub, ok := m.submissions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return sub, nil
}

func (m *mockSubmissionsStore) ListSubmissions(
	_ context.Context,
	opts *store.SubmissionQuery,
) ([]domain.Submission, int, error) {
	m.lastQuery = opts
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockSubmissionsStore) SetStatus(_ context.Context, id string, status domain.Status) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	if _, ok := m.submissions[id]; !ok {
		return store.ErrNotFound
	}
	m.statusSet[id] = status
	return nil
}

// mockNotifier records notification calls.
type mockNotifier struct {
	received []string
	listed   []string
	err      error
}

func (m *mockNotifier) SubmissionReceived(_ context.Context, s *domain.Submission) error {
	m.received = append(m.received, s.ID)
	return m.err
}

func (m *mockNotifier) SubmissionListed(_ context.Context, s *domain.Submission, _ string) error {
	m.listed = append(m.listed, s.ID)
	return m.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateSubmission_Success(t *testing.T) {
	t.Parallel()

	st := newMockSubmissionsStore()
	notifier := &mockNotifier{}
	h := handlers.NewSubmissionsHandler(st, notifier, quietLogger())

	_, api := humatest.New(t)
	handlers.RegisterSubmissionRoutes(api, h)

	resp := api.Post("/api/v1/submissions", map[string]any{
		"name":        "Sony WH-1000XM4 Headphones",
		"description": "Noise cancelling over-ear headphones",
		"condition":   "like-new",
		"image_urls":  []string{"https://example.com/1.jpg"},
		"email":       "seller@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, "Sony WH-1000XM4 Headphones")
	assert.Contains(t, body, `"status":"pending"`)

	require.Len(t, st.submissions, 1)
	for _, sub := range st.submissions {
		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, domain.StatusPending, sub.Status)
		assert.Equal(t, "None", sub.Issues, "empty issues should default")
	}
	assert.Len(t, notifier.received, 1)
}

func TestCreateSubmission_NotificationFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	st := newMockSubmissionsStore()
	notifier := &mockNotifier{err: errors.New("smtp down")}
	h := handlers.NewSubmissionsHandler(st, notifier, quietLogger())

	_, api := humatest.New(t)
	handlers.RegisterSubmissionRoutes(api, h)

	resp := api.Post("/api/v1/submissions", map[string]any{
		"name":        "Lamp",
		"description": "Desk lamp",
		"condition":   "good",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
}

func TestCreateSubmission_StoreError(t *testing.T) {
	t.Parallel()

	st := newMockSubmissionsStore()
	st.createErr = errors.New("db down")
	h := handlers.NewSubmissionsHandler(st, &mockNotifier{}, quietLogger())

	_, api := humatest.New(t)
	handlers.RegisterSubmissionRoutes(api, h)

	resp := api.Post("/api/v1/submissions", map[string]any{
		"name":        "Lamp",
		"description": "Desk lamp",
		"condition":   "good",
	})
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "creating submission")
}

func TestListSubmissions_FilterAndPaging(t *testing.T) {
	t.Parallel()

	st := newMockSubmissionsStore()
	st.listResult = []domain.Submission{
		{ID: "a", Name: "Chair", Status: domain.StatusApproved},
	}
	st.listTotal = 7
	h := handlers.NewSubmissionsHandler(st, &mockNotifier{}, quietLogger())

	_, api := humatest.New(t)
	handlers.RegisterSubmissionAdminRoutes(api, h)

	resp := api.Get("/api/v1/submissions?status=approved&limit=1&offset=2")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Chair")
	assert.Contains(t, resp.Body.String(), `"total":7`)

	require.NotNil(t, st.lastQuery)
	require.NotNil(t, st.lastQuery.Status)
	assert.Equal(t, domain.StatusApproved, *st.lastQuery.Status)
	assert.Equal(t, 1, st.lastQuery.Limit)
	assert.Equal(t, 2, st.lastQuery.Offset)
}

func TestListSubmissions_Empty(t *testing.T) {
	t.Parallel()

	h := handlers.NewSubmissionsHandler(newMockSubmissionsStore(), &mockNotifier{}, quietLogger())

	_, api := humatest.New(t)
	handlers.RegisterSubmissionAdminRoutes(api, h)

	resp := api.Get("/api/v1/submissions")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"submissions":[]`)
}

func TestGetSubmission_NotFound(t *testing.T) {
	t.Parallel()

	h := handlers.NewSubmissionsHandler(newMockSubmissionsStore(), &mockNotifier{}, quietLogger())

	_, api := humatest.New(t)
	handlers.RegisterSubmissionRoutes(api, h)

	resp := api.Get("/api/v1/submissions/missing-id")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "submission not found")
}

func TestGetSubmission_Success(t *testing.T) {
	t.Parallel()

	st := newMockSubmissionsStore()
	st.submissions["sub-1"] = &domain.Submission{
		ID:     "sub-1",
		Name:   "Blender",
		Status: domain.StatusPending,
	}
	h := handlers.NewSubmissionsHandler(st, &mockNotifier{}, quietLogger())

	_, api := humatest.New(t)
	handlers.RegisterSubmissionRoutes(api, h)

	resp := api.Get("/api/v1/submissions/sub-1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Blender")
}

func TestApproveSubmission(t *testing.T) {
	t.Parallel()

	st := newMockSubmissionsStore()
	st.submissions["sub-1"] = &domain.Submission{ID: "sub-1", Status: domain.StatusPending}
	h := handlers.NewSubmissionsHandler(st, &mockNotifier{}, quietLogger())

	_, api := humatest.New(t)
	handlers.RegisterSubmissionAdminRoutes(api, h)

	resp := api.Post("/api/v1/submissions/sub-1/approve")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "approved")
	assert.Equal(t, domain.StatusApproved, st.statusSet["sub-1"])
}

func TestApproveSubmission_NotFound(t *testing.T) {
	t.Parallel()

	h := handlers.NewSubmissionsHandler(newMockSubmissionsStore(), &mockNotifier{}, quietLogger())

	_, api := humatest.New(t)
	handlers.RegisterSubmissionAdminRoutes(api, h)

	resp := api.Post("/api/v1/submissions/missing-id/approve")
	require.Equal(t, http.StatusNotFound, resp.Code)
}
