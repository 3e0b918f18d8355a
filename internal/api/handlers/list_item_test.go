package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberryhq/bluberry/internal/api/handlers"
	"github.com/bluberryhq/bluberry/internal/ebay"
	"github.com/bluberryhq/bluberry/internal/listing"
	"github.com/bluberryhq/bluberry/internal/store"
	domain "github.com/bluberryhq/bluberry/pkg/types"
)

// mockLister is a test double for the listing orchestrator.
type mockLister struct {
	result *listing.Result
	err    error
	calls  []string
}

func (m *mockLister) List(_ context.Context, id string) (*listing.Result, error) {
	m.calls = append(m.calls, id)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func newListItemAPI(t *testing.T, lister *mockLister, st *mockSubmissionsStore, n *mockNotifier) humatest.TestAPI {
	t.Helper()
	h := handlers.NewListItemHandler(lister, st, n, quietLogger())
	_, api := humatest.New(t)
	handlers.RegisterListItemRoutes(api, h)
	return api
}

func TestListItem_Success(t *testing.T) {
	t.Parallel()

	lister := &mockLister{result: &listing.Result{
		ListingID:       "110587858",
		OfferID:         "offer-42",
		SKU:             "ITEM-sub-1-1700000000",
		OptimizedImages: []string{"https://cdn.example.com/opt/1.jpg"},
	}}
	st := newMockSubmissionsStore()
	st.submissions["sub-1"] = &domain.Submission{ID: "sub-1", Name: "Headphones"}
	notifier := &mockNotifier{}

	api := newListItemAPI(t, lister, st, notifier)

	resp := api.Post("/api/v1/submissions/sub-1/list")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `"success":true`)
	assert.Contains(t, body, `"listingId":"110587858"`)
	assert.Contains(t, body, `"ebay_listing_id":"110587858"`)
	assert.Contains(t, body, `"ebay_offer_id":"offer-42"`)
	assert.Contains(t, body, "Item listed successfully on eBay")
	assert.Contains(t, body, "https://cdn.example.com/opt/1.jpg")
	assert.NotContains(t, body, "warning")

	assert.Equal(t, []string{"sub-1"}, lister.calls)
	assert.Equal(t, []string{"sub-1"}, notifier.listed)
}

func TestListItem_SuccessWithWarning(t *testing.T) {
	t.Parallel()

	lister := &mockLister{result: &listing.Result{
		ListingID: "110587858",
		OfferID:   "offer-42",
		Warning:   "listing published but local status update failed",
	}}
	st := newMockSubmissionsStore()
	st.submissions["sub-1"] = &domain.Submission{ID: "sub-1"}

	api := newListItemAPI(t, lister, st, &mockNotifier{})

	resp := api.Post("/api/v1/submissions/sub-1/list")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "local status update failed")
}

func TestListItem_NotFound(t *testing.T) {
	t.Parallel()

	lister := &mockLister{err: store.ErrNotFound}
	api := newListItemAPI(t, lister, newMockSubmissionsStore(), &mockNotifier{})

	resp := api.Post("/api/v1/submissions/missing/list")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "submission not found")
}

func TestListItem_ConflictOnConcurrentAttempt(t *testing.T) {
	t.Parallel()

	lister := &mockLister{err: listing.ErrListingConflict}
	api := newListItemAPI(t, lister, newMockSubmissionsStore(), &mockNotifier{})

	resp := api.Post("/api/v1/submissions/sub-1/list")
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "already in progress")
}

func TestListItem_MissingPolicies(t *testing.T) {
	t.Parallel()

	lister := &mockLister{err: listing.ErrMissingPolicies}
	api := newListItemAPI(t, lister, newMockSubmissionsStore(), &mockNotifier{})

	resp := api.Post("/api/v1/submissions/sub-1/list")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "policy configuration is incomplete")
}

func TestListItem_MarketplaceErrorIncludesRawBody(t *testing.T) {
	t.Parallel()

	lister := &mockLister{err: &ebay.APIError{
		Stage:  "offer",
		Status: 400,
		Body:   `{"errors":[{"errorId":25002,"message":"A user error has occurred"}]}`,
	}}
	api := newListItemAPI(t, lister, newMockSubmissionsStore(), &mockNotifier{})

	resp := api.Post("/api/v1/submissions/sub-1/list")
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, "eBay offer call failed")
	assert.Contains(t, body, "25002")
}

func TestListItem_GenericError(t *testing.T) {
	t.Parallel()

	lister := &mockLister{err: errors.New("connection reset")}
	api := newListItemAPI(t, lister, newMockSubmissionsStore(), &mockNotifier{})

	resp := api.Post("/api/v1/submissions/sub-1/list")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "listing failed")
}

func TestListItem_NotificationFailureDoesNotAffectResponse(t *testing.T) {
	t.Parallel()

	lister := &mockLister{result: &listing.Result{ListingID: "1", OfferID: "2"}}
	st := newMockSubmissionsStore()
	st.submissions["sub-1"] = &domain.Submission{ID: "sub-1"}
	notifier := &mockNotifier{err: errors.New("smtp down")}

	api := newListItemAPI(t, lister, st, notifier)

	resp := api.Post("/api/v1/submissions/sub-1/list")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"success":true`)
}
