package ebay_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberryhq/bluberry/internal/ebay"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(context.Context) (string, error) {
	return s.token, s.err
}

func TestTaxonomyClient_DefaultCategoryTreeID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commerce/taxonomy/v1/get_default_category_tree_id", r.URL.Path)
		assert.Equal(t, "EBAY_US", r.URL.Query().Get("marketplace_id"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "en-US", r.Header.Get("Accept-Language"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"categoryTreeId":"0","categoryTreeVersion":"130"}`))
	}))
	defer srv.Close()

	client := ebay.NewTaxonomyClient(
		staticTokens{token: "test-token"},
		ebay.WithTaxonomyBaseURL(srv.URL),
	)

	treeID, err := client.DefaultCategoryTreeID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0", treeID)
}

func TestTaxonomyClient_CategorySuggestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commerce/taxonomy/v1/category_tree/0/get_category_suggestions", r.URL.Path)
		assert.Equal(t, "iPhone 13 Pro", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"categorySuggestions": [
				{
					"category": {"categoryId": "9355", "categoryName": "Cell Phones & Smartphones"},
					"relevancy": "95.5"
				},
				{
					"category": {"categoryId": "20349", "categoryName": "Cell Phone Accessories"},
					"relevancy": "40.1"
				}
			]
		}`))
	}))
	defer srv.Close()

	client := ebay.NewTaxonomyClient(
		staticTokens{token: "test-token"},
		ebay.WithTaxonomyBaseURL(srv.URL),
	)

	suggestions, err := client.CategorySuggestions(context.Background(), "0", "iPhone 13 Pro")
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	assert.Equal(t, "9355", suggestions[0].CategoryID)
	assert.Equal(t, "Cell Phones & Smartphones", suggestions[0].CategoryName)
	assert.InDelta(t, 95.5, suggestions[0].Relevancy, 0.001)
	assert.Equal(t, "20349", suggestions[1].CategoryID)
}

func TestTaxonomyClient_AspectsForCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commerce/taxonomy/v1/category_tree/0/get_item_aspects_for_category", r.URL.Path)
		assert.Equal(t, "9355", r.URL.Query().Get("category_id"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"aspects": [
				{
					"localizedAspectName": "Brand",
					"aspectConstraint": {"aspectRequired": true},
					"aspectValues": [{"localizedValue": "Apple"}, {"localizedValue": "Samsung"}]
				},
				{
					"localizedAspectName": "Color",
					"aspectConstraint": {"aspectRequired": false},
					"aspectValues": [{"localizedValue": "Black"}]
				}
			]
		}`))
	}))
	defer srv.Close()

	client := ebay.NewTaxonomyClient(
		staticTokens{token: "test-token"},
		ebay.WithTaxonomyBaseURL(srv.URL),
	)

	aspects, err := client.AspectsForCategory(context.Background(), "0", "9355")
	require.NoError(t, err)
	require.Len(t, aspects, 2)

	assert.Equal(t, "Brand", aspects[0].Name)
	assert.True(t, aspects[0].Required)
	assert.Equal(t, []string{"Apple", "Samsung"}, aspects[0].Values)
	assert.False(t, aspects[1].Required)
}

func TestTaxonomyClient_AllowedConditions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t,
			"/sell/metadata/v1/marketplace/EBAY_US/get_item_condition_policies",
			r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"itemConditionPolicies": [
				{
					"categoryId": "9355",
					"itemConditions": [
						{"conditionId": "NEW", "conditionDescription": "New"},
						{"conditionId": "USED_EXCELLENT", "conditionDescription": "Used - Excellent"}
					]
				},
				{
					"categoryId": "20349",
					"itemConditions": [
						{"conditionId": "NEW", "conditionDescription": "New"}
					]
				}
			]
		}`))
	}))
	defer srv.Close()

	client := ebay.NewTaxonomyClient(
		staticTokens{token: "test-token"},
		ebay.WithTaxonomyBaseURL(srv.URL),
	)

	conditions, err := client.AllowedConditions(context.Background(), "9355")
	require.NoError(t, err)
	require.Len(t, conditions, 2)
	assert.Equal(t, "NEW", conditions[0].ID)
	assert.Equal(t, "USED_EXCELLENT", conditions[1].ID)
}

func TestTaxonomyClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"errorId":62004}]}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := ebay.NewTaxonomyClient(
		staticTokens{token: "test-token"},
		ebay.WithTaxonomyBaseURL(srv.URL),
	)

	_, err := client.CategorySuggestions(context.Background(), "0", "nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestTaxonomyClient_TokenFailure(t *testing.T) {
	client := ebay.NewTaxonomyClient(
		staticTokens{err: assert.AnError},
		ebay.WithTaxonomyBaseURL("http://localhost:0"),
	)

	_, err := client.DefaultCategoryTreeID(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getting auth token")
}
