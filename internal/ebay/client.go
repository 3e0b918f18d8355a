// Package ebay provides clients for the eBay Taxonomy and Sell Inventory
// APIs, abstracted behind interfaces for testability.
package ebay

import (
	"context"
)

// TokenProvider defines the interface for obtaining OAuth2 user tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// CategorySuggestion is one candidate category for an item title.
type CategorySuggestion struct {
	CategoryID   string
	CategoryName string
	Relevancy    float64
}

// Aspect describes one structured item attribute defined by the
// marketplace for a category.
type Aspect struct {
	Name     string
	Required bool
	Values   []string
}

// AllowedCondition is one condition enum value a category accepts.
type AllowedCondition struct {
	ID          string
	Description string
}

// TaxonomyAPI defines read access to the eBay category taxonomy.
type TaxonomyAPI interface {
	DefaultCategoryTreeID(ctx context.Context) (string, error)
	CategorySuggestions(ctx context.Context, treeID, query string) ([]CategorySuggestion, error)
	AspectsForCategory(ctx context.Context, treeID, categoryID string) ([]Aspect, error)
	AllowedConditions(ctx context.Context, categoryID string) ([]AllowedCondition, error)
}

// PublishResult holds the identifiers returned by a successful publish.
type PublishResult struct {
	ListingID string
}

// SellAPI defines the three-call inventory/offer/publish sequence against
// the eBay Sell Inventory API.
type SellAPI interface {
	CreateOrReplaceInventoryItem(ctx context.Context, sku string, item *InventoryItem) error
	CreateOffer(ctx context.Context, offer *Offer) (offerID string, err error)
	PublishOffer(ctx context.Context, offerID string) (*PublishResult, error)
}

// BrowseAPI defines the comparable-item search used by price estimation.
type BrowseAPI interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest defines the parameters for an eBay Browse search.
type SearchRequest struct {
	Query string
	Limit int
}

// ItemPrice is the price of one comparable item.
type ItemPrice struct {
	Value    string
	Currency string
}

// SearchItem is one comparable item summary.
type SearchItem struct {
	ItemID string
	Title  string
	Price  ItemPrice
}

// SearchResponse holds the results of a Browse search.
type SearchResponse struct {
	Items []SearchItem
	Total int
}
