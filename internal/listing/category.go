package listing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bluberryhq/bluberry/internal/ebay"
)

// FallbackCategoryID is used when no category suggestion can be
// obtained. 293 is the marketplace's consumer electronics category, the
// broadest fit for household resale items.
const FallbackCategoryID = "293"

// ResolvedCategory is the transient result of category resolution. It is
// recomputed on every listing attempt, never persisted.
type ResolvedCategory struct {
	CategoryID     string
	CategoryTreeID string
}

// CategoryResolver picks a marketplace category for an item title.
type CategoryResolver struct {
	taxonomy ebay.TaxonomyAPI
	log      *slog.Logger
}

// NewCategoryResolver creates a resolver backed by the given taxonomy API.
func NewCategoryResolver(taxonomy ebay.TaxonomyAPI, log *slog.Logger) *CategoryResolver {
	return &CategoryResolver{taxonomy: taxonomy, log: log}
}

// Resolve returns the best category for the query. Any taxonomy failure
// degrades to the fallback category; Resolve never returns an error
// because category resolution failure is non-fatal to the pipeline.
func (r *CategoryResolver) Resolve(ctx context.Context, query string) (ResolvedCategory, Outcome) {
	treeID, err := r.taxonomy.DefaultCategoryTreeID(ctx)
	if err != nil {
		r.log.Warn("default category tree lookup failed, using fallback category",
			"error", err)
		return ResolvedCategory{
			CategoryID:     FallbackCategoryID,
			CategoryTreeID: "0",
		}, Degraded(fmt.Sprintf("tree lookup failed: %v", err))
	}

	suggestions, err := r.taxonomy.CategorySuggestions(ctx, treeID, query)
	if err != nil {
		r.log.Warn("category suggestions lookup failed, using fallback category",
			"tree_id", treeID, "error", err)
		return ResolvedCategory{
			CategoryID:     FallbackCategoryID,
			CategoryTreeID: treeID,
		}, Degraded(fmt.Sprintf("suggestions lookup failed: %v", err))
	}

	// Highest confidence wins; ties resolve to the first encountered.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Relevancy > suggestions[j].Relevancy
	})

	if len(suggestions) == 0 || suggestions[0].CategoryID == "" {
		return ResolvedCategory{
			CategoryID:     FallbackCategoryID,
			CategoryTreeID: treeID,
		}, Degraded("no usable category suggestions")
	}

	best := suggestions[0]
	r.log.Debug("resolved category",
		"category_id", best.CategoryID,
		"category_name", best.CategoryName,
		"relevancy", best.Relevancy)

	return ResolvedCategory{
		CategoryID:     best.CategoryID,
		CategoryTreeID: treeID,
	}, OK()
}

// AllowedConditions fetches the condition enum values the category
// accepts. Lookup failure degrades to an empty list so condition mapping
// can still produce a best-effort value.
func (r *CategoryResolver) AllowedConditions(
	ctx context.Context,
	categoryID string,
) ([]ebay.AllowedCondition, Outcome) {
	conditions, err := r.taxonomy.AllowedConditions(ctx, categoryID)
	if err != nil {
		r.log.Warn("allowed conditions lookup failed",
			"category_id", categoryID, "error", err)
		return nil, Degraded(fmt.Sprintf("condition lookup failed: %v", err))
	}
	return conditions, OK()
}
