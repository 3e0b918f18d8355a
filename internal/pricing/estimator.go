// Package pricing implements the resale price estimation cascade: an AI
// text-completion backend, then marketplace comparables, then a static
// heuristic. Every layer failing still produces a price.
package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/bluberryhq/bluberry/internal/ebay"
	"github.com/bluberryhq/bluberry/internal/metrics"
)

// Estimate sources, persisted with the submission so the admin dashboard
// can show where a price came from.
const (
	SourceAI          = "ai"
	SourceComparables = "comparables"
	SourceHeuristic   = "heuristic"
)

// ItemDetails describes the item being priced.
type ItemDetails struct {
	Name        string
	Description string
	Condition   string
	Issues      string
}

// Estimate is a priced item with its cascade source.
type Estimate struct {
	Price  float64
	Source string
}

// Backend is an AI text-completion price estimator.
type Backend interface {
	Estimate(ctx context.Context, item ItemDetails) (float64, error)
}

// Estimator runs the cascade. The backend may be nil when no AI backend
// is configured; the comparables layer requires a Browse client.
type Estimator struct {
	backend Backend
	browse  ebay.BrowseAPI
	log     *slog.Logger
}

// NewEstimator creates the cascade estimator. Either collaborator may be
// nil; the heuristic floor is always available.
func NewEstimator(backend Backend, browse ebay.BrowseAPI, log *slog.Logger) *Estimator {
	return &Estimator{backend: backend, browse: browse, log: log}
}

// Estimate prices the item. It never returns an error: each layer's
// failure falls through to the next, and the heuristic always answers.
func (e *Estimator) Estimate(ctx context.Context, item ItemDetails) Estimate {
	if e.backend != nil {
		price, err := e.backend.Estimate(ctx, item)
		if err == nil && price > 0 {
			metrics.EstimatesTotal.WithLabelValues(SourceAI).Inc()
			return Estimate{Price: price, Source: SourceAI}
		}
		e.log.Warn("ai estimate failed, trying comparables",
			"item", item.Name, "error", err)
	}

	if e.browse != nil {
		price, err := e.comparableMedian(ctx, item.Name)
		if err == nil && price > 0 {
			metrics.EstimatesTotal.WithLabelValues(SourceComparables).Inc()
			return Estimate{Price: price, Source: SourceComparables}
		}
		e.log.Warn("comparables estimate failed, using heuristic",
			"item", item.Name, "error", err)
	}

	metrics.EstimatesTotal.WithLabelValues(SourceHeuristic).Inc()
	metrics.EstimateFailuresTotal.Inc()
	return Estimate{Price: HeuristicPrice(item), Source: SourceHeuristic}
}

// comparableMedian searches the marketplace for similar active items and
// returns the median asking price.
func (e *Estimator) comparableMedian(ctx context.Context, query string) (float64, error) {
	resp, err := e.browse.Search(ctx, ebay.SearchRequest{Query: query, Limit: 20})
	if err != nil {
		return 0, fmt.Errorf("searching comparables: %w", err)
	}

	var prices []float64
	for _, item := range resp.Items {
		v, err := strconv.ParseFloat(item.Price.Value, 64)
		if err != nil || v <= 0 {
			continue
		}
		prices = append(prices, v)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("no priced comparables for %q", query)
	}
	return median(prices), nil
}

func median(values []float64) float64 {
	// Insertion sort; comparable batches are at most 20 items.
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && values[j] < values[j-1]; j-- {
			values[j], values[j-1] = values[j-1], values[j]
		}
	}
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

var priceTokenRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parsePriceFromText extracts the first numeric token from a completion
// response. Models are prompted to answer with a bare number, but some
// wrap it in prose or a currency symbol.
func parsePriceFromText(text string) (float64, error) {
	m := priceTokenRe.FindString(text)
	if m == "" {
		return 0, fmt.Errorf("no numeric price in completion %q", text)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing price token %q: %w", m, err)
	}
	return v, nil
}

// estimatePrompt renders the completion prompt for an item.
func estimatePrompt(item ItemDetails) string {
	return fmt.Sprintf(
		"Estimate a fair resale price in US dollars for this used item. "+
			"Respond with only a number, no currency symbol or explanation.\n\n"+
			"Item: %s\nDescription: %s\nCondition: %s\nKnown issues: %s",
		item.Name, item.Description, item.Condition, item.Issues,
	)
}
