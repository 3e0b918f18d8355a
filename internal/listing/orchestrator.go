package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bluberryhq/bluberry/internal/ebay"
	"github.com/bluberryhq/bluberry/internal/metrics"
	"github.com/bluberryhq/bluberry/internal/store"
	domain "github.com/bluberryhq/bluberry/pkg/types"
)

// ErrListingConflict is returned when the submission is already in the
// listing state or otherwise not listable; the conditional status
// transition lost, so another attempt owns the row.
var ErrListingConflict = errors.New("submission is not listable or a listing attempt is already in progress")

// ErrMissingPolicies is returned when the marketplace policy
// configuration is incomplete. This is a deployment error, checked
// before any remote call or status transition.
var ErrMissingPolicies = errors.New("missing marketplace policy configuration")

// ImagePreparer optimizes a submission's images for the marketplace.
// Implementations drop failed images and preserve input order; an empty
// result is handled by the orchestrator's fallback to the originals.
type ImagePreparer interface {
	Prepare(ctx context.Context, submissionID string, urls []string) ([]string, error)
}

// Config holds the marketplace listing configuration. All policy ids and
// the merchant location key are required.
type Config struct {
	MarketplaceID       string
	FulfillmentPolicyID string
	PaymentPolicyID     string
	ReturnPolicyID      string
	MerchantLocationKey string
}

func (c Config) validate() error {
	if c.FulfillmentPolicyID == "" || c.PaymentPolicyID == "" ||
		c.ReturnPolicyID == "" || c.MerchantLocationKey == "" {
		return ErrMissingPolicies
	}
	return nil
}

// Result is the outcome of a successful listing attempt. Warning is
// non-empty when the marketplace listing exists but the local success
// write failed.
type Result struct {
	ListingID       string
	OfferID         string
	SKU             string
	OptimizedImages []string
	Warning         string
}

// Orchestrator runs the listing-publication state machine for one
// submission: category resolution, condition mapping, aspect auto-fill,
// image preparation, then the inventory/offer/publish sequence with
// status persistence at each transition.
type Orchestrator struct {
	store      store.Store
	tokens     ebay.TokenProvider
	sell       ebay.SellAPI
	categories *CategoryResolver
	aspects    *AspectResolver
	images     ImagePreparer
	cfg        Config
	log        *slog.Logger
	nowFunc    func() time.Time
}

// OrchestratorOption configures the Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorNowFunc overrides the time function for testing.
func WithOrchestratorNowFunc(f func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.nowFunc = f
	}
}

// NewOrchestrator wires the listing pipeline. All collaborators are
// injected; the orchestrator holds no global state.
func NewOrchestrator(
	st store.Store,
	tokens ebay.TokenProvider,
	taxonomy ebay.TaxonomyAPI,
	sell ebay.SellAPI,
	images ImagePreparer,
	cfg Config,
	log *slog.Logger,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		store:      st,
		tokens:     tokens,
		sell:       sell,
		categories: NewCategoryResolver(taxonomy, log),
		aspects:    NewAspectResolver(taxonomy, log),
		images:     images,
		cfg:        cfg,
		log:        log,
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// List runs one listing attempt for the submission id.
//
// Error classes the caller can distinguish:
//   - store.ErrNotFound: no such submission.
//   - ErrMissingPolicies: incomplete configuration, nothing was mutated.
//   - ErrListingConflict: the conditional status transition lost.
//   - *ebay.APIError: a transactional marketplace call failed; the
//     submission has been reverted to approved with ebay_status=failed.
func (o *Orchestrator) List(ctx context.Context, id string) (*Result, error) {
	metrics.ListingAttemptsTotal.Inc()
	started := o.nowFunc()

	sub, err := o.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading submission: %w", err)
	}

	log := o.log.With("submission_id", sub.ID)

	// Configuration and token preconditions run before the status
	// transition so a precondition failure never strands the row in
	// the listing state.
	if err := o.cfg.validate(); err != nil {
		return nil, err
	}
	if _, err := o.tokens.Token(ctx); err != nil {
		return nil, fmt.Errorf("acquiring marketplace token: %w", err)
	}

	won, err := o.store.BeginListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("transitioning to listing: %w", err)
	}
	if !won {
		log.Warn("listing attempt rejected", "status", sub.Status)
		return nil, ErrListingConflict
	}
	log.Info("listing attempt started", "stage", "begin")

	// Image preparation only depends on the submission, so it runs
	// concurrently with the taxonomy work and joins before payload
	// assembly.
	originals := sub.ImageURLs()
	type imageResult struct {
		urls []string
		err  error
	}
	imagesCh := make(chan imageResult, 1)
	go func() {
		urls, err := o.images.Prepare(ctx, sub.ID, originals)
		imagesCh <- imageResult{urls: urls, err: err}
	}()

	category, outcome := o.categories.Resolve(ctx, sub.Name)
	o.recordOutcome(log, "category", outcome)

	allowed, outcome := o.categories.AllowedConditions(ctx, category.CategoryID)
	o.recordOutcome(log, "conditions", outcome)

	condition := MapCondition(sub.Condition, allowed)

	required, outcome := o.aspects.Required(ctx, category.CategoryTreeID, category.CategoryID)
	o.recordOutcome(log, "aspects", outcome)

	img := <-imagesCh
	imageURLs := img.urls
	if (img.err != nil || len(imageURLs) == 0) && len(originals) > 0 {
		reason := "optimized set empty, using original urls"
		if img.err != nil {
			reason = fmt.Sprintf("using original urls: %v", img.err)
		}
		o.recordOutcome(log, "images", Degraded(reason))
		imageURLs = originals
	}

	filled := o.aspects.AutoFill(required, sub.Name, sub.Description)
	final := Finalize(filled, condition, sub.Name)

	brand := "Unbranded"
	if v, ok := final[AspectBrand]; ok && len(v) > 0 {
		brand = v[0]
	}

	description := SanitizeDescription(sub.Description)
	conditionNote := SanitizeDescription(sub.Issues)
	descriptionHTML := BuildDescriptionHTML(sub.Name, condition, brand, description, sub.Issues)

	now := o.nowFunc()
	sku := fmt.Sprintf("ITEM-%s-%d", sub.ID, now.Unix())

	item := &ebay.InventoryItem{
		Condition:            condition,
		ConditionDescription: conditionNote,
		Product: &ebay.Product{
			Title:       sub.Name,
			Description: descriptionHTML,
			Aspects:     WireAspects(final),
			ImageURLs:   imageURLs,
			Brand:       brand,
		},
		Availability: &ebay.Availability{
			ShipToLocationAvailability: &ebay.ShipToLocation{Quantity: 1},
		},
		PackageSpecs: defaultPackageSpecs(),
	}

	log.Info("creating inventory item", "stage", "inventory_item", "sku", sku)
	if err := o.sell.CreateOrReplaceInventoryItem(ctx, sku, item); err != nil {
		return nil, o.fail(ctx, log, id, "inventory_item", err)
	}

	offer := &ebay.Offer{
		SKU:                  sku,
		MarketplaceID:        o.cfg.MarketplaceID,
		Format:               "FIXED_PRICE",
		AvailableQuantity:    1,
		CategoryID:           category.CategoryID,
		Condition:            condition,
		ConditionDescription: conditionNote,
		ListingDescription:   descriptionHTML,
		ListingPolicies: &ebay.ListingPolicies{
			FulfillmentPolicyID: o.cfg.FulfillmentPolicyID,
			PaymentPolicyID:     o.cfg.PaymentPolicyID,
			ReturnPolicyID:      o.cfg.ReturnPolicyID,
		},
		PricingSummary: &ebay.PricingSummary{
			Price: &ebay.Amount{
				Value:    FormatPrice(ParsePrice(sub.EstimatedPrice)),
				Currency: "USD",
			},
		},
		MerchantLocationKey: o.cfg.MerchantLocationKey,
		ItemSpecifics:       ItemSpecifics(final),
	}

	log.Info("creating offer", "stage", "offer", "sku", sku)
	offerID, err := o.sell.CreateOffer(ctx, offer)
	if err != nil {
		return nil, o.fail(ctx, log, id, "offer", err)
	}

	log.Info("publishing offer", "stage", "publish", "offer_id", offerID)
	published, err := o.sell.PublishOffer(ctx, offerID)
	if err != nil {
		return nil, o.fail(ctx, log, id, "publish", err)
	}

	result := &Result{
		ListingID:       published.ListingID,
		OfferID:         offerID,
		SKU:             sku,
		OptimizedImages: imageURLs,
	}

	fields := domain.ListedFields{
		ListingID:       published.ListingID,
		OfferID:         offerID,
		SKU:             sku,
		OptimizedImages: imageURLs,
		ListedAt:        now,
	}
	if err := o.store.MarkListed(ctx, id, fields); err != nil {
		// The marketplace listing exists; losing the local write must
		// not turn a published listing into a reported failure.
		log.Error("listing published but success write failed",
			"stage", "persist", "listing_id", published.ListingID, "error", err)
		result.Warning = "listing published but local status update failed"
	}

	metrics.ListingSuccessTotal.Inc()
	metrics.ListingDuration.Observe(o.nowFunc().Sub(started).Seconds())
	log.Info("listing published",
		"stage", "done",
		"listing_id", published.ListingID,
		"offer_id", offerID,
		"sku", sku)

	return result, nil
}

// fail persists the terminal failure state: status reverts to approved
// and ebay_status becomes failed, keeping the submission retryable. The
// raw marketplace response body is stored for operator diagnosis.
func (o *Orchestrator) fail(
	ctx context.Context,
	log *slog.Logger,
	id, stage string,
	cause error,
) error {
	metrics.ListingFailuresTotal.WithLabelValues(stage).Inc()

	errText := cause.Error()
	var apiErr *ebay.APIError
	if errors.As(cause, &apiErr) {
		errText = apiErr.Body
	}

	log.Error("listing attempt failed", "stage", stage, "error", cause)
	if err := o.store.MarkListingFailed(ctx, id, errText); err != nil {
		log.Error("failure write failed", "stage", stage, "error", err)
	}
	return cause
}

func (o *Orchestrator) recordOutcome(log *slog.Logger, stage string, out Outcome) {
	switch out.Kind {
	case OutcomeOK:
		log.Debug("stage completed", "stage", stage)
	case OutcomeDegraded:
		metrics.ListingFallbacksTotal.WithLabelValues(stage).Inc()
		log.Warn("stage degraded to fallback", "stage", stage, "reason", out.Reason)
	case OutcomeFailed:
		metrics.ListingFallbacksTotal.WithLabelValues(stage).Inc()
		log.Error("stage failed", "stage", stage, "reason", out.Reason)
	}
}

func defaultPackageSpecs() *ebay.PackageSpecs {
	return &ebay.PackageSpecs{
		Weight: &ebay.Weight{Value: 2, Unit: "POUND"},
		Dimensions: &ebay.Dimensions{
			Length: 12,
			Width:  12,
			Height: 6,
			Unit:   "INCH",
		},
	}
}
