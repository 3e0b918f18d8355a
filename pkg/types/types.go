// Package domain defines the core business types for bluberry.
package domain

import (
	"time"
)

// Status represents a submission's review lifecycle state.
type Status string

// Submission lifecycle states. A failed listing attempt reverts the
// submission to StatusApproved so it stays retryable from the admin
// dashboard; it is never left stuck at StatusListing.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusListing  Status = "listing"
	StatusListed   Status = "listed"
)

// EbayStatus tracks the marketplace side of the lifecycle, independent
// of the review status.
type EbayStatus string

// Marketplace listing states.
const (
	EbayStatusProcessing EbayStatus = "processing"
	EbayStatusActive     EbayStatus = "active"
	EbayStatusFailed     EbayStatus = "failed"
)

// Submission is a household item submitted for resale. Created by the
// intake form, mutated by the listing pipeline, never deleted.
type Submission struct {
	ID             string  `json:"id"                        db:"id"`
	Name           string  `json:"name"                      db:"name"`
	Description    string  `json:"description"               db:"description"`
	Condition      string  `json:"condition"                 db:"condition"`
	Issues         string  `json:"issues"                    db:"issues"`
	EstimatedPrice *string `json:"estimated_price,omitempty" db:"estimated_price"`
	EstimateSource string  `json:"estimate_source,omitempty" db:"estimate_source"`

	// Images. Early submissions carried a single URL; newer ones carry
	// an array. ImageURLs() merges both shapes.
	ImageURL  *string  `json:"image_url,omitempty"  db:"image_url"`
	ImageList []string `json:"image_urls,omitempty" db:"image_urls"`

	// Contact and pickup, read-only passthrough for the listing pipeline.
	Email         string `json:"email,omitempty"          db:"email"`
	Phone         string `json:"phone,omitempty"          db:"phone"`
	PhoneVerified bool   `json:"phone_verified"           db:"phone_verified"`
	Address       string `json:"address,omitempty"        db:"address"`
	PickupNotes   string `json:"pickup_notes,omitempty"   db:"pickup_notes"`

	// Lifecycle.
	Status       Status      `json:"status"                  db:"status"`
	EbayStatus   *EbayStatus `json:"ebay_status,omitempty"   db:"ebay_status"`
	ListingError *string     `json:"listing_error,omitempty" db:"listing_error"`

	// Marketplace linkage, populated only on success.
	ListedOnEbay    bool       `json:"listed_on_ebay"                  db:"listed_on_ebay"`
	EbayListingID   *string    `json:"ebay_listing_id,omitempty"       db:"ebay_listing_id"`
	EbayOfferID     *string    `json:"ebay_offer_id,omitempty"         db:"ebay_offer_id"`
	EbaySKU         *string    `json:"ebay_sku,omitempty"              db:"ebay_sku"`
	OptimizedImages []string   `json:"ebay_optimized_images,omitempty" db:"ebay_optimized_images"`
	ListedAt        *time.Time `json:"listed_at,omitempty"             db:"listed_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ImageURLs returns the submission's original image URLs, accepting both
// the legacy single-field shape and the array shape. The legacy URL is
// only included when the array is empty, so the two shapes never produce
// duplicates.
func (s *Submission) ImageURLs() []string {
	if len(s.ImageList) > 0 {
		return s.ImageList
	}
	if s.ImageURL != nil && *s.ImageURL != "" {
		return []string{*s.ImageURL}
	}
	return nil
}

// ListedFields holds the marketplace identifiers persisted after a
// successful publish.
type ListedFields struct {
	ListingID       string
	OfferID         string
	SKU             string
	OptimizedImages []string
	ListedAt        time.Time
}

// JobRun records a single execution of a scheduled job.
type JobRun struct {
	ID           string     `json:"id"                      db:"id"`
	JobName      string     `json:"job_name"                db:"job_name"`
	StartedAt    time.Time  `json:"started_at"              db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"  db:"completed_at"`
	Status       string     `json:"status"                  db:"status"`
	ErrorText    string     `json:"error_text,omitempty"    db:"error_text"`
	RowsAffected *int       `json:"rows_affected,omitempty" db:"rows_affected"`
}
