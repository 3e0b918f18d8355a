package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/bluberryhq/bluberry/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateSubmission inserts a new pending submission and fills in the
// generated id and timestamps.
func (s *PostgresStore) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	issues := sub.Issues
	if issues == "" {
		issues = "None"
	}

	args := pgx.NamedArgs{
		"name":            sub.Name,
		"description":     sub.Description,
		"condition":       sub.Condition,
		"issues":          issues,
		"estimated_price": sub.EstimatedPrice,
		"image_url":       sub.ImageURL,
		"image_urls":      sub.ImageList,
		"email":           sub.Email,
		"phone":           sub.Phone,
		"address":         sub.Address,
		"pickup_notes":    sub.PickupNotes,
	}

	err := s.pool.QueryRow(ctx, queryCreateSubmission, args).Scan(
		&sub.ID, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating submission: %w", err)
	}

	sub.Issues = issues
	sub.Status = domain.StatusPending
	return nil
}

// GetSubmission retrieves a submission by id.
func (s *PostgresStore) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	sub := &domain.Submission{}
	if err := scanSubmission(s.pool.QueryRow(ctx, queryGetSubmission, id), sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubmissions queries submissions with optional filters, returning
// results and total count.
func (s *PostgresStore) ListSubmissions(
	ctx context.Context,
	opts *SubmissionQuery,
) ([]domain.Submission, int, error) {
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting submissions: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		var sub domain.Submission
		if err := scanSubmission(rows, &sub); err != nil {
			return nil, 0, fmt.Errorf("scanning submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating submissions: %w", err)
	}

	return subs, total, nil
}

// SetStatus updates the review status of a submission.
func (s *PostgresStore) SetStatus(ctx context.Context, id string, status domain.Status) error {
	return s.exec(ctx, querySetStatus, id, string(status))
}

// UpdateEstimate stores the estimated price and the cascade source that
// produced it.
func (s *PostgresStore) UpdateEstimate(ctx context.Context, id, price, source string) error {
	return s.exec(ctx, queryUpdateEstimate, id, price, source)
}

// SetPhoneVerified marks the submission's phone number as verified.
func (s *PostgresStore) SetPhoneVerified(ctx context.Context, id string) error {
	return s.exec(ctx, querySetPhoneVerified, id)
}

// BeginListing transitions a pending/approved submission into the listing
// state. Returns false when the row was not in a listable state, which
// includes the case of a concurrent attempt already holding it.
func (s *PostgresStore) BeginListing(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, queryBeginListing, id)
	if err != nil {
		return false, fmt.Errorf("beginning listing: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkListingFailed reverts the submission to approved with a failed
// marketplace status and the raw error text.
func (s *PostgresStore) MarkListingFailed(ctx context.Context, id, errText string) error {
	return s.exec(ctx, queryMarkListingFailed, id, errText)
}

// MarkListed persists the terminal success state and marketplace identifiers.
func (s *PostgresStore) MarkListed(ctx context.Context, id string, f domain.ListedFields) error {
	args := pgx.NamedArgs{
		"id":                    id,
		"ebay_listing_id":       f.ListingID,
		"ebay_offer_id":         f.OfferID,
		"ebay_sku":              f.SKU,
		"ebay_optimized_images": f.OptimizedImages,
		"listed_at":             f.ListedAt,
	}

	tag, err := s.pool.Exec(ctx, queryMarkListed, args)
	if err != nil {
		return fmt.Errorf("marking listed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RevertStaleListings returns rows stuck in the listing state for longer
// than olderThan back to approved/failed so they become retryable.
func (s *PostgresStore) RevertStaleListings(
	ctx context.Context,
	olderThan time.Duration,
) (int, error) {
	interval := fmt.Sprintf("%d seconds", int(olderThan.Seconds()))
	tag, err := s.pool.Exec(ctx, queryRevertStaleListings, interval)
	if err != nil {
		return 0, fmt.Errorf("reverting stale listings: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// InsertJobRun records the start of a scheduled job execution.
func (s *PostgresStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertJobRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}
	return id, nil
}

// CompleteJobRun records the outcome of a scheduled job execution.
func (s *PostgresStore) CompleteJobRun(
	ctx context.Context,
	id, status, errText string,
	rowsAffected int,
) error {
	return s.exec(ctx, queryCompleteJobRun, id, status, errText, rowsAffected)
}

// ListLatestJobRuns returns the most recent run per job name.
func (s *PostgresStore) ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListLatestJobRuns)
	if err != nil {
		return nil, fmt.Errorf("querying job runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun
	for rows.Next() {
		var r domain.JobRun
		if err := rows.Scan(
			&r.ID, &r.JobName, &r.StartedAt, &r.CompletedAt,
			&r.Status, &r.ErrorText, &r.RowsAffected,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *PostgresStore) exec(ctx context.Context, sql string, args ...any) error {
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("executing update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner, sub *domain.Submission) error {
	var ebayStatus *string

	err := row.Scan(
		&sub.ID, &sub.Name, &sub.Description, &sub.Condition, &sub.Issues,
		&sub.EstimatedPrice, &sub.EstimateSource,
		&sub.ImageURL, &sub.ImageList,
		&sub.Email, &sub.Phone, &sub.PhoneVerified,
		&sub.Address, &sub.PickupNotes,
		&sub.Status, &ebayStatus, &sub.ListingError,
		&sub.ListedOnEbay, &sub.EbayListingID, &sub.EbayOfferID, &sub.EbaySKU,
		&sub.OptimizedImages, &sub.ListedAt,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if ebayStatus != nil {
		st := domain.EbayStatus(*ebayStatus)
		sub.EbayStatus = &st
	}
	return nil
}
