// Package store defines the datastore abstraction for bluberry.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables fake-based testing without a running database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/bluberryhq/bluberry/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// SubmissionQuery defines optional filters for submission queries.
type SubmissionQuery struct {
	Status *domain.Status
	Limit  int // default 50
	Offset int
}

// Store defines all data access operations for bluberry.
type Store interface {
	// Submissions
	CreateSubmission(ctx context.Context, s *domain.Submission) error
	GetSubmission(ctx context.Context, id string) (*domain.Submission, error)
	ListSubmissions(ctx context.Context, opts *SubmissionQuery) ([]domain.Submission, int, error)
	SetStatus(ctx context.Context, id string, status domain.Status) error
	UpdateEstimate(ctx context.Context, id string, price string, source string) error
	SetPhoneVerified(ctx context.Context, id string) error

	// Listing lifecycle. BeginListing performs the conditional
	// approved/pending -> listing transition and reports whether this
	// caller won the row; a false result means another attempt is
	// already in flight (or the row is in a non-listable state).
	BeginListing(ctx context.Context, id string) (bool, error)
	MarkListingFailed(ctx context.Context, id string, errText string) error
	MarkListed(ctx context.Context, id string, f domain.ListedFields) error
	RevertStaleListings(ctx context.Context, olderThan time.Duration) (int, error)

	// Scheduler
	InsertJobRun(ctx context.Context, jobName string) (id string, err error)
	CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error
	ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
