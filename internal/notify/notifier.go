// Package notify sends transactional email for submission lifecycle
// events. Delivery is fire-and-forget: a send failure is logged and
// counted, never propagated into the calling flow.
package notify

import (
	"context"

	domain "github.com/bluberryhq/bluberry/pkg/types"
)

// Notifier sends lifecycle notifications.
type Notifier interface {
	// SubmissionReceived confirms intake to the submitter and alerts
	// the admin inbox.
	SubmissionReceived(ctx context.Context, sub *domain.Submission) error
	// SubmissionListed tells the submitter their item is live.
	SubmissionListed(ctx context.Context, sub *domain.Submission, listingID string) error
}
