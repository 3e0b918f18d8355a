package notify

import (
	"context"

	domain "github.com/bluberryhq/bluberry/pkg/types"
)

// NoopNotifier discards all notifications. Used when email delivery is
// disabled in configuration.
type NoopNotifier struct{}

func (NoopNotifier) SubmissionReceived(context.Context, *domain.Submission) error {
	return nil
}

func (NoopNotifier) SubmissionListed(context.Context, *domain.Submission, string) error {
	return nil
}
