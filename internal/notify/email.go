package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bluberryhq/bluberry/internal/metrics"
	domain "github.com/bluberryhq/bluberry/pkg/types"
)

const defaultEmailEndpoint = "https://api.resend.com/emails"

// EmailNotifier implements Notifier over a Resend-style transactional
// email HTTP API.
type EmailNotifier struct {
	endpoint string
	apiKey   string
	from     string
	adminTo  string
	client   *http.Client
	log      *slog.Logger
}

// EmailOption configures the EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithEmailEndpoint overrides the default delivery endpoint.
func WithEmailEndpoint(u string) EmailOption {
	return func(n *EmailNotifier) {
		n.endpoint = u
	}
}

// WithEmailHTTPClient overrides the default HTTP client.
func WithEmailHTTPClient(hc *http.Client) EmailOption {
	return func(n *EmailNotifier) {
		n.client = hc
	}
}

// NewEmailNotifier creates an email notifier. adminTo receives a copy of
// intake notifications; empty disables the admin copy.
func NewEmailNotifier(apiKey, from, adminTo string, log *slog.Logger, opts ...EmailOption) *EmailNotifier {
	n := &EmailNotifier{
		endpoint: defaultEmailEndpoint,
		apiKey:   apiKey,
		from:     from,
		adminTo:  adminTo,
		client:   &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SubmissionReceived confirms intake to the submitter, with an admin copy.
func (n *EmailNotifier) SubmissionReceived(ctx context.Context, sub *domain.Submission) error {
	if sub.Email != "" {
		n.send(ctx, emailPayload{
			From:    n.from,
			To:      []string{sub.Email},
			Subject: "We received your BluBerry submission",
			HTML: fmt.Sprintf(
				"<p>Thanks for submitting <strong>%s</strong>. "+
					"We will review it and follow up with a price estimate.</p>",
				sub.Name),
		})
	}
	if n.adminTo != "" {
		n.send(ctx, emailPayload{
			From:    n.from,
			To:      []string{n.adminTo},
			Subject: fmt.Sprintf("New submission: %s", sub.Name),
			HTML: fmt.Sprintf(
				"<p>Submission <code>%s</code> (%s) is awaiting review.</p>",
				sub.ID, sub.Name),
		})
	}
	return nil
}

// SubmissionListed tells the submitter their item is live.
func (n *EmailNotifier) SubmissionListed(ctx context.Context, sub *domain.Submission, listingID string) error {
	if sub.Email == "" {
		return nil
	}
	n.send(ctx, emailPayload{
		From:    n.from,
		To:      []string{sub.Email},
		Subject: fmt.Sprintf("Your item is live: %s", sub.Name),
		HTML: fmt.Sprintf(
			"<p><strong>%s</strong> is now listed on eBay (listing %s).</p>",
			sub.Name, listingID),
	})
	return nil
}

// send delivers one email. Failures are logged and counted; callers
// never see them.
func (n *EmailNotifier) send(ctx context.Context, payload emailPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		n.logFailure(payload, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(data))
	if err != nil {
		n.logFailure(payload, err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logFailure(payload, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024)) //nolint:errcheck // best-effort diagnostics
		n.logFailure(payload, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}
}

func (n *EmailNotifier) logFailure(payload emailPayload, err error) {
	metrics.NotificationFailuresTotal.Inc()
	n.log.Error("email delivery failed",
		"to", strings.Join(payload.To, ","),
		"subject", payload.Subject,
		"error", err)
}
