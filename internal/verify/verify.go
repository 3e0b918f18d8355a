// Package verify delegates phone verification to a Twilio Verify style
// API: one call issues an SMS code, a second call checks the code the
// user typed back.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultVerifyEndpoint = "https://verify.twilio.com/v2"

// Verifier issues and checks phone verification codes.
type Verifier interface {
	Start(ctx context.Context, phone string) error
	Check(ctx context.Context, phone, code string) (bool, error)
}

// Client implements Verifier against a Twilio Verify style REST API.
type Client struct {
	endpoint   string
	accountSID string
	authToken  string
	serviceSID string
	client     *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithEndpoint overrides the default API endpoint.
func WithEndpoint(u string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a verification client for one Verify service.
func NewClient(accountSID, authToken, serviceSID string, opts ...Option) *Client {
	c := &Client{
		endpoint:   defaultVerifyEndpoint,
		accountSID: accountSID,
		authToken:  authToken,
		serviceSID: serviceSID,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start sends a verification code to the phone number via SMS.
func (c *Client) Start(ctx context.Context, phone string) error {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Channel", "sms")

	u := fmt.Sprintf("%s/Services/%s/Verifications", c.endpoint, c.serviceSID)
	_, err := c.postForm(ctx, u, form)
	if err != nil {
		return fmt.Errorf("starting verification: %w", err)
	}
	return nil
}

type checkResponse struct {
	Status string `json:"status"`
}

// Check validates the code the user entered. A false result with nil
// error means the code was wrong or expired.
func (c *Client) Check(ctx context.Context, phone, code string) (bool, error) {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Code", code)

	u := fmt.Sprintf("%s/Services/%s/VerificationCheck", c.endpoint, c.serviceSID)
	body, err := c.postForm(ctx, u, form)
	if err != nil {
		return false, fmt.Errorf("checking verification: %w", err)
	}

	var resp checkResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("parsing verification response: %w", err)
	}
	return resp.Status == "approved", nil
}

func (c *Client) postForm(ctx context.Context, u string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, u, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("verification API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
