package ebay

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultTokenURL = "https://api.ebay.com/identity/v1/oauth2/token" //nolint:gosec // not a credential
	refreshBuffer   = 60 * time.Second
)

// sellScopes are the minimum scopes needed to create and publish offers.
var sellScopes = []string{
	"https://api.ebay.com/oauth/api_scope",
	"https://api.ebay.com/oauth/api_scope/sell.inventory",
	"https://api.ebay.com/oauth/api_scope/sell.account.readonly",
}

// OAuthTokenProvider implements TokenProvider using the eBay OAuth2
// refresh-token grant. Listing on behalf of the seller account requires a
// user token, so a long-lived refresh token is exchanged for short-lived
// access tokens, cached until 60 seconds before expiry. Thread-safe via mutex.
type OAuthTokenProvider struct {
	conf         *oauth2.Config
	refreshToken string

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time // for testing

	baseCtx context.Context
}

// OAuthOption configures the OAuthTokenProvider.
type OAuthOption func(*OAuthTokenProvider)

// WithTokenURL overrides the default eBay token endpoint.
func WithTokenURL(u string) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.conf.Endpoint.TokenURL = u
	}
}

// WithHTTPClient overrides the HTTP client used for token exchanges.
func WithHTTPClient(c *http.Client) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.baseCtx = context.WithValue(context.Background(), oauth2.HTTPClient, c)
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.nowFunc = f
	}
}

// NewOAuthTokenProvider creates a token provider for the given eBay
// application credentials and seller refresh token.
func NewOAuthTokenProvider(
	clientID, clientSecret, refreshToken string,
	opts ...OAuthOption,
) *OAuthTokenProvider {
	p := &OAuthTokenProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       sellScopes,
			Endpoint: oauth2.Endpoint{
				TokenURL:  defaultTokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		refreshToken: refreshToken,
		nowFunc:      time.Now,
		baseCtx:      context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns a valid access token, refreshing if necessary.
func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.nowFunc().Before(p.expiry.Add(-refreshBuffer)) {
		return p.token, nil
	}

	return p.refreshLocked(ctx)
}

func (p *OAuthTokenProvider) refreshLocked(ctx context.Context) (string, error) {
	// oauth2 reads the HTTP client from the context, so merge the
	// configured base context with the caller's cancellation.
	refreshCtx := p.baseCtx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		refreshCtx, cancel = context.WithDeadline(refreshCtx, deadline)
		defer cancel()
	}

	src := p.conf.TokenSource(refreshCtx, &oauth2.Token{RefreshToken: p.refreshToken})

	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("refreshing access token: %w", err)
	}

	p.token = tok.AccessToken
	p.expiry = tok.Expiry
	if p.expiry.IsZero() {
		p.expiry = p.nowFunc().Add(time.Hour)
	}

	return p.token, nil
}
