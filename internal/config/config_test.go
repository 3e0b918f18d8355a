package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberryhq/bluberry/internal/config"
)

const minimalConfig = `
database:
  host: localhost
  name: bluberry
  user: bluberry
ebay:
  client_id: app-id
  client_secret: cert-id
  fulfillment_policy_id: fp-1
  payment_policy_id: pp-1
  return_policy_id: rp-1
  merchant_location_key: warehouse-1
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "https://api.ebay.com", cfg.Ebay.APIBaseURL)
	assert.Equal(t, "EBAY_US", cfg.Ebay.Marketplace)
	assert.Equal(t, int64(5000), cfg.Ebay.RateLimit.DailyLimit)
	assert.Equal(t, "none", cfg.Pricing.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Sweep.Interval)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("BLUBERRY_DB_PASSWORD", "s3cret")

	cfg, err := config.Load(writeConfig(t, `
database:
  host: localhost
  name: bluberry
  user: bluberry
  password: ${BLUBERRY_DB_PASSWORD}
ebay:
  client_id: a
  client_secret: b
  fulfillment_policy_id: fp
  payment_policy_id: pp
  return_policy_id: rp
  merchant_location_key: loc
`))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoad_MissingPolicyIDsFailsValidation(t *testing.T) {
	tests := []struct {
		name    string
		drop    string
		wantErr string
	}{
		{"missing fulfillment policy", "fulfillment_policy_id", "ebay.fulfillment_policy_id is required"},
		{"missing payment policy", "payment_policy_id", "ebay.payment_policy_id is required"},
		{"missing return policy", "return_policy_id", "ebay.return_policy_id is required"},
		{"missing merchant location", "merchant_location_key", "ebay.merchant_location_key is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `
database:
  host: localhost
  name: bluberry
  user: bluberry
ebay:
  client_id: a
  client_secret: b
`
			for _, key := range []string{
				"fulfillment_policy_id",
				"payment_policy_id",
				"return_policy_id",
				"merchant_location_key",
			} {
				if key == tt.drop {
					continue
				}
				content += "  " + key + ": x\n"
			}

			_, err := config.Load(writeConfig(t, content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_InvalidPricingBackend(t *testing.T) {
	_, err := config.Load(writeConfig(t, minimalConfig+`
pricing:
  backend: crystal_ball
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pricing.backend must be one of")
}

func TestLoad_AnthropicBackendRequiresModel(t *testing.T) {
	_, err := config.Load(writeConfig(t, minimalConfig+`
pricing:
  backend: anthropic
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pricing.anthropic.model is required")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	t.Parallel()

	d := &config.DatabaseConfig{
		Host: "db", Port: 5433, Name: "bb", User: "u", Password: "p", SSLMode: "require",
	}
	assert.Equal(t, "host=db port=5433 dbname=bb user=u password=p sslmode=require", d.DSN())
}
