// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Ebay          EbayConfig          `yaml:"ebay"`
	Storage       StorageConfig       `yaml:"storage"`
	Pricing       PricingConfig       `yaml:"pricing"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Verification  VerificationConfig  `yaml:"verification"`
	Admin         AdminConfig         `yaml:"admin"`
	Sweep         SweepConfig         `yaml:"sweep"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// EbayConfig defines eBay API settings. The policy ids and merchant
// location key are hard preconditions for publishing: an offer cannot
// be created without them, so their absence fails config validation
// rather than surfacing as a runtime marketplace error.
type EbayConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	TokenURL     string `yaml:"token_url"`
	APIBaseURL   string `yaml:"api_base_url"`
	Marketplace  string `yaml:"marketplace"`

	FulfillmentPolicyID string `yaml:"fulfillment_policy_id"`
	PaymentPolicyID     string `yaml:"payment_policy_id"`
	ReturnPolicyID      string `yaml:"return_policy_id"`
	MerchantLocationKey string `yaml:"merchant_location_key"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines eBay API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// StorageConfig defines the object storage bucket used for optimized
// listing images.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"api_key"`
	Bucket    string `yaml:"bucket"`
	PublicURL string `yaml:"public_url"`
}

// PricingConfig defines the price estimation cascade settings.
type PricingConfig struct {
	Backend      string             `yaml:"backend"` // anthropic, openai_compat, none
	Anthropic    AnthropicConfig    `yaml:"anthropic"`
	OpenAICompat OpenAICompatConfig `yaml:"openai_compat"`
	Timeout      time.Duration      `yaml:"timeout"`
}

// AnthropicConfig defines Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// OpenAICompatConfig defines OpenAI-compatible endpoint settings.
type OpenAICompatConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// NotificationsConfig defines transactional email settings.
type NotificationsConfig struct {
	Email EmailConfig `yaml:"email"`
}

// EmailConfig defines the email delivery API settings.
type EmailConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	AdminTo  string `yaml:"admin_to"`
}

// VerificationConfig defines the phone verification API settings.
type VerificationConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	ServiceSID string `yaml:"service_sid"`
}

// AdminConfig defines admin dashboard access settings.
type AdminConfig struct {
	Password string `yaml:"password"`
}

// SweepConfig defines the stale-listing recovery sweep.
type SweepConfig struct {
	Interval  time.Duration `yaml:"interval"`
	OlderThan time.Duration `yaml:"older_than"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyEbayDefaults(&cfg.Ebay)
	applyPricingDefaults(&cfg.Pricing)
	applySweepDefaults(&cfg.Sweep)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.TokenURL == "" {
		e.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if e.APIBaseURL == "" {
		e.APIBaseURL = "https://api.ebay.com"
	}
	if e.Marketplace == "" {
		e.Marketplace = "EBAY_US"
	}
	applyRateLimitDefaults(&e.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyPricingDefaults(p *PricingConfig) {
	if p.Backend == "" {
		p.Backend = "none"
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
}

func applySweepDefaults(s *SweepConfig) {
	if s.Interval == 0 {
		s.Interval = 10 * time.Minute
	}
	if s.OlderThan == 0 {
		s.OlderThan = 30 * time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	errs = append(errs, validateEbay(&cfg.Ebay)...)
	errs = append(errs, validatePricing(&cfg.Pricing)...)

	return errors.Join(errs...)
}

func validateEbay(e *EbayConfig) []error {
	var errs []error

	if e.ClientID == "" {
		errs = append(errs, fmt.Errorf("ebay.client_id is required"))
	}
	if e.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("ebay.client_secret is required"))
	}
	if e.FulfillmentPolicyID == "" {
		errs = append(errs, fmt.Errorf("ebay.fulfillment_policy_id is required"))
	}
	if e.PaymentPolicyID == "" {
		errs = append(errs, fmt.Errorf("ebay.payment_policy_id is required"))
	}
	if e.ReturnPolicyID == "" {
		errs = append(errs, fmt.Errorf("ebay.return_policy_id is required"))
	}
	if e.MerchantLocationKey == "" {
		errs = append(errs, fmt.Errorf("ebay.merchant_location_key is required"))
	}

	return errs
}

func validatePricing(p *PricingConfig) []error {
	switch p.Backend {
	case "none":
		return nil
	case "anthropic":
		if p.Anthropic.Model == "" {
			return []error{fmt.Errorf("pricing.anthropic.model is required when backend is anthropic")}
		}
	case "openai_compat":
		if p.OpenAICompat.Endpoint == "" {
			return []error{fmt.Errorf("pricing.openai_compat.endpoint is required when backend is openai_compat")}
		}
	default:
		return []error{fmt.Errorf(
			"pricing.backend must be one of: anthropic, openai_compat, none (got %q)",
			p.Backend,
		)}
	}
	return nil
}
