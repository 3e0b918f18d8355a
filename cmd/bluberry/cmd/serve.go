package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/bluberryhq/bluberry/internal/api/handlers"
	mw "github.com/bluberryhq/bluberry/internal/api/middleware"
	"github.com/bluberryhq/bluberry/internal/config"
	"github.com/bluberryhq/bluberry/internal/ebay"
	"github.com/bluberryhq/bluberry/internal/engine"
	"github.com/bluberryhq/bluberry/internal/images"
	"github.com/bluberryhq/bluberry/internal/listing"
	"github.com/bluberryhq/bluberry/internal/notify"
	"github.com/bluberryhq/bluberry/internal/pricing"
	"github.com/bluberryhq/bluberry/internal/store"
	"github.com/bluberryhq/bluberry/internal/verify"
	"github.com/bluberryhq/bluberry/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	// One rate limiter shared across all eBay clients so the daily quota
	// is enforced account-wide.
	limiter := ebay.NewRateLimiter(
		cfg.Ebay.RateLimit.PerSecond,
		cfg.Ebay.RateLimit.Burst,
		cfg.Ebay.RateLimit.DailyLimit,
	)

	tokens := ebay.NewOAuthTokenProvider(
		cfg.Ebay.ClientID,
		cfg.Ebay.ClientSecret,
		cfg.Ebay.RefreshToken,
		ebay.WithTokenURL(cfg.Ebay.TokenURL),
	)

	taxonomy := ebay.NewTaxonomyClient(tokens,
		ebay.WithTaxonomyBaseURL(cfg.Ebay.APIBaseURL),
		ebay.WithTaxonomyMarketplace(cfg.Ebay.Marketplace),
		ebay.WithTaxonomyRateLimiter(limiter),
	)
	sell := ebay.NewSellClient(tokens,
		ebay.WithSellBaseURL(cfg.Ebay.APIBaseURL),
		ebay.WithSellMarketplace(cfg.Ebay.Marketplace),
		ebay.WithSellRateLimiter(limiter),
	)
	browse := ebay.NewBrowseClient(tokens,
		ebay.WithBrowseBaseURL(cfg.Ebay.APIBaseURL),
		ebay.WithBrowseMarketplace(cfg.Ebay.Marketplace),
		ebay.WithBrowseRateLimiter(limiter),
	)

	bucket := images.NewBucketClient(
		cfg.Storage.Endpoint,
		cfg.Storage.APIKey,
		cfg.Storage.Bucket,
		cfg.Storage.PublicURL,
	)
	preparer := images.NewPreparer(bucket, log)

	estimator := pricing.NewEstimator(pricingBackend(cfg), browse, log)

	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.Notifications.Email.Enabled {
		var emailOpts []notify.EmailOption
		if cfg.Notifications.Email.Endpoint != "" {
			emailOpts = append(emailOpts, notify.WithEmailEndpoint(cfg.Notifications.Email.Endpoint))
		}
		notifier = notify.NewEmailNotifier(
			cfg.Notifications.Email.APIKey,
			cfg.Notifications.Email.From,
			cfg.Notifications.Email.AdminTo,
			log,
			emailOpts...,
		)
	}

	var verifier verify.Verifier
	if cfg.Verification.Enabled {
		var verifyOpts []verify.Option
		if cfg.Verification.Endpoint != "" {
			verifyOpts = append(verifyOpts, verify.WithEndpoint(cfg.Verification.Endpoint))
		}
		verifier = verify.NewClient(
			cfg.Verification.AccountSID,
			cfg.Verification.AuthToken,
			cfg.Verification.ServiceSID,
			verifyOpts...,
		)
	}

	orchestrator := listing.NewOrchestrator(st, tokens, taxonomy, sell, preparer, listing.Config{
		MarketplaceID:       cfg.Ebay.Marketplace,
		FulfillmentPolicyID: cfg.Ebay.FulfillmentPolicyID,
		PaymentPolicyID:     cfg.Ebay.PaymentPolicyID,
		ReturnPolicyID:      cfg.Ebay.ReturnPolicyID,
		MerchantLocationKey: cfg.Ebay.MerchantLocationKey,
	}, log)

	sweeper := engine.NewSweeper(st, cfg.Sweep.OlderThan, log)
	scheduler, err := engine.NewScheduler(sweeper, cfg.Sweep.Interval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(mw.RequestLog(log))
	e.Use(mw.Recovery(log))
	e.Use(mw.Metrics())

	healthHandler := handlers.NewHealthHandler(st)
	e.GET("/healthz", healthHandler.Healthz)
	e.GET("/readyz", healthHandler.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	submissionsHandler := handlers.NewSubmissionsHandler(st, notifier, log)

	publicAPI := humaecho.NewWithGroup(e, e.Group(""), huma.DefaultConfig("bluberry", Version))
	handlers.RegisterSubmissionRoutes(publicAPI, submissionsHandler)
	handlers.RegisterEstimateRoutes(publicAPI, handlers.NewEstimateHandler(estimator, st))
	if verifier != nil {
		handlers.RegisterVerifyRoutes(publicAPI, handlers.NewVerifyHandler(verifier, st))
	}

	adminGroup := e.Group("", mw.AdminAuth(cfg.Admin.Password))
	adminAPI := humaecho.NewWithGroup(e, adminGroup, huma.DefaultConfig("bluberry-admin", Version))
	handlers.RegisterSubmissionAdminRoutes(adminAPI, submissionsHandler)
	handlers.RegisterListItemRoutes(adminAPI, handlers.NewListItemHandler(orchestrator, st, notifier, log))
	handlers.RegisterJobRoutes(adminAPI, handlers.NewJobsHandler(st))

	scheduler.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// pricingBackend builds the configured AI estimation backend, or nil when
// disabled so the estimator falls straight through to comparables.
func pricingBackend(cfg *config.Config) pricing.Backend {
	hc := &http.Client{Timeout: cfg.Pricing.Timeout}

	switch cfg.Pricing.Backend {
	case "anthropic":
		return pricing.NewAnthropicBackend(
			cfg.Pricing.Anthropic.APIKey,
			cfg.Pricing.Anthropic.Model,
			pricing.WithAnthropicHTTPClient(hc),
		)
	case "openai_compat":
		return pricing.NewOpenAICompatBackend(
			cfg.Pricing.OpenAICompat.Endpoint,
			cfg.Pricing.OpenAICompat.APIKey,
			cfg.Pricing.OpenAICompat.Model,
			pricing.WithOpenAICompatHTTPClient(hc),
		)
	default:
		return nil
	}
}
