// Package metrics defines Prometheus metrics for bluberry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bluberry"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Listing pipeline metrics.
var (
	ListingAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_attempts_total",
		Help:      "Total number of listing publication attempts.",
	})

	ListingSuccessTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_success_total",
		Help:      "Total number of successfully published listings.",
	})

	ListingFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_failures_total",
		Help:      "Total number of failed listing attempts by pipeline stage.",
	}, []string{"stage"})

	ListingFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_fallbacks_total",
		Help:      "Total number of degraded pipeline stages that fell back to defaults.",
	}, []string{"stage"})

	ListingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "listing_duration_seconds",
		Help:      "Duration of complete listing attempts in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Image preparation metrics.
var (
	ImagesPreparedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_prepared_total",
		Help:      "Total number of images resized and re-uploaded.",
	})

	ImageFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_failures_total",
		Help:      "Total number of per-image preparation failures.",
	})
)

// eBay API metrics.
var (
	EbayAPICallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_api_calls_total",
		Help:      "Total cumulative eBay API calls by endpoint.",
	}, []string{"endpoint"})

	EbayDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ebay_daily_usage",
		Help:      "Current daily eBay API call count within the rolling 24-hour window.",
	})

	EbayDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_daily_limit_hits_total",
		Help:      "Total number of times the daily eBay API limit was reached.",
	})
)

// Price estimation metrics.
var (
	EstimatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimates_total",
		Help:      "Total price estimates by cascade source.",
	}, []string{"source"})

	EstimateFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimate_failures_total",
		Help:      "Total number of estimate requests where every cascade layer failed.",
	})
)

// Notification metrics.
var (
	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of email send failures.",
	})
)

// Sweep metrics.
var (
	SweepRecoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_recovered_total",
		Help:      "Total number of stale listing rows reverted to approved.",
	})
)
