// Package metrics holds the Prometheus collectors for the site and its tooling.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_site_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "profile_site_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Gallery metrics
var (
	GalleryBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_site_gallery_builds_total",
			Help: "Total number of gallery catalog builds",
		},
		[]string{"status"},
	)

	GalleryItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profile_site_gallery_items",
			Help: "Number of items in the last built gallery catalog",
		},
	)

	GalleryFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_site_gallery_fallback_total",
			Help: "Times the placeholder gallery was served because no images were found",
		},
	)
)

// Purge metrics
var (
	PurgeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_site_purge_requests_total",
			Help: "Total number of cache purge requests",
		},
		[]string{"kind", "outcome"},
	)

	PurgedURLsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_site_purged_urls_total",
			Help: "Total number of URLs purged from the edge cache",
		},
	)
)
