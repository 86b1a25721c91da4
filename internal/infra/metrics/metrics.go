package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Upstream API calls by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: ok, http, transport, parse
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	FallbackServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mock_fallback_served_total",
			Help: "Responses answered from the mock dataset after an upstream failure",
		},
		[]string{"endpoint"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_cache_lookups_total",
			Help: "Reuse-window cache lookups by result",
		},
		[]string{"result"},
	)

	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Feeds resolved by mode",
		},
		[]string{"mode", "status"},
	)

	FeedEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_events_published_total",
			Help: "Feed events written to Kafka",
		},
		[]string{"status"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Inbound requests rejected by the per-client limiter",
		},
	)
)
