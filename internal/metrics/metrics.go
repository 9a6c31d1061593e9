// Package metrics exposes the site's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LivePages = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wentitech_live_pages",
		Help: "Open browser tabs connected over WebSocket.",
	})

	ThemeTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wentitech_theme_toggles_total",
		Help: "Explicit theme switches, by entry point (live or fallback).",
	}, []string{"source"})

	CopiesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wentitech_copies_total",
		Help: "Copy-to-clipboard attempts on the company details card.",
	}, []string{"outcome"})

	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wentitech_contact_submissions_total",
		Help: "Contact form submit attempts, by outcome (invalid, sent, failed).",
	}, []string{"outcome"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wentitech_http_requests_total",
		Help: "HTTP requests served.",
	}, []string{"method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wentitech_http_request_duration_seconds",
		Help:    "HTTP request duration.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	}, []string{"method"})
)
