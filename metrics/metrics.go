// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/*
Requests counts outbound API calls by method, route and status class.
Latency is a histogram per route so a watch session can show how slow the
API is, not just how often it was hit. Unauthorized counts the 401s that
ended a session.

Each ClientMetrics owns its registry; nothing is registered globally.
*/

type ClientMetrics struct {
	Requests     *prometheus.CounterVec
	Latency      *prometheus.HistogramVec
	Unauthorized prometheus.Counter

	registry *prometheus.Registry
}

func NewClientMetrics(namespace string) *ClientMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &ClientMetrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of API requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		Latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Histogram of API request latencies",
				Buckets:   prometheus.ExponentialBuckets(0.025, 2, 9), // 25ms to 6.4s
			},
			[]string{"route"},
		),
		Unauthorized: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "unauthorized_total",
				Help:      "Responses with status 401 that cleared the session",
			},
		),
		registry: reg,
	}
}

// Handler serves the registry in the prometheus text format
func (m *ClientMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry, mostly for tests
func (m *ClientMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
