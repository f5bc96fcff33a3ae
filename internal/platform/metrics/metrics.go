// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, route pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scry_http_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration tracks handler latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scry_http_request_duration_seconds",
		Help:    "Time spent serving HTTP requests.",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"route"})

	// LLMRequestsTotal counts single language model calls by model and outcome.
	LLMRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scry_llm_requests_total",
		Help: "Language model calls by outcome (ok, quota, blocked, error).",
	}, []string{"model", "outcome"})

	// LLMRequestDuration tracks single language model call latency per model.
	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scry_llm_request_duration_seconds",
		Help:    "Time spent waiting on the language model.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"model"})

	// LLMRetriesTotal counts retries scheduled after quota errors.
	LLMRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scry_llm_retries_total",
		Help: "Retries scheduled after quota or resource exhaustion errors.",
	})

	// ActiveSessions tracks sessions currently held in the registry.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scry_active_sessions",
		Help: "Number of live user sessions.",
	})
)
