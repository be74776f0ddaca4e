// Package metrics provides Prometheus observability metrics for the
// attribution service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// AnalysisJobsTotal tracks batch analysis jobs started.
var AnalysisJobsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "analysis",
	Name:      "jobs_total",
	Help:      "Total batch analysis jobs started",
})

// TicketAnalysesTotal tracks analyzed tickets by outcome.
var TicketAnalysesTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "analysis",
	Name:      "tickets_total",
	Help:      "Total ticket analyses by outcome",
}, []string{"outcome"})

// TicketAnalysisDurationSeconds tracks time to analyze a single ticket,
// including the vendor fetch.
var TicketAnalysisDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "analysis",
	Name:      "ticket_duration_seconds",
	Help:      "Time taken to fetch and analyze one ticket",
	Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
})

// JobDurationSeconds tracks end-to-end batch job duration.
var JobDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "analysis",
	Name:      "job_duration_seconds",
	Help:      "End-to-end duration of a batch analysis job",
	Buckets:   []float64{0.1, 0.5, 1.0, 5.0, 15.0, 30.0, 60.0, 120.0, 300.0},
})

// VendorRequestsTotal tracks upstream vendor API calls by endpoint and outcome.
var VendorRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vendor",
	Name:      "requests_total",
	Help:      "Total vendor API requests by endpoint and outcome",
}, []string{"endpoint", "outcome"})

// VendorRequestDurationSeconds tracks vendor API latency by endpoint.
var VendorRequestDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "vendor",
	Name:      "request_duration_seconds",
	Help:      "Vendor API request latency by endpoint",
	Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
}, []string{"endpoint"})

// TicketCacheTotal tracks ticket detail cache lookups by result.
var TicketCacheTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vendor",
	Name:      "ticket_cache_total",
	Help:      "Ticket detail cache lookups by result",
}, []string{"result"})
