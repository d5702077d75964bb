package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowscope_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowscope_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flowscope_http_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"method"},
	)

	tracesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowscope_traces_ingested_total",
			Help: "Total number of traces ingested",
		},
		[]string{"experiment_id"},
	)

	spansIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowscope_spans_ingested_total",
			Help: "Total number of spans ingested",
		},
		[]string{"experiment_id"},
	)

	assessmentsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowscope_assessments_logged_total",
			Help: "Total number of assessments logged",
		},
		[]string{"type", "source_type"},
	)

	evalRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowscope_eval_runs_total",
			Help: "Total number of evaluation runs executed",
		},
		[]string{"status"},
	)

	evalRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowscope_eval_run_duration_seconds",
			Help:    "Evaluation run duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 300},
		},
	)
)

// Metrics creates a Prometheus metrics middleware
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if HealthSkipper(c) || c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		method := c.Method()
		// Route pattern keeps label cardinality bounded; falls back to the
		// raw path before routing has happened.
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}

		httpActiveRequests.WithLabelValues(method).Inc()
		defer httpActiveRequests.WithLabelValues(method).Dec()

		err := c.Next()

		status := strconv.Itoa(c.Response().StatusCode())
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}

// RecordTraceIngested records trace ingestion counts
func RecordTraceIngested(experimentID string, count int) {
	tracesIngested.WithLabelValues(experimentID).Add(float64(count))
}

// RecordSpansIngested records span ingestion counts
func RecordSpansIngested(experimentID string, count int) {
	spansIngested.WithLabelValues(experimentID).Add(float64(count))
}

// RecordAssessmentLogged records an assessment write
func RecordAssessmentLogged(assessmentType, sourceType string) {
	assessmentsLogged.WithLabelValues(assessmentType, sourceType).Inc()
}

// RecordEvalRun records an evaluation run outcome
func RecordEvalRun(status string, duration time.Duration) {
	evalRunsTotal.WithLabelValues(status).Inc()
	evalRunDuration.Observe(duration.Seconds())
}
