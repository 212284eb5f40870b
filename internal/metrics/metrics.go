// Package metrics records HTTP and analysis metrics with Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis outcomes
const (
	OutcomeOK           = "ok"
	OutcomeInsufficient = "insufficient_data"
	OutcomeError        = "error"
)

// Recorder owns a private registry so tests and multiple servers in one
// process do not collide on registration.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge

	analysisRuns     *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	analysisRecords  prometheus.Histogram
	recordWrites     *prometheus.CounterVec
	exportsTotal     *prometheus.CounterVec
}

// New creates a Recorder with Go and process collectors registered
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "neuralpath_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "class"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "neuralpath_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"route", "method", "class"},
		),
		httpInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "neuralpath_http_in_flight_requests",
				Help: "Current number of in-flight HTTP requests",
			},
		),
		analysisRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "neuralpath_analysis_runs_total",
				Help: "Analysis runs by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		analysisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "neuralpath_analysis_duration_seconds",
				Help:    "Time spent computing an analysis, storage excluded",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"kind"},
		),
		analysisRecords: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "neuralpath_analysis_records",
				Help:    "Number of records in an analysis window",
				Buckets: []float64{0, 7, 14, 30, 60, 90, 180, 365},
			},
		),
		recordWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "neuralpath_record_writes_total",
				Help: "Symptom record writes by operation",
			},
			[]string{"operation"},
		),
		exportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "neuralpath_exports_total",
				Help: "Data exports by format",
			},
			[]string{"format"},
		),
	}
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveHTTP records one finished request
func (r *Recorder) ObserveHTTP(route, method string, status int, d time.Duration) {
	class := StatusClass(status)
	r.httpRequests.WithLabelValues(route, method, class).Inc()
	r.httpDuration.WithLabelValues(route, method, class).Observe(d.Seconds())
}

// InFlight adjusts the in-flight gauge by delta
func (r *Recorder) InFlight(delta float64) {
	r.httpInFlight.Add(delta)
}

// ObserveAnalysis records one analysis run
func (r *Recorder) ObserveAnalysis(kind, outcome string, records int, d time.Duration) {
	r.analysisRuns.WithLabelValues(kind, outcome).Inc()
	if outcome == OutcomeError {
		return
	}
	r.analysisDuration.WithLabelValues(kind).Observe(d.Seconds())
	r.analysisRecords.Observe(float64(records))
}

// RecordWrite counts a create, update or delete
func (r *Recorder) RecordWrite(operation string) {
	r.recordWrites.WithLabelValues(operation).Inc()
}

// RecordExport counts an export in the given format
func (r *Recorder) RecordExport(format string) {
	r.exportsTotal.WithLabelValues(format).Inc()
}

// StatusClass buckets an HTTP status code as "2xx", "4xx" and so on
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return strconv.Itoa(code/100) + "xx"
}
