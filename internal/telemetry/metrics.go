// Package telemetry exposes Prometheus counters for the HTTP API and the receiving workflow.
package telemetry

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	tagSubmissions    prometheus.Counter
	tagUnits          *prometheus.CounterVec
	receivingUpserts  prometheus.Counter
	receivingImported *prometheus.CounterVec
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "receiving_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "receiving_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		tagSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "receiving_problem_tag_submissions_total",
			Help: "Problem tag submissions committed.",
		}),
		tagUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "receiving_problem_tag_units_total",
			Help: "Problem units reported, by problem type.",
		}, []string{"problem_type"}),
		receivingUpserts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "receiving_daily_upserts_total",
			Help: "Daily receiving records written.",
		}),
		receivingImported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "receiving_import_rows_total",
			Help: "Spreadsheet import rows by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.tagSubmissions,
		m.tagUnits,
		m.receivingUpserts,
		m.receivingImported,
	)
	return m
}

// ObserveSubmission counts one committed problem tag and its units per type.
func (m *Metrics) ObserveSubmission(unitsByType map[string]int) {
	if m == nil {
		return
	}
	m.tagSubmissions.Inc()
	for typ, units := range unitsByType {
		m.tagUnits.WithLabelValues(typ).Add(float64(units))
	}
}

func (m *Metrics) ObserveReceivingUpsert() {
	if m == nil {
		return
	}
	m.receivingUpserts.Inc()
}

func (m *Metrics) ObserveImport(imported, skipped int) {
	if m == nil {
		return
	}
	m.receivingImported.WithLabelValues("imported").Add(float64(imported))
	m.receivingImported.WithLabelValues("skipped").Add(float64(skipped))
}

// Middleware records every request once the rest of the chain has written its response.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}

		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry, plus the default registry where the database collectors live.
func (m *Metrics) Handler() fiber.Handler {
	gatherers := prometheus.Gatherers{m.gatherer, prometheus.DefaultGatherer}
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}))
}
