package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSubmissionCountsUnitsPerType(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSubmission(map[string]int{"Short": 2, "Factory Damage": 1})
	m.ObserveSubmission(map[string]int{"Short": 3})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tagSubmissions))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.tagUnits.WithLabelValues("Short")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tagUnits.WithLabelValues("Factory Damage")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSubmission(map[string]int{"Short": 1})
		m.ObserveReceivingUpsert()
		m.ObserveImport(1, 1)
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/metrics", m.Handler())
	app.Get("/api/customers", func(c *fiber.Ctx) error { return c.SendString("[]") })
	app.Get("/api/broken", func(c *fiber.Ctx) error { return fiber.ErrBadRequest })

	for _, path := range []string{"/api/customers", "/api/customers", "/api/broken"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/customers", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/broken", "400")))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "receiving_http_requests_total")
}
