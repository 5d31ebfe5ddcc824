package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"travelnest/config"
	"travelnest/shared/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	return string(body)
}

func TestMetricsExposition(t *testing.T) {
	cfg := &config.Config{}
	cfg.Metrics.Namespace = "travelnest"

	m := metrics.New(cfg)
	m.IncBooking(metrics.BookingOutcomeConfirmed)
	m.IncBooking(metrics.BookingOutcomeUnavailable)
	m.IncBooking(metrics.BookingOutcomeUnavailable)
	m.IncStatusChange("cancelled")
	m.ObserveHTTP(http.MethodPost, "/v1/bookings", http.StatusCreated, 15*time.Millisecond)

	body := scrape(t, m)

	assert.Contains(t, body, `travelnest_booking_attempts_total{outcome="confirmed"} 1`)
	assert.Contains(t, body, `travelnest_booking_attempts_total{outcome="unavailable"} 2`)
	assert.Contains(t, body, `travelnest_booking_status_changes_total{status="cancelled"} 1`)
	assert.Contains(t, body, `travelnest_http_requests_total{method="POST",route="/v1/bookings",status="201"} 1`)
}

func TestMetricsIndependentRegistries(t *testing.T) {
	first := metrics.New(&config.Config{})
	second := metrics.New(&config.Config{})

	first.IncBooking(metrics.BookingOutcomeConfirmed)

	assert.NotContains(t, scrape(t, second), `booking_attempts_total{outcome="confirmed"}`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.IncBooking(metrics.BookingOutcomeError)
		m.IncStatusChange("confirmed")
		m.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
