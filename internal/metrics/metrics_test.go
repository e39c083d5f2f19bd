package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/fire-alarm/:id/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/boom/", func(c echo.Context) error { return echo.NewHTTPError(http.StatusForbidden) })

	for _, path := range []string{"/fire-alarm/1/", "/fire-alarm/2/", "/boom/"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/fire-alarm/:id/", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/boom/", "403")))
}

func TestObserveTransition(t *testing.T) {
	m := New()
	m.ObserveTransition("conduct", nil)
	m.ObserveTransition("conduct", errors.New("already conducted"))
	m.ObserveTransition("conduct", errors.New("already conducted"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("conduct", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("conduct", "rejected")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveTransition("approve", nil) })
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveReport("fire_alarm_weekly", "pdf")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "facility_audit_reports_generated_total"))
}
