package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedEcho(t *testing.T, client *redis.Client) *echo.Echo {
	t.Helper()
	l, err := NewLimiter("2-M", "test:login", client)
	require.NoError(t, err)
	e := echo.New()
	e.POST("/token/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, RateLimit(l))
	return e
}

func post(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/token/", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_InMemory(t *testing.T) {
	e := newLimitedEcho(t, nil)

	first := post(e, "10.0.0.1")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	require.Equal(t, http.StatusOK, post(e, "10.0.0.1").Code)
	blocked := post(e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Contains(t, blocked.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusOK, post(e, "10.0.0.2").Code, "other clients are counted separately")
}

func TestRateLimit_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	e := newLimitedEcho(t, redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	assert.Equal(t, http.StatusOK, post(e, "10.0.0.9").Code)
	assert.Equal(t, http.StatusOK, post(e, "10.0.0.9").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(e, "10.0.0.9").Code)
}

func TestNewLimiter_BadRate(t *testing.T) {
	_, err := NewLimiter("ten per minute", "x", nil)
	assert.Error(t, err)
}
