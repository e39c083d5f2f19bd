package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/logger"
)

// NewLimiter builds a limiter for a formatted rate such as "10-M". Counters
// live in Redis when client is set, otherwise in process memory.
func NewLimiter(rate, prefix string, client *redis.Client) (*limiter.Limiter, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	store := memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: prefix, CleanUpInterval: limiter.DefaultCleanUpInterval})
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix, MaxRetry: 3})
		if err != nil {
			return nil, err
		}
	}
	return limiter.New(store, r), nil
}

// RateLimit throttles requests per client IP. Store failures let the request through.
func RateLimit(l *limiter.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			res, err := l.Get(ctx, c.RealIP())
			if err != nil {
				logger.FromContext(ctx).Warn("rate limiter unavailable", "error", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset, 10))
			if res.Reached {
				return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
					Error: apperrors.ErrRateLimited.Error(),
					Code:  "RATE_LIMITED",
				})
			}
			return next(c)
		}
	}
}
