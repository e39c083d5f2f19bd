package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"facilityaudit/internal/logger"
)

// ContextLogger attaches a request scoped logger carrying the request id.
// It must run after echo's RequestID middleware.
func ContextLogger(base logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := base
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				log = base.With("request_id", id)
			}
			req := c.Request()
			c.SetRequest(req.WithContext(logger.ContextWithLogger(req.Context(), log)))
			return next(c)
		}
	}
}

// RequestLogger writes one line per request.
func RequestLogger(base logger.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			keyvals := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			switch {
			case v.Error != nil && v.Status >= 500:
				base.Error("request failed", append(keyvals, "error", v.Error)...)
			case v.Status >= 400:
				base.Warn("request rejected", keyvals...)
			default:
				base.Info("request handled", keyvals...)
			}
			return nil
		},
	})
}
