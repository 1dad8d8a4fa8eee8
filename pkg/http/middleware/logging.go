package middleware

import (
	"time"

	applogger "MarketGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request. Must run inside the error handler
// so the final status is known; see Server.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			if l != nil {
				l.Info("http request",
					applogger.String("request_id", GetRequestID(c)),
					applogger.String("method", req.Method),
					applogger.String("uri", req.RequestURI),
					applogger.String("remote", c.RealIP()),
					applogger.Int("status", c.Response().Status),
					applogger.Duration("latency_ms", time.Since(start)),
				)
			}
			return nil
		}
	}
}
