package middleware

import (
	"fmt"
	"runtime/debug"

	applogger "MarketGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns a handler panic into an error for the server error handler.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					if l != nil {
						l.Error("panic recovered",
							applogger.String("request_id", GetRequestID(c)),
							applogger.String("path", c.Path()),
							applogger.Error(perr),
							applogger.String("stack", string(debug.Stack())),
						)
					}
					err = fmt.Errorf("panic: %w", perr)
				}
			}()
			return next(c)
		}
	}
}
