package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abelbrown/roundup/internal/logging"
)

// RequestLogger writes one access log line per request.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logging.Info("request completed",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"size", c.Response().Size,
				"duration", time.Since(start))
			return nil
		}
	}
}
