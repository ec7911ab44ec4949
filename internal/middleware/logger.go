package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const loggerKey = "logger"

// RequestLogger stores a request scoped entry carrying the request id and
// logs one line per request once the error handler has written the response.
func RequestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			entry := log.WithFields(logrus.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     req.Method,
				"path":       req.URL.Path,
			})
			c.Set(loggerKey, entry)

			if err := next(c); err != nil {
				c.Error(err)
			}

			fields := logrus.Fields{
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
			}
			if c.Response().Status >= 500 {
				entry.WithFields(fields).Error("request failed")
			} else {
				entry.WithFields(fields).Info("request handled")
			}
			return nil
		}
	}
}

// Logger returns the entry installed by RequestLogger, or a bare entry when
// the middleware did not run.
func Logger(c echo.Context) *logrus.Entry {
	if entry, ok := c.Get(loggerKey).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
