package middleware

import (
	"log/slog"
	"strings"
	"time"

	"refresh-orchestrator/utils/logger"

	"github.com/labstack/echo/v4"
)

// LoggingMiddleware logs request start and completion. Health and metrics
// scrapes are skipped.
func LoggingMiddleware(baseLogger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.URL.Path == "/health" || req.URL.Path == "/metrics" {
				return next(c)
			}

			start := time.Now()
			ctx := req.Context()
			log := logger.FromContext(ctx, baseLogger)

			log.DebugContext(ctx, "request started",
				"method", req.Method,
				"path", req.URL.Path,
				"remote_addr", c.RealIP(),
			)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", res.Size,
			}
			switch {
			case res.Status >= 500:
				log.ErrorContext(ctx, "request completed", attrs...)
			case res.Status >= 400:
				log.WarnContext(ctx, "request completed", attrs...)
			case strings.HasPrefix(req.URL.Path, "/v1/sse/"):
				log.DebugContext(ctx, "stream closed", attrs...)
			default:
				log.InfoContext(ctx, "request completed", attrs...)
			}
			return nil
		}
	}
}
