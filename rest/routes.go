package rest

import (
	"log/slog"
	"strings"

	middleware_custom "refresh-orchestrator/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes installs middleware and all routes on e.
func RegisterRoutes(e *echo.Echo, h *Handler, bodyLimit string, log *slog.Logger) {
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(middleware_custom.RequestIDMiddleware())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware_custom.LoggingMiddleware(log))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/v1/sse/") || c.Path() == "/health"
		},
	}))

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")
	v1.POST("/queue/feed-refresh", h.QueueFeedRefresh)
	v1.GET("/batches/:batch_id/status", h.GetBatchStatus)
	v1.POST("/batches/:batch_id/notify", h.ReceiveNotification)
	v1.GET("/sse/batches/:batch_id", h.StreamBatchStatus)
}
