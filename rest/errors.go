package rest

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "refresh-orchestrator/utils/errors"
	"refresh-orchestrator/utils/logger"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders AppContextErrors with their mapped status and hides
// the details of anything else.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		ctx := c.Request().Context()

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			_ = c.JSON(httpErr.Code, map[string]any{"error": http.StatusText(httpErr.Code), "message": httpErr.Message})
			return
		}

		if appErr, ok := apperrors.AsAppContextError(err); ok {
			status := appErr.HTTPStatusCode()
			if status >= http.StatusInternalServerError {
				logger.FromContext(ctx, log).ErrorContext(ctx, "request failed", "error", err, "code", appErr.Code)
			}
			_ = c.JSON(status, appErr.ToHTTPResponse())
			return
		}

		logger.FromContext(ctx, log).ErrorContext(ctx, "unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, apperrors.HTTPContextResponse{
			Error:   "error",
			Code:    apperrors.CodeUnknown,
			Message: "internal server error",
		})
	}
}
