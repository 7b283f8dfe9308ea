package rest

import (
	"errors"
	"io"
	"net/http"

	"refresh-orchestrator/domain"
	apperrors "refresh-orchestrator/utils/errors"

	"github.com/labstack/echo/v4"
)

type queueResponse struct {
	Success   bool   `json:"success"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
}

// QueueFeedRefresh accepts either a queue envelope or a single batch request
// and processes every message before answering. Per-message failures are
// reported in the counts, never as a non-2xx status.
func (h *Handler) QueueFeedRefresh(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperrors.NewAppContextError(apperrors.CodeValidation, "failed to read request body", "rest", "QueueHandler", "QueueFeedRefresh", err, nil)
	}

	messages, err := domain.DecodeQueuePayload(body, h.now())
	if errors.Is(err, domain.ErrMalformedPayload) {
		return c.JSON(http.StatusBadRequest, queueResponse{Error: err.Error()})
	}
	if err != nil {
		return err
	}

	// Aborting the request cancels in-flight lookups; terminal statuses
	// are still written.
	outcome := h.processor.ProcessBatch(c.Request().Context(), messages)

	return c.JSON(http.StatusOK, queueResponse{
		Success:   true,
		Processed: outcome.Processed,
		Failed:    outcome.Failed,
	})
}
