package rest

import (
	"errors"
	"net/http"
	"strings"

	"refresh-orchestrator/domain"
	apperrors "refresh-orchestrator/utils/errors"

	"github.com/labstack/echo/v4"
)

type unknownStatusResponse struct {
	BatchID string            `json:"batchId"`
	Status  domain.BatchState `json:"status"`
}

// GetBatchStatus returns the stored status record for a batch.
func (h *Handler) GetBatchStatus(c echo.Context) error {
	batchID := strings.TrimSpace(c.Param("batch_id"))
	if batchID == "" {
		return c.JSON(http.StatusNotFound, unknownStatusResponse{Status: domain.StatusUnknown})
	}

	status, err := h.statuses.ReadStatus(c.Request().Context(), batchID)
	if errors.Is(err, domain.ErrStatusNotFound) {
		return c.JSON(http.StatusNotFound, unknownStatusResponse{BatchID: batchID, Status: domain.StatusUnknown})
	}
	if err != nil {
		if _, ok := apperrors.AsAppContextError(err); ok {
			return err
		}
		return apperrors.NewCacheContextError("failed to read batch status", "rest", "BatchHandler", "GetBatchStatus", err, map[string]any{"batch_id": batchID})
	}
	return c.JSON(http.StatusOK, status)
}

// ReceiveNotification is the push target for finished batches. It hands the
// status to live stream subscribers.
func (h *Handler) ReceiveNotification(c echo.Context) error {
	batchID := c.Param("batch_id")

	var status domain.BatchStatus
	if err := c.Bind(&status); err != nil {
		return apperrors.NewAppContextError(apperrors.CodeValidation, "invalid status payload", "rest", "BatchHandler", "ReceiveNotification", err, nil)
	}
	if status.BatchID == "" {
		status.BatchID = batchID
	}
	if status.BatchID != batchID {
		return apperrors.NewAppContextError(apperrors.CodeValidation, "batch id does not match path", "rest", "BatchHandler", "ReceiveNotification", nil,
			map[string]any{"path_batch_id": batchID, "body_batch_id": status.BatchID})
	}
	if !status.IsTerminal() {
		return apperrors.NewAppContextError(apperrors.CodeValidation, "status must be completed or failed", "rest", "BatchHandler", "ReceiveNotification", nil, nil)
	}

	delivered := h.hub.Publish(&status)
	return c.JSON(http.StatusAccepted, map[string]any{"batchId": batchID, "delivered": delivered})
}
