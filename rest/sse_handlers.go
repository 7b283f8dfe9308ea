package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/utils/logger"

	"github.com/labstack/echo/v4"
)

// StreamBatchStatus streams the batch's status as a server-sent event. The
// stream ends once a terminal status has been written; until then it sends
// heartbeat comments.
func (h *Handler) StreamBatchStatus(c echo.Context) error {
	batchID := c.Param("batch_id")
	ctx := logger.WithBatchID(c.Request().Context(), batchID)
	log := logger.FromContext(ctx, h.logger)

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	updates, cancel := h.hub.Subscribe(batchID)
	defer cancel()

	// The push may have landed on another replica or failed outright, so a
	// status already in the store ends the stream right away.
	stored, err := h.statuses.ReadStatus(ctx, batchID)
	switch {
	case err == nil && stored != nil && stored.IsTerminal():
		_ = writeStatusEvent(w, stored)
		return nil
	case err != nil && !errors.Is(err, domain.ErrStatusNotFound):
		log.WarnContext(ctx, "failed to read stored batch status, waiting for push", "error", err)
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case status := <-updates:
			if err := writeStatusEvent(w, status); err != nil {
				log.InfoContext(ctx, "failed to send batch status", "error", err)
				return nil
			}
			if status.IsTerminal() {
				return nil
			}

		case <-heartbeat.C:
			if _, err := w.Write([]byte(": heartbeat\n\n")); err != nil {
				log.InfoContext(ctx, "client disconnected during heartbeat", "error", err)
				return nil
			}
			w.Flush()

		case <-ctx.Done():
			return nil
		}
	}
}

func writeStatusEvent(w *echo.Response, status *domain.BatchStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: status\ndata: %s\n\n", data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
