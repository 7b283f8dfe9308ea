// Package batch_status_gateway persists batch statuses in Redis.
package batch_status_gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/driver/status_redis"
	apperrors "refresh-orchestrator/utils/errors"
)

// DefaultTTL is how long a status stays readable.
const DefaultTTL = 300 * time.Second

// BatchStatusGateway stores one terminal status per batch. The first write
// wins; later writes are rejected and leave the stored record untouched.
type BatchStatusGateway struct {
	driver *status_redis.StatusRedisDriver
	ttl    time.Duration
}

func NewBatchStatusGateway(driver *status_redis.StatusRedisDriver, ttl time.Duration) *BatchStatusGateway {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BatchStatusGateway{driver: driver, ttl: ttl}
}

func (g *BatchStatusGateway) WriteStatus(ctx context.Context, status *domain.BatchStatus) error {
	if status == nil || status.BatchID == "" {
		return fmt.Errorf("%w: status requires a batch id", domain.ErrInvalidMessage)
	}

	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}

	written, err := g.driver.SetOnce(ctx, status.BatchID, payload, g.ttl)
	if err != nil {
		return apperrors.NewCacheContextError(
			"failed to write batch status",
			"gateway", "BatchStatusGateway", "WriteStatus",
			err,
			map[string]any{"batch_id": status.BatchID},
		)
	}
	if !written {
		return fmt.Errorf("batch %s: %w", status.BatchID, domain.ErrStatusAlreadyWritten)
	}
	return nil
}

func (g *BatchStatusGateway) ReadStatus(ctx context.Context, batchID string) (*domain.BatchStatus, error) {
	payload, err := g.driver.Get(ctx, batchID)
	if errors.Is(err, status_redis.ErrKeyNotFound) {
		return nil, fmt.Errorf("batch %s: %w", batchID, domain.ErrStatusNotFound)
	}
	if err != nil {
		return nil, apperrors.NewCacheContextError(
			"failed to read batch status",
			"gateway", "BatchStatusGateway", "ReadStatus",
			err,
			map[string]any{"batch_id": batchID},
		)
	}

	var status domain.BatchStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, fmt.Errorf("decode status for batch %s: %w", batchID, err)
	}
	return &status, nil
}
