// Package status_redis stores batch status payloads in Redis.
package status_redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces batch status keys.
const KeyPrefix = "refresh:batch-status:"

// ErrKeyNotFound is returned when no payload is stored for a batch.
var ErrKeyNotFound = errors.New("status key not found")

// StatusRedisDriver reads and writes raw status payloads.
type StatusRedisDriver struct {
	client *redis.Client
}

func NewStatusRedisDriver(client *redis.Client) *StatusRedisDriver {
	return &StatusRedisDriver{client: client}
}

// NewClientWithURL creates a Redis client from a redis:// URL.
func NewClientWithURL(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Key returns the storage key for batchID.
func Key(batchID string) string {
	return KeyPrefix + batchID
}

// SetOnce stores payload under the batch key with ttl unless a value is
// already present. It reports whether the write happened.
func (d *StatusRedisDriver) SetOnce(ctx context.Context, batchID string, payload []byte, ttl time.Duration) (bool, error) {
	ok, err := d.client.SetNX(ctx, Key(batchID), payload, ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Get returns the stored payload or ErrKeyNotFound.
func (d *StatusRedisDriver) Get(ctx context.Context, batchID string) ([]byte, error) {
	payload, err := d.client.Get(ctx, Key(batchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Ping checks connectivity.
func (d *StatusRedisDriver) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

// Close closes the client.
func (d *StatusRedisDriver) Close() error {
	return d.client.Close()
}
