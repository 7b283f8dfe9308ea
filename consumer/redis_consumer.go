// Package consumer reads batch refresh requests from a Redis Stream.
package consumer

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"refresh-orchestrator/config"
	"refresh-orchestrator/domain"
	"refresh-orchestrator/metrics"
	"refresh-orchestrator/usecase/process_batch_usecase"

	"github.com/redis/go-redis/v9"
)

// Stream message fields.
const (
	FieldBody     = "body"
	FieldQueuedAt = "queued_at"
)

// BatchProcessor runs decoded messages to a terminal status.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, messages []domain.QueuedMessage) process_batch_usecase.BatchOutcome
}

// Consumer consumes batch requests from Redis Streams through a consumer group.
type Consumer struct {
	client    *redis.Client
	config    config.ConsumerConfig
	processor BatchProcessor
	logger    *slog.Logger
	now       func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewConsumer(client *redis.Client, cfg config.ConsumerConfig, processor BatchProcessor, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &Consumer{
		client:    client,
		config:    cfg,
		processor: processor,
		logger:    logger,
		now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start creates the consumer group if needed and begins the read loop.
func (c *Consumer) Start(ctx context.Context) error {
	if !c.config.Enabled {
		c.logger.Info("consumer disabled, not starting")
		close(c.done)
		return nil
	}

	if err := c.ensureConsumerGroup(ctx); err != nil {
		close(c.done)
		return err
	}

	c.logger.Info("starting consumer",
		"stream", c.config.StreamKey,
		"group", c.config.GroupName,
		"consumer", c.config.ConsumerName,
	)

	go func() {
		if _, err := c.reclaimPending(ctx); err != nil {
			c.logger.Error("failed to reclaim pending messages", "error", err)
			metrics.RecordError("stream_reclaim", "redis")
		}
		c.consumeLoop(ctx)
	}()
	return nil
}

// Stop ends the read loop and waits for the in-flight read to finish.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}

func (c *Consumer) ensureConsumerGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.config.StreamKey, c.config.GroupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer context cancelled, stopping")
			return
		case <-c.stop:
			c.logger.Info("consumer shutdown requested, stopping")
			return
		default:
		}

		if _, err := c.readAndProcess(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("error reading batch stream", "error", err)
			metrics.RecordError("stream_read", "redis")
			select {
			case <-time.After(time.Second):
			case <-c.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// readAndProcess reads one group of stream messages, processes them and
// acknowledges them.
func (c *Consumer) readAndProcess(ctx context.Context) (int, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.config.GroupName,
		Consumer: c.config.ConsumerName,
		Streams:  []string{c.config.StreamKey, ">"},
		Count:    int64(c.config.BatchSize),
		Block:    c.config.BlockTimeout,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var pending []redis.XMessage
	for _, stream := range streams {
		pending = append(pending, stream.Messages...)
	}
	return c.processAndAck(ctx, pending)
}

// reclaimPending takes over messages another consumer read but never
// acknowledged, for example because it crashed mid-batch.
func (c *Consumer) reclaimPending(ctx context.Context) (int, error) {
	total := 0
	start := "0-0"
	for {
		claimed, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.config.StreamKey,
			Group:    c.config.GroupName,
			Consumer: c.config.ConsumerName,
			MinIdle:  c.config.ClaimIdleTime,
			Start:    start,
			Count:    int64(c.config.BatchSize),
		}).Result()
		if errors.Is(err, redis.Nil) {
			return total, nil
		}
		if err != nil {
			return total, err
		}

		n, err := c.processAndAck(ctx, claimed)
		total += n
		if err != nil {
			return total, err
		}
		if next == "" || next == "0-0" {
			if total > 0 {
				c.logger.Info("reclaimed pending stream messages", "count", total)
			}
			return total, nil
		}
		start = next
	}
}

// processAndAck runs messages to a terminal status and acknowledges them.
// Every message ends in a terminal status, so all of them are acknowledged,
// even when ctx was cancelled while the batch was running.
func (c *Consumer) processAndAck(ctx context.Context, pending []redis.XMessage) (int, error) {
	if len(pending) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(pending))
	messages := make([]domain.QueuedMessage, 0, len(pending))
	for _, message := range pending {
		ids = append(ids, message.ID)
		messages = append(messages, c.decode(message))
	}

	outcome := c.processor.ProcessBatch(ctx, messages)
	c.logger.Info("stream messages processed",
		"messages", len(messages),
		"processed", outcome.Processed,
		"failed", outcome.Failed)

	ackCtx := context.WithoutCancel(ctx)
	if err := c.client.XAck(ackCtx, c.config.StreamKey, c.config.GroupName, ids...).Err(); err != nil {
		c.logger.Error("failed to acknowledge messages", "count", len(ids), "error", err)
		return len(messages), err
	}
	return len(messages), nil
}

func (c *Consumer) decode(message redis.XMessage) domain.QueuedMessage {
	queuedAt := queuedAtOf(message, c.now())
	body, ok := message.Values[FieldBody].(string)
	if !ok {
		return domain.QueuedMessage{
			QueuedAt: queuedAt,
			Err:      domain.ErrInvalidMessage,
		}
	}
	return domain.DecodeMessage([]byte(body), queuedAt)
}

// queuedAtOf prefers the queued_at field (RFC3339 or unix millis), then the
// millisecond part of the stream ID.
func queuedAtOf(message redis.XMessage, fallback time.Time) time.Time {
	if v, ok := message.Values[FieldQueuedAt].(string); ok && v != "" {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.UnixMilli(ms)
		}
	}
	if prefix, _, found := strings.Cut(message.ID, "-"); found {
		if ms, err := strconv.ParseInt(prefix, 10, 64); err == nil && ms > 0 {
			return time.UnixMilli(ms)
		}
	}
	return fallback
}
