package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"refresh-orchestrator/config"
	"refresh-orchestrator/consumer"
	"refresh-orchestrator/driver/feed_db"
	"refresh-orchestrator/driver/service_api"
	"refresh-orchestrator/driver/status_redis"
	"refresh-orchestrator/gateway/batch_notifier_gateway"
	"refresh-orchestrator/gateway/batch_status_gateway"
	"refresh-orchestrator/gateway/feed_store_gateway"
	"refresh-orchestrator/gateway/metadata_gateway"
	"refresh-orchestrator/gateway/refresh_delegate_gateway"
	"refresh-orchestrator/rest"
	"refresh-orchestrator/retry"
	"refresh-orchestrator/usecase/batch_stream_usecase"
	"refresh-orchestrator/usecase/enrich_usecase"
	"refresh-orchestrator/usecase/process_batch_usecase"
	"refresh-orchestrator/usecase/reconcile_usecase"
	"refresh-orchestrator/usecase/staleness_usecase"
	apperrors "refresh-orchestrator/utils/errors"
	"refresh-orchestrator/utils/resilience"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config       *config.Config
	DBPool       *pgxpool.Pool
	StatusDriver *status_redis.StatusRedisDriver
	Notifier     *batch_notifier_gateway.BatchNotifierGateway
	Hub          *batch_stream_usecase.BatchStreamHub
	ProcessBatch *process_batch_usecase.ProcessBatchUsecase
	Handler      *rest.Handler
	Consumer     *consumer.Consumer
	Logger       *slog.Logger
}

// BuildDependencies constructs all application dependencies.
// Returns a cleanup function that should be deferred.
func BuildDependencies(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Dependencies, func(), error) {
	dbPool, err := feed_db.Init(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("init database: %w", err)
	}

	redisClient, err := status_redis.NewClientWithURL(cfg.Redis.URL)
	if err != nil {
		dbPool.Close()
		return nil, nil, err
	}
	statusDriver := status_redis.NewStatusRedisDriver(redisClient)

	cleanup := func() {
		if err := statusDriver.Close(); err != nil {
			log.Error("failed to close redis client", "error", err)
		}
		dbPool.Close()
	}

	// Drivers
	feedRepo := feed_db.NewFeedDBRepository(dbPool, cfg.Database.QueryTimeout)
	workerClient := service_api.NewWorkerAPIClient(cfg.Worker.URL, service_api.NewHTTPClient(cfg.Worker.Timeout))
	metadataClient := service_api.NewMetadataAPIClient(cfg.Metadata.URL, service_api.NewHTTPClient(cfg.Metadata.Timeout))
	pushClient := service_api.NewPushAPIClient(cfg.Push.BaseURL, service_api.NewHTTPClient(cfg.Push.Timeout))

	// Gateways
	feedStore := feed_store_gateway.NewFeedStoreGateway(feedRepo)
	delegate := refresh_delegate_gateway.NewRefreshDelegateGateway(
		workerClient,
		rate.NewLimiter(rate.Limit(cfg.Worker.RateLimit), cfg.Worker.RateBurst),
		cfg.Worker.Timeout,
		nil,
		log,
	)
	metadata := metadata_gateway.NewMetadataGateway(metadataClient)
	statuses := batch_status_gateway.NewBatchStatusGateway(statusDriver, cfg.Redis.StatusTTL)
	notifier := batch_notifier_gateway.NewBatchNotifierGateway(pushClient, cfg.Push.Timeout, log)

	// Usecases
	caches, err := enrich_usecase.NewCaches(cfg.Cache.Size, cfg.Cache.MetadataTTL, cfg.Cache.CountsTTL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	retrier := retry.NewRetrier(retry.RetryConfig{
		MaxAttempts:   cfg.Retry.MaxAttempts,
		BaseDelay:     cfg.Retry.BaseDelay,
		MaxDelay:      cfg.Retry.MaxDelay,
		BackoffFactor: cfg.Retry.BackoffFactor,
		JitterFactor:  cfg.Retry.JitterFactor,
	}, apperrors.IsRetryable, log)

	staleness := staleness_usecase.NewStalenessUsecase(feedStore, cfg.Refresh.StaleThreshold, nil, log)
	reconcile := reconcile_usecase.NewReconcileUsecase(feedStore, reconcile_usecase.Config{
		SafetyCap:      cfg.Refresh.SafetyCap,
		FirstPageSize:  cfg.Refresh.FirstPageSize,
		PageSize:       cfg.Refresh.PageSize,
		CandidateLimit: cfg.Refresh.CandidateLimit,
	}, log)
	enrich := enrich_usecase.NewEnrichUsecase(
		metadata,
		metadata,
		caches,
		retrier,
		&resilience.CircuitBreakerConfig{
			FailureThreshold: cfg.Metadata.BreakerThreshold,
			ResetTimeout:     cfg.Metadata.BreakerReset,
		},
		enrich_usecase.Config{
			ChunkSize: cfg.Metadata.ChunkSize,
			Timeout:   cfg.Metadata.Timeout,
		},
		log,
	)
	processBatch := process_batch_usecase.NewProcessBatchUsecase(
		staleness,
		delegate,
		reconcile,
		enrich,
		statuses,
		notifier,
		nil,
		log,
	)
	hub := batch_stream_usecase.NewBatchStreamHub(cfg.Redis.StatusTTL, nil)

	handler := rest.NewHandler(processBatch, statuses, hub, log,
		rest.WithHeartbeat(cfg.Server.SSEHeartbeat),
		rest.WithDependency("database", feedRepo),
		rest.WithDependency("redis", statusDriver),
	)

	return &Dependencies{
		Config:       cfg,
		DBPool:       dbPool,
		StatusDriver: statusDriver,
		Notifier:     notifier,
		Hub:          hub,
		ProcessBatch: processBatch,
		Handler:      handler,
		Consumer:     consumer.NewConsumer(redisClient, cfg.Consumer, processBatch, log),
		Logger:       log,
	}, cleanup, nil
}
