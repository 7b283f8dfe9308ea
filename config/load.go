package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// LoadConfig builds the configuration from defaults and overrides provided
// via environment variables. A .env file in the working directory is read
// first when present; variables already set in the environment win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := defaultConfig()

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	if err := loadServerConfig(&config.Server); err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	config.Database.URL = getEnvOrDefault("DATABASE_URL", config.Database.URL)
	if err := loadDatabaseConfig(&config.Database); err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	config.Redis.URL = getEnvOrDefault("REDIS_URL", config.Redis.URL)
	var err error
	if config.Redis.StatusTTL, err = parseDurationEnv("STATUS_TTL", config.Redis.StatusTTL); err != nil {
		return fmt.Errorf("failed to load redis config: %w", err)
	}

	if err := loadConsumerConfig(&config.Consumer); err != nil {
		return fmt.Errorf("failed to load consumer config: %w", err)
	}

	if err := loadWorkerConfig(&config.Worker); err != nil {
		return fmt.Errorf("failed to load worker config: %w", err)
	}

	if err := loadMetadataConfig(&config.Metadata); err != nil {
		return fmt.Errorf("failed to load metadata config: %w", err)
	}

	config.Push.BaseURL = getEnvOrDefault("PUSH_BASE_URL", config.Push.BaseURL)
	if config.Push.Timeout, err = parseDurationEnv("PUSH_TIMEOUT", config.Push.Timeout); err != nil {
		return fmt.Errorf("failed to load push config: %w", err)
	}

	if err := loadRefreshConfig(&config.Refresh); err != nil {
		return fmt.Errorf("failed to load refresh config: %w", err)
	}

	if err := loadRetryConfig(&config.Retry); err != nil {
		return fmt.Errorf("failed to load retry config: %w", err)
	}

	if err := loadCacheConfig(&config.Cache); err != nil {
		return fmt.Errorf("failed to load cache config: %w", err)
	}

	if err := loadOTelConfig(&config.OTel); err != nil {
		return fmt.Errorf("failed to load otel config: %w", err)
	}

	return nil
}

func loadServerConfig(cfg *ServerConfig) error {
	var err error

	if cfg.Port, err = parseIntEnv("SERVER_PORT", cfg.Port); err != nil {
		return err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SERVER_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}
	if cfg.ReadTimeout, err = parseDurationEnv("SERVER_READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return err
	}
	if cfg.WriteTimeout, err = parseDurationEnv("SERVER_WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return err
	}
	if cfg.SSEHeartbeat, err = parseDurationEnv("SSE_HEARTBEAT_INTERVAL", cfg.SSEHeartbeat); err != nil {
		return err
	}
	cfg.MaxRequestBodyLen = getEnvOrDefault("SERVER_MAX_BODY", cfg.MaxRequestBodyLen)

	return nil
}

func loadDatabaseConfig(cfg *DatabaseConfig) error {
	var err error

	if cfg.MaxConns, err = parseIntEnv("DB_MAX_CONNS", cfg.MaxConns); err != nil {
		return err
	}
	if cfg.MinConns, err = parseIntEnv("DB_MIN_CONNS", cfg.MinConns); err != nil {
		return err
	}
	if cfg.MaxConnLifetime, err = parseDurationEnv("DB_MAX_CONN_LIFETIME", cfg.MaxConnLifetime); err != nil {
		return err
	}
	if cfg.QueryTimeout, err = parseDurationEnv("DB_QUERY_TIMEOUT", cfg.QueryTimeout); err != nil {
		return err
	}

	return nil
}

func loadConsumerConfig(cfg *ConsumerConfig) error {
	var err error

	if cfg.Enabled, err = parseBoolEnv("CONSUMER_ENABLED", cfg.Enabled); err != nil {
		return err
	}
	cfg.StreamKey = getEnvOrDefault("CONSUMER_STREAM_KEY", cfg.StreamKey)
	cfg.GroupName = getEnvOrDefault("CONSUMER_GROUP_NAME", cfg.GroupName)
	cfg.ConsumerName = getEnvOrDefault("CONSUMER_NAME", cfg.ConsumerName)
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = "refresh-orchestrator-" + uuid.NewString()[:8]
	}
	if cfg.BatchSize, err = parseIntEnv("CONSUMER_BATCH_SIZE", cfg.BatchSize); err != nil {
		return err
	}
	if cfg.BlockTimeout, err = parseDurationEnv("CONSUMER_BLOCK_TIMEOUT", cfg.BlockTimeout); err != nil {
		return err
	}
	if cfg.ClaimIdleTime, err = parseDurationEnv("CONSUMER_CLAIM_IDLE_TIME", cfg.ClaimIdleTime); err != nil {
		return err
	}

	return nil
}

func loadWorkerConfig(cfg *WorkerConfig) error {
	var err error

	cfg.URL = getEnvOrDefault("REFRESH_WORKER_URL", cfg.URL)
	if cfg.Timeout, err = parseDurationEnv("REFRESH_WORKER_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}
	if cfg.RateLimit, err = parseFloatEnv("REFRESH_WORKER_RATE_LIMIT", cfg.RateLimit); err != nil {
		return err
	}
	if cfg.RateBurst, err = parseIntEnv("REFRESH_WORKER_RATE_BURST", cfg.RateBurst); err != nil {
		return err
	}

	return nil
}

func loadMetadataConfig(cfg *MetadataConfig) error {
	var err error

	cfg.URL = getEnvOrDefault("METADATA_SERVICE_URL", cfg.URL)
	if cfg.Timeout, err = parseDurationEnv("METADATA_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}
	if cfg.ChunkSize, err = parseIntEnv("METADATA_CHUNK_SIZE", cfg.ChunkSize); err != nil {
		return err
	}
	if cfg.BreakerThreshold, err = parseIntEnv("METADATA_BREAKER_THRESHOLD", cfg.BreakerThreshold); err != nil {
		return err
	}
	if cfg.BreakerReset, err = parseDurationEnv("METADATA_BREAKER_RESET", cfg.BreakerReset); err != nil {
		return err
	}

	return nil
}

func loadRefreshConfig(cfg *RefreshConfig) error {
	var err error

	if cfg.StaleThreshold, err = parseDurationEnv("REFRESH_STALE_THRESHOLD", cfg.StaleThreshold); err != nil {
		return err
	}
	if cfg.SafetyCap, err = parseIntEnv("REFRESH_SAFETY_CAP", cfg.SafetyCap); err != nil {
		return err
	}
	if cfg.FirstPageSize, err = parseIntEnv("REFRESH_FIRST_PAGE_SIZE", cfg.FirstPageSize); err != nil {
		return err
	}
	if cfg.PageSize, err = parseIntEnv("REFRESH_PAGE_SIZE", cfg.PageSize); err != nil {
		return err
	}
	if cfg.CandidateLimit, err = parseIntEnv("REFRESH_CANDIDATE_LIMIT", cfg.CandidateLimit); err != nil {
		return err
	}

	return nil
}

func loadRetryConfig(cfg *RetryConfig) error {
	var err error

	if cfg.MaxAttempts, err = parseIntEnv("RETRY_MAX_ATTEMPTS", cfg.MaxAttempts); err != nil {
		return err
	}
	if cfg.BaseDelay, err = parseDurationEnv("RETRY_BASE_DELAY", cfg.BaseDelay); err != nil {
		return err
	}
	if cfg.MaxDelay, err = parseDurationEnv("RETRY_MAX_DELAY", cfg.MaxDelay); err != nil {
		return err
	}
	if cfg.BackoffFactor, err = parseFloatEnv("RETRY_BACKOFF_FACTOR", cfg.BackoffFactor); err != nil {
		return err
	}
	if cfg.JitterFactor, err = parseFloatEnv("RETRY_JITTER_FACTOR", cfg.JitterFactor); err != nil {
		return err
	}

	return nil
}

func loadCacheConfig(cfg *CacheConfig) error {
	var err error

	if cfg.Size, err = parseIntEnv("CACHE_SIZE", cfg.Size); err != nil {
		return err
	}
	if cfg.MetadataTTL, err = parseDurationEnv("CACHE_METADATA_TTL", cfg.MetadataTTL); err != nil {
		return err
	}
	if cfg.CountsTTL, err = parseDurationEnv("CACHE_COUNTS_TTL", cfg.CountsTTL); err != nil {
		return err
	}

	return nil
}

func loadOTelConfig(cfg *OTelConfig) error {
	var err error

	if cfg.Enabled, err = parseBoolEnv("OTEL_ENABLED", cfg.Enabled); err != nil {
		return err
	}
	cfg.Endpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Endpoint)
	cfg.ServiceName = getEnvOrDefault("OTEL_SERVICE_NAME", cfg.ServiceName)
	cfg.ServiceVersion = getEnvOrDefault("SERVICE_VERSION", cfg.ServiceVersion)
	cfg.Environment = getEnvOrDefault("DEPLOYMENT_ENV", cfg.Environment)

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return i, nil
	}
	return defaultValue, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return f, nil
	}
	return defaultValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return b, nil
	}
	return defaultValue, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return d, nil
	}
	return defaultValue, nil
}
