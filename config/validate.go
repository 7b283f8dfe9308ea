package config

import (
	"fmt"
	"net/url"
)

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if config.Redis.StatusTTL <= 0 {
		return fmt.Errorf("status TTL must be positive: %v", config.Redis.StatusTTL)
	}

	for name, raw := range map[string]string{
		"REFRESH_WORKER_URL":   config.Worker.URL,
		"METADATA_SERVICE_URL": config.Metadata.URL,
		"PUSH_BASE_URL":        config.Push.BaseURL,
		"REDIS_URL":            config.Redis.URL,
	} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}

	if config.Worker.Timeout <= 0 {
		return fmt.Errorf("worker timeout must be positive: %v", config.Worker.Timeout)
	}

	if config.Worker.RateLimit <= 0 || config.Worker.RateBurst <= 0 {
		return fmt.Errorf("worker rate limit and burst must be positive: %v/%d", config.Worker.RateLimit, config.Worker.RateBurst)
	}

	if config.Metadata.Timeout <= 0 {
		return fmt.Errorf("metadata timeout must be positive: %v", config.Metadata.Timeout)
	}

	if config.Metadata.ChunkSize <= 0 {
		return fmt.Errorf("metadata chunk size must be positive: %d", config.Metadata.ChunkSize)
	}

	if config.Refresh.StaleThreshold <= 0 {
		return fmt.Errorf("stale threshold must be positive: %v", config.Refresh.StaleThreshold)
	}

	if config.Refresh.PageSize <= 0 || config.Refresh.FirstPageSize <= 0 || config.Refresh.SafetyCap <= 0 {
		return fmt.Errorf("refresh page sizes and safety cap must be positive")
	}

	if config.Refresh.CandidateLimit < config.Refresh.SafetyCap {
		return fmt.Errorf("candidate limit %d must not be below safety cap %d", config.Refresh.CandidateLimit, config.Refresh.SafetyCap)
	}

	if config.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry max attempts must be positive: %d", config.Retry.MaxAttempts)
	}

	if config.Retry.BackoffFactor <= 1.0 {
		return fmt.Errorf("backoff factor must be greater than 1.0: %f", config.Retry.BackoffFactor)
	}

	if config.Cache.Size <= 0 {
		return fmt.Errorf("cache size must be positive: %d", config.Cache.Size)
	}

	if config.Consumer.Enabled && config.Consumer.BatchSize <= 0 {
		return fmt.Errorf("consumer batch size must be positive: %d", config.Consumer.BatchSize)
	}

	return nil
}
