package config

import "time"

// Config aggregates all service configuration blocks.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Consumer ConsumerConfig `json:"consumer"`
	Worker   WorkerConfig   `json:"worker"`
	Metadata MetadataConfig `json:"metadata"`
	Push     PushConfig     `json:"push"`
	Refresh  RefreshConfig  `json:"refresh"`
	Retry    RetryConfig    `json:"retry"`
	Cache    CacheConfig    `json:"cache"`
	OTel     OTelConfig     `json:"otel"`
}

type ServerConfig struct {
	Port              int           `json:"port" env:"SERVER_PORT" default:"9300"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	ReadTimeout       time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout      time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"300s"`
	SSEHeartbeat      time.Duration `json:"sse_heartbeat" env:"SSE_HEARTBEAT_INTERVAL" default:"15s"`
	MaxRequestBodyLen string        `json:"max_request_body" env:"SERVER_MAX_BODY" default:"2M"`
}

type DatabaseConfig struct {
	URL             string        `json:"-" env:"DATABASE_URL"`
	MaxConns        int           `json:"max_conns" env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `json:"min_conns" env:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `json:"max_conn_lifetime" env:"DB_MAX_CONN_LIFETIME" default:"30m"`
	QueryTimeout    time.Duration `json:"query_timeout" env:"DB_QUERY_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL       string        `json:"-" env:"REDIS_URL" default:"redis://localhost:6379"`
	StatusTTL time.Duration `json:"status_ttl" env:"STATUS_TTL" default:"300s"`
}

type ConsumerConfig struct {
	Enabled      bool          `json:"enabled" env:"CONSUMER_ENABLED" default:"false"`
	StreamKey    string        `json:"stream_key" env:"CONSUMER_STREAM_KEY" default:"refresh:batches"`
	GroupName    string        `json:"group_name" env:"CONSUMER_GROUP_NAME" default:"refresh-orchestrator"`
	ConsumerName string        `json:"consumer_name" env:"CONSUMER_NAME"`
	BatchSize    int           `json:"batch_size" env:"CONSUMER_BATCH_SIZE" default:"10"`
	BlockTimeout time.Duration `json:"block_timeout" env:"CONSUMER_BLOCK_TIMEOUT" default:"5s"`

	// ClaimIdleTime is how long a delivered message may stay unacknowledged
	// before another consumer takes it over at startup.
	ClaimIdleTime time.Duration `json:"claim_idle_time" env:"CONSUMER_CLAIM_IDLE_TIME" default:"60s"`
}

type WorkerConfig struct {
	URL       string        `json:"url" env:"REFRESH_WORKER_URL" default:"http://refresh-worker:8080"`
	Timeout   time.Duration `json:"timeout" env:"REFRESH_WORKER_TIMEOUT" default:"120s"`
	RateLimit float64       `json:"rate_limit" env:"REFRESH_WORKER_RATE_LIMIT" default:"5"`
	RateBurst int           `json:"rate_burst" env:"REFRESH_WORKER_RATE_BURST" default:"2"`
}

type MetadataConfig struct {
	URL              string        `json:"url" env:"METADATA_SERVICE_URL" default:"http://metadata-service:8080"`
	Timeout          time.Duration `json:"timeout" env:"METADATA_TIMEOUT" default:"8s"`
	ChunkSize        int           `json:"chunk_size" env:"METADATA_CHUNK_SIZE" default:"50"`
	BreakerThreshold int           `json:"breaker_threshold" env:"METADATA_BREAKER_THRESHOLD" default:"5"`
	BreakerReset     time.Duration `json:"breaker_reset" env:"METADATA_BREAKER_RESET" default:"30s"`
}

type PushConfig struct {
	BaseURL string        `json:"base_url" env:"PUSH_BASE_URL" default:"http://localhost:9300"`
	Timeout time.Duration `json:"timeout" env:"PUSH_TIMEOUT" default:"5s"`
}

type RefreshConfig struct {
	StaleThreshold time.Duration `json:"stale_threshold" env:"REFRESH_STALE_THRESHOLD" default:"4h"`
	SafetyCap      int           `json:"safety_cap" env:"REFRESH_SAFETY_CAP" default:"100"`
	FirstPageSize  int           `json:"first_page_size" env:"REFRESH_FIRST_PAGE_SIZE" default:"30"`
	PageSize       int           `json:"page_size" env:"REFRESH_PAGE_SIZE" default:"50"`
	CandidateLimit int           `json:"candidate_limit" env:"REFRESH_CANDIDATE_LIMIT" default:"1000"`
}

type RetryConfig struct {
	MaxAttempts   int           `json:"max_attempts" env:"RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay     time.Duration `json:"base_delay" env:"RETRY_BASE_DELAY" default:"200ms"`
	MaxDelay      time.Duration `json:"max_delay" env:"RETRY_MAX_DELAY" default:"2s"`
	BackoffFactor float64       `json:"backoff_factor" env:"RETRY_BACKOFF_FACTOR" default:"2.0"`
	JitterFactor  float64       `json:"jitter_factor" env:"RETRY_JITTER_FACTOR" default:"0.5"`
}

type CacheConfig struct {
	Size        int           `json:"size" env:"CACHE_SIZE" default:"10000"`
	MetadataTTL time.Duration `json:"metadata_ttl" env:"CACHE_METADATA_TTL" default:"10m"`
	CountsTTL   time.Duration `json:"counts_ttl" env:"CACHE_COUNTS_TTL" default:"1m"`
}

type OTelConfig struct {
	Enabled        bool   `json:"enabled" env:"OTEL_ENABLED" default:"false"`
	Endpoint       string `json:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"http://localhost:4318"`
	ServiceName    string `json:"service_name" env:"OTEL_SERVICE_NAME" default:"refresh-orchestrator"`
	ServiceVersion string `json:"service_version" env:"SERVICE_VERSION" default:"1.0.0"`
	Environment    string `json:"environment" env:"DEPLOYMENT_ENV" default:"development"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              9300,
			ShutdownTimeout:   30 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      300 * time.Second,
			SSEHeartbeat:      15 * time.Second,
			MaxRequestBodyLen: "2M",
		},
		Database: DatabaseConfig{
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: 30 * time.Minute,
			QueryTimeout:    10 * time.Second,
		},
		Redis: RedisConfig{
			URL:       "redis://localhost:6379",
			StatusTTL: 300 * time.Second,
		},
		Consumer: ConsumerConfig{
			Enabled:       false,
			StreamKey:     "refresh:batches",
			GroupName:     "refresh-orchestrator",
			BatchSize:     10,
			BlockTimeout:  5 * time.Second,
			ClaimIdleTime: 60 * time.Second,
		},
		Worker: WorkerConfig{
			URL:       "http://refresh-worker:8080",
			Timeout:   120 * time.Second,
			RateLimit: 5,
			RateBurst: 2,
		},
		Metadata: MetadataConfig{
			URL:              "http://metadata-service:8080",
			Timeout:          8 * time.Second,
			ChunkSize:        50,
			BreakerThreshold: 5,
			BreakerReset:     30 * time.Second,
		},
		Push: PushConfig{
			BaseURL: "http://localhost:9300",
			Timeout: 5 * time.Second,
		},
		Refresh: RefreshConfig{
			StaleThreshold: 4 * time.Hour,
			SafetyCap:      100,
			FirstPageSize:  30,
			PageSize:       50,
			CandidateLimit: 1000,
		},
		Retry: RetryConfig{
			MaxAttempts:   3,
			BaseDelay:     200 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			BackoffFactor: 2.0,
			JitterFactor:  0.5,
		},
		Cache: CacheConfig{
			Size:        10000,
			MetadataTTL: 10 * time.Minute,
			CountsTTL:   time.Minute,
		},
		OTel: OTelConfig{
			Enabled:        false,
			Endpoint:       "http://localhost:4318",
			ServiceName:    "refresh-orchestrator",
			ServiceVersion: "1.0.0",
			Environment:    "development",
		},
	}
}
