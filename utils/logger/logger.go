// Package logger provides structured logging for the refresh orchestrator.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls log output.
type Config struct {
	Level       string
	ServiceName string
	Version     string
}

// LoadConfigFromEnv reads LOG_LEVEL, SERVICE_NAME and SERVICE_VERSION.
func LoadConfigFromEnv() *Config {
	return &Config{
		Level:       getEnvOrDefault("LOG_LEVEL", "info"),
		ServiceName: getEnvOrDefault("SERVICE_NAME", "refresh-orchestrator"),
		Version:     getEnvOrDefault("SERVICE_VERSION", "1.0.0"),
	}
}

// Init builds the process logger, installs it as slog's default and as
// Logger, and returns it.
func Init(cfg *Config, enableOTel bool) *slog.Logger {
	log := New(os.Stdout, cfg, enableOTel)
	Logger = log
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Level, "otel_enabled", enableOTel)
	return log
}

// New builds a JSON logger writing to output. Records carry service and
// version, lowercase levels, and trace/span ids when the context has a span.
func New(output io.Writer, cfg *Config, enableOTel bool) *slog.Logger {
	level := ParseLevel(cfg.Level)

	options := &slog.HandlerOptions{
		Level:     level,
		AddSource: false,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					return slog.Attr{Key: "level", Value: slog.StringValue(strings.ToLower(lvl.String()))}
				}
			}
			return a
		},
	}

	var handler slog.Handler = NewTraceContextHandler(slog.NewJSONHandler(output, options))
	if enableOTel {
		handler = NewMultiHandler(handler, cfg.ServiceName)
	}

	version := cfg.Version
	if version == "" {
		version = "1.0.0"
	}
	return slog.New(handler).With("service", cfg.ServiceName, "version", version)
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
