package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"refresh-orchestrator/config"
	"refresh-orchestrator/utils/logger"
	"refresh-orchestrator/utils/otel"
)

// Run is the application entry point. It builds dependencies, starts the
// HTTP server and the stream consumer, then waits for a shutdown signal.
func Run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	otelShutdown, err := otel.InitProvider(ctx, otel.Config{
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.OTel.ServiceVersion,
		Environment:    cfg.OTel.Environment,
		OTLPEndpoint:   cfg.OTel.Endpoint,
		Enabled:        cfg.OTel.Enabled,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize OpenTelemetry: %v\n", err)
		cfg.OTel.Enabled = false
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if otelShutdown == nil {
			return
		}
		if err := otelShutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shutdown OpenTelemetry: %v\n", err)
		}
	}()

	logCfg := logger.LoadConfigFromEnv()
	logCfg.ServiceName = cfg.OTel.ServiceName
	logCfg.Version = cfg.OTel.ServiceVersion
	log := logger.Init(logCfg, cfg.OTel.Enabled)

	log.Info("Starting refresh-orchestrator",
		"port", cfg.Server.Port,
		"consumer_enabled", cfg.Consumer.Enabled,
		"otel_enabled", cfg.OTel.Enabled)

	deps, cleanup, err := BuildDependencies(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	httpServer := NewHTTPServer(deps, cfg.OTel.Enabled)
	StartHTTPServer(httpServer, cfg.Server.Port, log)

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	if err := deps.Consumer.Start(consumerCtx); err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	log.Info("refresh-orchestrator started")
	waitForShutdown(httpServer, deps, stopConsumer, log)
	return nil
}

func waitForShutdown(httpServer interface{ Shutdown(context.Context) error }, deps *Dependencies, stopConsumer context.CancelFunc, log *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down refresh-orchestrator")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
	defer cancel()

	// The in-flight read gets to finish and acknowledge before its context
	// is cancelled.
	stopped := make(chan struct{})
	go func() {
		deps.Consumer.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		log.Warn("Timed out waiting for consumer to stop")
	}
	stopConsumer()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down HTTP server", "error", err)
	}

	// In-flight pushes get the rest of the shutdown budget.
	done := make(chan struct{})
	go func() {
		deps.Notifier.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn("Timed out waiting for pending notifications")
	}

	log.Info("refresh-orchestrator stopped")
}
