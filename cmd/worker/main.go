package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/app"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/recruitkit/pkg/config"
	"github.com/felixgeelhaar/recruitkit/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := observability.LoggerFromEnv()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	logger = observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))
	logger.Info("starting recruitkit worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		return 1
	}
	defer container.Close()

	health := observability.NewHealthRegistry()
	health.Register("database", observability.DatabaseHealthChecker(container.PingDatabase))
	if container.RedisClient != nil {
		health.Register("redis", observability.RedisHealthChecker(container.PingRedis))
	}

	publisher, err := newPublisher(cfg, container.Metrics, health, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		return 1
	}
	defer publisher.Close()

	processor := outbox.NewProcessor(container.Outbox, publisher, outbox.ProcessorConfig{
		PollInterval:     cfg.OutboxPollInterval,
		BatchSize:        cfg.OutboxBatchSize,
		MaxRetries:       cfg.OutboxMaxRetries,
		RetryBackoffBase: cfg.OutboxRetryBackoffBase,
		RetryBackoffMax:  cfg.OutboxRetryBackoffMax,
		RetentionDays:    cfg.OutboxRetentionDays,
		CleanupInterval:  cfg.OutboxCleanupInterval,
	}, logger)

	if err := processor.Start(ctx); err != nil {
		logger.Error("failed to start outbox processor", "error", err)
		return 1
	}
	defer processor.Stop()

	if cfg.WorkerHealthAddr != "" {
		srv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           newHealthMux(processor, health, container.Metrics),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down worker")
	return 0
}

// newPublisher connects to RabbitMQ when RABBITMQ_URL is set. Without a
// broker, envelopes are delivered to an in-process bus that logs them.
func newPublisher(cfg *config.Config, metrics observability.Metrics, health *observability.HealthRegistry, logger *slog.Logger) (eventbus.Publisher, error) {
	if cfg.RabbitMQURL != "" {
		rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if cfg.IsProduction() {
				return nil, err
			}
			logger.Warn("RabbitMQ not available, delivering events in process", "error", err)
		} else {
			health.Register("rabbitmq", observability.RabbitMQHealthChecker(rabbit.Healthy))
			return rabbit, nil
		}
	}

	bus := eventbus.NewInProcessBus(logger)
	bus.Subscribe("event-log", "recruiting.#", func(ctx context.Context, routingKey string, payload []byte) error {
		metrics.Counter(observability.MetricEventsConsumed, 1, observability.T("routing_key", routingKey))
		logger.InfoContext(ctx, "recruiting event", "routing_key", routingKey, "bytes", len(payload))
		return nil
	})
	return bus, nil
}

func newHealthMux(processor *outbox.Processor, health *observability.HealthRegistry, metrics *observability.InMemoryMetrics) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := processor.GetStats()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"lag_seconds":       stats.LagSeconds,
			"last_processed_at": stats.LastProcessedAt,
			"last_error_at":     stats.LastErrorAt,
			"last_error":        stats.LastError,
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		overall := health.GetOverallHealth(checkCtx)
		status := http.StatusOK
		if overall.Status == observability.HealthStatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, overall)
	})

	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		stats := processor.GetStats()
		metrics.Gauge(observability.MetricOutboxPublished, float64(stats.PublishedCount))
		metrics.Gauge(observability.MetricOutboxFailed, float64(stats.FailedCount))
		metrics.Gauge(observability.MetricOutboxDead, float64(stats.DeadCount))
		metrics.Gauge(observability.MetricOutboxPending, stats.LagSeconds, observability.T("unit", "seconds"))
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
