package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/cafestock/pkg/app"
	"github.com/ghuser/cafestock/pkg/cache"
	"github.com/ghuser/cafestock/pkg/config"
	"github.com/ghuser/cafestock/pkg/events"
	"github.com/ghuser/cafestock/pkg/logger"
	"github.com/ghuser/cafestock/pkg/telemetry"
	invEvents "github.com/ghuser/cafestock/services/inventory/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	// An in-memory bus only reaches subscribers inside the API process.
	if cfg.EventBusDriver != config.DriverPostgres {
		log.Error("worker needs EVENT_BUS_DRIVER=postgres", "event_bus", cfg.EventBusDriver)
		os.Exit(1)
	}

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	appConfig := &app.Application{
		Config:   cfg,
		Logger:   log,
		EventBus: eventBus,
	}

	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Warn("redis unavailable, alert feed disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			appConfig.Redis = redisClient
			log.Info("redis connected")
		}
	}

	subCtx, cancelSubs := context.WithCancel(ctx)
	defer cancelSubs()
	if err := registerSubscribers(subCtx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancelSubs()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires a handler onto every inventory topic.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	n := newNotifier(a.Logger)
	if a.Redis != nil {
		n.feed = cache.NewAlertCache(a.Redis, a.Config.ServiceName)
	}

	for _, topic := range invEvents.AllTopics {
		errCh, err := a.EventBus.Subscribe(ctx, topic, n.handler(topic))
		if err != nil {
			return err
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error",
					"topic", topic,
					"error", err,
				)
			}
		}(topic)
	}

	a.Logger.Info("event subscribers registered", "topics", invEvents.AllTopics)
	return nil
}
