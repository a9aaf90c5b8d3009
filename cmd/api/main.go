package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/cafestock/docs/swagger"
	"github.com/ghuser/cafestock/pkg/app"
	"github.com/ghuser/cafestock/pkg/auth"
	"github.com/ghuser/cafestock/pkg/cache"
	"github.com/ghuser/cafestock/pkg/config"
	"github.com/ghuser/cafestock/pkg/database"
	"github.com/ghuser/cafestock/pkg/events"
	"github.com/ghuser/cafestock/pkg/httpx"
	"github.com/ghuser/cafestock/pkg/logger"
	"github.com/ghuser/cafestock/pkg/telemetry"
	"github.com/ghuser/cafestock/pkg/workflows"
	inventoryApi "github.com/ghuser/cafestock/services/inventory/application/api"
	inventorySvcs "github.com/ghuser/cafestock/services/inventory/application/services"
)

// @title					Cafestock API
// @version				1.0
// @description			Café inventory: batches, reservations, daily counts and alerts.
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
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

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	appConfig := &app.Application{Config: cfg, Logger: log}
	checks := httpx.HealthChecks{}

	if cfg.StorageDriver == config.DriverPostgres {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
		}
		defer pool.Close()
		appConfig.Db = pool
		checks.Database = pool
		log.Info("database pool connected")
	}

	if cfg.EventBusDriver == config.DriverPostgres {
		eventBus, err := events.NewEventBusWithForwarder(cfg, log)
		if err != nil {
			log.Error("failed to setup event bus", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer eventBus.Close() //nolint:errcheck

		if err := eventBus.StartForwarder(ctx); err != nil {
			log.Error("failed to start event forwarder", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		appConfig.EventBus = eventBus
		checks.EventBus = eventBus
	} else {
		eventBus := events.NewInMemoryEventBus(log)
		defer eventBus.Close() //nolint:errcheck
		appConfig.EventBus = eventBus
		log.Info("in-memory event bus enabled, events stay in this process")
	}

	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Warn("redis unavailable, alert state kept in memory", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			appConfig.Redis = redisClient
			checks.Redis = redisClient
			log.Info("redis connected")
		}
	}

	if cfg.TemporalEnabled {
		temporalClient, err := workflows.NewTemporalClient(cfg, log)
		if err != nil {
			log.Warn("temporal unavailable, the sweeper alone expires reservations", "error", err)
		} else {
			defer temporalClient.Close()
			appConfig.TemporalClient = temporalClient
			checks.Temporal = temporalClient
		}
	}

	svcs, err := inventorySvcs.New(appConfig)
	if err != nil {
		log.Error("failed to build inventory services", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	if err := svcs.Load(ctx); err != nil {
		log.Error("failed to load inventory state", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		svcs.Sweeper.Run(sweepCtx)
	}()

	if appConfig.TemporalClient != nil {
		w := appConfig.TemporalClient.NewReservationExpiryWorker(svcs.Reservations)
		if err := w.Start(); err != nil {
			log.Error("failed to start temporal worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer w.Stop()
		log.Info("temporal worker started", "task_queue", workflows.ReservationExpiryTaskQueue)
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimit:          cfg.HTTPRateLimit,
			RateLimitKeyHeader: auth.ActorHeader,
			BodyLimit:          cfg.HTTPBodyLimit,
			RequestTimeout:     cfg.HTTPRequestTimeout,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/health", httpx.HealthHandler(checks))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		registerRoutes(r, appConfig, svcs)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening",
			"addr", srv.Addr,
			"env", cfg.Environment,
			"storage", cfg.StorageDriver,
			"event_bus", cfg.EventBusDriver,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	stopSweeper()
	<-sweeperDone
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application, svcs *inventorySvcs.Services) {
	inventoryApi.InventoryRoutes(r, a, svcs)
}
