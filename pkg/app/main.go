package app

import (
	"github.com/ghuser/cafestock/pkg/cache"
	"github.com/ghuser/cafestock/pkg/config"
	"github.com/ghuser/cafestock/pkg/database"
	"github.com/ghuser/cafestock/pkg/events"
	"github.com/ghuser/cafestock/pkg/logger"
	"github.com/ghuser/cafestock/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service route and container constructors during initialization.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "reservation created", "reservation_id", id)
//	app.Logger.ErrorContext(ctx, "failed to commit", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config         *config.Config
	Db             *database.Database // nil with STORAGE_DRIVER=memory
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient        // nil when Redis is not configured
	TemporalClient *workflows.TemporalClient // nil unless TEMPORAL_ENABLED
}
