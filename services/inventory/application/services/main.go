package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/cafestock/pkg/app"
	pkgcache "github.com/ghuser/cafestock/pkg/cache"
	"github.com/ghuser/cafestock/pkg/config"
	"github.com/ghuser/cafestock/pkg/telemetry"
	"github.com/ghuser/cafestock/pkg/workflows"
	domainsvcs "github.com/ghuser/cafestock/services/inventory/domain/services"
	invcache "github.com/ghuser/cafestock/services/inventory/infrastructure/cache"
	"github.com/ghuser/cafestock/services/inventory/infrastructure/messaging"
	"github.com/ghuser/cafestock/services/inventory/infrastructure/persistence/memory"
	"github.com/ghuser/cafestock/services/inventory/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Ledger       *BatchLedger
	Reservations *ReservationManager
	DailyCount   *DailyCountReconciler
	Sweeper      *ExpirySweeper
	Alerts       *domainsvcs.AlertEngine
	Clock        domainsvcs.BusinessClock
}

// New wires all inventory application services with infrastructure from the
// Application container. Call Load before serving traffic.
func New(a *app.Application) (*Services, error) {
	cfg := a.Config
	thresholds, err := domainsvcs.ParseThresholds(cfg.DefaultThresholds)
	if err != nil {
		return nil, fmt.Errorf("parse DEFAULT_THRESHOLDS: %w", err)
	}
	clock := domainsvcs.NewBusinessClock(cfg.BusinessUTCOffsetHours)

	d := Deps{
		Alerts:      domainsvcs.NewAlertEngine(thresholds, clock, cfg.ExpiryLookaheadDays),
		Clock:       clock,
		Logger:      a.Logger,
		DefaultTTL:  cfg.ReservationDefaultTTL,
		ReportError: telemetry.CaptureError,
	}

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if a.Db == nil {
			return nil, fmt.Errorf("storage driver %q needs a database", cfg.StorageDriver)
		}
		d.Store = postgres.NewInventoryStore(a.Db, a.EventBus, a.Logger)
		d.Snapshots = postgres.NewSnapshotStore(a.Db)
		d.Audit = postgres.NewAuditLog(a.Db)
	default:
		// A typed nil publisher would not compare equal to nil in the store.
		if a.EventBus != nil {
			d.Store = memory.NewStore(messaging.NewPublisher(a.EventBus))
		} else {
			d.Store = memory.NewStore(nil)
		}
		d.Snapshots = memory.NewSnapshotStore()
		d.Audit = memory.NewAuditLog()
	}

	if a.Redis != nil {
		d.AlertState = invcache.NewAlertStateStore(pkgcache.NewAlertCache(a.Redis, cfg.ServiceName))
	} else {
		d.AlertState = memory.NewAlertState()
	}

	if a.TemporalClient != nil {
		d.Expiry = workflows.NewExpiryScheduler(a.TemporalClient)
	}

	return NewWithDeps(d, cfg.SweepInterval), nil
}

// NewWithDeps builds the container from explicit collaborators.
func NewWithDeps(d Deps, sweepInterval time.Duration) *Services {
	d.defaults()
	ledger := NewBatchLedger(d)
	reservations := NewReservationManager(ledger, d)
	return &Services{
		Ledger:       ledger,
		Reservations: reservations,
		DailyCount:   NewDailyCountReconciler(ledger, d),
		Sweeper:      NewExpirySweeper(ledger, reservations, sweepInterval, d),
		Alerts:       d.Alerts,
		Clock:        d.Clock,
	}
}

// Load restores items and then reservations from the store.
func (s *Services) Load(ctx context.Context) error {
	if err := s.Ledger.Load(ctx); err != nil {
		return err
	}
	return s.Reservations.Load(ctx)
}
