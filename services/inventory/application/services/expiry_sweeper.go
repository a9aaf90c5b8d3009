package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/cafestock/pkg/auth"
	"github.com/ghuser/cafestock/pkg/logger"
	"github.com/ghuser/cafestock/services/inventory/domain/events"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
	"github.com/ghuser/cafestock/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/cafestock/services/inventory/domain/services"
	"github.com/ghuser/cafestock/services/inventory/infrastructure/persistence/memory"
)

const (
	// DefaultSweepInterval is used when no interval is configured.
	DefaultSweepInterval = time.Minute

	// SweeperActor is recorded on audit entries written by the sweeper.
	SweeperActor = "expiry-sweeper"
)

// SweepReport describes one sweeper tick.
type SweepReport struct {
	At      time.Time
	Expired []uuid.UUID
	// Raised and Cleared are relative to the previous tick's alert set.
	Raised  []models.Alert
	Cleared []models.Alert
	// Alerts is the size of the full current alert set.
	Alerts int
}

// ExpirySweeper periodically expires overdue reservations and publishes
// alerts that appeared since its previous tick.
type ExpirySweeper struct {
	reservations *ReservationManager
	ledger       *BatchLedger
	store        repositories.InventoryStore
	state        repositories.AlertStateStore
	interval     time.Duration
	log          logger.Logger
	now          func() time.Time
	report       func(context.Context, error)
	metrics      *engineMetrics
}

// NewExpirySweeper returns a sweeper ticking every interval. Without
// d.AlertState the previous alert set is kept in process memory.
func NewExpirySweeper(ledger *BatchLedger, reservations *ReservationManager, interval time.Duration, d Deps) *ExpirySweeper {
	d.defaults()
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if d.AlertState == nil {
		d.AlertState = memory.NewAlertState()
	}
	return &ExpirySweeper{
		reservations: reservations,
		ledger:       ledger,
		store:        d.Store,
		state:        d.AlertState,
		interval:     interval,
		log:          d.Logger.With("component", "expiry_sweeper"),
		now:          d.Now,
		report:       d.ReportError,
		metrics:      ledger.metrics,
	}
}

// Run sweeps on every tick until ctx is cancelled. It holds no item lock
// while waiting.
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.log.InfoContext(ctx, "expiry sweeper started", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "expiry sweeper stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *ExpirySweeper) tick(ctx context.Context) {
	report, err := s.Sweep(ctx, s.now())
	if err != nil {
		s.metrics.swept(ctx, "error")
		s.log.ErrorContext(ctx, "sweep failed", "error", err, "expired", len(report.Expired))
		s.report(ctx, err)
		return
	}
	s.metrics.swept(ctx, "ok")
	if len(report.Expired) > 0 || len(report.Raised) > 0 || len(report.Cleared) > 0 {
		s.log.InfoContext(ctx, "sweep finished",
			"expired", len(report.Expired),
			"raised", len(report.Raised),
			"cleared", len(report.Cleared),
			"alerts", report.Alerts,
		)
	}
}

// Sweep runs one tick at now. Reservation expiry failures do not stop the
// alert pass; all failures are joined into the returned error.
func (s *ExpirySweeper) Sweep(ctx context.Context, now time.Time) (SweepReport, error) {
	ctx = auth.WithActor(ctx, SweeperActor)
	report := SweepReport{At: now}

	expired, expireErr := s.reservations.ExpireOverdue(ctx, now)
	report.Expired = expired

	alerts := s.ledger.Alerts(now)
	report.Alerts = len(alerts)

	prev, err := s.state.LoadAlerts(ctx)
	if err != nil {
		return report, errors.Join(expireErr, fmt.Errorf("load previous alerts: %w", err))
	}
	report.Raised, report.Cleared = domainsvcs.DiffAlerts(prev, alerts)

	if len(report.Raised) > 0 {
		evts := make([]events.DomainEvent, 0, len(report.Raised))
		for _, a := range report.Raised {
			evts = append(evts, alertRaised(a, now))
		}
		// The state is only saved once the events are out, so a failed
		// publish is retried next tick.
		if err := s.store.Commit(ctx, repositories.Changeset{Events: evts}); err != nil {
			return report, errors.Join(expireErr, fmt.Errorf("publish raised alerts: %w", err))
		}
	}

	if err := s.state.SaveAlerts(ctx, alerts); err != nil {
		return report, errors.Join(expireErr, fmt.Errorf("save alert state: %w", err))
	}
	return report, expireErr
}

func alertRaised(a models.Alert, now time.Time) events.StockAlertRaised {
	return events.StockAlertRaised{
		Envelope:  events.NewEnvelope(now),
		AlertType: string(a.Type),
		ItemID:    a.ItemID,
		ItemName:  a.ItemName,
		BatchID:   a.BatchID,
		Severity:  string(a.Severity),
		Message:   a.Message,
		DaysLeft:  a.DaysLeft,
	}
}
