package services

import (
	"context"
	"errors"
	"time"

	"github.com/ghuser/cafestock/pkg/logger"
	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
	"github.com/ghuser/cafestock/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/cafestock/services/inventory/domain/services"
)

// Deps are the collaborators shared by every inventory application service.
type Deps struct {
	Store      repositories.InventoryStore
	Snapshots  repositories.SnapshotStore
	Audit      repositories.AuditSink
	AlertState repositories.AlertStateStore
	Alerts     *domainsvcs.AlertEngine
	Clock      domainsvcs.BusinessClock
	Logger     logger.Logger
	// DefaultTTL applies to reservations requested without a TTL.
	DefaultTTL time.Duration
	// Expiry schedules a durable expiry timer per reservation; optional.
	Expiry ExpiryScheduler
	// Now is the time source; defaults to time.Now in UTC.
	Now func() time.Time
	// ReportError forwards background failures to crash reporting; optional.
	ReportError func(ctx context.Context, err error)
}

func (d *Deps) defaults() {
	if d.Logger == nil {
		d.Logger = logger.NewNop()
	}
	if d.Alerts == nil {
		d.Alerts = domainsvcs.NewAlertEngine(nil, d.Clock, 0)
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.DefaultTTL <= 0 {
		d.DefaultTTL = DefaultReservationTTL
	}
	if d.ReportError == nil {
		d.ReportError = func(context.Context, error) {}
	}
}

// recorder forwards audit entries to the sink. The state change they
// describe is already committed, so a sink failure is logged, not returned.
type recorder struct {
	sink repositories.AuditSink
	log  logger.Logger
}

func (r recorder) record(ctx context.Context, entries ...models.AuditEntry) {
	if r.sink == nil {
		return
	}
	for _, e := range entries {
		if err := r.sink.Record(ctx, e); err != nil {
			r.log.ErrorContext(ctx, "audit record failed",
				"action", string(e.Action),
				"item_id", e.ItemID,
				"reservation_id", e.ReservationID,
				"error", err,
			)
		}
	}
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrIncompatibleUnits):
		return "incompatible_units"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
