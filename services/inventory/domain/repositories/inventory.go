package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/cafestock/services/inventory/domain/events"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// Changeset is everything one engine operation changed. A store applies it
// as a unit: either all of it is durable or none of it is.
type Changeset struct {
	// Items are written in full, including every batch.
	Items          []*models.Item
	DeletedItemIDs []uuid.UUID
	Reservations   []*models.Reservation
	// Events are published together with the state change (outbox).
	Events []events.DomainEvent
}

// Empty reports whether the changeset carries nothing to write.
func (c Changeset) Empty() bool {
	return len(c.Items) == 0 && len(c.DeletedItemIDs) == 0 && len(c.Reservations) == 0 && len(c.Events) == 0
}

// InventoryStore persists the engine state. The engine holds the
// authoritative copy in memory and loads it once at startup.
// The domain layer owns this interface; infrastructure implements it.
type InventoryStore interface {
	LoadItems(ctx context.Context) ([]*models.Item, error)
	LoadReservations(ctx context.Context) ([]*models.Reservation, error)
	Commit(ctx context.Context, cs Changeset) error
}

// SnapshotStore keeps start-of-day baselines outside the ledger.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap *models.DaySnapshot) error
	// GetSnapshot returns domain.ErrNotFound when no day was started for itemID.
	GetSnapshot(ctx context.Context, itemID uuid.UUID) (*models.DaySnapshot, error)
	DeleteSnapshot(ctx context.Context, itemID uuid.UUID) error
}

// AuditSink receives one entry per mutating operation.
type AuditSink interface {
	Record(ctx context.Context, entry models.AuditEntry) error
}

// EventPublisher delivers domain events outside a store transaction.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// AlertStateStore remembers the alert set of the previous sweep so the
// sweeper can report only changes.
type AlertStateStore interface {
	LoadAlerts(ctx context.Context) ([]models.Alert, error)
	SaveAlerts(ctx context.Context, alerts []models.Alert) error
}
