package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/pkg/database"
	pkgevents "github.com/ghuser/cafestock/pkg/events"
	"github.com/ghuser/cafestock/pkg/logger"
	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/events"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
	"github.com/ghuser/cafestock/services/inventory/domain/repositories"
	"github.com/ghuser/cafestock/services/inventory/infrastructure/messaging"
)

// InventoryStore implements repositories.InventoryStore against PostgreSQL.
type InventoryStore struct {
	db  *database.Database
	bus *pkgevents.EventBus
	log logger.Logger
}

// NewInventoryStore returns a store backed by the given pool. When bus is
// transactional, events are written to the outbox in the same transaction
// as the state; otherwise they are published right after the commit.
func NewInventoryStore(db *database.Database, bus *pkgevents.EventBus, log logger.Logger) *InventoryStore {
	return &InventoryStore{db: db, bus: bus, log: log}
}

func (s *InventoryStore) LoadItems(ctx context.Context) ([]*models.Item, error) {
	rows, err := s.db.DB().QueryContext(ctx, selectItems)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var items []*models.Item
	byID := make(map[uuid.UUID]*models.Item)
	for rows.Next() {
		var (
			it        models.Item
			unit      string
			threshold decimal.NullDecimal
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &unit, &threshold,
			&it.Cost, &it.Price, &it.VendorRef, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Unit = models.Unit(unit)
		if threshold.Valid {
			v := threshold.Decimal
			it.MinimumThreshold = &v
		}
		items = append(items, &it)
		byID[it.ID] = &it
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	brows, err := s.db.DB().QueryContext(ctx, selectBatches)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer brows.Close() //nolint:errcheck

	for brows.Next() {
		var (
			b          models.Batch
			disposedAt sql.NullTime
		)
		if err := brows.Scan(&b.ID, &b.ItemID, &b.Quantity, &b.ExpirationDate,
			&b.ReceivedDate, &b.Disposed, &disposedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		if disposedAt.Valid {
			at := disposedAt.Time.UTC()
			b.DisposedAt = &at
		}
		b.ExpirationDate = b.ExpirationDate.UTC()
		b.ReceivedDate = b.ReceivedDate.UTC()
		it, ok := byID[b.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: batch %s references unknown item %s", domain.ErrInvalidState, b.ID, b.ItemID)
		}
		it.Batches = append(it.Batches, b)
	}
	if err := brows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return items, nil
}

func (s *InventoryStore) LoadReservations(ctx context.Context) ([]*models.Reservation, error) {
	rows, err := s.db.DB().QueryContext(ctx, selectReservations)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*models.Reservation
	byID := make(map[uuid.UUID]*models.Reservation)
	for rows.Next() {
		var (
			r          models.Reservation
			status     string
			resolvedAt sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.OrderID, &status, &r.CreatedAt, &r.ExpiresAt,
			&r.ManagerOverride, &r.OverrideReason, &resolvedAt, &r.ResolutionReason); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		r.Status = models.ReservationStatus(status)
		r.CreatedAt = r.CreatedAt.UTC()
		r.ExpiresAt = r.ExpiresAt.UTC()
		if resolvedAt.Valid {
			at := resolvedAt.Time.UTC()
			r.ResolvedAt = &at
		}
		out = append(out, &r)
		byID[r.ID] = &r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}

	lrows, err := s.db.DB().QueryContext(ctx, selectReservationLines)
	if err != nil {
		return nil, fmt.Errorf("query reservation lines: %w", err)
	}
	defer lrows.Close() //nolint:errcheck

	for lrows.Next() {
		var (
			rid  uuid.UUID
			line models.ReservationLine
		)
		if err := lrows.Scan(&rid, &line.ItemID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan reservation line: %w", err)
		}
		if r, ok := byID[rid]; ok {
			r.Lines = append(r.Lines, line)
		}
	}
	if err := lrows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservation lines: %w", err)
	}
	return out, nil
}

// Commit writes the changeset in one transaction. Items are rewritten in
// full; reservation lines are immutable and only inserted once.
func (s *InventoryStore) Commit(ctx context.Context, cs repositories.Changeset) error {
	if cs.Empty() {
		return nil
	}
	outbox := s.bus != nil && s.bus.Transactional()

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, it := range cs.Items {
			if err := writeItem(ctx, tx, it); err != nil {
				return err
			}
		}
		for _, id := range cs.DeletedItemIDs {
			if _, err := tx.ExecContext(ctx, deleteItem, id); err != nil {
				return fmt.Errorf("delete item %s: %w", id, err)
			}
		}
		for _, r := range cs.Reservations {
			if err := writeReservation(ctx, tx, r); err != nil {
				return err
			}
		}
		if outbox && len(cs.Events) > 0 {
			pub, err := s.bus.NewTxPublisher(tx)
			if err != nil {
				return fmt.Errorf("create publisher: %w", err)
			}
			if err := messaging.PublishTo(pub, cs.Events); err != nil {
				return fmt.Errorf("publish events: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !outbox && s.bus != nil && len(cs.Events) > 0 {
		// The state is durable; a lost event here is logged, not undone.
		if err := messaging.NewPublisher(s.bus).Publish(ctx, cs.Events...); err != nil {
			s.log.ErrorContext(ctx, "publish after commit failed",
				"events", len(cs.Events), "topics", topics(cs.Events), "error", err)
		}
	}
	return nil
}

func writeItem(ctx context.Context, tx *sql.Tx, it *models.Item) error {
	threshold := decimal.NullDecimal{}
	if it.MinimumThreshold != nil {
		threshold = decimal.NewNullDecimal(*it.MinimumThreshold)
	}
	if _, err := tx.ExecContext(ctx, upsertItem,
		it.ID, it.Name, it.Category, string(it.Unit), threshold,
		it.Cost, it.Price, it.VendorRef, it.CreatedAt, it.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert item %s: %w", it.ID, err)
	}
	if _, err := tx.ExecContext(ctx, deleteBatchesForItem, it.ID); err != nil {
		return fmt.Errorf("clear batches for item %s: %w", it.ID, err)
	}
	for pos, b := range it.Batches {
		var disposedAt sql.NullTime
		if b.DisposedAt != nil {
			disposedAt = sql.NullTime{Time: *b.DisposedAt, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, insertBatch,
			b.ID, it.ID, pos, b.Quantity, b.ExpirationDate, b.ReceivedDate, b.Disposed, disposedAt,
		); err != nil {
			return fmt.Errorf("insert batch %s: %w", b.ID, err)
		}
	}
	return nil
}

func writeReservation(ctx context.Context, tx *sql.Tx, r *models.Reservation) error {
	var resolvedAt sql.NullTime
	if r.ResolvedAt != nil {
		resolvedAt = sql.NullTime{Time: *r.ResolvedAt, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, upsertReservation,
		r.ID, r.OrderID, string(r.Status), r.CreatedAt, r.ExpiresAt,
		r.ManagerOverride, r.OverrideReason, resolvedAt, r.ResolutionReason,
	); err != nil {
		return fmt.Errorf("upsert reservation %s: %w", r.ID, err)
	}
	for pos, l := range r.Lines {
		if _, err := tx.ExecContext(ctx, insertReservationLine, r.ID, pos, l.ItemID, l.Quantity); err != nil {
			return fmt.Errorf("insert reservation line %s/%d: %w", r.ID, pos, err)
		}
	}
	return nil
}

func topics(evts []events.DomainEvent) []string {
	out := make([]string, len(evts))
	for i, e := range evts {
		out[i] = e.Topic()
	}
	return out
}
