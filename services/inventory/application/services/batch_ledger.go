package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/pkg/auth"
	"github.com/ghuser/cafestock/pkg/logger"
	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/events"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
	"github.com/ghuser/cafestock/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/cafestock/services/inventory/domain/services"
)

// holdIndex answers whether active reservations reference an item. The
// caller must hold the item's lock.
type holdIndex interface {
	hasActiveForLocked(itemID uuid.UUID) bool
}

// BatchLedger is the authoritative record of physical stock per item.
//
// Items in the map are never mutated in place: every operation works on a
// clone under the item's lock and swaps it in only after the store accepted
// the change, so readers always see a committed state.
type BatchLedger struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.Item

	locks   *itemLocks
	store   repositories.InventoryStore
	audit   recorder
	alerts  *domainsvcs.AlertEngine
	clock   domainsvcs.BusinessClock
	log     logger.Logger
	now     func() time.Time
	metrics *engineMetrics
	holds   holdIndex
}

// NewBatchLedger returns an empty ledger. Call Load to restore persisted state.
func NewBatchLedger(d Deps) *BatchLedger {
	d.defaults()
	return &BatchLedger{
		items:   make(map[uuid.UUID]*models.Item),
		locks:   newItemLocks(),
		store:   d.Store,
		audit:   recorder{sink: d.Audit, log: d.Logger},
		alerts:  d.Alerts,
		clock:   d.Clock,
		log:     d.Logger,
		now:     d.Now,
		metrics: newEngineMetrics(),
	}
}

// Load replaces the in-memory items with the store's contents.
func (l *BatchLedger) Load(ctx context.Context) error {
	items, err := l.store.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = make(map[uuid.UUID]*models.Item, len(items))
	for _, it := range items {
		l.items[it.ID] = it
	}
	l.log.InfoContext(ctx, "inventory items loaded", "count", len(items))
	return nil
}

// change is what one ledger mutation produced besides the new item state.
type change struct {
	events []events.DomainEvent
	audit  []models.AuditEntry
}

// mutate runs fn on a private copy of the item under the item's lock and
// installs the copy once the store committed it.
func (l *BatchLedger) mutate(ctx context.Context, op string, itemID uuid.UUID, fn func(item *models.Item, now time.Time) (change, error)) (*models.Item, error) {
	unlock := l.locks.lock(itemID)
	defer unlock()
	return l.mutateLocked(ctx, op, itemID, fn)
}

// mutateLocked is mutate for callers already holding the item's lock.
func (l *BatchLedger) mutateLocked(ctx context.Context, op string, itemID uuid.UUID, fn func(item *models.Item, now time.Time) (change, error)) (*models.Item, error) {
	current, ok := l.lookup(itemID)
	if !ok {
		err := fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
		l.metrics.failed(ctx, op, err)
		return nil, err
	}

	now := l.now()
	next := current.Clone()
	ch, err := fn(next, now)
	if err != nil {
		l.metrics.failed(ctx, op, err)
		return nil, err
	}

	if err := l.commit(ctx, repositories.Changeset{Items: []*models.Item{next}, Events: ch.events}); err != nil {
		l.metrics.failed(ctx, op, err)
		return nil, err
	}
	l.audit.record(ctx, ch.audit...)
	l.metrics.succeeded(ctx, op)
	return next.Clone(), nil
}

// commit persists cs and then installs its items. The caller must hold the
// locks of every item in cs.
func (l *BatchLedger) commit(ctx context.Context, cs repositories.Changeset) error {
	if err := l.store.Commit(ctx, cs); err != nil {
		return fmt.Errorf("commit inventory change: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range cs.Items {
		l.items[it.ID] = it
	}
	for _, id := range cs.DeletedItemIDs {
		delete(l.items, id)
	}
	return nil
}

// lookup returns the committed item. The result must not be mutated.
func (l *BatchLedger) lookup(id uuid.UUID) (*models.Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	it, ok := l.items[id]
	return it, ok
}

func (l *BatchLedger) entry(ctx context.Context, action models.AuditAction, itemID uuid.UUID, now time.Time, detail map[string]string) models.AuditEntry {
	return models.AuditEntry{
		Action:    action,
		ItemID:    itemID,
		Actor:     auth.ActorOrSystem(ctx),
		Timestamp: now,
		Detail:    detail,
	}
}

// CreateItem validates in and stores a new item with its initial batches.
// Expiration dates are normalized to business-zone midnight.
func (l *BatchLedger) CreateItem(ctx context.Context, in models.NewItemParams) (*models.Item, error) {
	const op = "create_item"
	batches := make([]models.NewBatchParams, len(in.InitialBatches))
	for i, b := range in.InitialBatches {
		b.ExpirationDate = l.normalize(b.ExpirationDate)
		batches[i] = b
	}
	in.InitialBatches = batches
	now := l.now()
	item, err := models.NewItem(in, now)
	if err != nil {
		l.metrics.failed(ctx, op, err)
		return nil, err
	}

	unlock := l.locks.lock(item.ID)
	defer unlock()

	if err := l.commit(ctx, repositories.Changeset{Items: []*models.Item{item}}); err != nil {
		l.metrics.failed(ctx, op, err)
		return nil, err
	}
	l.audit.record(ctx, l.entry(ctx, models.AuditItemCreated, item.ID, now, map[string]string{
		"name":    item.Name,
		"unit":    item.Unit.String(),
		"batches": fmt.Sprint(len(item.Batches)),
		"total":   item.TotalQuantity().String(),
	}))
	l.metrics.succeeded(ctx, op)
	l.log.InfoContext(ctx, "inventory item created", "item_id", item.ID, "name", item.Name, "unit", item.Unit)
	return item.Clone(), nil
}

// GetItem returns a copy of the item.
func (l *BatchLedger) GetItem(id uuid.UUID) (*models.Item, error) {
	it, ok := l.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	return it.Clone(), nil
}

// ListItems returns copies of all items ordered by name, then id.
func (l *BatchLedger) ListItems() []*models.Item {
	l.mu.RLock()
	out := make([]*models.Item, 0, len(l.items))
	for _, it := range l.items {
		out = append(out, it.Clone())
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// DeleteItem removes an item. It is rejected with ErrInvalidState while any
// active reservation references the item.
func (l *BatchLedger) DeleteItem(ctx context.Context, id uuid.UUID) error {
	const op = "delete_item"
	unlock := l.locks.lock(id)
	defer unlock()

	if _, ok := l.lookup(id); !ok {
		err := fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
		l.metrics.failed(ctx, op, err)
		return err
	}
	if l.holds != nil && l.holds.hasActiveForLocked(id) {
		err := fmt.Errorf("%w: item %s has active reservations", domain.ErrInvalidState, id)
		l.metrics.failed(ctx, op, err)
		return err
	}

	now := l.now()
	if err := l.commit(ctx, repositories.Changeset{DeletedItemIDs: []uuid.UUID{id}}); err != nil {
		l.metrics.failed(ctx, op, err)
		return err
	}
	l.audit.record(ctx, l.entry(ctx, models.AuditItemDeleted, id, now, nil))
	l.metrics.succeeded(ctx, op)
	l.log.InfoContext(ctx, "inventory item deleted", "item_id", id)
	return nil
}

// UpdateThreshold sets the item's minimum threshold; nil restores the unit default.
func (l *BatchLedger) UpdateThreshold(ctx context.Context, id uuid.UUID, threshold *decimal.Decimal) (*models.Item, error) {
	return l.mutate(ctx, "update_threshold", id, func(item *models.Item, now time.Time) (change, error) {
		if err := item.SetThreshold(threshold, now); err != nil {
			return change{}, err
		}
		value := "default"
		if threshold != nil {
			value = threshold.String()
		}
		return change{audit: []models.AuditEntry{
			l.entry(ctx, models.AuditThresholdUpdated, id, now, map[string]string{"threshold": value}),
		}}, nil
	})
}

// Restock appends a batch of quantity expiring on expirationDate.
func (l *BatchLedger) Restock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal, expirationDate time.Time) (*models.Batch, error) {
	var added models.Batch
	_, err := l.mutate(ctx, "restock", id, func(item *models.Item, now time.Time) (change, error) {
		b, err := item.Restock(models.NewBatchParams{
			Quantity:       quantity,
			ExpirationDate: l.normalize(expirationDate),
		}, now)
		if err != nil {
			return change{}, err
		}
		added = b
		return change{
			events: []events.DomainEvent{events.StockRestocked{
				Envelope:       events.NewEnvelope(now),
				ItemID:         id,
				BatchID:        b.ID,
				Quantity:       b.Quantity,
				ExpirationDate: b.ExpirationDate,
				Total:          item.TotalQuantity(),
				Actor:          auth.ActorOrSystem(ctx),
			}},
			audit: []models.AuditEntry{l.entry(ctx, models.AuditStockRestocked, id, now, map[string]string{
				"batch_id":        b.ID.String(),
				"quantity":        b.Quantity.String(),
				"expiration_date": b.ExpirationDate.Format(time.RFC3339),
			})},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	l.log.InfoContext(ctx, "stock restocked", "item_id", id, "batch_id", added.ID, "quantity", added.Quantity.String())
	return &added, nil
}

// Consume depletes stock earliest-expiring batch first. It either takes the
// whole quantity or changes nothing.
func (l *BatchLedger) Consume(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (*models.Item, error) {
	return l.mutate(ctx, "consume", id, func(item *models.Item, now time.Time) (change, error) {
		return l.consumeLocked(ctx, item, quantity, uuid.Nil, now)
	})
}

// ConsumeConverted is Consume with quantity expressed in unit, which must be
// the item's unit or convertible to it.
func (l *BatchLedger) ConsumeConverted(ctx context.Context, id uuid.UUID, quantity decimal.Decimal, unit models.Unit) (*models.Item, error) {
	return l.mutate(ctx, "consume", id, func(item *models.Item, now time.Time) (change, error) {
		if unit == item.Unit {
			return l.consumeLocked(ctx, item, quantity, uuid.Nil, now)
		}
		native, err := domainsvcs.Convert(quantity, unit, item.Unit)
		if err != nil {
			return change{}, err
		}
		return l.consumeLocked(ctx, item, native, uuid.Nil, now)
	})
}

// consumeLocked applies a consumption to item, which must be a private clone.
func (l *BatchLedger) consumeLocked(ctx context.Context, item *models.Item, quantity decimal.Decimal, reservationID uuid.UUID, now time.Time) (change, error) {
	draws, err := item.Consume(quantity, now)
	if err != nil {
		return change{}, err
	}
	evt := events.StockConsumed{
		Envelope:      events.NewEnvelope(now),
		ItemID:        item.ID,
		Total:         item.TotalQuantity(),
		ReservationID: reservationID,
		Actor:         auth.ActorOrSystem(ctx),
	}
	for _, d := range draws {
		evt.Draws = append(evt.Draws, events.BatchQuantity{BatchID: d.BatchID, Quantity: d.Quantity})
	}
	detail := map[string]string{"quantity": quantity.String(), "batches": fmt.Sprint(len(draws))}
	if reservationID != uuid.Nil {
		detail["reservation_id"] = reservationID.String()
	}
	return change{
		events: []events.DomainEvent{evt},
		audit:  []models.AuditEntry{l.entry(ctx, models.AuditStockConsumed, item.ID, now, detail)},
	}, nil
}

// Dispose writes off the named batches. Batches already at zero or already
// disposed are skipped, so repeating a dispose is harmless.
func (l *BatchLedger) Dispose(ctx context.Context, id uuid.UUID, batchIDs []uuid.UUID) (*models.Item, error) {
	var written []models.BatchDraw
	item, err := l.mutate(ctx, "dispose", id, func(item *models.Item, now time.Time) (change, error) {
		var err error
		written, err = item.Dispose(batchIDs, now)
		if err != nil {
			return change{}, err
		}
		if len(written) == 0 {
			return change{}, nil
		}
		evt := events.BatchDisposed{Envelope: events.NewEnvelope(now), ItemID: id, Actor: auth.ActorOrSystem(ctx)}
		var audit []models.AuditEntry
		for _, w := range written {
			evt.Batches = append(evt.Batches, events.BatchQuantity{BatchID: w.BatchID, Quantity: w.Quantity})
			audit = append(audit, l.entry(ctx, models.AuditBatchDisposed, id, now, map[string]string{
				"batch_id": w.BatchID.String(),
				"quantity": w.Quantity.String(),
			}))
		}
		return change{events: []events.DomainEvent{evt}, audit: audit}, nil
	})
	if err != nil {
		return nil, err
	}
	l.log.InfoContext(ctx, "batches disposed", "item_id", id, "requested", len(batchIDs), "written_off", len(written))
	return item, nil
}

// SetBatchQuantity overwrites one batch with a physical count and returns
// counted minus previous. Used by end-of-day reconciliation.
func (l *BatchLedger) SetBatchQuantity(ctx context.Context, id, batchID uuid.UUID, counted decimal.Decimal) (decimal.Decimal, error) {
	var delta decimal.Decimal
	_, err := l.mutate(ctx, "set_batch_quantity", id, func(item *models.Item, now time.Time) (change, error) {
		d, err := item.SetBatchQuantity(batchID, counted, now)
		if err != nil {
			return change{}, err
		}
		delta = d
		return change{audit: []models.AuditEntry{l.entry(ctx, models.AuditBatchCounted, id, now, map[string]string{
			"batch_id": batchID.String(),
			"counted":  counted.String(),
			"delta":    d.String(),
		})}}, nil
	})
	return delta, err
}

// AvailableQuantity is the physical total: the sum of non-disposed batches.
func (l *BatchLedger) AvailableQuantity(id uuid.UUID) (decimal.Decimal, error) {
	it, ok := l.lookup(id)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	return it.TotalQuantity(), nil
}

// Threshold returns the effective minimum threshold of item.
func (l *BatchLedger) Threshold(item *models.Item) decimal.Decimal {
	return l.alerts.Thresholds().For(item)
}

// StatusOf derives the item's stock status against its effective threshold.
func (l *BatchLedger) StatusOf(item *models.Item) models.StockStatus {
	return item.Status(l.Threshold(item))
}

// Alerts evaluates the current alert set across all items.
func (l *BatchLedger) Alerts(now time.Time) []models.Alert {
	l.mu.RLock()
	items := make([]*models.Item, 0, len(l.items))
	for _, it := range l.items {
		items = append(items, it)
	}
	l.mu.RUnlock()
	return l.alerts.Evaluate(items, now)
}

// NormalizeExpiration exposes the business-zone normalization applied to
// every expiration date the ledger stores.
func (l *BatchLedger) NormalizeExpiration(t time.Time) time.Time {
	return l.normalize(t)
}

func (l *BatchLedger) normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return l.clock.NormalizeExpiration(t)
}
