package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/pkg/auth"
	"github.com/ghuser/cafestock/pkg/logger"
	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/events"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
	"github.com/ghuser/cafestock/services/inventory/domain/repositories"
)

// BatchCount is one physically counted batch.
type BatchCount struct {
	BatchID  uuid.UUID
	Quantity decimal.Decimal
}

// EndDayEntry is the count for one item in a bulk end-of-day.
type EndDayEntry struct {
	ItemID uuid.UUID
	Counts []BatchCount
}

// EndDayResult is one reconciled item.
type EndDayResult struct {
	Item      *models.Item
	Variances []models.BatchVariance
	// FromSnapshot is false when no start-of-day baseline existed and the
	// recorded quantities were used instead.
	FromSnapshot bool
}

// EndDayFailure names an item whose end-of-day was rejected and why.
type EndDayFailure struct {
	ItemID uuid.UUID
	Err    error
}

// BulkEndDayResult separates reconciled items from rejected ones.
type BulkEndDayResult struct {
	Updated []EndDayResult
	Failed  []EndDayFailure
}

// DailyCountReconciler snapshots stock at start of day and reconciles it
// against physical counts at end of day.
type DailyCountReconciler struct {
	ledger    *BatchLedger
	snapshots repositories.SnapshotStore
	audit     recorder
	log       logger.Logger
	now       func() time.Time
}

// NewDailyCountReconciler returns a reconciler writing counts through ledger.
func NewDailyCountReconciler(ledger *BatchLedger, d Deps) *DailyCountReconciler {
	d.defaults()
	return &DailyCountReconciler{
		ledger:    ledger,
		snapshots: d.Snapshots,
		audit:     recorder{sink: d.Audit, log: d.Logger},
		log:       d.Logger,
		now:       d.Now,
	}
}

// StartDay stores the current per-batch quantities of itemID as the day's
// baseline, replacing any earlier baseline. The ledger is not changed.
func (r *DailyCountReconciler) StartDay(ctx context.Context, itemID uuid.UUID) (*models.DaySnapshot, error) {
	const op = "start_day"
	unlock := r.ledger.locks.lock(itemID)
	defer unlock()

	item, ok := r.ledger.lookup(itemID)
	if !ok {
		err := fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
		r.ledger.metrics.failed(ctx, op, err)
		return nil, err
	}

	now := r.now()
	snap := &models.DaySnapshot{
		ItemID:  itemID,
		TakenAt: now,
		TakenBy: auth.ActorOrSystem(ctx),
		Batches: make(map[uuid.UUID]decimal.Decimal, len(item.Batches)),
	}
	for _, b := range item.Batches {
		if !b.Disposed {
			snap.Batches[b.ID] = b.Quantity
		}
	}
	if err := r.snapshots.SaveSnapshot(ctx, snap); err != nil {
		err = fmt.Errorf("save day snapshot: %w", err)
		r.ledger.metrics.failed(ctx, op, err)
		return nil, err
	}

	r.audit.record(ctx, models.AuditEntry{
		Action:    models.AuditDayStarted,
		ItemID:    itemID,
		Actor:     snap.TakenBy,
		Timestamp: now,
		Detail:    map[string]string{"batches": fmt.Sprint(len(snap.Batches)), "total": item.TotalQuantity().String()},
	})
	r.ledger.metrics.succeeded(ctx, op)
	r.log.InfoContext(ctx, "day started", "item_id", itemID, "batches", len(snap.Batches))
	return snap, nil
}

// EndDay applies the physical counts of one item. Variance per batch is
// baseline minus counted. All counts are applied together or, if any is
// invalid, none is.
func (r *DailyCountReconciler) EndDay(ctx context.Context, itemID uuid.UUID, counts []BatchCount) (*EndDayResult, error) {
	const op = "end_day"
	if err := validateCounts(counts); err != nil {
		r.ledger.metrics.failed(ctx, op, err)
		return nil, err
	}

	unlock := r.ledger.locks.lock(itemID)
	defer unlock()

	snap, err := r.snapshots.GetSnapshot(ctx, itemID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		err = fmt.Errorf("load day snapshot: %w", err)
		r.ledger.metrics.failed(ctx, op, err)
		return nil, err
	}

	result := &EndDayResult{FromSnapshot: snap != nil}
	item, err := r.ledger.mutateLocked(ctx, op, itemID, func(item *models.Item, now time.Time) (change, error) {
		actor := auth.ActorOrSystem(ctx)
		evt := events.DayClosed{Envelope: events.NewEnvelope(now), ItemID: itemID, Actor: actor}
		var audit []models.AuditEntry

		for _, c := range counts {
			b, ok := item.Batch(c.BatchID)
			if !ok {
				return change{}, fmt.Errorf("%w: batch %s on item %s", domain.ErrNotFound, c.BatchID, itemID)
			}
			recorded := b.Quantity
			baseline := recorded
			if snap != nil {
				if q, ok := snap.Batches[c.BatchID]; ok {
					baseline = q
				}
			}
			delta, err := item.SetBatchQuantity(c.BatchID, c.Quantity, now)
			if err != nil {
				return change{}, err
			}

			v := models.BatchVariance{
				BatchID:  c.BatchID,
				Baseline: baseline,
				Recorded: recorded,
				Counted:  c.Quantity,
				Variance: baseline.Sub(c.Quantity),
			}
			result.Variances = append(result.Variances, v)
			evt.Variances = append(evt.Variances, events.Variance{
				BatchID:  v.BatchID,
				Baseline: v.Baseline,
				Counted:  v.Counted,
				Variance: v.Variance,
			})
			audit = append(audit, models.AuditEntry{
				Action:    models.AuditBatchCounted,
				ItemID:    itemID,
				Actor:     actor,
				Timestamp: now,
				Detail: map[string]string{
					"batch_id": c.BatchID.String(),
					"baseline": baseline.String(),
					"counted":  c.Quantity.String(),
					"variance": v.Variance.String(),
					"delta":    delta.String(),
				},
			})
		}
		return change{events: []events.DomainEvent{evt}, audit: audit}, nil
	})
	if err != nil {
		return nil, err
	}
	result.Item = item

	if snap != nil {
		if err := r.snapshots.DeleteSnapshot(ctx, itemID); err != nil {
			r.log.WarnContext(ctx, "delete day snapshot failed", "item_id", itemID, "error", err)
		}
	}
	r.log.InfoContext(ctx, "day closed", "item_id", itemID, "batches", len(counts), "from_snapshot", result.FromSnapshot)
	return result, nil
}

// BulkEndDay runs EndDay for every entry independently. A rejected item is
// reported in Failed and never blocks the others.
func (r *DailyCountReconciler) BulkEndDay(ctx context.Context, entries []EndDayEntry) BulkEndDayResult {
	var out BulkEndDayResult
	for _, e := range entries {
		res, err := r.EndDay(ctx, e.ItemID, e.Counts)
		if err != nil {
			out.Failed = append(out.Failed, EndDayFailure{ItemID: e.ItemID, Err: err})
			continue
		}
		out.Updated = append(out.Updated, *res)
	}
	r.log.InfoContext(ctx, "bulk end of day finished", "updated", len(out.Updated), "failed", len(out.Failed))
	return out
}

func validateCounts(counts []BatchCount) error {
	if len(counts) == 0 {
		return fmt.Errorf("%w: no batch counts given", domain.ErrValidation)
	}
	seen := make(map[uuid.UUID]struct{}, len(counts))
	for _, c := range counts {
		if c.Quantity.IsNegative() {
			return fmt.Errorf("%w: counted quantity for batch %s must not be negative", domain.ErrValidation, c.BatchID)
		}
		if _, dup := seen[c.BatchID]; dup {
			return fmt.Errorf("%w: batch %s counted twice", domain.ErrValidation, c.BatchID)
		}
		seen[c.BatchID] = struct{}{}
	}
	return nil
}
