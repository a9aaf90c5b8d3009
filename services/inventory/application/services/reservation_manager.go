package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
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
)

// DefaultReservationTTL applies when neither the request nor the
// configuration sets a reservation TTL.
const DefaultReservationTTL = 15 * time.Minute

// ExpiryScheduler arranges for Expire to be called once a reservation is due.
// The sweeper still catches anything a scheduler misses.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, reservationID uuid.UUID, expiresAt time.Time) error
}

// ReserveInput is a request to hold stock for one order.
type ReserveInput struct {
	OrderID string
	Lines   []models.ReservationLine
	// TTL <= 0 uses the configured default.
	TTL             time.Duration
	ManagerOverride bool
	OverrideReason  string
}

// ReservationFilter narrows List. Zero fields match everything.
type ReservationFilter struct {
	Status  models.ReservationStatus
	OrderID string
	ItemID  uuid.UUID
}

// MonitorSnapshot summarizes reservation activity for the monitoring screen.
type MonitorSnapshot struct {
	TakenAt time.Time
	Counts  map[models.ReservationStatus]int
	// Active reservations, soonest expiry first.
	Active []*models.Reservation
	// Overdue are active reservations past their expiry the sweeper has not
	// reached yet.
	Overdue []*models.Reservation
	// Held is the quantity held per item across active reservations.
	Held map[uuid.UUID]decimal.Decimal
}

// ReservationManager holds TTL-bound claims against sellable stock.
//
// A reservation's state only changes while the locks of all items it
// references are held; mu only guards the map itself and is always taken
// after item locks.
type ReservationManager struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]*models.Reservation

	ledger     *BatchLedger
	defaultTTL time.Duration
	expiry     ExpiryScheduler
	store      repositories.InventoryStore
	audit      recorder
	log        logger.Logger
	now        func() time.Time
	metrics    *engineMetrics
}

// NewReservationManager returns a manager reading availability from ledger.
// Deleting an item in ledger is blocked while the manager holds stock for it.
func NewReservationManager(ledger *BatchLedger, d Deps) *ReservationManager {
	d.defaults()
	m := &ReservationManager{
		reservations: make(map[uuid.UUID]*models.Reservation),
		ledger:       ledger,
		defaultTTL:   d.DefaultTTL,
		expiry:       d.Expiry,
		store:        d.Store,
		audit:        recorder{sink: d.Audit, log: d.Logger},
		log:          d.Logger,
		now:          d.Now,
		metrics:      ledger.metrics,
	}
	ledger.holds = m
	return m
}

// SetExpiryScheduler installs a scheduler after construction, for schedulers
// that themselves depend on the manager.
func (m *ReservationManager) SetExpiryScheduler(s ExpiryScheduler) {
	m.expiry = s
}

// Load replaces the in-memory reservations with the store's contents.
func (m *ReservationManager) Load(ctx context.Context) error {
	rs, err := m.store.LoadReservations(ctx)
	if err != nil {
		return fmt.Errorf("load reservations: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations = make(map[uuid.UUID]*models.Reservation, len(rs))
	active := 0
	for _, r := range rs {
		m.reservations[r.ID] = r
		if r.Status == models.ReservationActive {
			active++
		}
	}
	m.log.InfoContext(ctx, "reservations loaded", "count", len(rs), "active", active)
	return nil
}

func (m *ReservationManager) get(id uuid.UUID) (*models.Reservation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reservations[id]
	return r, ok
}

func (m *ReservationManager) install(r *models.Reservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[r.ID] = r
}

// heldLocked sums active holds on itemID. The caller must hold the item's
// lock for the result to stay valid.
func (m *ReservationManager) heldLocked(itemID uuid.UUID) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, r := range m.reservations {
		if r.Status == models.ReservationActive {
			total = total.Add(r.HeldFor(itemID))
		}
	}
	return total
}

func (m *ReservationManager) hasActiveForLocked(itemID uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reservations {
		if r.Status == models.ReservationActive && r.HeldFor(itemID).IsPositive() {
			return true
		}
	}
	return false
}

// HasActiveFor reports whether any active reservation references itemID.
func (m *ReservationManager) HasActiveFor(itemID uuid.UUID) bool {
	return m.hasActiveForLocked(itemID)
}

func (m *ReservationManager) entries(ctx context.Context, action models.AuditAction, r *models.Reservation, now time.Time, detail map[string]string) []models.AuditEntry {
	actor := auth.ActorOrSystem(ctx)
	out := make([]models.AuditEntry, 0, len(r.Lines))
	for _, itemID := range r.ItemIDs() {
		d := map[string]string{"order_id": r.OrderID, "quantity": r.HeldFor(itemID).String()}
		for k, v := range detail {
			d[k] = v
		}
		out = append(out, models.AuditEntry{
			Action:        action,
			ItemID:        itemID,
			ReservationID: r.ID,
			Actor:         actor,
			Timestamp:     now,
			Detail:        d,
		})
	}
	return out
}

// Reserve holds stock for an order without consuming it. Every line must fit
// in sellable stock (physical minus active holds); otherwise the whole
// reservation is rejected with ErrInsufficientStock unless the manager
// override is set.
func (m *ReservationManager) Reserve(ctx context.Context, in ReserveInput) (*models.Reservation, error) {
	const op = "reserve"
	ttl := in.TTL
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	now := m.now()
	r, err := models.NewReservation(in.OrderID, in.Lines, ttl, in.ManagerOverride, in.OverrideReason, now)
	if err != nil {
		m.metrics.failed(ctx, op, err)
		return nil, err
	}

	unlock := m.ledger.locks.lock(r.ItemIDs()...)
	defer unlock()

	demand := r.Demand()
	var shortages []string
	for _, itemID := range r.ItemIDs() {
		item, ok := m.ledger.lookup(itemID)
		if !ok {
			err := fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
			m.metrics.failed(ctx, op, err)
			return nil, err
		}
		want := demand[itemID]
		if err := item.CheckQuantity(want); err != nil {
			m.metrics.failed(ctx, op, err)
			return nil, err
		}
		sellable := item.TotalQuantity().Sub(m.heldLocked(itemID))
		if sellable.LessThan(want) {
			shortages = append(shortages, fmt.Sprintf("item %s: sellable %s %s, requested %s",
				itemID, sellable, item.Unit, want))
		}
	}
	if len(shortages) > 0 {
		if !in.ManagerOverride {
			err := fmt.Errorf("%w: %s", domain.ErrInsufficientStock, strings.Join(shortages, "; "))
			m.metrics.failed(ctx, op, err)
			return nil, err
		}
		m.log.WarnContext(ctx, "reservation exceeds sellable stock by manager override",
			"order_id", r.OrderID,
			"reason", r.OverrideReason,
			"shortages", shortages,
		)
	}

	evt := events.ReservationCreated{
		Envelope:        events.NewEnvelope(now),
		ReservationID:   r.ID,
		OrderID:         r.OrderID,
		Lines:           eventLines(r),
		ExpiresAt:       r.ExpiresAt,
		ManagerOverride: r.ManagerOverride,
		OverrideReason:  r.OverrideReason,
		Actor:           auth.ActorOrSystem(ctx),
	}
	if err := m.ledger.commit(ctx, repositories.Changeset{
		Reservations: []*models.Reservation{r},
		Events:       []events.DomainEvent{evt},
	}); err != nil {
		m.metrics.failed(ctx, op, err)
		return nil, err
	}
	m.install(r)

	detail := map[string]string{"expires_at": r.ExpiresAt.Format(time.RFC3339)}
	if r.ManagerOverride {
		detail["override_reason"] = r.OverrideReason
	}
	m.audit.record(ctx, m.entries(ctx, models.AuditReservationCreated, r, now, detail)...)
	m.metrics.succeeded(ctx, op)
	m.metrics.transitioned(ctx, string(models.ReservationActive))
	m.log.InfoContext(ctx, "reservation created",
		"reservation_id", r.ID,
		"order_id", r.OrderID,
		"lines", len(r.Lines),
		"expires_at", r.ExpiresAt,
		"manager_override", r.ManagerOverride,
	)

	if m.expiry != nil {
		if err := m.expiry.ScheduleExpiry(ctx, r.ID, r.ExpiresAt); err != nil {
			m.log.WarnContext(ctx, "schedule reservation expiry failed, sweeper will expire it",
				"reservation_id", r.ID, "error", err)
		}
	}
	return r.Clone(), nil
}

// Complete turns every line into a real consumption and marks the
// reservation completed. If any line cannot be consumed nothing is consumed
// and the reservation stays active for manual resolution.
func (m *ReservationManager) Complete(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	const op = "complete_reservation"
	r, unlock, err := m.lockReservation(id)
	if err != nil {
		m.metrics.failed(ctx, op, err)
		return nil, err
	}
	defer unlock()

	now := m.now()
	next := r.Clone()
	if err := next.Transition(models.ReservationCompleted, "fulfilled", now); err != nil {
		m.metrics.failed(ctx, op, err)
		return nil, err
	}

	cs := repositories.Changeset{Reservations: []*models.Reservation{next}}
	var audit []models.AuditEntry
	for _, itemID := range r.ItemIDs() {
		current, ok := m.ledger.lookup(itemID)
		if !ok {
			err := fmt.Errorf("%w: item %s of reservation %s", domain.ErrNotFound, itemID, id)
			m.metrics.failed(ctx, op, err)
			return nil, err
		}
		item := current.Clone()
		ch, err := m.ledger.consumeLocked(ctx, item, r.HeldFor(itemID), r.ID, now)
		if err != nil {
			err = fmt.Errorf("complete reservation %s: item %s: %w", id, itemID, err)
			m.metrics.failed(ctx, op, err)
			m.log.WarnContext(ctx, "reservation completion failed, left active",
				"reservation_id", id, "item_id", itemID, "error", err)
			return nil, err
		}
		cs.Items = append(cs.Items, item)
		cs.Events = append(cs.Events, ch.events...)
		audit = append(audit, ch.audit...)
	}
	cs.Events = append(cs.Events, events.ReservationCompleted{
		Envelope:      events.NewEnvelope(now),
		ReservationID: r.ID,
		OrderID:       r.OrderID,
		Lines:         eventLines(r),
		Actor:         auth.ActorOrSystem(ctx),
	})

	if err := m.ledger.commit(ctx, cs); err != nil {
		m.metrics.failed(ctx, op, err)
		return nil, err
	}
	m.install(next)

	audit = append(audit, m.entries(ctx, models.AuditReservationCompleted, next, now, nil)...)
	m.audit.record(ctx, audit...)
	m.metrics.succeeded(ctx, op)
	m.metrics.transitioned(ctx, string(models.ReservationCompleted))
	m.log.InfoContext(ctx, "reservation completed", "reservation_id", id, "order_id", r.OrderID)
	return next.Clone(), nil
}

// Release cancels an active reservation. Its stock is sellable again at once.
func (m *ReservationManager) Release(ctx context.Context, id uuid.UUID, reason string) (*models.Reservation, error) {
	reason = strings.TrimSpace(reason)
	return m.terminate(ctx, "release_reservation", id, models.ReservationReleased, reason, m.now(), nil)
}

// Expire moves an overdue active reservation to expired. Calling it before
// the reservation is due fails with ErrInvalidState.
func (m *ReservationManager) Expire(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return m.expireAt(ctx, id, m.now())
}

// expireAt is Expire judged and stamped at now instead of the clock.
func (m *ReservationManager) expireAt(ctx context.Context, id uuid.UUID, now time.Time) (*models.Reservation, error) {
	return m.terminate(ctx, "expire_reservation", id, models.ReservationExpired, "ttl elapsed", now,
		func(r *models.Reservation, now time.Time) error {
			if r.Status == models.ReservationActive && !r.IsOverdue(now) {
				return fmt.Errorf("%w: reservation %s is not due until %s",
					domain.ErrInvalidState, r.ID, r.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		})
}

// TimerActor is recorded on audit entries written by durable expiry timers.
const TimerActor = "expiry-timer"

// ExpireReservation expires id if it is still active and returns nil when
// it was already resolved, including by a concurrent complete or sweep.
func (m *ReservationManager) ExpireReservation(ctx context.Context, id uuid.UUID) error {
	if _, err := auth.ActorFromCtx(ctx); err != nil {
		ctx = auth.WithActor(ctx, TimerActor)
	}
	r, err := m.Get(id)
	if err != nil {
		return err
	}
	if r.Status.IsTerminal() {
		return nil
	}
	if _, err := m.Expire(ctx, id); err != nil {
		if cur, getErr := m.Get(id); getErr == nil && cur.Status.IsTerminal() {
			return nil
		}
		return err
	}
	return nil
}

func (m *ReservationManager) terminate(
	ctx context.Context,
	op string,
	id uuid.UUID,
	to models.ReservationStatus,
	reason string,
	now time.Time,
	check func(r *models.Reservation, now time.Time) error,
) (*models.Reservation, error) {
	r, unlock, err := m.lockReservation(id)
	if err != nil {
		m.metrics.failed(ctx, op, err)
		return nil, err
	}
	defer unlock()

	if check != nil {
		if err := check(r, now); err != nil {
			m.metrics.failed(ctx, op, err)
			return nil, err
		}
	}
	next := r.Clone()
	if err := next.Transition(to, reason, now); err != nil {
		m.metrics.failed(ctx, op, err)
		return nil, err
	}

	var evt events.DomainEvent
	var action models.AuditAction
	switch to {
	case models.ReservationReleased:
		action = models.AuditReservationReleased
		evt = events.ReservationReleased{
			Envelope:      events.NewEnvelope(now),
			ReservationID: r.ID,
			OrderID:       r.OrderID,
			Reason:        reason,
			Actor:         auth.ActorOrSystem(ctx),
		}
	case models.ReservationExpired:
		action = models.AuditReservationExpired
		evt = events.ReservationExpired{
			Envelope:      events.NewEnvelope(now),
			ReservationID: r.ID,
			OrderID:       r.OrderID,
			ExpiresAt:     r.ExpiresAt,
		}
	default:
		return nil, fmt.Errorf("%w: unsupported terminal status %s", domain.ErrInvalidState, to)
	}

	if err := m.ledger.commit(ctx, repositories.Changeset{
		Reservations: []*models.Reservation{next},
		Events:       []events.DomainEvent{evt},
	}); err != nil {
		m.metrics.failed(ctx, op, err)
		return nil, err
	}
	m.install(next)

	var detail map[string]string
	if reason != "" {
		detail = map[string]string{"reason": reason}
	}
	m.audit.record(ctx, m.entries(ctx, action, next, now, detail)...)
	m.metrics.succeeded(ctx, op)
	m.metrics.transitioned(ctx, string(to))
	m.log.InfoContext(ctx, "reservation "+string(to), "reservation_id", id, "order_id", r.OrderID, "reason", reason)
	return next.Clone(), nil
}

// lockReservation takes the locks of every item the reservation references
// and returns its state as of holding them.
func (m *ReservationManager) lockReservation(id uuid.UUID) (*models.Reservation, func(), error) {
	r, ok := m.get(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, id)
	}
	unlock := m.ledger.locks.lock(r.ItemIDs()...)
	// Lines never change, so the item set locked above is still the right one.
	r, _ = m.get(id)
	return r, unlock, nil
}

// ExpireOverdue expires every active reservation past its expiry at now and
// returns the ids it expired. Reservations resolved concurrently are skipped.
func (m *ReservationManager) ExpireOverdue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	m.mu.RLock()
	var due []*models.Reservation
	for _, r := range m.reservations {
		if r.IsOverdue(now) {
			due = append(due, r)
		}
	}
	m.mu.RUnlock()
	sort.Slice(due, func(i, j int) bool { return due[i].ExpiresAt.Before(due[j].ExpiresAt) })

	var expired []uuid.UUID
	var errs []error
	for _, r := range due {
		if _, err := m.expireAt(ctx, r.ID, now); err != nil {
			if errors.Is(err, domain.ErrInvalidState) {
				continue
			}
			errs = append(errs, fmt.Errorf("expire reservation %s: %w", r.ID, err))
			continue
		}
		expired = append(expired, r.ID)
	}
	return expired, errors.Join(errs...)
}

// Get returns a copy of the reservation.
func (m *ReservationManager) Get(id uuid.UUID) (*models.Reservation, error) {
	r, ok := m.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, id)
	}
	return r.Clone(), nil
}

// List returns copies of matching reservations, newest first.
func (m *ReservationManager) List(f ReservationFilter) []*models.Reservation {
	m.mu.RLock()
	var out []*models.Reservation
	for _, r := range m.reservations {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.OrderID != "" && r.OrderID != f.OrderID {
			continue
		}
		if f.ItemID != uuid.Nil && !r.HeldFor(f.ItemID).IsPositive() {
			continue
		}
		out = append(out, r.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Sellable is physical stock minus active holds for itemID.
func (m *ReservationManager) Sellable(itemID uuid.UUID) (decimal.Decimal, error) {
	unlock := m.ledger.locks.lock(itemID)
	defer unlock()
	available, err := m.ledger.AvailableQuantity(itemID)
	if err != nil {
		return decimal.Zero, err
	}
	return available.Sub(m.heldLocked(itemID)), nil
}

// Monitor summarizes reservations as of now.
func (m *ReservationManager) Monitor() MonitorSnapshot {
	now := m.now()
	snap := MonitorSnapshot{
		TakenAt: now,
		Counts: map[models.ReservationStatus]int{
			models.ReservationActive:    0,
			models.ReservationCompleted: 0,
			models.ReservationReleased:  0,
			models.ReservationExpired:   0,
		},
		Held: make(map[uuid.UUID]decimal.Decimal),
	}

	m.mu.RLock()
	for _, r := range m.reservations {
		snap.Counts[r.Status]++
		if r.Status != models.ReservationActive {
			continue
		}
		c := r.Clone()
		snap.Active = append(snap.Active, c)
		if r.IsOverdue(now) {
			snap.Overdue = append(snap.Overdue, c)
		}
		for itemID, q := range r.Demand() {
			snap.Held[itemID] = snap.Held[itemID].Add(q)
		}
	}
	m.mu.RUnlock()

	bySoonest := func(rs []*models.Reservation) {
		sort.Slice(rs, func(i, j int) bool { return rs[i].ExpiresAt.Before(rs[j].ExpiresAt) })
	}
	bySoonest(snap.Active)
	bySoonest(snap.Overdue)
	return snap
}

func eventLines(r *models.Reservation) []events.Line {
	out := make([]events.Line, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = events.Line{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return out
}
