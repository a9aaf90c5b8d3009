package models

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/services/inventory/domain"
)

// ReservationStatus is the lifecycle state of a Reservation.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
	ReservationReleased  ReservationStatus = "released"
	ReservationExpired   ReservationStatus = "expired"
)

// Valid reports whether s is a known status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationActive, ReservationCompleted, ReservationReleased, ReservationExpired:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationCompleted || s == ReservationReleased || s == ReservationExpired
}

// ReservationLine holds Quantity of one item, in the item's own unit.
type ReservationLine struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// Reservation is a TTL-bound hold against sellable stock for one order.
type Reservation struct {
	ID               uuid.UUID
	OrderID          string
	Lines            []ReservationLine
	Status           ReservationStatus
	CreatedAt        time.Time
	ExpiresAt        time.Time
	ManagerOverride  bool
	OverrideReason   string
	ResolvedAt       *time.Time
	ResolutionReason string
}

// MaxReservationTTL bounds how long a hold may last.
const MaxReservationTTL = 7 * 24 * time.Hour

// NewReservation validates the request and returns an active Reservation
// expiring ttl after now.
func NewReservation(orderID string, lines []ReservationLine, ttl time.Duration, override bool, overrideReason string, now time.Time) (*Reservation, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", domain.ErrValidation)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: reservation needs at least one line", domain.ErrValidation)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: reservation ttl must be positive", domain.ErrValidation)
	}
	if ttl > MaxReservationTTL {
		return nil, fmt.Errorf("%w: reservation ttl %s exceeds %s", domain.ErrValidation, ttl, MaxReservationTTL)
	}
	overrideReason = strings.TrimSpace(overrideReason)
	if override && overrideReason == "" {
		return nil, fmt.Errorf("%w: manager override requires a reason", domain.ErrValidation)
	}
	for idx, l := range lines {
		if l.ItemID == uuid.Nil {
			return nil, fmt.Errorf("%w: line %d has no item id", domain.ErrValidation, idx)
		}
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: line %d quantity must be positive", domain.ErrValidation, idx)
		}
	}

	return &Reservation{
		ID:              uuid.New(),
		OrderID:         orderID,
		Lines:           append([]ReservationLine(nil), lines...),
		Status:          ReservationActive,
		CreatedAt:       now,
		ExpiresAt:       now.Add(ttl),
		ManagerOverride: override,
		OverrideReason:  overrideReason,
	}, nil
}

// Transition moves an active reservation into a terminal state.
func (r *Reservation) Transition(to ReservationStatus, reason string, now time.Time) error {
	if r.Status != ReservationActive {
		return fmt.Errorf("%w: reservation %s is %s", domain.ErrInvalidState, r.ID, r.Status)
	}
	if !to.IsTerminal() {
		return fmt.Errorf("%w: cannot move reservation %s to %s", domain.ErrInvalidState, r.ID, to)
	}
	r.Status = to
	at := now
	r.ResolvedAt = &at
	r.ResolutionReason = reason
	return nil
}

// IsOverdue reports whether an active reservation has passed its expiry.
func (r *Reservation) IsOverdue(now time.Time) bool {
	return r.Status == ReservationActive && now.After(r.ExpiresAt)
}

// HeldFor sums the quantity of all lines referencing itemID.
func (r *Reservation) HeldFor(itemID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		if l.ItemID == itemID {
			total = total.Add(l.Quantity)
		}
	}
	return total
}

// Demand aggregates the lines per item.
func (r *Reservation) Demand() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(r.Lines))
	for _, l := range r.Lines {
		out[l.ItemID] = out[l.ItemID].Add(l.Quantity)
	}
	return out
}

// ItemIDs returns the distinct item ids referenced, sorted.
func (r *Reservation) ItemIDs() []uuid.UUID {
	return SortedIDs(r.Demand())
}

// Clone returns a deep copy.
func (r *Reservation) Clone() *Reservation {
	c := *r
	c.Lines = append([]ReservationLine(nil), r.Lines...)
	if r.ResolvedAt != nil {
		at := *r.ResolvedAt
		c.ResolvedAt = &at
	}
	return &c
}

// SortedIDs returns the keys of m in byte order.
func SortedIDs[V any](m map[uuid.UUID]V) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		return bytes.Compare(ids[a][:], ids[b][:]) < 0
	})
	return ids
}
