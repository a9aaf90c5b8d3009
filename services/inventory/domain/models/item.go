package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/services/inventory/domain"
)

// StockStatus is derived from an item's total quantity and its threshold.
type StockStatus string

const (
	StatusInStock    StockStatus = "InStock"
	StatusLowStock   StockStatus = "LowStock"
	StatusOutOfStock StockStatus = "OutOfStock"
)

// Item is the aggregate root for one stocked ingredient or product.
// Batches are owned by the item and must only change through its methods.
type Item struct {
	ID       uuid.UUID
	Name     string
	Category string
	Unit     Unit
	// MinimumThreshold is nil when the unit default applies.
	MinimumThreshold *decimal.Decimal
	Cost             decimal.Decimal
	Price            decimal.Decimal
	VendorRef        string
	Batches          []Batch
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewItemParams carries the fields needed to create an Item. Expiration dates
// on InitialBatches must already be normalized by the caller.
type NewItemParams struct {
	Name             string
	Category         string
	Unit             Unit
	MinimumThreshold *decimal.Decimal
	Cost             decimal.Decimal
	Price            decimal.Decimal
	VendorRef        string
	InitialBatches   []NewBatchParams
}

// NewBatchParams describes a batch to be appended to an item.
type NewBatchParams struct {
	Quantity       decimal.Decimal
	ExpirationDate time.Time
}

// NewItem validates params and builds an Item with at least one initial batch.
func NewItem(p NewItemParams, now time.Time) (*Item, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name is required", domain.ErrValidation)
	}
	if !p.Unit.Valid() {
		return nil, fmt.Errorf("%w: unknown unit %q", domain.ErrValidation, p.Unit)
	}
	if p.MinimumThreshold != nil && p.MinimumThreshold.IsNegative() {
		return nil, fmt.Errorf("%w: minimum threshold must not be negative", domain.ErrValidation)
	}
	if p.Cost.IsNegative() || p.Price.IsNegative() {
		return nil, fmt.Errorf("%w: cost and price must not be negative", domain.ErrValidation)
	}
	if len(p.InitialBatches) == 0 {
		return nil, fmt.Errorf("%w: at least one initial batch is required", domain.ErrValidation)
	}

	item := &Item{
		ID:               uuid.New(),
		Name:             name,
		Category:         strings.TrimSpace(p.Category),
		Unit:             p.Unit,
		MinimumThreshold: copyDecimal(p.MinimumThreshold),
		Cost:             p.Cost,
		Price:            p.Price,
		VendorRef:        p.VendorRef,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for i, b := range p.InitialBatches {
		if b.Quantity.IsNegative() {
			return nil, fmt.Errorf("%w: initial batch %d has negative quantity", domain.ErrValidation, i)
		}
		if err := item.CheckQuantity(b.Quantity); err != nil {
			return nil, err
		}
		if b.ExpirationDate.IsZero() {
			return nil, fmt.Errorf("%w: initial batch %d has no expiration date", domain.ErrValidation, i)
		}
		item.Batches = append(item.Batches, newBatch(item.ID, b, now))
	}
	return item, nil
}

// IsCountBased reports whether the item is stocked in pieces.
func (i *Item) IsCountBased() bool {
	return i.Unit.IsCountBased()
}

// TotalQuantity is the sum of all non-disposed batch quantities.
func (i *Item) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, b := range i.Batches {
		if !b.Disposed {
			total = total.Add(b.Quantity)
		}
	}
	return total
}

// Status derives the stock status against the given effective threshold.
func (i *Item) Status(threshold decimal.Decimal) StockStatus {
	total := i.TotalQuantity()
	switch {
	case total.IsZero():
		return StatusOutOfStock
	case total.LessThanOrEqual(threshold):
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Batch returns a pointer to the batch with the given id.
func (i *Item) Batch(id uuid.UUID) (*Batch, bool) {
	for idx := range i.Batches {
		if i.Batches[idx].ID == id {
			return &i.Batches[idx], true
		}
	}
	return nil, false
}

// Restock appends a new batch. Quantity must be positive.
func (i *Item) Restock(p NewBatchParams, now time.Time) (Batch, error) {
	if !p.Quantity.IsPositive() {
		return Batch{}, fmt.Errorf("%w: restock quantity must be positive", domain.ErrValidation)
	}
	if err := i.CheckQuantity(p.Quantity); err != nil {
		return Batch{}, err
	}
	if p.ExpirationDate.IsZero() {
		return Batch{}, fmt.Errorf("%w: expiration date is required", domain.ErrValidation)
	}
	b := newBatch(i.ID, p, now)
	i.Batches = append(i.Batches, b)
	i.UpdatedAt = now
	return b, nil
}

// BatchDraw records how much one consumption took from one batch.
type BatchDraw struct {
	BatchID  uuid.UUID
	Quantity decimal.Decimal
}

// Consume depletes batches earliest-expiring first. If the non-disposed total
// is below qty nothing is changed and ErrInsufficientStock is returned.
func (i *Item) Consume(qty decimal.Decimal, now time.Time) ([]BatchDraw, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: consume quantity must be positive", domain.ErrValidation)
	}
	if err := i.CheckQuantity(qty); err != nil {
		return nil, err
	}
	available := i.TotalQuantity()
	if available.LessThan(qty) {
		return nil, fmt.Errorf("%w: item %s has %s %s, requested %s",
			domain.ErrInsufficientStock, i.ID, available, i.Unit, qty)
	}

	remaining := qty
	var draws []BatchDraw
	for _, b := range i.consumptionCandidates() {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, b.Quantity)
		b.Quantity = b.Quantity.Sub(take)
		remaining = remaining.Sub(take)
		draws = append(draws, BatchDraw{BatchID: b.ID, Quantity: take})
	}
	i.UpdatedAt = now
	return draws, nil
}

// Dispose forces the named batches to zero and flags them disposed. Unknown
// ids fail the whole call before anything changes; batches already at zero or
// already disposed are skipped. The ids actually written off are returned.
func (i *Item) Dispose(batchIDs []uuid.UUID, now time.Time) ([]BatchDraw, error) {
	if len(batchIDs) == 0 {
		return nil, fmt.Errorf("%w: no batch ids given", domain.ErrValidation)
	}
	for _, id := range batchIDs {
		if _, ok := i.Batch(id); !ok {
			return nil, fmt.Errorf("%w: batch %s on item %s", domain.ErrNotFound, id, i.ID)
		}
	}

	var written []BatchDraw
	for _, id := range batchIDs {
		b, _ := i.Batch(id)
		if b.Disposed || b.Quantity.IsZero() {
			continue
		}
		written = append(written, BatchDraw{BatchID: b.ID, Quantity: b.Quantity})
		b.Quantity = decimal.Zero
		b.Disposed = true
		at := now
		b.DisposedAt = &at
	}
	if len(written) > 0 {
		i.UpdatedAt = now
	}
	return written, nil
}

// SetBatchQuantity overwrites a batch quantity with a physical count and
// returns counted minus previous.
func (i *Item) SetBatchQuantity(batchID uuid.UUID, counted decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if counted.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: counted quantity for batch %s must not be negative", domain.ErrValidation, batchID)
	}
	if err := i.CheckQuantity(counted); err != nil {
		return decimal.Zero, err
	}
	b, ok := i.Batch(batchID)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: batch %s on item %s", domain.ErrNotFound, batchID, i.ID)
	}
	if b.Disposed {
		return decimal.Zero, fmt.Errorf("%w: batch %s is disposed", domain.ErrInvalidState, batchID)
	}
	delta := counted.Sub(b.Quantity)
	b.Quantity = counted
	i.UpdatedAt = now
	return delta, nil
}

// Clone returns a deep copy so callers can mutate it and swap it in atomically.
func (i *Item) Clone() *Item {
	c := *i
	c.MinimumThreshold = copyDecimal(i.MinimumThreshold)
	c.Batches = make([]Batch, len(i.Batches))
	for idx, b := range i.Batches {
		c.Batches[idx] = b.clone()
	}
	return &c
}

// consumptionCandidates returns pointers to batches eligible for consumption
// in FIFO order: earliest expiration, then earliest received, then id.
func (i *Item) consumptionCandidates() []*Batch {
	var out []*Batch
	for idx := range i.Batches {
		b := &i.Batches[idx]
		if b.Disposed || !b.Quantity.IsPositive() {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].ExpirationDate.Equal(out[b].ExpirationDate) {
			return out[a].ExpirationDate.Before(out[b].ExpirationDate)
		}
		if !out[a].ReceivedDate.Equal(out[b].ReceivedDate) {
			return out[a].ReceivedDate.Before(out[b].ReceivedDate)
		}
		return out[a].ID.String() < out[b].ID.String()
	})
	return out
}

// CheckQuantity rejects fractional quantities on count-based items.
func (i *Item) CheckQuantity(q decimal.Decimal) error {
	if i.Unit.IsCountBased() && !q.Equal(q.Truncate(0)) {
		return fmt.Errorf("%w: %s is counted in whole pieces, got %s", domain.ErrValidation, i.Name, q)
	}
	return nil
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// SetThreshold replaces the item's minimum threshold; nil restores the unit default.
func (i *Item) SetThreshold(threshold *decimal.Decimal, now time.Time) error {
	if threshold != nil && threshold.IsNegative() {
		return fmt.Errorf("%w: minimum threshold must not be negative", domain.ErrValidation)
	}
	i.MinimumThreshold = copyDecimal(threshold)
	i.UpdatedAt = now
	return nil
}
