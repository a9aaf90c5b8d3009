package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Batch is a dated quantity of one item. Batches are never removed; a
// disposed batch keeps its record with Quantity zero.
type Batch struct {
	ID             uuid.UUID
	ItemID         uuid.UUID
	Quantity       decimal.Decimal
	ExpirationDate time.Time
	ReceivedDate   time.Time
	Disposed       bool
	DisposedAt     *time.Time
}

func newBatch(itemID uuid.UUID, p NewBatchParams, now time.Time) Batch {
	return Batch{
		ID:             uuid.New(),
		ItemID:         itemID,
		Quantity:       p.Quantity,
		ExpirationDate: p.ExpirationDate,
		ReceivedDate:   now,
	}
}

// Consumable reports whether the batch can still be drawn from.
func (b Batch) Consumable() bool {
	return !b.Disposed && b.Quantity.IsPositive()
}

func (b Batch) clone() Batch {
	c := b
	if b.DisposedAt != nil {
		at := *b.DisposedAt
		c.DisposedAt = &at
	}
	return c
}
