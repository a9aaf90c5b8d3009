package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DaySnapshot is the start-of-day baseline of one item's batch quantities.
type DaySnapshot struct {
	ItemID  uuid.UUID
	TakenAt time.Time
	TakenBy string
	Batches map[uuid.UUID]decimal.Decimal
}

// BatchVariance is the end-of-day result for one counted batch. Variance is
// baseline minus counted: positive means stock went missing or was used.
// Recorded is what the ledger held just before the count was applied.
type BatchVariance struct {
	BatchID  uuid.UUID
	Baseline decimal.Decimal
	Recorded decimal.Decimal
	Counted  decimal.Decimal
	Variance decimal.Decimal
}
