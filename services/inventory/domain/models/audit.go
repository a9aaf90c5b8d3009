package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names a mutating engine operation.
type AuditAction string

const (
	AuditItemCreated          AuditAction = "item.created"
	AuditItemDeleted          AuditAction = "item.deleted"
	AuditThresholdUpdated     AuditAction = "item.threshold_updated"
	AuditStockRestocked       AuditAction = "stock.restocked"
	AuditStockConsumed        AuditAction = "stock.consumed"
	AuditBatchDisposed        AuditAction = "batch.disposed"
	AuditBatchCounted         AuditAction = "batch.counted"
	AuditDayStarted           AuditAction = "day.started"
	AuditReservationCreated   AuditAction = "reservation.created"
	AuditReservationCompleted AuditAction = "reservation.completed"
	AuditReservationReleased  AuditAction = "reservation.released"
	AuditReservationExpired   AuditAction = "reservation.expired"
)

// AuditEntry is handed to the audit collaborator for every mutation.
type AuditEntry struct {
	Action        AuditAction
	ItemID        uuid.UUID
	ReservationID uuid.UUID
	Actor         string
	Timestamp     time.Time
	Detail        map[string]string
}
