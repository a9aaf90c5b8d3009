package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertType distinguishes stock-level alerts from batch expiration alerts.
type AlertType string

const (
	AlertStock      AlertType = "stock"
	AlertExpiration AlertType = "expiration"
)

// Severity of an alert.
type Severity string

const (
	SeverityOut          Severity = "out"
	SeverityExpired      Severity = "expired"
	SeverityLow          Severity = "low"
	SeverityExpiringSoon Severity = "expiringSoon"
)

// Priority orders severities for display; lower is more urgent.
func (s Severity) Priority() int {
	switch s {
	case SeverityOut:
		return 0
	case SeverityExpired:
		return 1
	case SeverityLow:
		return 2
	case SeverityExpiringSoon:
		return 3
	default:
		return 4
	}
}

// Alert is recomputed from current state and never stored as a source of truth.
type Alert struct {
	Type     AlertType
	ItemID   uuid.UUID
	ItemName string
	// BatchID is uuid.Nil for stock alerts.
	BatchID    uuid.UUID
	Message    string
	Severity   Severity
	ObservedAt time.Time
	// DaysLeft is set on expiration alerts only.
	DaysLeft *int
}

// Key identifies an alert independent of when it was observed, so two
// evaluations can be diffed.
func (a Alert) Key() string {
	k := string(a.Type) + ":" + a.ItemID.String()
	if a.BatchID != uuid.Nil {
		k += ":" + a.BatchID.String()
	}
	return k + ":" + string(a.Severity)
}
