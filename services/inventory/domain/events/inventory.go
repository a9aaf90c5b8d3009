// Package events defines the domain events the inventory engine publishes.
// Every event is plain JSON; transport and broadcast belong to subscribers.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Topics, one per event type. Consumers subscribe via EventBus.Subscribe.
const (
	TopicReservationCreated   = "inventory.reservation_created"
	TopicReservationCompleted = "inventory.reservation_completed"
	TopicReservationReleased  = "inventory.reservation_released"
	TopicReservationExpired   = "inventory.reservation_expired"
	TopicBatchDisposed        = "inventory.batch_disposed"
	TopicStockAlertRaised     = "inventory.stock_alert_raised"
	TopicStockRestocked       = "inventory.stock_restocked"
	TopicStockConsumed        = "inventory.stock_consumed"
	TopicDayClosed            = "inventory.day_closed"
)

// AllTopics lists every inventory topic.
var AllTopics = []string{
	TopicReservationCreated,
	TopicReservationCompleted,
	TopicReservationReleased,
	TopicReservationExpired,
	TopicBatchDisposed,
	TopicStockAlertRaised,
	TopicStockRestocked,
	TopicStockConsumed,
	TopicDayClosed,
}

// CurrentVersion is the schema version stamped on new events.
const CurrentVersion = 1

// DomainEvent is implemented by every inventory event.
type DomainEvent interface {
	Topic() string
	ID() uuid.UUID
	SchemaVersion() int
}

// Envelope carries the fields shared by all events.
type Envelope struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEnvelope stamps a fresh event id and the current schema version.
func NewEnvelope(now time.Time) Envelope {
	return Envelope{EventID: uuid.New(), Version: CurrentVersion, OccurredAt: now.UTC()}
}

// ID returns the event id.
func (e Envelope) ID() uuid.UUID { return e.EventID }

// SchemaVersion returns the payload schema version.
func (e Envelope) SchemaVersion() int { return e.Version }

// Line is one reservation line on the wire.
type Line struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// BatchQuantity pairs a batch with a quantity.
type BatchQuantity struct {
	BatchID  uuid.UUID       `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

type ReservationCreated struct {
	Envelope
	ReservationID   uuid.UUID `json:"reservation_id"`
	OrderID         string    `json:"order_id"`
	Lines           []Line    `json:"lines"`
	ExpiresAt       time.Time `json:"expires_at"`
	ManagerOverride bool      `json:"manager_override"`
	OverrideReason  string    `json:"override_reason,omitempty"`
	Actor           string    `json:"actor"`
}

func (ReservationCreated) Topic() string { return TopicReservationCreated }

type ReservationCompleted struct {
	Envelope
	ReservationID uuid.UUID `json:"reservation_id"`
	OrderID       string    `json:"order_id"`
	Lines         []Line    `json:"lines"`
	Actor         string    `json:"actor"`
}

func (ReservationCompleted) Topic() string { return TopicReservationCompleted }

type ReservationReleased struct {
	Envelope
	ReservationID uuid.UUID `json:"reservation_id"`
	OrderID       string    `json:"order_id"`
	Reason        string    `json:"reason"`
	Actor         string    `json:"actor"`
}

func (ReservationReleased) Topic() string { return TopicReservationReleased }

type ReservationExpired struct {
	Envelope
	ReservationID uuid.UUID `json:"reservation_id"`
	OrderID       string    `json:"order_id"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func (ReservationExpired) Topic() string { return TopicReservationExpired }

// BatchDisposed lists only the batches that were actually written off.
type BatchDisposed struct {
	Envelope
	ItemID  uuid.UUID       `json:"item_id"`
	Batches []BatchQuantity `json:"batches"`
	Actor   string          `json:"actor"`
}

func (BatchDisposed) Topic() string { return TopicBatchDisposed }

// StockAlertRaised is published by the expiry sweeper for alerts that were
// not present on its previous tick.
type StockAlertRaised struct {
	Envelope
	AlertType string    `json:"alert_type"`
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	BatchID   uuid.UUID `json:"batch_id"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	DaysLeft  *int      `json:"days_left,omitempty"`
}

func (StockAlertRaised) Topic() string { return TopicStockAlertRaised }

type StockRestocked struct {
	Envelope
	ItemID         uuid.UUID       `json:"item_id"`
	BatchID        uuid.UUID       `json:"batch_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ExpirationDate time.Time       `json:"expiration_date"`
	Total          decimal.Decimal `json:"total"`
	Actor          string          `json:"actor"`
}

func (StockRestocked) Topic() string { return TopicStockRestocked }

type StockConsumed struct {
	Envelope
	ItemID        uuid.UUID       `json:"item_id"`
	Draws         []BatchQuantity `json:"draws"`
	Total         decimal.Decimal `json:"total"`
	ReservationID uuid.UUID       `json:"reservation_id"`
	Actor         string          `json:"actor"`
}

func (StockConsumed) Topic() string { return TopicStockConsumed }

// Variance is one counted batch in a DayClosed event.
type Variance struct {
	BatchID  uuid.UUID       `json:"batch_id"`
	Baseline decimal.Decimal `json:"baseline"`
	Counted  decimal.Decimal `json:"counted"`
	Variance decimal.Decimal `json:"variance"`
}

type DayClosed struct {
	Envelope
	ItemID    uuid.UUID  `json:"item_id"`
	Variances []Variance `json:"variances"`
	Actor     string     `json:"actor"`
}

func (DayClosed) Topic() string { return TopicDayClosed }
