package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgcache "github.com/ghuser/cafestock/pkg/cache"
	appsvcs "github.com/ghuser/cafestock/services/inventory/application/services"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// BatchResponse is one batch of an item.
type BatchResponse struct {
	ID             uuid.UUID       `json:"id"              example:"0b9b1d3e-8a0c-4d57-9d55-3f1c1e0c6a11"`
	Quantity       decimal.Decimal `json:"quantity"        swaggertype:"string" example:"2.5"`
	ExpirationDate time.Time       `json:"expiration_date" example:"2025-01-09T16:00:00Z"`
	ReceivedDate   time.Time       `json:"received_date"   example:"2025-01-05T04:00:00Z"`
	DaysLeft       int             `json:"days_left"       example:"4"`
	Disposed       bool            `json:"disposed"`
	DisposedAt     *time.Time      `json:"disposed_at,omitempty"`
} // @name BatchResponse

// ItemResponse is an item with its derived stock status.
type ItemResponse struct {
	ID        uuid.UUID       `json:"id"         example:"123e4567-e89b-12d3-a456-426614174000"`
	Name      string          `json:"name"       example:"Whole milk"`
	Category  string          `json:"category"   example:"dairy"`
	Unit      string          `json:"unit"       example:"liters"`
	Total     decimal.Decimal `json:"total"      swaggertype:"string" example:"4.5"`
	Threshold decimal.Decimal `json:"threshold"  swaggertype:"string" example:"0.5"`
	// ThresholdIsDefault is true when the unit default applies.
	ThresholdIsDefault bool            `json:"threshold_is_default"`
	Status             string          `json:"status"     example:"InStock"`
	Cost               decimal.Decimal `json:"cost"       swaggertype:"string" example:"1.20"`
	Price              decimal.Decimal `json:"price"      swaggertype:"string" example:"0"`
	VendorRef          string          `json:"vendor_ref,omitempty"`
	Batches            []BatchResponse `json:"batches"`
	CreatedAt          time.Time       `json:"created_at" example:"2025-01-05T04:00:00Z"`
	UpdatedAt          time.Time       `json:"updated_at" example:"2025-01-05T04:00:00Z"`
} // @name ItemResponse

func toItemResponse(svc *appsvcs.Services, it *models.Item, now time.Time) ItemResponse {
	resp := ItemResponse{
		ID:                 it.ID,
		Name:               it.Name,
		Category:           it.Category,
		Unit:               it.Unit.String(),
		Total:              it.TotalQuantity(),
		Threshold:          svc.Ledger.Threshold(it),
		ThresholdIsDefault: it.MinimumThreshold == nil,
		Status:             string(svc.Ledger.StatusOf(it)),
		Cost:               it.Cost,
		Price:              it.Price,
		VendorRef:          it.VendorRef,
		Batches:            make([]BatchResponse, len(it.Batches)),
		CreatedAt:          it.CreatedAt,
		UpdatedAt:          it.UpdatedAt,
	}
	for i, b := range it.Batches {
		resp.Batches[i] = BatchResponse{
			ID:             b.ID,
			Quantity:       b.Quantity,
			ExpirationDate: b.ExpirationDate,
			ReceivedDate:   b.ReceivedDate,
			DaysLeft:       svc.Clock.DaysLeft(b.ExpirationDate, now),
			Disposed:       b.Disposed,
			DisposedAt:     b.DisposedAt,
		}
	}
	return resp
}

// LineDTO is one reservation line.
type LineDTO struct {
	ItemID   uuid.UUID       `json:"item_id"  validate:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0" swaggertype:"string" example:"0.25"`
} // @name ReservationLine

// ReservationResponse is a reservation and its lifecycle state.
type ReservationResponse struct {
	ID               uuid.UUID  `json:"id"       example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	OrderID          string     `json:"order_id" example:"POS-1042"`
	Lines            []LineDTO  `json:"lines"`
	Status           string     `json:"status"   example:"active"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	ManagerOverride  bool       `json:"manager_override"`
	OverrideReason   string     `json:"override_reason,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ResolutionReason string     `json:"resolution_reason,omitempty"`
} // @name ReservationResponse

func toReservationResponse(r *models.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:               r.ID,
		OrderID:          r.OrderID,
		Lines:            make([]LineDTO, len(r.Lines)),
		Status:           string(r.Status),
		CreatedAt:        r.CreatedAt,
		ExpiresAt:        r.ExpiresAt,
		ManagerOverride:  r.ManagerOverride,
		OverrideReason:   r.OverrideReason,
		ResolvedAt:       r.ResolvedAt,
		ResolutionReason: r.ResolutionReason,
	}
	for i, l := range r.Lines {
		resp.Lines[i] = LineDTO{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return resp
}

func toReservationList(rs []*models.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, len(rs))
	for i, r := range rs {
		out[i] = toReservationResponse(r)
	}
	return out
}

// AlertResponse is one stock or expiration alert.
type AlertResponse struct {
	Type       string     `json:"type"      example:"stock"`
	ItemID     uuid.UUID  `json:"item_id"   example:"123e4567-e89b-12d3-a456-426614174000"`
	ItemName   string     `json:"item_name" example:"Whole milk"`
	BatchID    *uuid.UUID `json:"batch_id,omitempty"`
	Severity   string     `json:"severity"  example:"low"`
	Message    string     `json:"message"   example:"Whole milk is low on stock: 0.3 liters left, threshold 0.5"`
	DaysLeft   *int       `json:"days_left,omitempty"`
	ObservedAt time.Time  `json:"observed_at"`
} // @name AlertResponse

func toAlertResponse(a models.Alert) AlertResponse {
	resp := AlertResponse{
		Type:       string(a.Type),
		ItemID:     a.ItemID,
		ItemName:   a.ItemName,
		Severity:   string(a.Severity),
		Message:    a.Message,
		DaysLeft:   a.DaysLeft,
		ObservedAt: a.ObservedAt,
	}
	if a.BatchID != uuid.Nil {
		id := a.BatchID
		resp.BatchID = &id
	}
	return resp
}

func fromCachedAlert(c pkgcache.CachedAlert) AlertResponse {
	resp := AlertResponse{
		Type:       c.Type,
		ItemID:     c.ItemID,
		ItemName:   c.ItemName,
		Severity:   c.Severity,
		Message:    c.Message,
		DaysLeft:   c.DaysLeft,
		ObservedAt: c.ObservedAt,
	}
	if c.BatchID != uuid.Nil {
		id := c.BatchID
		resp.BatchID = &id
	}
	return resp
}

// VarianceResponse is the end-of-day result of one counted batch.
type VarianceResponse struct {
	BatchID  uuid.UUID       `json:"batch_id"`
	Baseline decimal.Decimal `json:"baseline" swaggertype:"string" example:"2"`
	Recorded decimal.Decimal `json:"recorded" swaggertype:"string" example:"1.5"`
	Counted  decimal.Decimal `json:"counted"  swaggertype:"string" example:"1.2"`
	Variance decimal.Decimal `json:"variance" swaggertype:"string" example:"0.8"`
} // @name VarianceResponse

// EndDayResponse is one reconciled item.
type EndDayResponse struct {
	Item         ItemResponse       `json:"item"`
	Variances    []VarianceResponse `json:"variances"`
	FromSnapshot bool               `json:"from_snapshot"`
} // @name EndDayResponse

func toEndDayResponse(svc *appsvcs.Services, res appsvcs.EndDayResult, now time.Time) EndDayResponse {
	resp := EndDayResponse{
		Item:         toItemResponse(svc, res.Item, now),
		Variances:    make([]VarianceResponse, len(res.Variances)),
		FromSnapshot: res.FromSnapshot,
	}
	for i, v := range res.Variances {
		resp.Variances[i] = VarianceResponse{
			BatchID:  v.BatchID,
			Baseline: v.Baseline,
			Recorded: v.Recorded,
			Counted:  v.Counted,
			Variance: v.Variance,
		}
	}
	return resp
}

// BatchCountDTO is one physically counted batch.
type BatchCountDTO struct {
	BatchID  uuid.UUID       `json:"batch_id" validate:"required"`
	// Negative counts are rejected per item by the reconciler, so a bulk
	// request still applies its other items.
	Quantity decimal.Decimal `json:"quantity" swaggertype:"string" example:"1.2"`
} // @name BatchCount

func toBatchCounts(in []BatchCountDTO) []appsvcs.BatchCount {
	out := make([]appsvcs.BatchCount, len(in))
	for i, c := range in {
		out[i] = appsvcs.BatchCount{BatchID: c.BatchID, Quantity: c.Quantity}
	}
	return out
}
