package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/pkg/errhttp"
	"github.com/ghuser/cafestock/pkg/httpx"
	pkgvalidator "github.com/ghuser/cafestock/pkg/validator"
	appsvcs "github.com/ghuser/cafestock/services/inventory/application/services"
)

// DaySnapshotResponse is the start-of-day baseline of one item.
type DaySnapshotResponse struct {
	ItemID  uuid.UUID                     `json:"item_id"`
	TakenAt time.Time                     `json:"taken_at"`
	TakenBy string                        `json:"taken_by" example:"morning-shift"`
	Batches map[uuid.UUID]decimal.Decimal `json:"batches"  swaggertype:"object,string"`
} // @name DaySnapshotResponse

// EndDayRequest is the request body for POST /inventory/items/{id}/end-day.
type EndDayRequest struct {
	Counts []BatchCountDTO `json:"counts" validate:"required,min=1,dive"`
} // @name EndDayRequest

// BulkEndDayEntry is one item in a bulk end-of-day.
type BulkEndDayEntry struct {
	ItemID uuid.UUID       `json:"item_id" validate:"required"`
	Counts []BatchCountDTO `json:"counts"  validate:"required,min=1,dive"`
} // @name BulkEndDayEntry

// BulkEndDayRequest is the request body for POST /inventory/end-day.
type BulkEndDayRequest struct {
	Items []BulkEndDayEntry `json:"items" validate:"required,min=1,dive"`
} // @name BulkEndDayRequest

// EndDayFailureResponse names a rejected item.
type EndDayFailureResponse struct {
	ItemID uuid.UUID `json:"item_id"`
	Status int       `json:"status"  example:"404"`
	Code   string    `json:"code"    example:"not_found"`
	Error  string    `json:"error"`
} // @name EndDayFailureResponse

// BulkEndDayResponse separates reconciled items from rejected ones.
type BulkEndDayResponse struct {
	Updated []EndDayResponse        `json:"updated"`
	Failed  []EndDayFailureResponse `json:"failed"`
} // @name BulkEndDayResponse

// StartDayHandler handles POST /inventory/items/{id}/start-day.
type StartDayHandler struct{ base }

func NewStartDayHandler(d Deps) *StartDayHandler { return &StartDayHandler{newBase(d)} }

// Execute records the item's current batch quantities as today's baseline.
//
//	@Summary	Start day
//	@Tags		daily-count
//	@Produce	json
//	@Param		X-Actor	header		string	false	"Caller recorded on the snapshot"
//	@Param		id		path		string	true	"Item ID"	format(uuid)
//	@Success	201		{object}	DaySnapshotResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/inventory/items/{id}/start-day [post]
func (h *StartDayHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	snap, err := h.Services.DailyCount.StartDay(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, DaySnapshotResponse{
		ItemID:  snap.ItemID,
		TakenAt: snap.TakenAt,
		TakenBy: snap.TakenBy,
		Batches: snap.Batches,
	})
}

// EndDayHandler handles POST /inventory/items/{id}/end-day.
type EndDayHandler struct{ base }

func NewEndDayHandler(d Deps) *EndDayHandler { return &EndDayHandler{newBase(d)} }

// Execute applies physical counts and reports variance against the baseline.
//
//	@Summary		End day
//	@Description	Applies all counts or none. Variance is baseline minus counted.
//	@Tags			daily-count
//	@Accept			json
//	@Produce		json
//	@Param			X-Actor	header		string			false	"Caller recorded in the audit trail"
//	@Param			id		path		string			true	"Item ID"	format(uuid)
//	@Param			request	body		EndDayRequest	true	"Counted batches"
//	@Success		200		{object}	EndDayResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/inventory/items/{id}/end-day [post]
func (h *EndDayHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[EndDayRequest](w, r)
	if !ok {
		return
	}
	res, err := h.Services.DailyCount.EndDay(r.Context(), id, toBatchCounts(req.Counts))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEndDayResponse(h.Services, *res, h.Now()))
}

// BulkEndDayHandler handles POST /inventory/end-day.
type BulkEndDayHandler struct{ base }

func NewBulkEndDayHandler(d Deps) *BulkEndDayHandler { return &BulkEndDayHandler{newBase(d)} }

// Execute reconciles several items independently.
//
//	@Summary		Bulk end day
//	@Description	Each item is reconciled on its own; rejected items are listed under failed.
//	@Tags			daily-count
//	@Accept			json
//	@Produce		json
//	@Param			X-Actor	header		string				false	"Caller recorded in the audit trail"
//	@Param			request	body		BulkEndDayRequest	true	"Counts per item"
//	@Success		200		{object}	BulkEndDayResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/inventory/end-day [post]
func (h *BulkEndDayHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[BulkEndDayRequest](w, r)
	if !ok {
		return
	}
	entries := make([]appsvcs.EndDayEntry, len(req.Items))
	for i, e := range req.Items {
		entries[i] = appsvcs.EndDayEntry{ItemID: e.ItemID, Counts: toBatchCounts(e.Counts)}
	}

	res := h.Services.DailyCount.BulkEndDay(r.Context(), entries)
	now := h.Now()
	out := BulkEndDayResponse{
		Updated: make([]EndDayResponse, 0, len(res.Updated)),
		Failed:  make([]EndDayFailureResponse, 0, len(res.Failed)),
	}
	for _, u := range res.Updated {
		out.Updated = append(out.Updated, toEndDayResponse(h.Services, u, now))
	}
	for _, f := range res.Failed {
		status := errhttp.StatusOf(f.Err)
		out.Failed = append(out.Failed, EndDayFailureResponse{
			ItemID: f.ItemID,
			Status: status,
			Code:   errhttp.CodeOf(f.Err),
			Error:  httpx.SafeError(f.Err, status, h.IsProduction),
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}
