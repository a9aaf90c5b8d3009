package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/pkg/httpx"
	pkgvalidator "github.com/ghuser/cafestock/pkg/validator"
	appsvcs "github.com/ghuser/cafestock/services/inventory/application/services"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// CreateReservationRequest is the request body for POST /inventory/reservations.
type CreateReservationRequest struct {
	OrderID string    `json:"order_id" validate:"required,max=255" example:"POS-1042"`
	Lines   []LineDTO `json:"lines"    validate:"required,min=1,dive"`
	// TTLSeconds 0 uses the configured default; at most 7 days.
	TTLSeconds      int64  `json:"ttl_seconds"      validate:"gte=0,lte=604800" example:"900"`
	ManagerOverride bool   `json:"manager_override"`
	OverrideReason  string `json:"override_reason"  validate:"max=500"`
} // @name CreateReservationRequest

// ReleaseReservationRequest is the optional body for POST /inventory/reservations/{id}/release.
type ReleaseReservationRequest struct {
	Reason string `json:"reason" validate:"max=500" example:"customer cancelled"`
} // @name ReleaseReservationRequest

// MonitorResponse summarizes reservation activity.
type MonitorResponse struct {
	TakenAt time.Time                  `json:"taken_at"`
	Counts  map[string]int             `json:"counts"`
	Active  []ReservationResponse      `json:"active"`
	Overdue []ReservationResponse      `json:"overdue"`
	Held    map[string]decimal.Decimal `json:"held" swaggertype:"object,string"`
} // @name MonitorResponse

// PostReservationHandler handles POST /inventory/reservations.
type PostReservationHandler struct{ base }

func NewPostReservationHandler(d Deps) *PostReservationHandler {
	return &PostReservationHandler{newBase(d)}
}

// Execute holds sellable stock for an order.
//
//	@Summary		Create reservation
//	@Description	Every line must fit in sellable stock unless manager_override is set with a reason.
//	@Tags			reservations
//	@Accept			json
//	@Produce		json
//	@Param			X-Actor	header		string						false	"Caller recorded in the audit trail"
//	@Param			request	body		CreateReservationRequest	true	"Reservation request"
//	@Success		201		{object}	ReservationResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Insufficient sellable stock"
//	@Failure		422		{object}	ErrorResponse
//	@Router			/inventory/reservations [post]
func (h *PostReservationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateReservationRequest](w, r)
	if !ok {
		return
	}
	in := appsvcs.ReserveInput{
		OrderID:         req.OrderID,
		Lines:           make([]models.ReservationLine, len(req.Lines)),
		TTL:             time.Duration(req.TTLSeconds) * time.Second,
		ManagerOverride: req.ManagerOverride,
		OverrideReason:  req.OverrideReason,
	}
	for i, l := range req.Lines {
		in.Lines[i] = models.ReservationLine{ItemID: l.ItemID, Quantity: l.Quantity}
	}

	res, err := h.Services.Reservations.Reserve(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toReservationResponse(res))
}

// ListReservationsHandler handles GET /inventory/reservations.
type ListReservationsHandler struct{ base }

func NewListReservationsHandler(d Deps) *ListReservationsHandler {
	return &ListReservationsHandler{newBase(d)}
}

// Execute lists reservations newest first.
//
//	@Summary	List reservations
//	@Tags		reservations
//	@Produce	json
//	@Param		status		query		string	false	"Filter by status"	Enums(active, completed, released, expired)
//	@Param		order_id	query		string	false	"Filter by order"
//	@Param		item_id		query		string	false	"Filter by referenced item"	format(uuid)
//	@Success	200			{array}		ReservationResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/inventory/reservations [get]
func (h *ListReservationsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := appsvcs.ReservationFilter{
		Status:  models.ReservationStatus(q.Get("status")),
		OrderID: q.Get("order_id"),
	}
	if f.Status != "" && !f.Status.Valid() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if s := q.Get("item_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid item_id")
			return
		}
		f.ItemID = id
	}
	httpx.JSON(w, http.StatusOK, toReservationList(h.Services.Reservations.List(f)))
}

// MonitorHandler handles GET /inventory/reservations/monitor.
type MonitorHandler struct{ base }

func NewMonitorHandler(d Deps) *MonitorHandler { return &MonitorHandler{newBase(d)} }

// Execute summarizes reservation activity for the monitoring screen.
//
//	@Summary	Reservation monitor
//	@Tags		reservations
//	@Produce	json
//	@Success	200	{object}	MonitorResponse
//	@Router		/inventory/reservations/monitor [get]
func (h *MonitorHandler) Execute(w http.ResponseWriter, _ *http.Request) {
	snap := h.Services.Reservations.Monitor()
	resp := MonitorResponse{
		TakenAt: snap.TakenAt,
		Counts:  make(map[string]int, len(snap.Counts)),
		Active:  toReservationList(snap.Active),
		Overdue: toReservationList(snap.Overdue),
		Held:    make(map[string]decimal.Decimal, len(snap.Held)),
	}
	for s, n := range snap.Counts {
		resp.Counts[string(s)] = n
	}
	for id, q := range snap.Held {
		resp.Held[id.String()] = q
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// GetReservationHandler handles GET /inventory/reservations/{id}.
type GetReservationHandler struct{ base }

func NewGetReservationHandler(d Deps) *GetReservationHandler {
	return &GetReservationHandler{newBase(d)}
}

// Execute returns one reservation.
//
//	@Summary	Get reservation
//	@Tags		reservations
//	@Produce	json
//	@Param		id	path		string	true	"Reservation ID"	format(uuid)
//	@Success	200	{object}	ReservationResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/inventory/reservations/{id} [get]
func (h *GetReservationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.Services.Reservations.Get(id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReservationResponse(res))
}

// CompleteReservationHandler handles POST /inventory/reservations/{id}/complete.
type CompleteReservationHandler struct{ base }

func NewCompleteReservationHandler(d Deps) *CompleteReservationHandler {
	return &CompleteReservationHandler{newBase(d)}
}

// Execute consumes the reserved stock and completes the reservation.
//
//	@Summary		Complete reservation
//	@Description	If any line cannot be consumed nothing is consumed and the reservation stays active.
//	@Tags			reservations
//	@Produce		json
//	@Param			X-Actor	header		string	false	"Caller recorded in the audit trail"
//	@Param			id		path		string	true	"Reservation ID"	format(uuid)
//	@Success		200		{object}	ReservationResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Not active or insufficient stock"
//	@Router			/inventory/reservations/{id}/complete [post]
func (h *CompleteReservationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.Services.Reservations.Complete(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReservationResponse(res))
}

// ReleaseReservationHandler handles POST /inventory/reservations/{id}/release.
type ReleaseReservationHandler struct{ base }

func NewReleaseReservationHandler(d Deps) *ReleaseReservationHandler {
	return &ReleaseReservationHandler{newBase(d)}
}

// Execute cancels an active reservation.
//
//	@Summary	Release reservation
//	@Tags		reservations
//	@Accept		json
//	@Produce	json
//	@Param		X-Actor	header		string						false	"Caller recorded in the audit trail"
//	@Param		id		path		string						true	"Reservation ID"	format(uuid)
//	@Param		request	body		ReleaseReservationRequest	false	"Release reason"
//	@Success	200		{object}	ReservationResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse	"Not active"
//	@Router		/inventory/reservations/{id}/release [post]
func (h *ReleaseReservationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var reason string
	if r.ContentLength != 0 {
		req, ok := pkgvalidator.ValidateRequest[ReleaseReservationRequest](w, r)
		if !ok {
			return
		}
		reason = req.Reason
	}
	res, err := h.Services.Reservations.Release(r.Context(), id, reason)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toReservationResponse(res))
}
