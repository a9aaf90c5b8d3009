package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/pkg/httpx"
	pkgvalidator "github.com/ghuser/cafestock/pkg/validator"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// ConsumeRequest is the request body for POST /inventory/items/{id}/consume.
type ConsumeRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0" swaggertype:"string" example:"250"`
	// Unit defaults to the item's unit and must be compatible with it.
	Unit string `json:"unit" validate:"omitempty,oneof=pieces grams kilograms milliliters liters" example:"milliliters"`
} // @name ConsumeRequest

// DisposeRequest is the request body for POST /inventory/items/{id}/dispose.
type DisposeRequest struct {
	BatchIDs []uuid.UUID `json:"batch_ids" validate:"required,min=1"`
} // @name DisposeRequest

// RestockHandler handles POST /inventory/items/{id}/restock.
type RestockHandler struct{ base }

func NewRestockHandler(d Deps) *RestockHandler { return &RestockHandler{newBase(d)} }

// Execute adds a batch to the item.
//
//	@Summary	Restock item
//	@Tags		stock
//	@Accept		json
//	@Produce	json
//	@Param		X-Actor	header		string		false	"Caller recorded in the audit trail"
//	@Param		id		path		string		true	"Item ID"	format(uuid)
//	@Param		request	body		NewBatchDTO	true	"New batch"
//	@Success	201		{object}	ItemResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/inventory/items/{id}/restock [post]
func (h *RestockHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[NewBatchDTO](w, r)
	if !ok {
		return
	}
	if _, err := h.Services.Ledger.Restock(r.Context(), id, req.Quantity, req.ExpirationDate); err != nil {
		h.fail(w, err)
		return
	}
	item, err := h.Services.Ledger.GetItem(id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toItemResponse(h.Services, item, h.Now()))
}

// ConsumeHandler handles POST /inventory/items/{id}/consume.
type ConsumeHandler struct{ base }

func NewConsumeHandler(d Deps) *ConsumeHandler { return &ConsumeHandler{newBase(d)} }

// Execute depletes stock earliest-expiring batch first.
//
//	@Summary		Consume stock
//	@Description	Takes the whole quantity FIFO by expiration or fails with 409 and changes nothing.
//	@Tags			stock
//	@Accept			json
//	@Produce		json
//	@Param			X-Actor	header		string			false	"Caller recorded in the audit trail"
//	@Param			id		path		string			true	"Item ID"	format(uuid)
//	@Param			request	body		ConsumeRequest	true	"Quantity to consume"
//	@Success		200		{object}	ItemResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Insufficient stock"
//	@Failure		422		{object}	ErrorResponse	"Invalid quantity or incompatible unit"
//	@Router			/inventory/items/{id}/consume [post]
func (h *ConsumeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ConsumeRequest](w, r)
	if !ok {
		return
	}

	var (
		item *models.Item
		err  error
	)
	if req.Unit != "" {
		item, err = h.Services.Ledger.ConsumeConverted(r.Context(), id, req.Quantity, models.Unit(req.Unit))
	} else {
		item, err = h.Services.Ledger.Consume(r.Context(), id, req.Quantity)
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(h.Services, item, h.Now()))
}

// DisposeHandler handles POST /inventory/items/{id}/dispose.
type DisposeHandler struct{ base }

func NewDisposeHandler(d Deps) *DisposeHandler { return &DisposeHandler{newBase(d)} }

// Execute writes off the named batches. Repeating it is harmless.
//
//	@Summary	Dispose batches
//	@Tags		stock
//	@Accept		json
//	@Produce	json
//	@Param		X-Actor	header		string			false	"Caller recorded in the audit trail"
//	@Param		id		path		string			true	"Item ID"	format(uuid)
//	@Param		request	body		DisposeRequest	true	"Batches to write off"
//	@Success	200		{object}	ItemResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/inventory/items/{id}/dispose [post]
func (h *DisposeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[DisposeRequest](w, r)
	if !ok {
		return
	}
	item, err := h.Services.Ledger.Dispose(r.Context(), id, req.BatchIDs)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(h.Services, item, h.Now()))
}
