package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/pkg/httpx"
	pkgvalidator "github.com/ghuser/cafestock/pkg/validator"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
)

// NewBatchDTO is one batch in a create or restock request.
type NewBatchDTO struct {
	Quantity       decimal.Decimal `json:"quantity"        validate:"gte=0" swaggertype:"string" example:"2.5"`
	ExpirationDate time.Time       `json:"expiration_date" validate:"required" example:"2025-01-10T00:00:00+08:00"`
} // @name NewBatch

// CreateItemRequest is the request body for POST /inventory/items.
type CreateItemRequest struct {
	Name             string           `json:"name"              validate:"required,max=255" example:"Whole milk"`
	Category         string           `json:"category"          validate:"max=100" example:"dairy"`
	Unit             string           `json:"unit"              validate:"required,oneof=pieces grams kilograms milliliters liters" example:"liters"`
	MinimumThreshold *decimal.Decimal `json:"minimum_threshold" validate:"omitnil,gte=0" swaggertype:"string" example:"1"`
	Cost             decimal.Decimal  `json:"cost"              validate:"gte=0" swaggertype:"string" example:"1.20"`
	Price            decimal.Decimal  `json:"price"             validate:"gte=0" swaggertype:"string" example:"0"`
	VendorRef        string           `json:"vendor_ref"        validate:"max=255"`
	Batches          []NewBatchDTO    `json:"batches"           validate:"required,min=1,dive"`
} // @name CreateItemRequest

// UpdateThresholdRequest is the request body for PUT /inventory/items/{id}/threshold.
type UpdateThresholdRequest struct {
	// MinimumThreshold null restores the unit default.
	MinimumThreshold *decimal.Decimal `json:"minimum_threshold" validate:"omitnil,gte=0" swaggertype:"string" example:"2"`
} // @name UpdateThresholdRequest

// PostItemHandler handles POST /inventory/items.
type PostItemHandler struct{ base }

func NewPostItemHandler(d Deps) *PostItemHandler { return &PostItemHandler{newBase(d)} }

// Execute creates an item with its initial batches.
//
//	@Summary		Create item
//	@Description	Creates an item with at least one initial batch. Expiration dates are normalized to business-zone midnight.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			X-Actor	header		string				false	"Caller recorded in the audit trail"
//	@Param			request	body		CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/inventory/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	p := models.NewItemParams{
		Name:             req.Name,
		Category:         req.Category,
		Unit:             models.Unit(req.Unit),
		MinimumThreshold: req.MinimumThreshold,
		Cost:             req.Cost,
		Price:            req.Price,
		VendorRef:        req.VendorRef,
	}
	for _, b := range req.Batches {
		p.InitialBatches = append(p.InitialBatches, models.NewBatchParams{Quantity: b.Quantity, ExpirationDate: b.ExpirationDate})
	}

	item, err := h.Services.Ledger.CreateItem(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toItemResponse(h.Services, item, h.Now()))
}

// ListItemsHandler handles GET /inventory/items.
type ListItemsHandler struct{ base }

func NewListItemsHandler(d Deps) *ListItemsHandler { return &ListItemsHandler{newBase(d)} }

// Execute lists items ordered by name.
//
//	@Summary	List items
//	@Tags		items
//	@Produce	json
//	@Param		status		query		string	false	"Filter by stock status"	Enums(InStock, LowStock, OutOfStock)
//	@Param		category	query		string	false	"Filter by category"
//	@Success	200			{array}		ItemResponse
//	@Router		/inventory/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	category := r.URL.Query().Get("category")
	now := h.Now()

	out := make([]ItemResponse, 0)
	for _, it := range h.Services.Ledger.ListItems() {
		if category != "" && it.Category != category {
			continue
		}
		resp := toItemResponse(h.Services, it, now)
		if status != "" && resp.Status != status {
			continue
		}
		out = append(out, resp)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// GetItemHandler handles GET /inventory/items/{id}.
type GetItemHandler struct{ base }

func NewGetItemHandler(d Deps) *GetItemHandler { return &GetItemHandler{newBase(d)} }

// Execute returns one item.
//
//	@Summary	Get item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		string	true	"Item ID"	format(uuid)
//	@Success	200	{object}	ItemResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/inventory/items/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := h.Services.Ledger.GetItem(id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(h.Services, item, h.Now()))
}

// DeleteItemHandler handles DELETE /inventory/items/{id}.
type DeleteItemHandler struct{ base }

func NewDeleteItemHandler(d Deps) *DeleteItemHandler { return &DeleteItemHandler{newBase(d)} }

// Execute deletes an item that no active reservation references.
//
//	@Summary	Delete item
//	@Tags		items
//	@Param		X-Actor	header	string	false	"Caller recorded in the audit trail"
//	@Param		id		path	string	true	"Item ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse	"Item has active reservations"
//	@Router		/inventory/items/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Services.Ledger.DeleteItem(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutThresholdHandler handles PUT /inventory/items/{id}/threshold.
type PutThresholdHandler struct{ base }

func NewPutThresholdHandler(d Deps) *PutThresholdHandler { return &PutThresholdHandler{newBase(d)} }

// Execute sets or clears the item's minimum threshold.
//
//	@Summary	Update threshold
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		X-Actor	header		string					false	"Caller recorded in the audit trail"
//	@Param		id		path		string					true	"Item ID"	format(uuid)
//	@Param		request	body		UpdateThresholdRequest	true	"New threshold"
//	@Success	200		{object}	ItemResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/inventory/items/{id}/threshold [put]
func (h *PutThresholdHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateThresholdRequest](w, r)
	if !ok {
		return
	}
	item, err := h.Services.Ledger.UpdateThreshold(r.Context(), id, req.MinimumThreshold)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(h.Services, item, h.Now()))
}
