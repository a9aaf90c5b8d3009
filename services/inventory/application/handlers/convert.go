package handlers

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ghuser/cafestock/pkg/httpx"
	"github.com/ghuser/cafestock/services/inventory/domain"
	"github.com/ghuser/cafestock/services/inventory/domain/models"
	domainsvcs "github.com/ghuser/cafestock/services/inventory/domain/services"
)

// ConvertResponse is a unit conversion result.
type ConvertResponse struct {
	Value  decimal.Decimal `json:"value"  swaggertype:"string" example:"1500"`
	From   string          `json:"from"   example:"grams"`
	To     string          `json:"to"     example:"kilograms"`
	Result decimal.Decimal `json:"result" swaggertype:"string" example:"1.5"`
} // @name ConvertResponse

// ConvertHandler handles GET /inventory/convert.
type ConvertHandler struct{ base }

func NewConvertHandler(d Deps) *ConvertHandler { return &ConvertHandler{newBase(d)} }

// Execute converts a quantity between compatible units.
//
//	@Summary	Convert units
//	@Tags		units
//	@Produce	json
//	@Param		value	query		string	true	"Quantity"	example(1500)
//	@Param		from	query		string	true	"Source unit"	Enums(pieces, grams, kilograms, milliliters, liters)
//	@Param		to		query		string	true	"Target unit"	Enums(pieces, grams, kilograms, milliliters, liters)
//	@Success	200		{object}	ConvertResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/inventory/convert [get]
func (h *ConvertHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	value, err := decimal.NewFromString(q.Get("value"))
	if err != nil {
		h.fail(w, fmt.Errorf("%w: value %q is not a number", domain.ErrValidation, q.Get("value")))
		return
	}
	from, to := models.Unit(q.Get("from")), models.Unit(q.Get("to"))
	result, err := domainsvcs.Convert(value, from, to)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ConvertResponse{Value: value, From: from.String(), To: to.String(), Result: result})
}
