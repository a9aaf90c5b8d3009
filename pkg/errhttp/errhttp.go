// Package errhttp maps domain sentinel errors to HTTP status codes and
// stable error codes. Add a row to mappings for each new sentinel.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/cafestock/pkg/httpx"
	invdomain "github.com/ghuser/cafestock/services/inventory/domain"
)

type mapping struct {
	target error
	status int
	code   string
}

// First match wins, so more specific sentinels go first.
var mappings = []mapping{
	{invdomain.ErrNotFound, http.StatusNotFound, "not_found"},
	{invdomain.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{invdomain.ErrIncompatibleUnits, http.StatusUnprocessableEntity, "incompatible_units"},
	{invdomain.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{invdomain.ErrValidation, http.StatusUnprocessableEntity, "validation_failed"},
}

// CodeInternal is reported for errors that match no sentinel.
const CodeInternal = "internal"

// WriteError writes err as a JSON error with its mapped status and code.
// Wrapped sentinels are matched with errors.Is; anything else is a 500.
func WriteError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	httpx.JSONErrorCode(w, status, code, err.Error())
}

// WriteErrorSafe is WriteError with 5xx messages hidden in production.
func WriteErrorSafe(w http.ResponseWriter, err error, isProduction bool) {
	status, code := classify(err)
	httpx.JSONErrorCode(w, status, code, httpx.SafeError(err, status, isProduction))
}

// StatusOf reports the status WriteError would use for err.
func StatusOf(err error) int {
	status, _ := classify(err)
	return status
}

// CodeOf reports the error code WriteError would use for err.
func CodeOf(err error) string {
	_, code := classify(err)
	return code
}

func classify(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}
