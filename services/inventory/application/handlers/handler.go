package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgcache "github.com/ghuser/cafestock/pkg/cache"
	"github.com/ghuser/cafestock/pkg/errhttp"
	"github.com/ghuser/cafestock/pkg/httpx"
	appsvcs "github.com/ghuser/cafestock/services/inventory/application/services"
)

// AlertFeed reads the most recently raised alerts.
type AlertFeed interface {
	Feed(ctx context.Context, n int64) ([]pkgcache.CachedAlert, error)
}

// Deps are shared by every inventory handler.
type Deps struct {
	Services *appsvcs.Services
	// Feed is nil when Redis is not configured.
	Feed AlertFeed
	// IsProduction hides 5xx error details from responses.
	IsProduction bool
	// Now defaults to time.Now.
	Now func() time.Time
}

type base struct {
	Deps
}

func newBase(d Deps) base {
	if d.Now == nil {
		d.Now = time.Now
	}
	return base{Deps: d}
}

func (b base) fail(w http.ResponseWriter, err error) {
	errhttp.WriteErrorSafe(w, err, b.IsProduction)
}

// pathID parses the named chi URL parameter as a UUID and writes 400 if it
// is not one.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"insufficient stock: item 123e4567-e89b-12d3-a456-426614174000 has 1 kilograms, requested 3"`
	Code  string `json:"code,omitempty" example:"insufficient_stock"`
} // @name ErrorResponse
