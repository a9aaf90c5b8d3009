package auth

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/ghuser/cafestock/pkg/httpx"
	"github.com/ghuser/cafestock/pkg/logger"
)

// ActorHeader names the request header carrying the caller identity.
const ActorHeader = "X-Actor"

const maxActorLen = 128

// Actor is a chi middleware that copies the X-Actor header into the request
// context. Requests without the header run as SystemActor. A header that is
// too long or contains control characters is rejected with 400.
//
// After this middleware, handlers can call auth.ActorOrSystem(r.Context()).
func Actor(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := strings.TrimSpace(r.Header.Get(ActorHeader))
			if actor == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !validActor(actor) {
				log.WarnContext(r.Context(), "invalid actor header", "length", len(actor))
				httpx.JSONErrorCode(w, http.StatusBadRequest, "invalid_actor", "invalid "+ActorHeader+" header")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func validActor(s string) bool {
	if len(s) > maxActorLen {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
