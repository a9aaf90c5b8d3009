package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ghuser/cafestock/pkg/logger"
)

func serveWithActor(t *testing.T, header string) (int, string) {
	t.Helper()
	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ActorOrSystem(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodPost, "/api/inventory/items", http.NoBody)
	if header != "" {
		r.Header.Set(ActorHeader, header)
	}
	w := httptest.NewRecorder()
	Actor(logger.NewNop())(next).ServeHTTP(w, r)
	return w.Code, captured
}

func TestActor(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantCode  int
		wantActor string
	}{
		{"header sets actor", "cashier-2", http.StatusOK, "cashier-2"},
		{"surrounding space trimmed", "  cashier-2 ", http.StatusOK, "cashier-2"},
		{"missing header runs as system", "", http.StatusOK, SystemActor},
		{"control characters rejected", "bad\x01actor", http.StatusBadRequest, ""},
		{"too long rejected", strings.Repeat("a", maxActorLen+1), http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, actor := serveWithActor(t, tt.header)
			if code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, code)
			}
			if actor != tt.wantActor {
				t.Fatalf("expected actor %q, got %q", tt.wantActor, actor)
			}
		})
	}
}
