package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/cafestock/pkg/httpx"
)

type stubChecker struct{ err error }

func (s *stubChecker) Ping(_ context.Context) error { return s.err }

var errDown = errors.New("down")

func serveHealth(t *testing.T, checks httpx.HealthChecks) (int, map[string]string) {
	t.Helper()
	rr := httptest.NewRecorder()
	httpx.HealthHandler(checks).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rr.Code, resp
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		checks   httpx.HealthChecks
		wantCode int
		want     map[string]string
	}{
		{
			name: "all healthy",
			checks: httpx.HealthChecks{
				Database: &stubChecker{}, Redis: &stubChecker{}, EventBus: &stubChecker{}, Temporal: &stubChecker{},
			},
			wantCode: http.StatusOK,
			want:     map[string]string{"status": "ok", "database": "ok", "redis": "ok", "event_bus": "ok", "temporal": "ok"},
		},
		{
			name:     "database down",
			checks:   httpx.HealthChecks{Database: &stubChecker{err: errDown}, Redis: &stubChecker{}},
			wantCode: http.StatusServiceUnavailable,
			want:     map[string]string{"status": "degraded", "database": "unreachable", "redis": "ok"},
		},
		{
			name:     "redis down",
			checks:   httpx.HealthChecks{Database: &stubChecker{}, Redis: &stubChecker{err: errDown}},
			wantCode: http.StatusServiceUnavailable,
			want:     map[string]string{"status": "degraded", "redis": "unreachable"},
		},
		{
			name:     "event bus down",
			checks:   httpx.HealthChecks{EventBus: &stubChecker{err: errDown}},
			wantCode: http.StatusServiceUnavailable,
			want:     map[string]string{"status": "degraded", "event_bus": "unreachable"},
		},
		{
			name:     "temporal down",
			checks:   httpx.HealthChecks{Temporal: &stubChecker{err: errDown}},
			wantCode: http.StatusServiceUnavailable,
			want:     map[string]string{"status": "degraded", "temporal": "unreachable"},
		},
		{
			// In-memory deployments run with no external dependencies at all.
			name:     "everything disabled",
			checks:   httpx.HealthChecks{},
			wantCode: http.StatusOK,
			want:     map[string]string{"status": "ok", "database": "disabled", "redis": "disabled", "event_bus": "disabled", "temporal": "disabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := serveHealth(t, tt.checks)
			if code != tt.wantCode {
				t.Fatalf("status code = %d, want %d", code, tt.wantCode)
			}
			for k, v := range tt.want {
				if resp[k] != v {
					t.Errorf("%s = %q, want %q (%+v)", k, resp[k], v, resp)
				}
			}
		})
	}
}
