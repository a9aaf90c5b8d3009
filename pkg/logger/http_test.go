package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		path      string
		status    int
		wantLevel string
	}{
		{"/api/inventory/items", http.StatusOK, "INFO"},
		{"/api/inventory/items", http.StatusConflict, "WARN"},
		{"/api/inventory/items", http.StatusInternalServerError, "ERROR"},
		{"/health", http.StatusOK, "DEBUG"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status)+" "+tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			r := chi.NewRouter()
			r.Use(Middleware(newTestLogger(&buf)))
			r.Get(tt.path, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			entry := parseLastLine(t, &buf)
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["status"] != float64(tt.status) || entry["route"] != tt.path {
				t.Errorf("unexpected entry: %v", entry)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("ledger corrupted")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "internal" {
		t.Errorf("body = %v", body)
	}
	entry := parseLastLine(t, &buf)
	if entry["msg"] != "panic recovered" || entry["error"] != "ledger corrupted" || entry["stack"] == "" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestRecovery_AbortHandlerRepanics(t *testing.T) {
	h := Recovery(NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("recovered %v, want http.ErrAbortHandler", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))
}
