package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/cafestock/pkg/httpx"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSON(w, http.StatusCreated, map[string]string{"id": "abc"})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("unexpected Content-Type: %q", ct)
	}
	if xct := w.Header().Get("X-Content-Type-Options"); xct != "nosniff" {
		t.Errorf("expected nosniff, got %q", xct)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body["id"] != "abc" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestJSONError(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w http.ResponseWriter)
		wantCode string
		hasCode  bool
	}{
		{"plain", func(w http.ResponseWriter) {
			httpx.JSONError(w, http.StatusBadRequest, "something went wrong")
		}, "", false},
		{"with code", func(w http.ResponseWriter) {
			httpx.JSONErrorCode(w, http.StatusBadRequest, "validation_failed", "something went wrong")
		}, "validation_failed", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if body["error"] != "something went wrong" {
				t.Errorf("unexpected error message: %q", body["error"])
			}
			code, ok := body["code"]
			if ok != tt.hasCode || code != tt.wantCode {
				t.Errorf("code = %q (present %v), want %q", code, ok, tt.wantCode)
			}
		})
	}
}

func TestSafeError(t *testing.T) {
	err := errors.New("pq: relation \"stock_items\" does not exist")
	tests := []struct {
		name         string
		status       int
		isProduction bool
		want         string
	}{
		{"dev 500 shows detail", http.StatusInternalServerError, false, err.Error()},
		{"prod 500 hides detail", http.StatusInternalServerError, true, "Internal Server Error"},
		{"prod 409 shows detail", http.StatusConflict, true, err.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := httpx.SafeError(err, tt.status, tt.isProduction); got != tt.want {
				t.Errorf("SafeError = %q, want %q", got, tt.want)
			}
		})
	}
}
