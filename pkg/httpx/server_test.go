package httpx_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ghuser/cafestock/pkg/httpx"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(cfg httpx.ServerConfig) http.Handler {
	r := httpx.NewRouter(cfg, passthrough, passthrough, passthrough, passthrough)
	r.Get("/", okHandler)
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestNewRouter_SecurityHeaders(t *testing.T) {
	h := newTestRouter(httpx.ServerConfig{ServiceName: "test", CORSAllowedOrigins: "*"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	checks := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'self'",
	}
	for header, expected := range checks {
		if got := rr.Header().Get(header); got != expected {
			t.Errorf("%s: got %q, want %q", header, got, expected)
		}
	}
}

func TestNewRouter_BodyLimit(t *testing.T) {
	h := newTestRouter(httpx.ServerConfig{BodyLimit: 16})

	tests := []struct {
		name string
		size int
		want int
	}{
		{"within limit", 10, http.StatusOK},
		{"over limit", 100, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			body := strings.NewReader(strings.Repeat("x", tt.size))
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", body))
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := httpx.RateLimit(2, time.Minute, "")(http.HandlerFunc(okHandler))

	codes := make([]int, 3)
	for i := range codes {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
		codes[i] = rr.Code
		if i == 2 && !strings.Contains(rr.Body.String(), "rate limit exceeded") {
			t.Errorf("429 body = %q", rr.Body.String())
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v, expected [200 200 429]", codes)
	}
}

func TestRateLimit_KeyHeaderSplitsBuckets(t *testing.T) {
	h := httpx.RateLimit(1, time.Minute, "X-Actor")(http.HandlerFunc(okHandler))

	send := func(actor string) int {
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		r.Header.Set("X-Actor", actor)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)
		return rr.Code
	}

	if got := send("till-1"); got != http.StatusOK {
		t.Fatalf("till-1 first request = %d", got)
	}
	if got := send("till-2"); got != http.StatusOK {
		t.Fatalf("till-2 shares the IP but not the bucket, got %d", got)
	}
	if got := send("till-1"); got != http.StatusTooManyRequests {
		t.Fatalf("till-1 second request = %d, expected 429", got)
	}
}

// TestRequestBodyLimit_WithinLimit verifies requests under the cap pass through.
func TestRequestBodyLimit_WithinLimit(t *testing.T) {
	const limit = 100

	var gotBody []byte
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, limit+1)
		n, _ := r.Body.Read(buf)
		gotBody = buf[:n]
		w.WriteHeader(http.StatusOK)
	})

	h := httpx.RequestBodyLimit(limit)(inner)
	body := strings.NewReader(strings.Repeat("a", 50))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(gotBody) != 50 {
		t.Fatalf("expected 50 bytes read, got %d", len(gotBody))
	}
}

func TestNewServer_Timeouts(t *testing.T) {
	srv := httpx.NewServer(":0", http.NotFoundHandler())
	if srv.ReadHeaderTimeout == 0 || srv.ReadTimeout == 0 || srv.IdleTimeout == 0 {
		t.Fatalf("server timeouts not set: %+v", srv)
	}
	if srv.WriteTimeout <= httpx.DefaultRequestTimeout {
		t.Errorf("WriteTimeout %s must exceed the request timeout %s", srv.WriteTimeout, httpx.DefaultRequestTimeout)
	}
}
