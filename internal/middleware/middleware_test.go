package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOwnerExtraction(t *testing.T) {
	var got string
	h := Owner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = OwnerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "  user-1  ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "user-1" {
		t.Fatalf("owner = %q, want user-1", got)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got != "" {
		t.Fatalf("owner = %q, want empty without header", got)
	}
}

func TestRequestIDHonorsInbound(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got != "rid-123" {
		t.Fatalf("request id = %q, want rid-123", got)
	}
	if rec.Header().Get("X-Request-ID") != "rid-123" {
		t.Fatalf("response header = %q", rec.Header().Get("X-Request-ID"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got == "" || rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("request id was not generated")
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	h := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	status := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if status("10.0.0.1:1234") != http.StatusOK || status("10.0.0.1:1234") != http.StatusOK {
		t.Fatal("requests within the limit were rejected")
	}
	if status("10.0.0.1:1234") != http.StatusTooManyRequests {
		t.Fatal("request over the limit was not rejected")
	}
	// A different client has its own window.
	if status("10.0.0.2:1234") != http.StatusOK {
		t.Fatal("limit leaked across clients")
	}
}
