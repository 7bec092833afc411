package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/uzeyirmammadli/catcare-sub001/internal/middleware"
)

func TestLimit_ThrottlesBurstPerIP(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := middleware.Limit(1, 1, time.Minute, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/report", nil)
	req.RemoteAddr = "10.0.0.1:5000"

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("first request must pass, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("burst exhausted, expected 429 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"success":false`) {
		t.Fatalf("429 must carry the JSON envelope, got %s", rr.Body.String())
	}

	// A different reporter is unaffected.
	other := httptest.NewRequest(http.MethodPost, "/report", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != http.StatusCreated {
		t.Fatalf("other IP must not be throttled, got %d", rr.Code)
	}
}

func TestLimit_PortlessRemoteAddr(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := middleware.Limit(5, 5, time.Minute, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/report", nil)
	req.RemoteAddr = "10.0.0.3"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("address without port must still be served, got %d", rr.Code)
	}
}
