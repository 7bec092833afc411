package workers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/uzeyirmammadli/catcare-sub001/internal/config"
	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
)

func newTestNotifier(url string) *Notifier {
	return NewNotifier(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		config.NotifyConfig{WebhookURL: url, Workers: 1},
		nil,
	)
}

func TestSendWithRetry_DeliversOnce(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	n.sendWithRetry(context.Background(), domain.ResolutionEvent{CaseID: uuid.New()})

	if got := hits.Load(); got != 1 {
		t.Fatalf("want a single delivery, got %d", got)
	}
}

func TestSendWithRetry_GivesUpAfterThreeAttempts(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	n.sendWithRetry(context.Background(), domain.ResolutionEvent{CaseID: uuid.New()})

	if got := hits.Load(); got != 3 {
		t.Fatalf("want 3 attempts, got %d", got)
	}
}

func TestSendWithRetry_CancelSkipsBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First delivery fails and shutdown begins while the backoff timer runs.
		cancel()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)

	start := time.Now()
	n.sendWithRetry(ctx, domain.ResolutionEvent{CaseID: uuid.New()})

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("canceled context must cut the retry wait short, took %v", elapsed)
	}
}
