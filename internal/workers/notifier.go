package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/uzeyirmammadli/catcare-sub001/internal/config"
	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/internal/redis"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

// Notifier drains the resolution-event queue and posts each event to the
// configured webhook. Delivery is best-effort with bounded retries; a case
// resolution never waits on it.
type Notifier struct {
	logger *slog.Logger
	cfg    config.NotifyConfig
	queue  *redis.EventQueue
	http   *http.Client
}

func NewNotifier(logger *slog.Logger, cfg config.NotifyConfig, q *redis.EventQueue) *Notifier {
	return &Notifier{
		logger: logger,
		cfg:    cfg,
		queue:  q,
		http:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *Notifier) Run(ctx context.Context) {
	if n.cfg.Disabled {
		n.logger.Info("notifier disabled")
		return
	}

	workers := n.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	n.logger.Info("notifier started",
		slog.String("url", n.cfg.WebhookURL),
		slog.Int("workers", workers),
	)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.worker(ctx)
		}()
	}
	wg.Wait()

	n.logger.Info("notifier stopped", slog.String("reason", ctx.Err().Error()))
}

func (n *Notifier) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		event, err := n.queue.BRPop(ctx, 5*time.Second)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			n.logger.Error("BRPop failed", slog.Any("error", err))
			if !sleep(ctx, 500*time.Millisecond) {
				return
			}
			continue
		}

		n.logger.Info("sending resolution notification", slog.String("case_id", event.CaseID.String()))
		n.sendWithRetry(ctx, event)
	}
}

func (n *Notifier) sendWithRetry(ctx context.Context, event domain.ResolutionEvent) {
	const maxRetries = 3

	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("marshal resolution event failed", slog.String("error", err.Error()))
		return
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
		if err != nil {
			n.logger.Error("create notification request failed", slog.String("error", err.Error()))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.http.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		reason := "unknown"
		if err != nil {
			reason = err.Error()
		} else if resp != nil {
			reason = resp.Status
		}

		n.logger.Warn("notification delivery failed",
			slog.Int("attempt", attempt),
			slog.String("case_id", event.CaseID.String()),
			slog.String("reason", reason),
		)

		if attempt < maxRetries && !sleep(ctx, time.Duration(attempt)*time.Second) {
			return
		}
	}
}

// sleep waits d unless ctx is canceled first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
