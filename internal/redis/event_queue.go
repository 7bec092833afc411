package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

// EventQueue buffers resolution events between the resolve path and the
// notification workers.
type EventQueue struct {
	client *redis.Client
	key    string
}

func NewEventQueue(client *redis.Client, key string) *EventQueue {
	return &EventQueue{client: client, key: key}
}

func (q *EventQueue) Enqueue(ctx context.Context, event domain.ResolutionEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, b).Err()
}

func (q *EventQueue) BRPop(ctx context.Context, timeout time.Duration) (domain.ResolutionEvent, error) {
	var ev domain.ResolutionEvent

	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ev, e.ErrQueueEmpty
		}
		return ev, err
	}
	if len(res) < 2 {
		return ev, redis.Nil
	}
	if err := json.Unmarshal([]byte(res[1]), &ev); err != nil {
		return ev, err
	}
	return ev, nil
}
