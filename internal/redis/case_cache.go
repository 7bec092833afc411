package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
)

// CaseCacheService fronts the case detail page. A miss returns (nil, nil);
// mutation paths must Invalidate.
type CaseCacheService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	Set(ctx context.Context, c *domain.Case, ttl time.Duration) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type CaseCache struct {
	client *goredis.Client
	prefix string
}

func NewCaseCache(r *Redis) *CaseCache {
	return &CaseCache{
		client: r.Client,
		prefix: "cases:detail:",
	}
}

func (c *CaseCache) key(id uuid.UUID) string {
	return c.prefix + id.String()
}

func (c *CaseCache) Get(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cs domain.Case
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, err
	}

	return &cs, nil
}

func (c *CaseCache) Set(ctx context.Context, cs *domain.Case, ttl time.Duration) error {
	b, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(cs.ID), b, ttl).Err()
}

func (c *CaseCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
