package cache

import (
	"context"
	"encoding/json"
	"time"

	"promotions/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyList = "promotion:list"

// PromotionCache caches the unfiltered promotion list in Redis. Filtered
// queries always hit the store; the full list is the only hot read.
type PromotionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPromotionCache returns a new PromotionCache.
func NewPromotionCache(rdb *redis.Client, ttl time.Duration) *PromotionCache {
	return &PromotionCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list or nil on a miss.
func (c *PromotionCache) GetList(ctx context.Context) ([]domain.Promotion, error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []domain.Promotion
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list in cache.
func (c *PromotionCache) SetList(ctx context.Context, list []domain.Promotion) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList, b, c.ttl).Err()
}

// Invalidate drops the cached list. Called after every write.
func (c *PromotionCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyList).Err()
}
