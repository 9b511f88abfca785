package highscore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "mapguess:highscores:top"

// Cache holds the rendered leaderboard in Redis until the next submission or
// until the TTL runs out.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context) ([]Record, bool, error) {
	data, err := c.rdb.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var top []Record
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, false, err
	}
	return top, true, nil
}

func (c *Cache) Set(ctx context.Context, top []Record) error {
	data, err := json.Marshal(top)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey, data, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, cacheKey).Err()
}
