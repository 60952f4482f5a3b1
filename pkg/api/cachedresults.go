package api

import (
	"context"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/transitboard/transitboard/pkg/redis_client"
)

// CachedResults memoises marshalled schedule responses in redis so repeated
// lookups skip the snapshot walk. Entries are dropped wholesale when the
// feed reloads.
type CachedResults struct {
	Cache *cache.Cache[string]
}

func (c *CachedResults) Setup() {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(90*time.Minute))

	c.Cache = cache.New[string](redisStore)
}

func (c *CachedResults) Get(key string) (string, bool) {
	if c == nil || c.Cache == nil {
		return "", false
	}

	value, err := c.Cache.Get(context.Background(), key)
	if err != nil {
		return "", false
	}

	return value, true
}

func (c *CachedResults) Set(key string, value string) {
	if c == nil || c.Cache == nil {
		return
	}

	c.Cache.Set(context.Background(), key, value)
}

func (c *CachedResults) Clear() {
	if c == nil || c.Cache == nil {
		return
	}

	c.Cache.Clear(context.Background())
}
