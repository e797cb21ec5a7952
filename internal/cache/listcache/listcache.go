// Package listcache caches encoded book list responses in Redis.
//
// Keys are versioned: bk:v{N}:list:<sha256 of the canonical query>, where N
// is the counter at bk:ver. Any catalog write bumps the counter, so every
// cached list becomes unreachable at once and simply ages out.
package listcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/5w1tchy/catalog-api/internal/query"
	"github.com/redis/go-redis/v9"
)

const versionKey = "bk:ver"

type Cache struct {
	rdb     *redis.Client
	ttl     time.Duration
	shortTO time.Duration
	now     func() time.Time

	// set when a bump fails; reads and writes bypass Redis until then
	bypassUntil atomic.Int64
}

// New returns a cache backed by rdb. A nil rdb or non-positive ttl gives a
// cache that always misses.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, shortTO: 150 * time.Millisecond, now: time.Now}
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0 && c.now().UnixNano() >= c.bypassUntil.Load()
}

// Key builds the cache key for q under version ver.
func Key(ver int64, q query.Query) string {
	sum := sha256.Sum256([]byte(q.Canonical()))
	return fmt.Sprintf("bk:v%d:list:%s", ver, hex.EncodeToString(sum[:]))
}

// Get looks q up under the current version. It returns the key to Set on a
// miss; an empty key means caching is off for this request.
func (c *Cache) Get(ctx context.Context, q query.Query) (body []byte, key string, hit bool) {
	if !c.enabled() {
		return nil, "", false
	}
	ctx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()

	ver, err := c.rdb.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		ver, err = 0, nil
	}
	if err != nil {
		log.Printf("[cache] version read failed: %v; bypassing", err)
		return nil, "", false
	}

	key = Key(ver, q)
	body, err = c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		return body, key, true
	case errors.Is(err, redis.Nil):
		return nil, key, false
	default:
		log.Printf("[cache] get %s failed: %v; bypassing", key, err)
		return nil, "", false
	}
}

// Set stores body under key with the cache TTL. Empty keys are ignored.
func (c *Cache) Set(ctx context.Context, key string, body []byte) {
	if key == "" || !c.enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()
	if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
		log.Printf("[cache] set %s failed: %v", key, err)
	}
}

// Bump invalidates every cached list. Call it after a write has committed.
// If Redis cannot be reached this process stops using the cache for one TTL,
// after which entries written before the failed bump have expired.
func (c *Cache) Bump(ctx context.Context) {
	if c == nil || c.rdb == nil || c.ttl <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()
	if err := c.rdb.Incr(ctx, versionKey).Err(); err != nil {
		c.bypassUntil.Store(c.now().Add(c.ttl).UnixNano())
		log.Printf("[cache] bump version failed: %v; cache bypassed for %s", err, c.ttl)
	}
}

// Ping reports whether Redis answers. Nil when no Redis is configured.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}
