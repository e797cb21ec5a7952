package main

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/5w1tchy/catalog-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// newRedis returns nil when Redis is not configured. An unreachable server
// is logged but kept: the cache and limiters fail open and recover once it
// comes back.
func newRedis(ctx context.Context, c config.Redis) *redis.Client {
	var rdb *redis.Client
	switch {
	case c.URL != "":
		opt, err := redis.ParseURL(c.URL) // e.g. rediss://default:<token>@host:port
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		rdb = redis.NewClient(opt)
	case c.Addr != "":
		opts := &redis.Options{
			Addr:         c.Addr,
			Username:     c.Username,
			Password:     c.Password,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		}
		if c.TLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb = redis.NewClient(opts)
	default:
		log.Println("[redis] not configured; list cache off, in-process rate limiting")
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("[redis] ping failed: %v (continuing, features fail open)", err)
	} else {
		log.Println("[redis] connected")
	}
	return rdb
}
