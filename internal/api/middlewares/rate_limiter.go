package middlewares

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/5w1tchy/catalog-api/internal/api/apperr"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// --------- Key helpers ---------

type KeyFunc func(r *http.Request) string

func PerIPKey(prefix string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		return prefix + ":" + ip
	}
}

func tooManyRequests(w http.ResponseWriter, r *http.Request, retryAfter int64, detail string) {
	w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
	apperr.WriteStatus(w, r, http.StatusTooManyRequests, "Too Many Requests", detail)
}

// --------- Token Bucket (Redis + Lua) ---------

const tokenBucketLua = `
-- KEYS[1] = bucket key (hash with fields: tokens, ts)
-- ARGV[1] = ratePerS (float)
-- ARGV[2] = capacity (int)
-- Returns: {allowed (1/0), remaining_tokens (float), retry_after_ms (int)}
local key   = KEYS[1]
local rate  = tonumber(ARGV[1])
local cap   = tonumber(ARGV[2])

local t = redis.call('TIME')
local now_ms = (tonumber(t[1]) * 1000) + math.floor(tonumber(t[2]) / 1000)

local data = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts     = tonumber(data[2])

if tokens == nil then
  tokens = cap
  ts = now_ms
end

local delta_ms = now_ms - ts
if delta_ms > 0 then
  tokens = math.min(cap, tokens + (delta_ms / 1000.0) * rate)
end

local allowed = 0
local retry_after_ms = 0

if tokens >= 1.0 then
  tokens = tokens - 1.0
  allowed = 1
else
  retry_after_ms = math.ceil((1.0 - tokens) * 1000.0 / rate)
end

redis.call('HSET', key, 'tokens', tokens, 'ts', now_ms)
redis.call('PEXPIRE', key, math.ceil((cap / rate) * 1000.0))

return {allowed, tostring(tokens), retry_after_ms}
`

type RedisTokenBucket struct {
	rdb      *redis.Client
	keyFn    KeyFunc
	ratePerS float64 // tokens per second
	burst    int     // bucket capacity
	script   *redis.Script
}

func NewRedisTokenBucket(rdb *redis.Client, ratePerSecond float64, burst int, keyFn KeyFunc) *RedisTokenBucket {
	return &RedisTokenBucket{
		rdb:      rdb,
		keyFn:    keyFn,
		ratePerS: ratePerSecond,
		burst:    burst,
		script:   redis.NewScript(tokenBucketLua),
	}
}

func (tb *RedisTokenBucket) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := tb.keyFn(r)

		res, err := tb.script.Run(r.Context(), tb.rdb, []string{key},
			strconv.FormatFloat(tb.ratePerS, 'f', -1, 64),
			strconv.Itoa(tb.burst),
		).Slice()
		if err != nil || len(res) != 3 {
			log.Printf("[TokenBucket] Redis error: %v (allowing request)\n", err)
			next.ServeHTTP(w, r)
			return
		}

		allowed := toInt64(res[0]) == 1
		remaining := toInt64(res[1])
		retryAfterMs := toInt64(res[2])

		w.Header().Set("X-RateLimit-Policy", "token-bucket")
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(tb.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			sec := max((retryAfterMs+999)/1000, 1)
			log.Printf("[TokenBucket] Blocked request from %s (key=%s). Retry after %ds\n",
				r.RemoteAddr, key, sec)
			tooManyRequests(w, r, sec, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --------- In-process limiter (x/time/rate) ---------

type localClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is a per-key token bucket held in process memory, used when
// no Redis is configured. Keys idle for longer than idleTTL are swept.
type LocalLimiter struct {
	keyFn   KeyFunc
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	clients   map[string]*localClient
	lastSweep time.Time
}

func NewLocalLimiter(ratePerSecond float64, burst int, keyFn KeyFunc) *LocalLimiter {
	return &LocalLimiter{
		keyFn:   keyFn,
		limit:   rate.Limit(ratePerSecond),
		burst:   burst,
		idleTTL: 3 * time.Minute,
		now:     time.Now,
		clients: make(map[string]*localClient),
	}
}

func (l *LocalLimiter) allow(key string) (bool, time.Duration, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > l.idleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &localClient{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	res := c.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay, 0
	}
	return true, 0, int(c.limiter.TokensAt(now))
}

func (l *LocalLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.keyFn(r)
		ok, delay, remaining := l.allow(key)

		w.Header().Set("X-RateLimit-Policy", "token-bucket-local")
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !ok {
			sec := max(int64((delay+time.Second-1)/time.Second), 1)
			log.Printf("[RateLimit] Blocked request from %s (key=%s). Retry after %ds\n",
				r.RemoteAddr, key, sec)
			tooManyRequests(w, r, sec, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --------- utils ---------

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case string:
		if i, err := strconv.ParseInt(t, 10, 64); err == nil {
			return i
		}
		f, _ := strconv.ParseFloat(t, 64)
		return int64(f)
	case []byte:
		return toInt64(string(t))
	case float64:
		return int64(t)
	default:
		return 0
	}
}
