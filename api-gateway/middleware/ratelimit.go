package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/tair/eco-catalog/pkg/logger"
)

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter counts requests per key
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RedisLimiter is a fixed-window counter shared by all gateway replicas.
type RedisLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client redis.Cmdable, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	start := l.now().Truncate(l.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, start.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit counter: %w", err)
	}

	count := int(incr.Val())
	return Decision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
		Reset:     start.Add(l.window),
	}, nil
}

// maxLocalKeys bounds the in-process limiter table.
const maxLocalKeys = 10000

// LocalLimiter is a per-process token bucket per key. It is the fallback
// when Redis is unavailable, so limits are per replica.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    int
	every    rate.Limit
	now      func() time.Time
}

func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		every:    rate.Every(window / time.Duration(limit)),
		now:      time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxLocalKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.every, l.limit)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	now := l.now()
	allowed := lim.AllowN(now, 1)
	tokens := lim.TokensAt(now)

	reset := now
	if tokens < 1 {
		reset = now.Add(time.Duration((1 - tokens) / float64(l.every) * float64(time.Second)))
	}
	return Decision{
		Allowed:   allowed,
		Limit:     l.limit,
		Remaining: int(math.Max(0, math.Floor(tokens))),
		Reset:     reset,
	}, nil
}

// FallbackLimiter asks primary first and falls back when it errors.
type FallbackLimiter struct {
	Primary  Limiter
	Fallback Limiter
}

func (l FallbackLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.Primary != nil {
		d, err := l.Primary.Allow(ctx, key)
		if err == nil {
			return d, nil
		}
		logger.Warn(ctx).Err(err).Str("key", key).Msg("Rate limiter store unavailable, using local limiter")
	}
	return l.Fallback.Allow(ctx, key)
}

// RateLimit rejects callers over the limit with 429. Callers are keyed by
// user id when Identify found one, otherwise by client IP.
func RateLimit(limiter Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if id, ok := UserID(c); ok {
			key = "user:" + strconv.FormatUint(uint64(id), 10)
		}

		d, err := limiter.Allow(c.UserContext(), key)
		if err != nil {
			logger.Error(c.UserContext()).Err(err).Str("key", key).Msg("Rate limiter error")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

		if !d.Allowed {
			retry := int(math.Ceil(time.Until(d.Reset).Seconds()))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(max(retry, 1)))
			logger.Warn(c.UserContext()).
				Str("key", key).
				Int("limit", d.Limit).
				Msg("Rate limit exceeded")
			return Error(c, fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}
