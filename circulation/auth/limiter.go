package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultAttemptLimit  = 5
	DefaultAttemptWindow = 15 * time.Minute

	redisKeyPrefix = "library:login:"
)

// LimitDecision tells whether one more attempt is allowed and when the window resets.
type LimitDecision struct {
	Allowed bool
	ResetAt time.Time
}

// Limiter counts attempts per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (LimitDecision, error)
	Reset(ctx context.Context, key string) error
}

// RedisLimiter keeps the counters in Redis so that all instances share them.
type RedisLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
}

// NewRedisLimiter returns a limiter allowing limit attempts per window.
func NewRedisLimiter(client redis.Cmdable, limit int, window time.Duration) *RedisLimiter {
	limit, window = normalized(limit, window)

	return &RedisLimiter{client: client, limit: limit, window: window}
}

// Allow counts one attempt for key.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (LimitDecision, error) {
	redisKey := redisKeyPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		ttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return LimitDecision{}, fmt.Errorf("count login attempt: %w", err)
	}

	resetIn := ttl.Val()
	if resetIn <= 0 {
		resetIn = l.window
	}

	return LimitDecision{
		Allowed: incr.Val() <= int64(l.limit),
		ResetAt: time.Now().Add(resetIn),
	}, nil
}

// Reset forgets the attempts of key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}

	return nil
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps the counters in process memory.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]memoryWindow
}

// NewMemoryLimiter returns a limiter allowing limit attempts per window.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return NewMemoryLimiterWithClock(limit, window, time.Now)
}

// NewMemoryLimiterWithClock is NewMemoryLimiter with a replaceable clock.
func NewMemoryLimiterWithClock(limit int, window time.Duration, now func() time.Time) *MemoryLimiter {
	limit, window = normalized(limit, window)

	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     now,
		windows: make(map[string]memoryWindow),
	}
}

// Allow counts one attempt for key.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (LimitDecision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	current, ok := l.windows[key]
	if !ok || !now.Before(current.resetAt) {
		current = memoryWindow{resetAt: now.Add(l.window)}
		l.sweep(now)
	}

	current.count++
	l.windows[key] = current

	return LimitDecision{Allowed: current.count <= l.limit, ResetAt: current.resetAt}, nil
}

// Reset forgets the attempts of key.
func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)

	return nil
}

// sweep drops expired windows so that the map does not grow with every address ever seen.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

func normalized(limit int, window time.Duration) (int, time.Duration) {
	if limit <= 0 {
		limit = DefaultAttemptLimit
	}

	if window <= 0 {
		window = DefaultAttemptWindow
	}

	return limit, window
}
