package httpx

import (
	"context"
	"strings"
	"time"

	"log/slog"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "careerflow:ratelimit:"

type redisRateLimiter struct {
	client  *redis.Client
	logger  *slog.Logger
	prefix  string
	timeout time.Duration
}

// NewRedisRateLimiter constructs a Redis backed rate limiter so that several
// API replicas share one budget per key.
func NewRedisRateLimiter(addr, password string, db int, logger *slog.Logger) (RateLimiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return newRedisRateLimiter(client, logger), nil
}

func newRedisRateLimiter(client *redis.Client, logger *slog.Logger) *redisRateLimiter {
	return &redisRateLimiter{
		client:  client,
		logger:  logger,
		prefix:  redisKeyPrefix,
		timeout: 250 * time.Millisecond,
	}
}

// Allow counts the request against a fixed window shared by every replica.
// It fails open: when Redis is unreachable the request goes through.
func (rl *redisRateLimiter) Allow(key string, limit int, window time.Duration) rateDecision {
	if limit <= 0 {
		return rateDecision{allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), rl.timeout)
	defer cancel()

	bucket := rl.bucketKey(key)
	var incr *redis.IntCmd
	var pttl *redis.DurationCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, bucket)
		pttl = pipe.PTTL(ctx, bucket)
		return nil
	})
	if err != nil {
		rl.logRedisError("incr", key, err)
		return rateDecision{allowed: true}
	}
	count := int(incr.Val())
	ttl := pttl.Val()
	// A bucket without expiry is new, or lost its TTL to a failed PEXPIRE;
	// either way the window starts now.
	if ttl <= 0 {
		if err := rl.client.PExpire(ctx, bucket, window).Err(); err != nil {
			rl.logRedisError("pexpire", key, err)
		}
		ttl = window
	}
	return rateDecision{
		allowed:   count <= limit,
		count:     count,
		windowEnd: time.Now().Add(ttl),
	}
}

// bucketKey turns the middleware's "route|subject" key into
// "careerflow:ratelimit:<route>:<subject>" so buckets group per route.
func (rl *redisRateLimiter) bucketKey(key string) string {
	route, subject, ok := strings.Cut(key, "|")
	if !ok {
		return rl.prefix + key
	}
	return rl.prefix + route + ":" + subject
}

func (rl *redisRateLimiter) Close() {
	if rl.client != nil {
		_ = rl.client.Close()
	}
}

func (rl *redisRateLimiter) logRedisError(op, key string, err error) {
	if rl.logger == nil {
		return
	}
	route, _, _ := strings.Cut(key, "|")
	rl.logger.Warn("rate limiter store unreachable, allowing request", "op", op, "route", route, "error", err)
}
