package lock

import (
	"context"
	"domainkeeper/logger"
	"fmt"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"sync"
	"time"
)

const (
	DefaultTTL        = 2 * time.Minute
	defaultRetryDelay = 100 * time.Millisecond
	releaseTimeout    = 5 * time.Second
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

type redisLocker struct {
	client     redis.UniversalClient
	ttl        time.Duration
	retryDelay time.Duration
}

// NewRedis returns a Locker shared by every process using the same Redis. Keys
// expire after ttl so a crashed holder cannot block a domain forever.
func NewRedis(client redis.UniversalClient, ttl time.Duration) Locker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisLocker{client: client, ttl: ttl, retryDelay: defaultRetryDelay}
}

func (r *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("setnx %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
		case <-time.After(r.retryDelay):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, r.client, []string{key}, token).Err(); err != nil {
				logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
			}
		})
	}, nil
}

// Open picks the Redis locker when url is set and the local one otherwise
func Open(url string) (Locker, func() error, error) {
	if url == "" {
		return NewLocal(), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	return NewRedis(client, DefaultTTL), client.Close, nil
}
