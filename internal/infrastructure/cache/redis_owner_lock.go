package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultLockPrefix = "storefront:cart-lock:"
	defaultLockTTL    = 10 * time.Second
	defaultRetryDelay = 20 * time.Millisecond
)

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock re-acquired by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOwnerLocker serializes cart mutations per owner across instances
// with a SET NX PX lock. The TTL bounds how long a crashed holder blocks
// the owner.
type RedisOwnerLocker struct {
	client     redis.UniversalClient
	prefix     string
	ttl        time.Duration
	retryDelay time.Duration
	logger     *zap.Logger
}

// RedisLockOption configures a RedisOwnerLocker
type RedisLockOption func(*RedisOwnerLocker)

// WithLockTTL sets the lock expiry
func WithLockTTL(ttl time.Duration) RedisLockOption {
	return func(l *RedisOwnerLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithKeyPrefix sets the redis key prefix
func WithKeyPrefix(prefix string) RedisLockOption {
	return func(l *RedisOwnerLocker) {
		if prefix != "" {
			l.prefix = prefix
		}
	}
}

// WithRetryDelay sets the wait between acquisition attempts
func WithRetryDelay(d time.Duration) RedisLockOption {
	return func(l *RedisOwnerLocker) {
		if d > 0 {
			l.retryDelay = d
		}
	}
}

// NewRedisOwnerLocker creates a RedisOwnerLocker on an existing client
func NewRedisOwnerLocker(client redis.UniversalClient, logger *zap.Logger, opts ...RedisLockOption) *RedisOwnerLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &RedisOwnerLocker{
		client:     client,
		prefix:     defaultLockPrefix,
		ttl:        defaultLockTTL,
		retryDelay: defaultRetryDelay,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Lock blocks until the owner's lock is held or ctx is done. The returned
// unlock is idempotent.
func (l *RedisOwnerLocker) Lock(ctx context.Context, ownerID uuid.UUID) (func(), error) {
	key := l.prefix + ownerID.String()
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, shared.NewInfrastructureError("cart.lock", ctxErr)
			}
			return nil, shared.NewInfrastructureError("cart.lock", err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, shared.NewInfrastructureError("cart.lock", ctx.Err())
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, token) })
	}, nil
}

func (l *RedisOwnerLocker) release(key, token string) {
	// The request context may already be cancelled; release on a fresh one.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		l.logger.Warn("Failed to release cart lock", zap.String("key", key), zap.Error(err))
		return
	}
	if n == 0 {
		l.logger.Warn("Cart lock expired before release", zap.String("key", key), zap.Duration("ttl", l.ttl))
	}
}
