package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/config"
	"github.com/DanielPopoola/x402-gateway/internal/domain"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "x402:nonce:"

// RedisNonceStore shares consumed nonces across gateway replicas. Keys expire with the
// authorization so no sweeping is needed.
type RedisNonceStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisNonceStore(client *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{client: client, now: time.Now}
}

func (s *RedisNonceStore) Reserve(ctx context.Context, payer, nonce string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl < time.Second {
		ttl = time.Second
	}

	ok, err := s.client.SetNX(ctx, redisKeyPrefix+nonceKey(payer, nonce), expiresAt.Unix(), ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve nonce: %w", err)
	}
	if !ok {
		return domain.ErrNonceReused
	}
	return nil
}

// PurgeExpired is a no-op; Redis expires keys itself.
func (s *RedisNonceStore) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
