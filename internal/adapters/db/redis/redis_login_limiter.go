package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login:"

// RedisLoginLimiter считает неудачные попытки входа на ключ
// (email|IP); счётчик живёт не дольше окна и исчезает сам.
type RedisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int
}

func NewRedisLoginLimiter(client *redis.Client, maxAttempts int) *RedisLoginLimiter {
	return &RedisLoginLimiter{
		client:      client,
		maxAttempts: maxAttempts,
	}
}

func (r *RedisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Get(ctx, keyPrefix+key).Int()
	switch {
	case err == redis.Nil:
		return true, nil // счётчика нет — попыток не было
	case err != nil:
		return false, err
	default:
		return n < r.maxAttempts, nil
	}
}

func (r *RedisLoginLimiter) Fail(ctx context.Context, key string, window time.Duration) error {
	k := keyPrefix + key
	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return r.client.Expire(ctx, k, window).Err()
	}
	return nil
}

func (r *RedisLoginLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+key).Err()
}
