package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const RedisKeyPrefix = "photoalbum:"

// Redis stores items as plain string keys under a prefix
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Get(key string) (string, bool, error) {
	value, err := r.client.Get(context.Background(), r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %q from redis: %w", key, err)
	}
	return value, true, nil
}

func (r *Redis) Set(key, value string) error {
	if err := r.client.Set(context.Background(), r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %q in redis: %w", key, err)
	}
	return nil
}

func (r *Redis) Remove(key string) error {
	if err := r.client.Del(context.Background(), r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %q from redis: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
