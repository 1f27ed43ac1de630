package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const modulesKey = "usg:modules" // set of module names

// RedisRepository keeps the vocabulary in a Redis set; SADD makes Add an
// atomic add-to-set.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) List(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, modulesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (r *RedisRepository) Add(ctx context.Context, name string) error {
	if err := r.client.SAdd(ctx, modulesKey, name).Err(); err != nil {
		return fmt.Errorf("failed to add module: %w", err)
	}
	return nil
}
