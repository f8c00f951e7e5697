package repository

import (
	"context"
	"errors"
	"fmt"

	repo "tmgear/internal/repository"

	"github.com/redis/go-redis/v9"
)

// カートは期限なしで保存する（TTLなし）
type KVRedisRepository struct {
	client *redis.Client
}

func NewKVRedisRepository(client *redis.Client) *KVRedisRepository {
	return &KVRedisRepository{client: client}
}

func (r *KVRedisRepository) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return v, nil
}

func (r *KVRedisRepository) Set(ctx context.Context, key string, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
