package repository

import (
	"context"
	"sync"

	repo "tmgear/internal/repository"
)

// プロセス内のKV（開発・テスト用）
type KVMemoryRepository struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewKVMemoryRepository() *KVMemoryRepository {
	return &KVMemoryRepository{data: make(map[string]string)}
}

func (r *KVMemoryRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	if !ok {
		return "", repo.ErrNotFound
	}
	return v, nil
}

func (r *KVMemoryRepository) Set(ctx context.Context, key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = value
	return nil
}
