package repository

import (
	"context"
	"sync"
	"time"

	"tmgear/internal/domain/model"
	repo "tmgear/internal/repository"
)

// postgresを使わない構成用。古いものから捨てる。
type checkoutAttemptMemoryRepository struct {
	mu       sync.Mutex
	attempts []model.CheckoutAttempt
	max      int
	nextID   int64
}

func NewCheckoutAttemptMemoryRepository(max int) repo.CheckoutAttemptRepository {
	if max <= 0 {
		max = 1000
	}
	return &checkoutAttemptMemoryRepository{max: max}
}

func (r *checkoutAttemptMemoryRepository) Create(ctx context.Context, a model.CheckoutAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	a.ID = r.nextID
	r.attempts = append(r.attempts, a)
	if len(r.attempts) > r.max {
		r.attempts = r.attempts[len(r.attempts)-r.max:]
	}
	return nil
}

func (r *checkoutAttemptMemoryRepository) Finish(ctx context.Context, idempotencyKey string, status model.CheckoutAttemptStatus, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.attempts {
		if r.attempts[i].IdempotencyKey == idempotencyKey {
			r.attempts[i].Status = status
			r.attempts[i].ErrorMessage = errMsg
			r.attempts[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r *checkoutAttemptMemoryRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.CheckoutAttempt, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.CheckoutAttempt, 0)
	for i := len(r.attempts) - 1; i >= 0 && len(out) < limit; i-- {
		if r.attempts[i].SessionID == sessionID {
			out = append(out, r.attempts[i])
		}
	}
	return out, nil
}
