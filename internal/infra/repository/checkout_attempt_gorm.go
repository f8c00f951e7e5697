package repository

import (
	"context"
	"time"

	"tmgear/internal/domain/model"
	repo "tmgear/internal/repository"

	"gorm.io/gorm"
)

type checkoutAttemptGormRepository struct {
	db *gorm.DB
}

func NewCheckoutAttemptGormRepository(db *gorm.DB) repo.CheckoutAttemptRepository {
	return &checkoutAttemptGormRepository{db: db}
}

func (r *checkoutAttemptGormRepository) Create(ctx context.Context, a model.CheckoutAttempt) error {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return err
	}
	return nil
}

func (r *checkoutAttemptGormRepository) Finish(ctx context.Context, idempotencyKey string, status model.CheckoutAttemptStatus, errMsg string) error {
	res := r.db.WithContext(ctx).
		Model(&model.CheckoutAttempt{}).
		Where("idempotency_key = ?", idempotencyKey).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errMsg,
			"updated_at":    time.Now(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *checkoutAttemptGormRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.CheckoutAttempt, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var attempts []model.CheckoutAttempt
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC").
		Limit(limit).
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
