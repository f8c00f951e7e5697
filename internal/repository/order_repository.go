package repository

import (
	"context"

	"tmgear/internal/domain/model"
)

// 注文確定（バックエンドへの唯一の書き込み）
type OrderRepository interface {
	Place(ctx context.Context, req model.OrderRequest, idempotencyKey string) error
}
