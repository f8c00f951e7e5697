package repository

import (
	"context"

	"tmgear/internal/domain/model"
)

// 商品カタログの読み取り（バックエンドAPI）
type CatalogRepository interface {
	ListAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	ListByShop(ctx context.Context, shopID int64) ([]model.Product, error)
}
