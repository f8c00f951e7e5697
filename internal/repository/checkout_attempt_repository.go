package repository

import (
	"context"

	"tmgear/internal/domain/model"
)

// 注文送信履歴の保存・一覧取得の約束。
type CheckoutAttemptRepository interface {
	Create(ctx context.Context, a model.CheckoutAttempt) error

	//idempotency_keyで1件の状態を更新
	Finish(ctx context.Context, idempotencyKey string, status model.CheckoutAttemptStatus, errMsg string) error

	//新しい順
	ListBySession(ctx context.Context, sessionID string, limit int) ([]model.CheckoutAttempt, error)
}
