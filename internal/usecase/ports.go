package usecase

import (
	"context"
	"time"

	"tmgear/internal/domain/model"
)

// idempotency key 用
type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// 入力チェックはvalidatorパッケージに任せる
type CheckoutValidator interface {
	ValidateCheckout(form model.CheckoutForm) error
}

// 注文成功イベントの送信先（未設定ならnil）
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt model.OrderPlacedEvent) error
}
