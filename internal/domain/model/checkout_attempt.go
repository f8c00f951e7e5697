package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutAttemptStatus string

const (
	CheckoutAttemptSubmitting CheckoutAttemptStatus = "SUBMITTING"
	CheckoutAttemptSucceeded  CheckoutAttemptStatus = "SUCCEEDED"
	CheckoutAttemptFailed     CheckoutAttemptStatus = "FAILED"
)

// 注文送信の履歴。
// 「どのセッションが」「どのキーで」「いくら」送って「どうなったか」を残す。
type CheckoutAttempt struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	SessionID string `gorm:"type:varchar(64);not null;index" json:"session_id"`

	//X-Idempotency-Key と同じ値
	IdempotencyKey string `gorm:"type:varchar(64);not null;uniqueIndex" json:"idempotency_key"`

	Status CheckoutAttemptStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	ShopID      *int64          `json:"shop_id"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	ItemCount   int             `gorm:"not null" json:"item_count"`

	//失敗時のみ
	ErrorMessage string `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
