package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// POST /orders/place に送る注文
type OrderRequest struct {
	ShopID        *int64          `json:"shopId"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Address       string          `json:"address"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Items         []OrderItem     `json:"items"`
}

// 注文成功時にブローカーへ流すイベント
type OrderPlacedEvent struct {
	IdempotencyKey string          `json:"idempotencyKey"`
	SessionID      string          `json:"sessionId"`
	ShopID         *int64          `json:"shopId"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	ItemCount      int             `json:"itemCount"`
	PlacedAt       time.Time       `json:"placedAt"`
}
