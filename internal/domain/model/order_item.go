package model

import "github.com/shopspring/decimal"

// 注文明細（カートからのスナップショット）
type OrderItem struct {
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}
