package usecase

import "github.com/shopspring/decimal"

type OrderTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// 配送料は固定（重さ・件数では変えない）
func ComputeTotals(subtotal decimal.Decimal, shippingFee decimal.Decimal) OrderTotals {
	return OrderTotals{
		Subtotal: subtotal,
		Shipping: shippingFee,
		Total:    subtotal.Add(shippingFee),
	}
}
