package model

import "github.com/shopspring/decimal"

// カートの明細（1商品につき1行）
// 追加時点の商品情報（価格・名前）をそのまま保存する。
type CartItem struct {
	ID          int64           `json:"id"`
	ShopID      *int64          `json:"shopId"`
	ProductName string          `json:"productName"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Image       string          `json:"image,omitempty"`
	Quantity    int64           `json:"quantity"`
}

// 表示用の画像（imageUrl優先）
func (i CartItem) DisplayImage() string {
	if i.ImageURL != "" {
		return i.ImageURL
	}
	return i.Image
}

// 単価×数量
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// 同じshopIdか（nil同士も同じ扱い）
func SameShop(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
