package model

import "github.com/shopspring/decimal"

// バックエンドの商品（/api/products のレスポンス）
type Product struct {
	ID                 int64           `json:"id"`
	ShopID             *int64          `json:"shopId"`
	ProductName        string          `json:"productName"`
	ProductDescription string          `json:"productDescription,omitempty"`
	Category           string          `json:"category"`
	Price              decimal.Decimal `json:"price"`
	ImageURL           string          `json:"imageUrl,omitempty"`
	Available          int64           `json:"available"`
	RentalCondition    string          `json:"rentalCondition,omitempty"`
	CleaningFee        string          `json:"cleaningFee,omitempty"`
	MinDuration        int64           `json:"minDuration,omitempty"`
}

// カートに入れる時点のスナップショット
func (p Product) CartSnapshot() CartItem {
	return CartItem{
		ID:          p.ID,
		ShopID:      p.ShopID,
		ProductName: p.ProductName,
		Category:    p.Category,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
	}
}
