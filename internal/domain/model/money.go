package model

import "github.com/shopspring/decimal"

// バックエンドも保存済みカートも金額はJSONの数値で扱う。
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
