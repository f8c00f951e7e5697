package handler_test

import (
	"net/http"
	"testing"

	"tmgear/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartHandler_Flow(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, app.cookie)
	assert.False(t, decode[cartBody](t, rec).CanCheckout)

	rec = app.do(t, http.MethodPost, "/cart/items", `{"id":1,"shopId":1,"productName":"Tent","category":"Tents","price":1000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.do(t, http.MethodPost, "/cart/items", `{"id":1,"shopId":1,"productName":"Tent","category":"Tents","price":1000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodPost, "/cart/items", `{"id":2,"shopId":1,"productName":"Lamp","category":"Lights","price":"500"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[cartBody](t, rec)
	assert.Equal(t, 2, out.ItemCount)
	assert.True(t, decimal.NewFromInt(2500).Equal(out.Subtotal))
	assert.True(t, decimal.NewFromInt(750).Equal(out.Shipping))
	assert.True(t, decimal.NewFromInt(3250).Equal(out.Total))
	assert.True(t, out.CanCheckout)

	rec = app.do(t, http.MethodPatch, "/cart/items/1", `{"delta":-5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode[cartBody](t, rec)
	assert.Equal(t, int64(1), out.Items[0].Quantity)

	rec = app.do(t, http.MethodDelete, "/cart/items/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode[cartBody](t, rec)
	assert.Equal(t, 1, out.ItemCount)
	assert.True(t, decimal.NewFromInt(1000).Equal(out.Subtotal))
}

func TestCartHandler_SessionsAreIsolated(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/cart/items", `{"id":1,"price":100}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// cookie無しの別ブラウザ
	app.cookie = nil
	rec = app.do(t, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[cartBody](t, rec).ItemCount)
}

func TestCartHandler_BadRequests(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		method, path, body, want string
	}{
		{http.MethodPost, "/cart/items", `{"id":0,"price":1}`, "id"},
		{http.MethodPost, "/cart/items", `{"id":1,"price":-1}`, "price must be >= 0"},
		{http.MethodPost, "/cart/items", `{"id":1,"productName":"Tent"}`, "price is required"},
		{http.MethodPost, "/cart/items", `{"id":1,"price":null}`, "price is required"},
		{http.MethodPost, "/cart/items", `{"id":`, "invalid body"},
		{http.MethodPatch, "/cart/items/abc", `{"delta":1}`, "invalid id"},
		{http.MethodDelete, "/cart/items/abc", "", "invalid id"},
		{http.MethodPost, "/cart/products/x", "", "invalid product id"},
	}

	for _, tc := range cases {
		rec := app.do(t, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", tc.method, tc.path)
		assert.Contains(t, decode[errorBody](t, rec).Error, tc.want)
	}
}

func TestCartHandler_AddProduct(t *testing.T) {
	app := newTestApp(t)

	shopID := int64(4)
	app.catalog.On("FindByID", mock.Anything, int64(9)).Return(model.Product{
		ID: 9, ShopID: &shopID, ProductName: "Stove", Category: "Cooking", Price: decimal.NewFromInt(3200),
	}, nil)

	rec := app.do(t, http.MethodPost, "/cart/products/9", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode[cartBody](t, rec)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(9), out.Items[0].ID)
	assert.True(t, decimal.NewFromInt(3200).Equal(out.Items[0].LineTotal))
}
