package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"tmgear/internal/domain/model"
	repo "tmgear/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// カートはセッションごとのCartStoreが持ち、ここでは入力チェックと表示用の集計だけ行います。
type CartUsecase struct {
	sessions    *CartSessions
	catalog     repo.CatalogRepository
	shippingFee decimal.Decimal
}

// DI
func NewCartUsecase(
	sessions *CartSessions,
	catalog repo.CatalogRepository,
	shippingFee decimal.Decimal,
) *CartUsecase {
	return &CartUsecase{
		sessions:    sessions,
		catalog:     catalog,
		shippingFee: shippingFee,
	}
}

type CartItemView struct {
	model.CartItem
	DisplayImage string          `json:"displayImage,omitempty"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

// 空のカートはcheckout不可。
type CartView struct {
	Items       []CartItemView  `json:"items"`
	ItemCount   int             `json:"itemCount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Shipping    decimal.Decimal `json:"shipping"`
	Total       decimal.Decimal `json:"total"`
	CanCheckout bool            `json:"canCheckout"`

	// 保存に失敗したときだけ（カート自体は更新済み）
	Warning string `json:"warning,omitempty"`
}

// POST /cart/items（商品一覧で取得済みのスナップショットをそのまま入れる）
type AddCartInput struct {
	ID          int64
	ShopID      *int64
	ProductName string
	Category    string
	Price       decimal.Decimal
	ImageURL    string
	Image       string
}

func (u *CartUsecase) View(ctx context.Context, sessionID string) (CartView, error) {
	store, err := u.store(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}
	return buildCartView(store, u.shippingFee), nil
}

// AddItem は同じ商品なら数量+1、無ければ数量1で追加。
func (u *CartUsecase) AddItem(ctx context.Context, sessionID string, in AddCartInput) (CartView, error) {
	if in.ID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Price.IsNegative() {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	store, err := u.store(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}

	store.AddToCart(ctx, model.CartItem{
		ID:          in.ID,
		ShopID:      in.ShopID,
		ProductName: strings.TrimSpace(in.ProductName),
		Category:    in.Category,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Image:       in.Image,
	})
	return buildCartView(store, u.shippingFee), nil
}

// AddProduct はカタログから商品を引いてカートに入れる。
func (u *CartUsecase) AddProduct(ctx context.Context, sessionID string, productID int64) (CartView, error) {
	if productID <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.catalog.FindByID(ctx, productID)
	if err != nil {
		return CartView{}, catalogError(err)
	}
	if p.Price.IsNegative() {
		return CartView{}, NewHTTPError(http.StatusBadGateway, "invalid product price")
	}

	store, err := u.store(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}

	store.AddToCart(ctx, p.CartSnapshot())
	return buildCartView(store, u.shippingFee), nil
}

// UpdateQuantity は数量をdeltaだけ増減（1未満にはしない）。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, sessionID string, id int64, delta int64) (CartView, error) {
	if id <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	store, err := u.store(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}

	store.UpdateQuantity(ctx, id, delta)
	return buildCartView(store, u.shippingFee), nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, sessionID string, id int64) (CartView, error) {
	if id <= 0 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	store, err := u.store(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}

	store.RemoveItem(ctx, id)
	return buildCartView(store, u.shippingFee), nil
}

func (u *CartUsecase) store(ctx context.Context, sessionID string) (*CartStore, error) {
	return sessionStore(ctx, u.sessions, sessionID)
}

func sessionStore(ctx context.Context, sessions *CartSessions, sessionID string) (*CartStore, error) {
	store, err := sessions.Get(ctx, sessionID)
	if errors.Is(err, ErrNoSession) {
		return nil, NewHTTPError(http.StatusUnauthorized, "no session")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "cart error")
	}
	return store, nil
}

func buildCartView(store *CartStore, shippingFee decimal.Decimal) CartView {
	items := store.Items()

	views := make([]CartItemView, 0, len(items))
	for _, it := range items {
		views = append(views, CartItemView{
			CartItem:     it,
			DisplayImage: it.DisplayImage(),
			LineTotal:    it.LineTotal(),
		})
	}

	totals := ComputeTotals(sumItems(items), shippingFee)

	view := CartView{
		Items:       views,
		ItemCount:   len(items),
		Subtotal:    totals.Subtotal,
		Shipping:    totals.Shipping,
		Total:       totals.Total,
		CanCheckout: len(items) > 0,
	}
	if err := store.PersistWarning(); err != nil {
		view.Warning = "cart could not be saved"
	}
	return view
}
