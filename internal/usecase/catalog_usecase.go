package usecase

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"tmgear/internal/domain/model"
	repo "tmgear/internal/repository"

	"github.com/shopspring/decimal"
)

// カテゴリ絞り込みなしを表す値（画面のセレクトと同じ）
const CategoryAll = "All"

type CatalogUsecase struct {
	catalog repo.CatalogRepository
}

// DI
func NewCatalogUsecase(catalog repo.CatalogRepository) *CatalogUsecase {
	return &CatalogUsecase{catalog: catalog}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Q        string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if len(in.Q) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return nil, NewHTTPError(http.StatusBadRequest, "minPrice must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return nil, NewHTTPError(http.StatusBadRequest, "maxPrice must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return nil, NewHTTPError(http.StatusBadRequest, "minPrice must be <= maxPrice")
	}

	all, err := u.catalog.ListAll(ctx)
	if err != nil {
		return nil, catalogError(err)
	}

	q := strings.ToLower(strings.TrimSpace(in.Q))
	category := strings.TrimSpace(in.Category)

	out := make([]model.Product, 0, len(all))
	for _, p := range all {
		if q != "" && !strings.Contains(strings.ToLower(p.ProductName), q) {
			continue
		}
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if in.MinPrice != nil && p.Price.LessThan(*in.MinPrice) {
			continue
		}
		if in.MaxPrice != nil && p.Price.GreaterThan(*in.MaxPrice) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// 商品に出てくるカテゴリ（重複なし・昇順、Allは含めない）
func (u *CatalogUsecase) Categories(ctx context.Context) ([]string, error) {
	all, err := u.catalog.ListAll(ctx)
	if err != nil {
		return nil, catalogError(err)
	}

	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range all {
		c := strings.TrimSpace(p.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.catalog.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, catalogError(err)
	}
	return p, nil
}

func (u *CatalogUsecase) ListShopProducts(ctx context.Context, shopID int64) ([]model.Product, error) {
	if shopID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid shop id")
	}

	items, err := u.catalog.ListByShop(ctx, shopID)
	if err != nil {
		return nil, catalogError(err)
	}
	return items, nil
}

func catalogError(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return NewHTTPError(http.StatusBadGateway, "catalog unavailable")
}
