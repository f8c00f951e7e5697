package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tmgear/internal/config"
	"tmgear/internal/domain/model"
	"tmgear/internal/handler"
	infraRepo "tmgear/internal/infra/repository"
	"tmgear/internal/middleware"
	"tmgear/internal/usecase"
	"tmgear/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =====================
// Mocks
// =====================

type CatalogRepoMock struct{ mock.Mock }

func (m *CatalogRepoMock) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogRepoMock) ListByShop(ctx context.Context, shopID int64) ([]model.Product, error) {
	args := m.Called(ctx, shopID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Place(ctx context.Context, req model.OrderRequest, idempotencyKey string) error {
	args := m.Called(ctx, req, idempotencyKey)
	return args.Error(0)
}

type seqIDGen struct{}

func (seqIDGen) NewID() string { return "idem-1" }

type nowClock struct{}

func (nowClock) Now() time.Time { return time.Now() }

// =====================
// テスト用サーバー
// =====================

type testApp struct {
	e       *echo.Echo
	catalog *CatalogRepoMock
	orders  *OrderRepoMock
	cookie  *http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.Config{SessionSecret: "test_secret"}
	log := zap.NewNop()

	catalog := new(CatalogRepoMock)
	orders := new(OrderRepoMock)

	sessions := usecase.NewCartSessions(infraRepo.NewKVMemoryRepository(), "tm-gear-cart", 0, log)
	fee := decimal.NewFromInt(750)

	cartUC := usecase.NewCartUsecase(sessions, catalog, fee)
	checkoutUC := usecase.NewCheckoutUsecase(sessions, orders, infraRepo.NewCheckoutAttemptMemoryRepository(0), nil,
		validator.NewCheckoutValidator(), seqIDGen{}, nowClock{}, fee, log)

	e := echo.New()
	e.Validator = validator.New()

	handler.NewHealthHandler().RegisterRoutes(e)
	handler.NewProductHandler(usecase.NewCatalogUsecase(catalog)).RegisterRoutes(e.Group(""))

	sg := e.Group("", middleware.CartSession(cfg))
	handler.NewCartHandler(cartUC).RegisterRoutes(sg)
	handler.NewCheckoutHandler(checkoutUC).RegisterRoutes(sg)

	return &testApp{e: e, catalog: catalog, orders: orders}
}

// cookieを引き継いでリクエストする（ブラウザと同じ）
func (a *testApp) do(t *testing.T, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName {
			a.cookie = ck
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Error string `json:"error"`
}

type cartBody struct {
	Items []struct {
		ID        int64           `json:"id"`
		Quantity  int64           `json:"quantity"`
		LineTotal decimal.Decimal `json:"lineTotal"`
	} `json:"items"`
	ItemCount   int             `json:"itemCount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Shipping    decimal.Decimal `json:"shipping"`
	Total       decimal.Decimal `json:"total"`
	CanCheckout bool            `json:"canCheckout"`
	State       string          `json:"state"`
}
