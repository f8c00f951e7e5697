package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"tmgear/internal/domain/model"
	repo "tmgear/internal/repository"
	"tmgear/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mocks
// =====================

type KVRepoMock struct{ mock.Mock }

func (m *KVRepoMock) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *KVRepoMock) Set(ctx context.Context, key string, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

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

type AttemptRepoMock struct{ mock.Mock }

func (m *AttemptRepoMock) Create(ctx context.Context, a model.CheckoutAttempt) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AttemptRepoMock) Finish(ctx context.Context, idempotencyKey string, status model.CheckoutAttemptStatus, errMsg string) error {
	args := m.Called(ctx, idempotencyKey, status, errMsg)
	return args.Error(0)
}

func (m *AttemptRepoMock) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.CheckoutAttempt, error) {
	args := m.Called(ctx, sessionID, limit)
	items, _ := args.Get(0).([]model.CheckoutAttempt)
	return items, args.Error(1)
}

type EventPublisherMock struct{ mock.Mock }

func (m *EventPublisherMock) PublishOrderPlaced(ctx context.Context, evt model.OrderPlacedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type CheckoutValidatorMock struct{ mock.Mock }

func (m *CheckoutValidatorMock) ValidateCheckout(form model.CheckoutForm) error {
	args := m.Called(form)
	return args.Error(0)
}

type fixedIDGen struct{ id string }

func (g fixedIDGen) NewID() string { return g.id }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// =====================
// helpers
// =====================

var _ repo.KVRepository = (*KVRepoMock)(nil)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func int64Ptr(v int64) *int64 {
	return &v
}

func item(id int64, price int64) model.CartItem {
	return model.CartItem{
		ID:          id,
		ShopID:      int64Ptr(1),
		ProductName: "item",
		Category:    "Tents",
		Price:       dec(price),
	}
}

func quantities(items []model.CartItem) map[int64]int64 {
	out := make(map[int64]int64, len(items))
	for _, it := range items {
		out[it.ID] = it.Quantity
	}
	return out
}

func assertHTTPError(t *testing.T, err error, status int, contains string) {
	t.Helper()

	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %T", err)
	assert.Equal(t, status, he.Status)
	assert.True(t, strings.Contains(he.Message, contains), "message %q does not contain %q", he.Message, contains)
}
