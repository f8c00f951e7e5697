package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"tmgear/internal/domain/model"
	repo "tmgear/internal/repository"

	lru "github.com/hashicorp/golang-lru"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrCheckoutInProgress = errors.New("checkout in progress")
	ErrMixedShopCart      = errors.New("cart contains items from multiple shops")
)

// CheckoutUsecase は注文送信（POST /checkout）の業務ロジックです。
// 成功したときだけカートを空にし、失敗時はカートに触らない。
type CheckoutUsecase struct {
	sessions    *CartSessions
	orders      repo.OrderRepository
	attempts    repo.CheckoutAttemptRepository
	events      OrderEventPublisher // nil可
	validator   CheckoutValidator
	idGen       IDGenerator
	clock       Clock
	shippingFee decimal.Decimal
	log         *zap.Logger

	// IDLE以外の状態だけ持つ（セッション数と同じ上限）
	mu     sync.Mutex
	states *lru.Cache
}

// DI
func NewCheckoutUsecase(
	sessions *CartSessions,
	orders repo.OrderRepository,
	attempts repo.CheckoutAttemptRepository,
	events OrderEventPublisher,
	validator CheckoutValidator,
	idGen IDGenerator,
	clock Clock,
	shippingFee decimal.Decimal,
	log *zap.Logger,
) *CheckoutUsecase {
	// sizeが正ならエラーにならない
	states, _ := lru.New(sessions.maxSessions)

	return &CheckoutUsecase{
		sessions:    sessions,
		orders:      orders,
		attempts:    attempts,
		events:      events,
		validator:   validator,
		idGen:       idGen,
		clock:       clock,
		shippingFee: shippingFee,
		log:         log,
		states:      states,
	}
}

type CheckoutSummary struct {
	CartView
	State model.CheckoutState `json:"state"`
}

type CheckoutResult struct {
	Status         model.CheckoutState `json:"status"`
	IdempotencyKey string              `json:"idempotencyKey"`
	ShopID         *int64              `json:"shopId"`
	TotalAmount    decimal.Decimal     `json:"totalAmount"`
	ItemCount      int                 `json:"itemCount"`
}

// Summary はcheckout画面用（カートの合計＋送信状態）。
func (u *CheckoutUsecase) Summary(ctx context.Context, sessionID string) (CheckoutSummary, error) {
	store, err := sessionStore(ctx, u.sessions, sessionID)
	if err != nil {
		return CheckoutSummary{}, err
	}
	return CheckoutSummary{
		CartView: buildCartView(store, u.shippingFee),
		State:    u.State(sessionID),
	}, nil
}

func (u *CheckoutUsecase) State(sessionID string) model.CheckoutState {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.stateLocked(sessionID)
}

// PlaceOrder はカートのスナップショットから注文を作ってバックエンドに送る。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, sessionID string, form model.CheckoutForm) (CheckoutResult, error) {
	if err := u.validator.ValidateCheckout(form); err != nil {
		return CheckoutResult{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	store, err := sessionStore(ctx, u.sessions, sessionID)
	if err != nil {
		return CheckoutResult{}, err
	}

	prev, err := u.begin(sessionID)
	if err != nil {
		return CheckoutResult{}, NewHTTPError(http.StatusConflict, err.Error())
	}
	// 途中でpanicしてもSUBMITTINGのまま残さない
	defer u.failIfSubmitting(sessionID)

	// 送信中はこのスナップショットを使う
	items := store.Items()
	if len(items) == 0 {
		u.setState(sessionID, prev)
		return CheckoutResult{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	shopID, err := resolveShop(items)
	if err != nil {
		u.setState(sessionID, prev)
		return CheckoutResult{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	totals := ComputeTotals(sumItems(items), u.shippingFee)
	order := buildOrderRequest(form, shopID, totals, items)
	key := u.idGen.NewID()
	now := u.clock.Now()

	log := u.log.With(
		zap.String("session_id", sessionID),
		zap.String("idempotency_key", key),
	)

	// 履歴は失敗しても注文は止めない
	if err := u.attempts.Create(ctx, model.CheckoutAttempt{
		SessionID:      sessionID,
		IdempotencyKey: key,
		Status:         model.CheckoutAttemptSubmitting,
		ShopID:         shopID,
		TotalAmount:    totals.Total,
		ItemCount:      len(items),
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		log.Warn("checkout attempt record failed", zap.Error(err))
	}

	if err := u.orders.Place(ctx, order, key); err != nil {
		u.setState(sessionID, model.CheckoutStateFailed)
		u.finishAttempt(ctx, log, key, model.CheckoutAttemptFailed, err.Error())
		log.Error("order placement failed", zap.Error(err))
		return CheckoutResult{}, NewHTTPError(http.StatusBadGateway, "order placement failed")
	}

	// 送ったスナップショットの分だけ消す
	store.RemoveOrdered(ctx, items)
	u.setState(sessionID, model.CheckoutStateSucceeded)
	u.finishAttempt(ctx, log, key, model.CheckoutAttemptSucceeded, "")
	log.Info("order placed",
		zap.Int("item_count", len(items)),
		zap.String("total_amount", totals.Total.String()),
	)

	if u.events != nil {
		evt := model.OrderPlacedEvent{
			IdempotencyKey: key,
			SessionID:      sessionID,
			ShopID:         shopID,
			TotalAmount:    totals.Total,
			ItemCount:      len(items),
			PlacedAt:       now,
		}
		if err := u.events.PublishOrderPlaced(context.WithoutCancel(ctx), evt); err != nil {
			log.Warn("order.placed publish failed", zap.Error(err))
		}
	}

	return CheckoutResult{
		Status:         model.CheckoutStateSucceeded,
		IdempotencyKey: key,
		ShopID:         shopID,
		TotalAmount:    totals.Total,
		ItemCount:      len(items),
	}, nil
}

// ListAttempts は自分のセッションの送信履歴（新しい順）。
func (u *CheckoutUsecase) ListAttempts(ctx context.Context, sessionID string, limit int) ([]model.CheckoutAttempt, error) {
	if sessionID == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "no session")
	}
	if limit < 0 || limit > 200 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	attempts, err := u.attempts.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return attempts, nil
}

// SUBMITTING中は受け付けない。戻せるように直前の状態を返す。
func (u *CheckoutUsecase) begin(sessionID string) (model.CheckoutState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	prev := u.stateLocked(sessionID)
	if prev == model.CheckoutStateSubmitting {
		return prev, ErrCheckoutInProgress
	}
	u.states.Add(sessionID, model.CheckoutStateSubmitting)
	return prev, nil
}

func (u *CheckoutUsecase) setState(sessionID string, st model.CheckoutState) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if st == model.CheckoutStateIdle {
		u.states.Remove(sessionID)
		return
	}
	u.states.Add(sessionID, st)
}

func (u *CheckoutUsecase) failIfSubmitting(sessionID string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.stateLocked(sessionID) == model.CheckoutStateSubmitting {
		u.states.Add(sessionID, model.CheckoutStateFailed)
	}
}

func (u *CheckoutUsecase) stateLocked(sessionID string) model.CheckoutState {
	if v, ok := u.states.Get(sessionID); ok {
		return v.(model.CheckoutState)
	}
	return model.CheckoutStateIdle
}

func (u *CheckoutUsecase) finishAttempt(ctx context.Context, log *zap.Logger, key string, status model.CheckoutAttemptStatus, errMsg string) {
	if err := u.attempts.Finish(context.WithoutCancel(ctx), key, status, errMsg); err != nil {
		log.Warn("checkout attempt update failed", zap.String("status", string(status)), zap.Error(err))
	}
}

// shopIdが1種類（nilも1種類）ならそれ、複数ならエラー
func resolveShop(items []model.CartItem) (*int64, error) {
	shopID := items[0].ShopID
	for _, it := range items[1:] {
		if !model.SameShop(shopID, it.ShopID) {
			return nil, ErrMixedShopCart
		}
	}
	return shopID, nil
}

func buildOrderRequest(form model.CheckoutForm, shopID *int64, totals OrderTotals, items []model.CartItem) model.OrderRequest {
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, model.OrderItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}

	return model.OrderRequest{
		ShopID:        shopID,
		CustomerName:  strings.TrimSpace(form.FirstName) + " " + strings.TrimSpace(form.LastName),
		CustomerEmail: strings.TrimSpace(form.Email),
		Address:       strings.TrimSpace(form.Address) + ", " + strings.TrimSpace(form.City) + ", " + strings.TrimSpace(form.Zip),
		TotalAmount:   totals.Total,
		Items:         orderItems,
	}
}
