package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"tmgear/internal/domain/model"
	repo "tmgear/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 1セッション分のカート。
// 明細の変更はこのメソッド経由のみで、変更のたびに全件を保存してから返る。
type CartStore struct {
	mu    sync.Mutex
	kv    repo.KVRepository
	key   string
	items []model.CartItem

	// 直近の保存エラー（成功したらnil）
	persistErr error

	// 読み込みに失敗したカートは保存済みの値を上書きしないよう書き込まない
	loadErr error

	log *zap.Logger
}

var ErrCartNotLoaded = errors.New("cart could not be loaded")

// LoadCartStore は保存済みのカートを読み込む。
// 無い・壊れている場合は空のカートで始める（エラーは返さない）。
// 読み込み自体が失敗した場合も空で始めるが、そのカートは保存しない（LoadErrで判定）。
func LoadCartStore(ctx context.Context, kv repo.KVRepository, key string, log *zap.Logger) *CartStore {
	s := &CartStore{
		kv:    kv,
		key:   key,
		items: []model.CartItem{},
		log:   log,
	}

	// リクエストが切れても読み込みは最後までやる
	raw, err := kv.Get(context.WithoutCancel(ctx), key)
	if errors.Is(err, repo.ErrNotFound) {
		return s
	}
	if err != nil {
		log.Warn("cart load failed, starting empty", zap.String("key", key), zap.Error(err))
		s.loadErr = err
		return s
	}

	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Warn("stored cart is not valid json, starting empty", zap.String("key", key), zap.Error(err))
		return s
	}

	s.items = normalizeItems(items)
	return s
}

// 数量は最低1、同じidは最初の行にまとめる
func normalizeItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, it := range items {
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		if i, ok := index[it.ID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}

// AddToCart は同じ商品なら数量+1（他の項目は更新しない）、無ければ数量1で末尾に追加。
func (s *CartStore) AddToCart(ctx context.Context, item model.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.ID); i >= 0 {
		s.items[i].Quantity++
	} else {
		item.Quantity = 1
		s.items = append(s.items, item)
	}

	s.persist(ctx)
}

// UpdateQuantity は quantity = max(1, quantity+delta)。無いidは何もしない。
func (s *CartStore) UpdateQuantity(ctx context.Context, id int64, delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		newQty := addQuantity(s.items[i].Quantity, delta)
		if newQty < 1 {
			newQty = 1
		}
		s.items[i].Quantity = newQty
	}

	s.persist(ctx)
}

// 明細削除（無ければ何もしない）
func (s *CartStore) RemoveItem(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]model.CartItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept

	s.persist(ctx)
}

// 注文確定後にだけ呼ぶ
func (s *CartStore) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []model.CartItem{}

	s.persist(ctx)
}

// RemoveOrdered は注文済みの数量だけ減らす（送信中に増えた分・追加された行は残す）。
func (s *CartStore) RemoveOrdered(ctx context.Context, ordered []model.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderedQty := make(map[int64]int64, len(ordered))
	for _, it := range ordered {
		orderedQty[it.ID] += it.Quantity
	}

	kept := make([]model.CartItem, 0, len(s.items))
	for _, it := range s.items {
		if q, ok := orderedQty[it.ID]; ok {
			it.Quantity -= q
			if it.Quantity < 1 {
				continue
			}
		}
		kept = append(kept, it)
	}
	s.items = kept

	s.persist(ctx)
}

// 小計（配送料は含まない）
func (s *CartStore) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return sumItems(s.items)
}

// 明細のコピー
func (s *CartStore) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartStore) PersistWarning() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistErr
}

func (s *CartStore) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadErr
}

func (s *CartStore) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// 全件保存。失敗してもメモリ上のカートはそのまま（ログだけ残す）。
// 呼び出し側でlockを持っていること。
func (s *CartStore) persist(ctx context.Context) {
	if s.loadErr != nil {
		s.persistErr = fmt.Errorf("%w: %v", ErrCartNotLoaded, s.loadErr)
		s.log.Warn("cart persist skipped, load had failed", zap.String("key", s.key), zap.Error(s.loadErr))
		return
	}

	data, err := json.Marshal(s.items)
	if err == nil {
		// リクエストが切れても書き込みは最後までやる
		err = s.kv.Set(context.WithoutCancel(ctx), s.key, string(data))
	}

	if err != nil {
		s.log.Warn("cart persist failed", zap.String("key", s.key), zap.Error(err))
	}
	s.persistErr = err
}

// MaxInt64で頭打ち
func addQuantity(qty, delta int64) int64 {
	if delta > 0 && qty > math.MaxInt64-delta {
		return math.MaxInt64
	}
	return qty + delta
}

func sumItems(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
