package usecase

import (
	"context"
	"errors"

	repo "tmgear/internal/repository"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrNoSession = errors.New("no cart session")

// メモリに持つセッション数の既定値
const DefaultMaxSessions = 10000

// セッションごとのCartStore。
// 各セッションの読み込みは1回だけ（同時の初回アクセスは1回の読み込みを共有）。
// 保持数はmaxSessionsまでで、古いものから捨てる（次のアクセスで保存先から読み直す）。
type CartSessions struct {
	kv          repo.KVRepository
	keyPrefix   string
	maxSessions int
	log         *zap.Logger

	stores *lru.Cache
	group  singleflight.Group
}

func NewCartSessions(kv repo.KVRepository, keyPrefix string, maxSessions int, log *zap.Logger) *CartSessions {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	// sizeが正ならエラーにならない
	stores, _ := lru.New(maxSessions)

	return &CartSessions{
		kv:          kv,
		keyPrefix:   keyPrefix,
		maxSessions: maxSessions,
		log:         log,
		stores:      stores,
	}
}

// 保存キー（他の保存値と混ざらないようprefix付き）
func (s *CartSessions) StorageKey(sessionID string) string {
	return s.keyPrefix + ":" + sessionID
}

// Get はセッションのCartStoreを返す。
// 読み込みに失敗したカートはキャッシュしない（次のリクエストで読み直す）。
func (s *CartSessions) Get(ctx context.Context, sessionID string) (*CartStore, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	if st, ok := s.cached(sessionID); ok {
		return st, nil
	}

	v, err, _ := s.group.Do(sessionID, func() (interface{}, error) {
		if st, ok := s.cached(sessionID); ok {
			return st, nil
		}

		st := LoadCartStore(ctx, s.kv, s.StorageKey(sessionID), s.log.With(zap.String("session_id", sessionID)))
		if st.LoadErr() == nil {
			s.stores.Add(sessionID, st)
		}
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CartStore), nil
}

// Len はメモリに持っているセッション数。
func (s *CartSessions) Len() int {
	return s.stores.Len()
}

func (s *CartSessions) cached(sessionID string) (*CartStore, bool) {
	v, ok := s.stores.Get(sessionID)
	if !ok {
		return nil, false
	}
	return v.(*CartStore), true
}
