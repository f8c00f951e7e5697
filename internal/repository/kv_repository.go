package repository

import "context"

// 永続KVストアの約束（ブラウザのlocalStorage相当）。
// Getはキーが無ければ ErrNotFound を返す。
type KVRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}
