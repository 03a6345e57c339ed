// Package cache はリポジトリインターフェースのキャッシュ実装を提供します。
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"loyalty_backend/internal/feature/presence/usecase"
)

// DefaultGuestTTL は来店ゲスト一覧のキャッシュ保持期間の既定値です。
const DefaultGuestTTL = time.Minute

// CachingGuestDirectory は GuestDirectory を Redis キャッシュで包むデコレーターです。
// エントリは ttl で失効し、明示的な無効化は行いません。
type CachingGuestDirectory struct {
	inner     usecase.GuestDirectory
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingGuestDirectory が GuestDirectory を実装していることをコンパイル時に検証します。
var _ usecase.GuestDirectory = (*CachingGuestDirectory)(nil)

// NewCachingGuestDirectory は inner を Redis キャッシュで包みます。
// ttl が 0 の場合は DefaultGuestTTL、namespace が空の場合は "guests" を使います。
func NewCachingGuestDirectory(rdb *redis.Client, ttl time.Duration, inner usecase.GuestDirectory, namespace string) *CachingGuestDirectory {
	if ttl <= 0 {
		ttl = DefaultGuestTTL
	}
	if namespace == "" {
		namespace = "guests"
	}
	return &CachingGuestDirectory{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ListVenueGuestIDs はキャッシュを先に確認し、店舗ゲストの ID 一覧を返します。
func (c *CachingGuestDirectory) ListVenueGuestIDs(ctx context.Context) ([]string, error) {
	// Redis 未設定ならキャッシュを使わない
	if c.rdb == nil {
		return c.inner.ListVenueGuestIDs(ctx)
	}

	key := c.cacheKey()

	// 1) キャッシュ確認
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var ids []string
		if err := json.Unmarshal(b, &ids); err == nil {
			return ids, nil
		}
		// 壊れたエントリは削除
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) DB にフォールバック
	ids, err := c.inner.ListVenueGuestIDs(ctx)
	if err != nil {
		return nil, err
	}

	// 3) キャッシュ保存（ベストエフォート）
	if ids == nil {
		ids = []string{}
	}
	if b, err := json.Marshal(ids); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return ids, nil
}

func (c *CachingGuestDirectory) cacheKey() string {
	return c.namespace + ":venue_guest_ids"
}
