// Package ratelimiter は Redis の固定ウィンドウ方式によるリクエスト頻度制限を提供します。
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Limiter は、キーごとに操作の頻度を制限するインターフェースです。
type Limiter interface {
	// Allow は操作を許可するかと、拒否した場合の再試行までの時間を返します。
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// RedisLimiter は window ごとに limit 回までを許可します。
// カウンタは Redis に置くため、複数インスタンス間で共有されます。
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisLimiter は新しい RedisLimiter のインスタンスを生成します。
func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (l *RedisLimiter) key(k string) string {
	return fmt.Sprintf("%s:%s", l.prefix, k)
}

// Allow はカウンタを進め、上限を超えていれば残り時間とともに false を返します。
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := l.key(key)
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, err
	}
	// ウィンドウの最初のリクエストで有効期限を設定
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, 0, err
		}
	}
	if count <= int64(l.limit) {
		return true, 0, nil
	}

	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// Middleware はクライアント IP ごとに頻度を制限する Gin ミドルウェアを返します。
// Redis が使えない場合はリクエストを通します（フェイルオープン）。
func Middleware(l Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := l.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			slog.Warn("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}
		if !allowed {
			slog.Warn("rate limit exceeded", "scope", scope, "remote_addr", c.ClientIP())
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
