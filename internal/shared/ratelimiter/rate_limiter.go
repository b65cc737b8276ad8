// Package ratelimiter は認証エンドポイントの総当たり対策として
// クライアント単位のレート制限を提供します。
package ratelimiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"marketplace_backend/internal/api"
)

// staleAfter はこの期間アクセスの無いクライアントエントリを破棄します。
const staleAfter = 10 * time.Minute

// clientEntry はクライアント1件分のリミッターと最終アクセス時刻です。
type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter はキー（クライアントIP）ごとのトークンバケットを管理します。
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	rate    rate.Limit
	burst   int
}

// NewClientLimiter は新しいClientLimiterのインスタンスを生成します。
// r は秒あたりの補充レート、burst はバーストサイズです。
func NewClientLimiter(r rate.Limit, burst int) *ClientLimiter {
	return &ClientLimiter{
		clients: make(map[string]*clientEntry),
		rate:    r,
		burst:   burst,
	}
}

// Allow はキーのリクエストを許可するか判定します。
// 併せて古いエントリを破棄し、マップの無制限な成長を防ぎます。
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for k, e := range l.clients {
		if now.Sub(e.lastSeen) > staleAfter {
			delete(l.clients, k)
		}
	}

	e, ok := l.clients[key]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[key] = e
	}
	e.lastSeen = now
	return e.limiter.Allow()
}

// Middleware はクライアントIP単位でレート制限するGinミドルウェアを返します。
// 上限超過時は429を返します。
func (l *ClientLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.Fail("Too many requests. Please try again later."))
			return
		}
		c.Next()
	}
}
