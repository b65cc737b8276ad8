// Package router はアプリケーションのHTTPルートを構成します。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	authhandler "marketplace_backend/internal/feature/auth/transport/handler"
	producthandler "marketplace_backend/internal/feature/products/transport/handler"
	"marketplace_backend/internal/platform/http/handler"
	"marketplace_backend/internal/platform/identity"
	"marketplace_backend/internal/platform/metrics"
	"marketplace_backend/internal/shared/ratelimiter"
)

// NewRouter はルーターを生成します。クロスオリジンアクセスは明示的な
// オリジン許可リストに制限します（資格情報付き）。
func NewRouter(
	authHandler *authhandler.AuthHandler,
	productHandler *producthandler.ProductHandler,
	verifier identity.TokenVerifier,
	limiter *ratelimiter.ClientLimiter,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.Default()

	r.Use(collector.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 認証不要
	// 導通確認用
	r.GET("/api/health", handler.Health)
	// Prometheusスクレイプ用
	r.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))

	// 認証エンドポイント（総当たり対策のレート制限付き）
	auth := r.Group("/api/auth")
	auth.Use(limiter.Middleware())
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	// 商品の閲覧は認証不要
	products := r.Group("/api/products")
	{
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.Get)
	}

	// 商品の作成・更新・削除は認証必須
	// identity.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーにBearerトークンが必要になる
	protected := r.Group("/api/products")
	protected.Use(identity.AuthRequired(verifier))
	{
		protected.POST("", productHandler.Create)
		protected.PUT("/:id", productHandler.Update)
		protected.DELETE("/:id", productHandler.Delete)
	}

	return r
}
