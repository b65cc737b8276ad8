package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"marketplace_backend/internal/app/di"
	"marketplace_backend/internal/app/router"
	authadapters "marketplace_backend/internal/feature/auth/adapters"
	authhandler "marketplace_backend/internal/feature/auth/transport/handler"
	authusecase "marketplace_backend/internal/feature/auth/usecase"
	productadapters "marketplace_backend/internal/feature/products/adapters"
	producthandler "marketplace_backend/internal/feature/products/transport/handler"
	productusecase "marketplace_backend/internal/feature/products/usecase"
	infradb "marketplace_backend/internal/platform/db"
	"marketplace_backend/internal/platform/identity"
	"marketplace_backend/internal/platform/metrics"
	infraredis "marketplace_backend/internal/platform/redis"
	"marketplace_backend/internal/platform/storage"
	"marketplace_backend/internal/shared/ratelimiter"
)

func main() {
	// db
	db := infradb.OpenDB()

	// Redis（セッションストア用。無い場合はDBへフォールバック）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Falling back to DB-backed sessions.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// Identity provider
	sessions := di.NewSessionStore(rdb, db)
	provider := identity.NewProvider(db, sessions, secret, 24*time.Hour)

	// Blob storage
	uploadDir := envOr("UPLOAD_DIR", "./uploads")
	publicBaseURL := envOr("PUBLIC_BASE_URL", "http://localhost:5000/uploads")
	blobStore := storage.NewLocalStore(afero.NewOsFs(), uploadDir, publicBaseURL)

	// Repository / Adapter
	userRepo := authadapters.NewUserPostgres(db)
	providerAdapter := authadapters.NewIdentityProvider(provider)
	productRepo := productadapters.NewProductPostgres(db)
	imageStore := productadapters.NewImageStore(blobStore)

	// Usecase
	authUC := authusecase.NewAuthUsecase(providerAdapter, userRepo)
	productUC := productusecase.NewProductUsecase(productRepo, imageStore)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	productH := producthandler.NewProductHandler(productUC)

	// Metrics / Rate limit
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	// 認証エンドポイントはIPあたり毎分20リクエストまで
	limiter := ratelimiter.NewClientLimiter(rate.Limit(20.0/60.0), 20)

	// CORS許可オリジン
	origins := strings.Split(envOr("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"), ",")

	// ルータ生成
	r := router.NewRouter(authH, productH, provider, limiter, collector, registry, origins)

	port := envOr("PORT", "5000")
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// envOr は環境変数の値、未設定ならデフォルト値を返します。
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
