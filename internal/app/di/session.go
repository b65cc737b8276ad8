package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"marketplace_backend/internal/platform/identity"
	"marketplace_backend/internal/platform/session"
)

// NewSessionStore creates a SessionStore implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the relational store.
func NewSessionStore(rdb *redis.Client, db *gorm.DB) identity.SessionStore {
	if rdb != nil {
		return session.NewSessionRedis(rdb, "session")
	}
	return session.NewSessionGorm(db)
}
