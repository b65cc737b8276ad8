// Package session provides identity.SessionStore implementations.
// Redis is preferred; a GORM-backed store exists as a fallback for
// deployments without Redis (selected in app/di).
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace_backend/internal/platform/identity"
)

// SessionRedis implements identity.SessionStore using Redis.
// Expiration is handled entirely by Redis TTLs.
type SessionRedis struct {
	client *redis.Client
	prefix string
}

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	return &SessionRedis{
		client: client,
		prefix: prefix,
	}
}

// sessionKey returns the Redis key for a session.
func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

// Save registers a live session with the given TTL.
func (r *SessionRedis) Save(ctx context.Context, sessionID, identityID string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	return r.client.Set(ctx, r.sessionKey(sessionID), identityID, ttl).Err()
}

// Find returns the identity id for a live session.
func (r *SessionRedis) Find(ctx context.Context, sessionID string) (string, error) {
	identityID, err := r.client.Get(ctx, r.sessionKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", identity.ErrSessionNotFound
		}
		return "", err
	}
	return identityID, nil
}

// Revoke deletes the session key. Deleting a missing key is not an error.
func (r *SessionRedis) Revoke(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.sessionKey(sessionID)).Err()
}
