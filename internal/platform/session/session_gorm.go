package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"marketplace_backend/internal/platform/identity"
)

// SessionModel is the GORM model for the auth_sessions table.
type SessionModel struct {
	ID         string    `gorm:"primaryKey;size:64"`
	IdentityID string    `gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	ExpiresAt  time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (SessionModel) TableName() string {
	return "auth_sessions"
}

// SessionGorm implements identity.SessionStore on the relational store.
// Used when Redis is unavailable.
type SessionGorm struct {
	db *gorm.DB
}

var _ identity.SessionStore = (*SessionGorm)(nil)

// NewSessionGorm creates a new SessionGorm instance.
func NewSessionGorm(db *gorm.DB) *SessionGorm {
	return &SessionGorm{db: db}
}

// Save registers a live session with the given TTL.
func (r *SessionGorm) Save(ctx context.Context, sessionID, identityID string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	m := &SessionModel{
		ID:         sessionID,
		IdentityID: identityID,
		ExpiresAt:  time.Now().Add(ttl),
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// Find returns the identity id for a live session. Expired rows are treated
// as not found; unlike Redis there is no TTL reaper, so expiry is checked on
// read.
func (r *SessionGorm) Find(ctx context.Context, sessionID string) (string, error) {
	var m SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", identity.ErrSessionNotFound
		}
		return "", err
	}
	if time.Now().After(m.ExpiresAt) {
		return "", identity.ErrSessionNotFound
	}
	return m.IdentityID, nil
}

// Revoke deletes the session row. Deleting a missing row is not an error.
func (r *SessionGorm) Revoke(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&SessionModel{}).Error
}
