package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"marketplace_backend/internal/platform/identity"
	"marketplace_backend/internal/platform/session"
)

func setupProvider(t *testing.T) *identity.Provider {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&identity.Credential{}, &session.SessionModel{}))
	return identity.NewProvider(db, session.NewSessionGorm(db), "test-secret", time.Hour)
}

func testMeta() identity.Metadata {
	return identity.Metadata{Name: "Taro", Phone: "090-0000-0000", Role: "seller"}
}

func TestProvider_SignUp(t *testing.T) {
	t.Run("creates a credential and issues a verifiable session", func(t *testing.T) {
		p := setupProvider(t)

		ident, sess, err := p.SignUp(context.Background(), "taro@example.com", "password123", testMeta())

		require.NoError(t, err)
		assert.NotEmpty(t, ident.ID)
		assert.Equal(t, "taro@example.com", ident.Email)
		assert.Equal(t, "bearer", sess.TokenType)
		assert.Greater(t, sess.ExpiresAt, time.Now().Unix())

		got, err := p.Verify(context.Background(), sess.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, ident.ID, got.ID)
	})

	t.Run("short password fails the policy", func(t *testing.T) {
		p := setupProvider(t)

		_, _, err := p.SignUp(context.Background(), "taro@example.com", "12345", testMeta())

		assert.ErrorIs(t, err, identity.ErrWeakPassword)
	})

	t.Run("duplicate email maps to ErrAlreadyRegistered", func(t *testing.T) {
		p := setupProvider(t)
		_, _, err := p.SignUp(context.Background(), "taro@example.com", "password123", testMeta())
		require.NoError(t, err)

		_, _, err = p.SignUp(context.Background(), "taro@example.com", "password456", testMeta())

		assert.ErrorIs(t, err, identity.ErrAlreadyRegistered)
	})
}

func TestProvider_SignIn(t *testing.T) {
	p := setupProvider(t)
	_, _, err := p.SignUp(context.Background(), "taro@example.com", "password123", testMeta())
	require.NoError(t, err)

	t.Run("correct credentials issue a fresh session", func(t *testing.T) {
		ident, sess, err := p.SignIn(context.Background(), "taro@example.com", "password123")

		require.NoError(t, err)
		assert.Equal(t, "taro@example.com", ident.Email)

		got, err := p.Verify(context.Background(), sess.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, ident.ID, got.ID)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, _, err := p.SignIn(context.Background(), "taro@example.com", "wrong-password")

		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})

	t.Run("unknown email is rejected with the same error", func(t *testing.T) {
		_, _, err := p.SignIn(context.Background(), "nobody@example.com", "password123")

		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})
}

func TestProvider_SignOut(t *testing.T) {
	t.Run("revokes the session behind the token", func(t *testing.T) {
		p := setupProvider(t)
		_, sess, err := p.SignUp(context.Background(), "taro@example.com", "password123", testMeta())
		require.NoError(t, err)

		require.NoError(t, p.SignOut(context.Background(), sess.AccessToken))

		_, err = p.Verify(context.Background(), sess.AccessToken)
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("empty token is a no-op", func(t *testing.T) {
		p := setupProvider(t)

		assert.NoError(t, p.SignOut(context.Background(), ""))
	})

	t.Run("garbage token fails verification", func(t *testing.T) {
		p := setupProvider(t)

		err := p.SignOut(context.Background(), "not-a-jwt")

		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})
}

func TestProvider_Verify(t *testing.T) {
	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		p := setupProvider(t)

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		require.NoError(t, err)
		require.NoError(t, db.AutoMigrate(&identity.Credential{}, &session.SessionModel{}))
		forged := identity.NewProvider(db, session.NewSessionGorm(db), "other-secret", time.Hour)

		_, sess, err := forged.SignUp(context.Background(), "taro@example.com", "password123", testMeta())
		require.NoError(t, err)

		_, err = p.Verify(context.Background(), sess.AccessToken)
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		p := setupProvider(t)

		_, err := p.Verify(context.Background(), "not-a-jwt")

		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})
}

func TestProvider_DeleteIdentity(t *testing.T) {
	t.Run("removes the credential", func(t *testing.T) {
		p := setupProvider(t)
		ident, _, err := p.SignUp(context.Background(), "taro@example.com", "password123", testMeta())
		require.NoError(t, err)

		require.NoError(t, p.DeleteIdentity(context.Background(), ident.ID))

		// The email becomes available again
		_, _, err = p.SignUp(context.Background(), "taro@example.com", "password123", testMeta())
		assert.NoError(t, err)
	})

	t.Run("unknown id maps to ErrIdentityNotFound", func(t *testing.T) {
		p := setupProvider(t)

		err := p.DeleteIdentity(context.Background(), "99999999-9999-9999-9999-999999999999")

		assert.ErrorIs(t, err, identity.ErrIdentityNotFound)
	})
}
