package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace_backend/internal/platform/identity"
)

// setupRedis はテスト用のminiredisとそれに接続するストアを構築します。
func setupRedis(t *testing.T) (*miniredis.Miniredis, *SessionRedis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewSessionRedis(client, "session")
}

func TestSessionRedis_SaveAndFind(t *testing.T) {
	t.Run("saved session resolves to its identity", func(t *testing.T) {
		_, store := setupRedis(t)

		require.NoError(t, store.Save(context.Background(), "sid-1", "id-1", time.Hour))

		got, err := store.Find(context.Background(), "sid-1")
		require.NoError(t, err)
		assert.Equal(t, "id-1", got)
	})

	t.Run("non-positive ttl is rejected", func(t *testing.T) {
		_, store := setupRedis(t)

		assert.Error(t, store.Save(context.Background(), "sid-1", "id-1", 0))
	})

	t.Run("expired session is not found", func(t *testing.T) {
		mr, store := setupRedis(t)
		require.NoError(t, store.Save(context.Background(), "sid-1", "id-1", time.Minute))

		mr.FastForward(2 * time.Minute)

		_, err := store.Find(context.Background(), "sid-1")
		assert.ErrorIs(t, err, identity.ErrSessionNotFound)
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		_, store := setupRedis(t)

		_, err := store.Find(context.Background(), "sid-missing")

		assert.ErrorIs(t, err, identity.ErrSessionNotFound)
	})
}

func TestSessionRedis_Revoke(t *testing.T) {
	t.Run("revoked session is not found", func(t *testing.T) {
		_, store := setupRedis(t)
		require.NoError(t, store.Save(context.Background(), "sid-1", "id-1", time.Hour))

		require.NoError(t, store.Revoke(context.Background(), "sid-1"))

		_, err := store.Find(context.Background(), "sid-1")
		assert.ErrorIs(t, err, identity.ErrSessionNotFound)
	})

	t.Run("revoking an unknown session is not an error", func(t *testing.T) {
		_, store := setupRedis(t)

		assert.NoError(t, store.Revoke(context.Background(), "sid-missing"))
	})
}

func TestSessionRedis_FindConnectionError(t *testing.T) {
	// redis.Nil以外のエラーはそのまま呼び出し側へ伝播する
	client, mock := redismock.NewClientMock()
	store := NewSessionRedis(client, "session")

	mock.ExpectGet("session:sid-1").SetErr(errors.New("connection refused"))

	_, err := store.Find(context.Background(), "sid-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, identity.ErrSessionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
