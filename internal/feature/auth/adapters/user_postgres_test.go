package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"marketplace_backend/internal/feature/auth/domain/entity"
	"marketplace_backend/internal/feature/auth/usecase"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを構築します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}))
	return db
}

func testUser(id, email string) *entity.User {
	return &entity.User{
		ID:    id,
		Name:  "Taro",
		Phone: "090-0000-0000",
		Email: email,
		Role:  entity.RoleSeller,
	}
}

func TestUserPostgres_Create(t *testing.T) {
	t.Run("inserts a profile row", func(t *testing.T) {
		repo := NewUserPostgres(setupTestDB(t))

		err := repo.Create(context.Background(), testUser("11111111-1111-1111-1111-111111111111", "taro@example.com"))

		require.NoError(t, err)
	})

	t.Run("duplicate email maps to ErrEmailAlreadyRegistered", func(t *testing.T) {
		repo := NewUserPostgres(setupTestDB(t))
		require.NoError(t, repo.Create(context.Background(), testUser("11111111-1111-1111-1111-111111111111", "taro@example.com")))

		err := repo.Create(context.Background(), testUser("22222222-2222-2222-2222-222222222222", "taro@example.com"))

		assert.ErrorIs(t, err, usecase.ErrEmailAlreadyRegistered)
	})
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	repo := NewUserPostgres(setupTestDB(t))
	require.NoError(t, repo.Create(context.Background(), testUser("11111111-1111-1111-1111-111111111111", "taro@example.com")))

	t.Run("found", func(t *testing.T) {
		u, err := repo.FindByEmail(context.Background(), "taro@example.com")

		require.NoError(t, err)
		assert.Equal(t, "11111111-1111-1111-1111-111111111111", u.ID)
		assert.Equal(t, entity.RoleSeller, u.Role)
	})

	t.Run("missing maps to ErrUserNotFound", func(t *testing.T) {
		_, err := repo.FindByEmail(context.Background(), "nobody@example.com")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}

func TestUserPostgres_FindByID(t *testing.T) {
	repo := NewUserPostgres(setupTestDB(t))
	require.NoError(t, repo.Create(context.Background(), testUser("11111111-1111-1111-1111-111111111111", "taro@example.com")))

	t.Run("found", func(t *testing.T) {
		u, err := repo.FindByID(context.Background(), "11111111-1111-1111-1111-111111111111")

		require.NoError(t, err)
		assert.Equal(t, "taro@example.com", u.Email)
	})

	t.Run("missing maps to ErrUserNotFound", func(t *testing.T) {
		_, err := repo.FindByID(context.Background(), "99999999-9999-9999-9999-999999999999")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}
