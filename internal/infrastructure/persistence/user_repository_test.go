package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, tenantID uuid.UUID, email string, role identity.UserRole) *identity.User {
	t.Helper()

	user, err := identity.NewUser(tenantID, email, "password123", role)
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestGormUserRepositoryFind(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)

	tenantID := uuid.New()
	user := seedUser(t, db, tenantID, "owner@example.com", identity.RoleAdmin)

	t.Run("find by id within tenant", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", found.Email)
	})

	t.Run("tenant scoping hides foreign users", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), user.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("email lookup spans tenants and ignores case", func(t *testing.T) {
		// Login happens before the tenant is known, so the lookup is
		// global.
		found, err := repo.FindByEmail(ctx, "OWNER@Example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormUserRepositoryExistsByEmail(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)

	seedUser(t, db, uuid.New(), "owner@example.com", identity.RoleAdmin)

	exists, err := repo.ExistsByEmail(ctx, "Owner@Example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "other@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormUserRepositoryList(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)

	tenantID := uuid.New()
	seedUser(t, db, tenantID, "owner@example.com", identity.RoleAdmin)
	seedUser(t, db, tenantID, "helper@example.com", identity.RoleAssistant)
	seedUser(t, db, uuid.New(), "stranger@example.com", identity.RoleAdmin)

	users, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	filter := shared.DefaultFilter()
	filter.Search = "helper"
	users, err = repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "helper@example.com", users[0].Email)
}
