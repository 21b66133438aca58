package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBusinessService(t *testing.T) (*BusinessService, *identity.Business) {
	t.Helper()
	repo := newFakeBusinessRepo()
	business, err := identity.NewBusiness("Acme Store")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), business))
	return NewBusinessService(repo, zap.NewNop()), business
}

func TestBusinessServiceGet(t *testing.T) {
	ctx := context.Background()
	svc, business := newTestBusinessService(t)

	resp, err := svc.Get(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Store", resp.Name)

	_, err = svc.Get(ctx, uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestBusinessServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, business := newTestBusinessService(t)

	resp, err := svc.Update(ctx, business.ID, UpdateBusinessRequest{
		Name:    "Acme Superstore",
		Phone:   "+34 911 000 000",
		Email:   "hello@acme.test",
		Address: "Calle Mayor 1, Madrid",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Superstore", resp.Name)
	assert.Equal(t, "hello@acme.test", resp.Email)
	assert.Equal(t, "Calle Mayor 1, Madrid", resp.Address)
}
