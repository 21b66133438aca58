package partner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/commerce/backend/internal/domain/partner"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*partner.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (f *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.customers[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCustomerRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.customers[id]; ok && c.TenantID == tenantID {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCustomerRepo) FindByEmail(_ context.Context, tenantID uuid.UUID, email string) (*partner.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.TenantID == tenantID && strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCustomerRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]partner.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []partner.Customer
	for _, c := range f.customers {
		if c.TenantID == tenantID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (f *fakeCustomerRepo) Save(_ context.Context, customer *partner.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.customers[id]; ok && c.TenantID == tenantID {
		delete(f.customers, id)
		return nil
	}
	return shared.ErrNotFound
}

func (f *fakeCustomerRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.customers {
		if c.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func newTestCustomerService() *CustomerService {
	return NewCustomerService(newFakeCustomerRepo(), zap.NewNop())
}

func TestCustomerServiceCreate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("creates an active customer with contact info", func(t *testing.T) {
		svc := newTestCustomerService()

		resp, err := svc.Create(ctx, tenantID, userID, CreateCustomerRequest{
			FirstName: "Maria",
			LastName:  "Lopez",
			Email:     "maria@example.com",
			Phone:     "+5215512345678",
		})
		require.NoError(t, err)

		assert.Equal(t, "Maria Lopez", resp.FullName)
		assert.Equal(t, "maria@example.com", resp.Email)
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("rejects duplicate email within tenant", func(t *testing.T) {
		svc := newTestCustomerService()

		_, err := svc.Create(ctx, tenantID, userID, CreateCustomerRequest{
			FirstName: "Maria", Email: "maria@example.com",
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, tenantID, userID, CreateCustomerRequest{
			FirstName: "Other", Email: "maria@example.com",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})

	t.Run("same email in another tenant is allowed", func(t *testing.T) {
		svc := newTestCustomerService()

		_, err := svc.Create(ctx, tenantID, userID, CreateCustomerRequest{
			FirstName: "Maria", Email: "maria@example.com",
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, uuid.New(), userID, CreateCustomerRequest{
			FirstName: "Maria", Email: "maria@example.com",
		})
		require.NoError(t, err)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		svc := newTestCustomerService()

		_, err := svc.Create(ctx, tenantID, userID, CreateCustomerRequest{
			FirstName: "Maria", Email: "not-an-email",
		})
		require.Error(t, err)
	})
}

func TestCustomerServiceUpdate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	svc := newTestCustomerService()
	created, err := svc.Create(ctx, tenantID, userID, CreateCustomerRequest{
		FirstName: "Maria", LastName: "Lopez",
	})
	require.NoError(t, err)

	t.Run("updates fields", func(t *testing.T) {
		resp, err := svc.Update(ctx, tenantID, created.ID, UpdateCustomerRequest{
			FirstName: "Maria",
			LastName:  "Garcia",
			Email:     "maria.garcia@example.com",
			Notes:     "prefers pickup",
		})
		require.NoError(t, err)
		assert.Equal(t, "Maria Garcia", resp.FullName)
		assert.Equal(t, "prefers pickup", resp.Notes)
	})

	t.Run("update is tenant scoped", func(t *testing.T) {
		_, err := svc.Update(ctx, uuid.New(), created.ID, UpdateCustomerRequest{FirstName: "X"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestCustomerServiceStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	svc := newTestCustomerService()
	created, err := svc.Create(ctx, tenantID, userID, CreateCustomerRequest{FirstName: "Maria"})
	require.NoError(t, err)

	resp, err := svc.Deactivate(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)

	_, err = svc.Deactivate(ctx, tenantID, created.ID)
	require.Error(t, err, "deactivating twice fails")

	resp, err = svc.Activate(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)

	require.NoError(t, svc.Delete(ctx, tenantID, created.ID))
	_, err = svc.GetByID(ctx, tenantID, created.ID)
	require.Error(t, err)
}

func TestCustomerServiceList(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	svc := newTestCustomerService()
	for _, name := range []string{"Ana", "Berta", "Carla"} {
		_, err := svc.Create(ctx, tenantID, userID, CreateCustomerRequest{FirstName: name})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, uuid.New(), userID, CreateCustomerRequest{FirstName: "Zoe"})
	require.NoError(t, err)

	customers, total, err := svc.List(ctx, tenantID, CustomerListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, customers, 3)
}
