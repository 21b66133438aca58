package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("creates active customer", func(t *testing.T) {
		customer, err := NewCustomer(tenantID, userID, "Jane", "Doe")
		require.NoError(t, err)

		assert.Equal(t, tenantID, customer.TenantID)
		assert.Equal(t, "Jane", customer.FirstName)
		assert.Equal(t, "Doe", customer.LastName)
		assert.Equal(t, CustomerStatusActive, customer.Status)
		assert.Equal(t, "Jane Doe", customer.FullName())
	})

	t.Run("last name is optional", func(t *testing.T) {
		customer, err := NewCustomer(tenantID, userID, "Jane", "")
		require.NoError(t, err)
		assert.Equal(t, "Jane", customer.FullName())
	})

	t.Run("fails with empty first name", func(t *testing.T) {
		_, err := NewCustomer(tenantID, userID, "", "Doe")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})
}

func TestCustomerContact(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	newCustomer := func(t *testing.T) *Customer {
		c, err := NewCustomer(tenantID, userID, "Jane", "Doe")
		require.NoError(t, err)
		return c
	}

	t.Run("sets valid contact info", func(t *testing.T) {
		c := newCustomer(t)
		require.NoError(t, c.SetContact("jane@example.com", "+1 555 0100"))
		assert.Equal(t, "jane@example.com", c.Email)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		c := newCustomer(t)
		require.Error(t, c.SetContact("not-an-email", ""))
	})

	t.Run("rejects malformed phone", func(t *testing.T) {
		c := newCustomer(t)
		require.Error(t, c.SetContact("", "abc"))
	})
}

func TestCustomerStatus(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("deactivate then reactivate", func(t *testing.T) {
		c, err := NewCustomer(tenantID, userID, "Jane", "Doe")
		require.NoError(t, err)

		require.NoError(t, c.Deactivate())
		assert.False(t, c.IsActive())

		require.NoError(t, c.Activate())
		assert.True(t, c.IsActive())
	})

	t.Run("cannot deactivate twice", func(t *testing.T) {
		c, err := NewCustomer(tenantID, userID, "Jane", "Doe")
		require.NoError(t, err)

		require.NoError(t, c.Deactivate())
		require.Error(t, c.Deactivate())
	})
}
