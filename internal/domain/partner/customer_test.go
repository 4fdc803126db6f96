package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("creates customer with valid inputs", func(t *testing.T) {
		customer, err := NewCustomer("Maria Lopez", "maria@example.com")
		require.NoError(t, err)
		require.NotNil(t, customer)

		assert.Equal(t, "Maria Lopez", customer.Name)
		assert.Equal(t, "maria@example.com", customer.Email)
		assert.Equal(t, CustomerStatusActive, customer.Status)
		assert.Nil(t, customer.UserID)
		assert.Nil(t, customer.BranchID)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCustomer("", "maria@example.com")
		require.Error(t, err)
	})
}

func TestCustomerProfile(t *testing.T) {
	newCustomer := func(t *testing.T) *Customer {
		customer, err := NewCustomer("Juan Perez", "juan@example.com")
		require.NoError(t, err)
		return customer
	}

	t.Run("reports all missing fields on a fresh customer", func(t *testing.T) {
		customer := newCustomer(t)
		assert.False(t, customer.IsProfileComplete())
		assert.Equal(t, []string{ProfileFieldRFC, ProfileFieldAddress, ProfileFieldPhone}, customer.MissingProfileFields())
	})

	t.Run("complete profile reports no missing fields", func(t *testing.T) {
		customer := newCustomer(t)
		err := customer.UpdateProfile("PEPJ800101AB1", "Av. Reforma 100, CDMX", "5512345678")
		require.NoError(t, err)
		assert.True(t, customer.IsProfileComplete())
		assert.Empty(t, customer.MissingProfileFields())
	})

	t.Run("reports first missing field in stable order", func(t *testing.T) {
		customer := newCustomer(t)
		err := customer.UpdateProfile("PEPJ800101AB1", "", "5512345678")
		require.NoError(t, err)
		missing := customer.MissingProfileFields()
		require.Len(t, missing, 1)
		assert.Equal(t, ProfileFieldAddress, missing[0])
	})

	t.Run("rejects malformed RFC", func(t *testing.T) {
		customer := newCustomer(t)
		err := customer.UpdateProfile("NOT-AN-RFC", "Av. Reforma 100", "5512345678")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RFC")
	})

	t.Run("uppercases RFC", func(t *testing.T) {
		customer := newCustomer(t)
		err := customer.UpdateProfile("pepj800101ab1", "Av. Reforma 100", "5512345678")
		require.NoError(t, err)
		assert.Equal(t, "PEPJ800101AB1", customer.RFC)
	})
}

func TestCustomerAssignments(t *testing.T) {
	customer, err := NewCustomer("Ana Ruiz", "ana@example.com")
	require.NoError(t, err)

	userID := uuid.New()
	customer.LinkUser(userID)
	require.NotNil(t, customer.UserID)
	assert.Equal(t, userID, *customer.UserID)

	branchID := uuid.New()
	customer.AssignBranch(branchID)
	require.NotNil(t, customer.BranchID)
	assert.Equal(t, branchID, *customer.BranchID)

	levelID := uuid.New()
	customer.AssignLevel(levelID)
	require.NotNil(t, customer.LevelID)
	assert.Equal(t, levelID, *customer.LevelID)
}

func TestNewCustomerLevel(t *testing.T) {
	t.Run("creates level with discount", func(t *testing.T) {
		level, err := NewCustomerLevel("mayorista", decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, "mayorista", level.Name)
		assert.True(t, level.DiscountPct.Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects discount above 100", func(t *testing.T) {
		_, err := NewCustomerLevel("mayorista", decimal.NewFromInt(120))
		require.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCustomerLevel("", decimal.Zero)
		require.Error(t, err)
	})
}

func TestNewBranch(t *testing.T) {
	t.Run("creates branch and uppercases code", func(t *testing.T) {
		branch, err := NewBranch("suc-centro", "Sucursal Centro")
		require.NoError(t, err)
		assert.Equal(t, "SUC-CENTRO", branch.Code)
		assert.True(t, branch.IsActive())
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewBranch("", "Sucursal Centro")
		require.Error(t, err)
	})
}
