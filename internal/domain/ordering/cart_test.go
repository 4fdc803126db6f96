package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddLine(t *testing.T) {
	productID := uuid.New()

	t.Run("adds a new line", func(t *testing.T) {
		cart := NewCart()
		err := cart.AddLine(productID, "ANI-001", "Anillo", valueobject.NewMoneyMXNFromFloat(900), 2)
		require.NoError(t, err)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 2, cart.Lines[0].Quantity)
		assert.False(t, cart.IsEmpty())
	})

	t.Run("merges quantity for the same product and keeps captured price", func(t *testing.T) {
		cart := NewCart()
		require.NoError(t, cart.AddLine(productID, "ANI-001", "Anillo", valueobject.NewMoneyMXNFromFloat(900), 2))
		require.NoError(t, cart.AddLine(productID, "ANI-001", "Anillo", valueobject.NewMoneyMXNFromFloat(950), 1))
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 3, cart.Lines[0].Quantity)
		assert.True(t, cart.Lines[0].UnitPrice.Equal(decimal.NewFromInt(900)))
	})

	t.Run("rejects quantity below 1", func(t *testing.T) {
		cart := NewCart()
		err := cart.AddLine(productID, "ANI-001", "Anillo", valueobject.ZeroMXN(), 0)
		require.Error(t, err)
	})
}

func TestCartUpdateAndRemove(t *testing.T) {
	productID := uuid.New()
	cart := NewCart()
	require.NoError(t, cart.AddLine(productID, "COL-001", "Collar", valueobject.NewMoneyMXNFromFloat(500), 1))

	require.NoError(t, cart.UpdateQuantity(productID, 4))
	assert.Equal(t, 4, cart.Lines[0].Quantity)

	require.Error(t, cart.UpdateQuantity(uuid.New(), 2))
	require.Error(t, cart.UpdateQuantity(productID, 0))

	require.NoError(t, cart.RemoveLine(productID))
	assert.True(t, cart.IsEmpty())
	require.Error(t, cart.RemoveLine(productID))
}

func TestCartTotal(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddLine(uuid.New(), "ANI-001", "Anillo", valueobject.NewMoneyMXNFromFloat(900), 2))
	require.NoError(t, cart.AddLine(uuid.New(), "COL-001", "Collar", valueobject.NewMoneyMXNFromFloat(500.50), 1))

	assert.True(t, cart.Total().Amount().Equal(decimal.NewFromFloat(2300.50)))
	assert.Equal(t, 3, cart.TotalPieces())
}

func TestCartMerge(t *testing.T) {
	shared := uuid.New()

	account := NewCart()
	require.NoError(t, account.AddLine(shared, "ANI-001", "Anillo", valueobject.NewMoneyMXNFromFloat(900), 1))

	anonymous := NewCart()
	require.NoError(t, anonymous.AddLine(shared, "ANI-001", "Anillo", valueobject.NewMoneyMXNFromFloat(950), 2))
	require.NoError(t, anonymous.AddLine(uuid.New(), "ARE-001", "Aretes", valueobject.NewMoneyMXNFromFloat(300), 1))

	account.Merge(anonymous)
	require.Len(t, account.Lines, 2)
	assert.Equal(t, 3, account.Lines[0].Quantity)
	assert.True(t, account.Lines[0].UnitPrice.Equal(decimal.NewFromInt(900)), "account cart price wins")
}
