package ordering

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/catalog"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/joyeria/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cartFixture struct {
	service  *CartService
	carts    *MockCartStore
	products *MockProductRepository
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		carts:    new(MockCartStore),
		products: new(MockProductRepository),
	}
	f.service = NewCartService(f.carts, f.products, zap.NewNop())
	return f
}

func catalogProduct(t *testing.T, sku, name string, price int64, discountPct int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sku, name, "ANILLOS", valueobject.NewMoneyMXN(decimal.NewFromInt(price)))
	require.NoError(t, err)
	if discountPct > 0 {
		require.NoError(t, product.SetDiscount(decimal.NewFromInt(discountPct)))
	}
	return product
}

func TestCartService_AddLine(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("should capture the discounted catalog price", func(t *testing.T) {
		f := newCartFixture()
		ring := catalogProduct(t, "ANI-001", "Anillo oro 14k", 1000, 10)

		f.products.On("FindByID", ctx, ring.ID).Return(ring, nil)
		f.carts.On("Get", ctx, userID).Return(ordering.NewCart(), nil)
		f.carts.On("Save", ctx, userID, mock.AnythingOfType("ordering.Cart")).Return(nil)

		result, err := f.service.AddLine(ctx, userID, ring.ID, 2)

		require.NoError(t, err)
		require.Len(t, result.Lines, 1)
		assert.Equal(t, "ANI-001", result.Lines[0].SKU)
		assert.True(t, result.Lines[0].UnitPrice.Equal(decimal.NewFromInt(900)))
		assert.Equal(t, 2, result.Lines[0].Quantity)
		assert.True(t, result.Total.Equal(decimal.NewFromInt(1800)))
		f.carts.AssertExpectations(t)
	})

	t.Run("should reject inactive products", func(t *testing.T) {
		f := newCartFixture()
		ring := catalogProduct(t, "ANI-002", "Anillo plata 925", 500, 0)
		ring.Deactivate()

		f.products.On("FindByID", ctx, ring.ID).Return(ring, nil)

		result, err := f.service.AddLine(ctx, userID, ring.ID, 1)

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "PRODUCT_INACTIVE", domainErr.Code)
		f.carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should propagate unknown products", func(t *testing.T) {
		f := newCartFixture()
		missing := uuid.New()

		f.products.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		result, err := f.service.AddLine(ctx, userID, missing, 1)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCartService_MergeAnonymous(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("should add quantities keeping the captured price", func(t *testing.T) {
		f := newCartFixture()
		ring := catalogProduct(t, "ANI-001", "Anillo oro 14k", 1800, 0)

		// The account cart captured the ring at an older price.
		account := ordering.NewCart()
		require.NoError(t, account.AddLine(ring.ID, ring.SKU, ring.Name,
			valueobject.NewMoneyMXN(decimal.NewFromInt(1500)), 1))

		f.products.On("FindByID", ctx, ring.ID).Return(ring, nil)
		f.carts.On("Get", ctx, userID).Return(account, nil)
		f.carts.On("Save", ctx, userID, mock.AnythingOfType("ordering.Cart")).Return(nil)

		result, err := f.service.MergeAnonymous(ctx, userID, []MergeLineRequest{
			{ProductID: ring.ID, Quantity: 2},
		})

		require.NoError(t, err)
		require.Len(t, result.Lines, 1)
		assert.Equal(t, 3, result.Lines[0].Quantity)
		assert.True(t, result.Lines[0].UnitPrice.Equal(decimal.NewFromInt(1500)))
		f.carts.AssertExpectations(t)
	})

	t.Run("should append new products at the catalog price", func(t *testing.T) {
		f := newCartFixture()
		chain := catalogProduct(t, "CAD-010", "Cadena plata 925", 800, 0)

		f.products.On("FindByID", ctx, chain.ID).Return(chain, nil)
		f.carts.On("Get", ctx, userID).Return(ordering.NewCart(), nil)
		f.carts.On("Save", ctx, userID, mock.AnythingOfType("ordering.Cart")).Return(nil)

		result, err := f.service.MergeAnonymous(ctx, userID, []MergeLineRequest{
			{ProductID: chain.ID, Quantity: 1},
		})

		require.NoError(t, err)
		require.Len(t, result.Lines, 1)
		assert.Equal(t, "CAD-010", result.Lines[0].SKU)
		assert.True(t, result.Lines[0].UnitPrice.Equal(decimal.NewFromInt(800)))
	})

	t.Run("should drop products that went inactive", func(t *testing.T) {
		f := newCartFixture()
		retired := catalogProduct(t, "ARE-005", "Aretes descontinuados", 300, 0)
		retired.Deactivate()

		f.products.On("FindByID", ctx, retired.ID).Return(retired, nil)
		f.carts.On("Get", ctx, userID).Return(ordering.NewCart(), nil)

		result, err := f.service.MergeAnonymous(ctx, userID, []MergeLineRequest{
			{ProductID: retired.ID, Quantity: 1},
		})

		require.NoError(t, err)
		assert.Empty(t, result.Lines)
		f.carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should return the current cart for an empty merge", func(t *testing.T) {
		f := newCartFixture()

		f.carts.On("Get", ctx, userID).Return(ordering.NewCart(), nil)

		result, err := f.service.MergeAnonymous(ctx, userID, nil)

		require.NoError(t, err)
		assert.Empty(t, result.Lines)
		f.carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})
}
