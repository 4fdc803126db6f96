package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/billing"
	"github.com/joyeria/backend/internal/domain/partner"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type invoiceFixture struct {
	service   *InvoiceService
	invoices  *MockInvoiceRepository
	payments  *MockPaymentRepository
	orders    *MockOrderRepository
	customers *MockCustomerRepository
}

func newInvoiceFixture() *invoiceFixture {
	f := &invoiceFixture{
		invoices:  new(MockInvoiceRepository),
		payments:  new(MockPaymentRepository),
		orders:    new(MockOrderRepository),
		customers: new(MockCustomerRepository),
	}
	f.service = NewInvoiceService(fakeTxManager{}, f.invoices, f.payments, f.orders, f.customers, zap.NewNop())
	return f
}

func invoicedCustomer(t *testing.T) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer("Carmen Díaz", "carmen@example.com")
	require.NoError(t, err)
	require.NoError(t, customer.UpdateProfile("DIAC800101AB1", "Calle Hidalgo 5, Puebla", "2221234567"))
	return customer
}

func TestInvoiceService_EnsureForOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("should issue an invoice with IVA on top of the order total", func(t *testing.T) {
		f := newInvoiceFixture()
		customer := invoicedCustomer(t)
		order := testOrder(t, 1000, 1)
		order.CustomerID = customer.ID

		f.invoices.On("FindByOrder", ctx, order.ID).Return(nil, shared.ErrNotFound)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.customers.On("FindByID", ctx, customer.ID).Return(customer, nil)
		f.invoices.On("NextFolio", ctx).Return("FAC-000100", nil)
		f.payments.On("SumByOrder", ctx, order.ID).Return(decimal.Zero, nil)
		f.invoices.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		result, err := f.service.EnsureForOrder(ctx, order.ID)

		require.NoError(t, err)
		assert.Equal(t, "FAC-000100", result.Folio)
		assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(160)))
		assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(1160)))
		assert.Equal(t, "PENDIENTE", result.Status)
	})

	t.Run("should count direct order payments toward the invoice balance", func(t *testing.T) {
		f := newInvoiceFixture()
		customer := invoicedCustomer(t)
		order := testOrder(t, 1000, 1)
		order.CustomerID = customer.ID

		f.invoices.On("FindByOrder", ctx, order.ID).Return(nil, shared.ErrNotFound)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.customers.On("FindByID", ctx, customer.ID).Return(customer, nil)
		f.invoices.On("NextFolio", ctx).Return("FAC-000102", nil)
		// The full order total was already collected before invoicing.
		f.payments.On("SumByOrder", ctx, order.ID).Return(decimal.NewFromInt(1000), nil)
		f.invoices.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		result, err := f.service.EnsureForOrder(ctx, order.ID)

		require.NoError(t, err)
		assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(1160)))
		assert.True(t, result.PaidAmount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, result.Outstanding.Equal(decimal.NewFromInt(160)))
		assert.Equal(t, "PARCIAL", result.Status)
	})

	t.Run("should return the existing invoice without issuing another", func(t *testing.T) {
		f := newInvoiceFixture()
		invoice := testInvoice(t, 1000)

		f.invoices.On("FindByOrder", ctx, invoice.OrderID).Return(invoice, nil)

		result, err := f.service.EnsureForOrder(ctx, invoice.OrderID)

		require.NoError(t, err)
		assert.Equal(t, invoice.Folio, result.Folio)
		f.invoices.AssertNotCalled(t, "NextFolio", mock.Anything)
		f.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should refuse to invoice a customer without RFC", func(t *testing.T) {
		f := newInvoiceFixture()
		customer, err := partner.NewCustomer("Sin RFC", "sinrfc@example.com")
		require.NoError(t, err)
		order := testOrder(t, 1000, 1)
		order.CustomerID = customer.ID

		f.invoices.On("FindByOrder", ctx, order.ID).Return(nil, shared.ErrNotFound)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		f.customers.On("FindByID", ctx, customer.ID).Return(customer, nil)
		f.invoices.On("NextFolio", ctx).Return("FAC-000101", nil)

		result, err := f.service.EnsureForOrder(ctx, order.ID)

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INCOMPLETE_PROFILE", domainErr.Code)
		assert.Equal(t, "rfc", domainErr.Meta["field"])
	})

	t.Run("should refuse to invoice a cancelled order", func(t *testing.T) {
		f := newInvoiceFixture()
		order := testOrder(t, 1000, 1)
		require.NoError(t, order.Process())
		require.NoError(t, order.Cancel("duplicado", uuid.New()))

		f.invoices.On("FindByOrder", ctx, order.ID).Return(nil, shared.ErrNotFound)
		f.orders.On("FindByID", ctx, order.ID).Return(order, nil)

		result, err := f.service.EnsureForOrder(ctx, order.ID)

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestInvoiceService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("should get an invoice by folio", func(t *testing.T) {
		f := newInvoiceFixture()
		invoice := testInvoice(t, 500)
		f.invoices.On("FindByFolio", ctx, invoice.Folio).Return(invoice, nil)

		result, err := f.service.GetByFolio(ctx, invoice.Folio)

		require.NoError(t, err)
		assert.Equal(t, invoice.Folio, result.Folio)
		assert.True(t, result.Outstanding.Equal(invoice.Outstanding()))
	})

	t.Run("should pass the status filter through", func(t *testing.T) {
		f := newInvoiceFixture()
		status := billing.InvoiceStatusPendiente
		f.invoices.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["status"] == "PENDIENTE"
		})).Return([]billing.Invoice{*testInvoice(t, 500)}, nil)

		results, err := f.service.List(ctx, InvoiceListFilter{Status: &status})

		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}
