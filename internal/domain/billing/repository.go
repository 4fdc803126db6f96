package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate loads an invoice under a row lock. Must be called
	// inside a transaction; used to serialize concurrent payments.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByOrder finds the invoice for an order, if any
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Invoice, error)

	// FindByFolio finds an invoice by folio
	FindByFolio(ctx context.Context, folio string) (*Invoice, error)

	// FindAll lists invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// NextFolio issues the next sequential folio (FAC-...)
	NextFolio(ctx context.Context) (string, error)
}

// PaymentRepository defines the interface for payment persistence.
// Payments are append-only.
type PaymentRepository interface {
	// Append persists a new payment record
	Append(ctx context.Context, payment *Payment) error

	// FindByInvoice lists payments applied to an invoice
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)

	// FindByOrder lists payments applied to an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Payment, error)

	// SumByOrder returns the total paid against an order
	SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
}
