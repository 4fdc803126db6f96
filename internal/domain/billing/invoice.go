package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/joyeria/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// IVARate is the Mexican value-added tax rate applied at invoicing
var IVARate = decimal.NewFromFloat(0.16)

// InvoiceStatus represents the payment status of an invoice (factura)
type InvoiceStatus string

const (
	InvoiceStatusPendiente InvoiceStatus = "PENDIENTE"
	InvoiceStatusParcial   InvoiceStatus = "PARCIAL"
	InvoiceStatusPagada    InvoiceStatus = "PAGADA"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPendiente, InvoiceStatusParcial, InvoiceStatusPagada:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Invoice represents the fiscal document for an order. At most one invoice
// exists per order; once fully paid the invoice is immutable.
type Invoice struct {
	shared.BaseAggregateRoot
	Folio       string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	RFC         string          `gorm:"type:varchar(13);not null"`
	IssuedAt    time.Time       `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status      InvoiceStatus   `gorm:"type:varchar(20);not null;default:'PENDIENTE'"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an invoice for an order. subtotal is the order total
// after every discount; IVA is added on top.
func NewInvoice(folio string, orderID, customerID uuid.UUID, rfc string, subtotal valueobject.Money) (*Invoice, error) {
	if folio == "" {
		return nil, shared.NewDomainError("INVALID_FOLIO", "Folio cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if rfc == "" {
		return nil, shared.NewDomainError("INCOMPLETE_PROFILE", "Customer RFC is required for invoicing").
			WithMeta("field", "rfc")
	}
	if subtotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice subtotal cannot be negative")
	}

	tax := subtotal.Amount().Mul(IVARate).Round(2)
	total := subtotal.Amount().Add(tax)

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Folio:             folio,
		OrderID:           orderID,
		CustomerID:        customerID,
		RFC:               rfc,
		IssuedAt:          time.Now(),
		Subtotal:          subtotal.Amount(),
		TaxAmount:         tax,
		TotalAmount:       total,
		PaidAmount:        decimal.Zero,
		Status:            InvoiceStatusPendiente,
	}, nil
}

// Outstanding returns the unpaid balance
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// CanReceivePayment returns true while the invoice is not fully paid
func (i *Invoice) CanReceivePayment() bool {
	return i.Status != InvoiceStatusPagada
}

// RegisterPayment applies a payment to the invoice. The caller must hold
// a row lock on the invoice so concurrent payments serialize; the
// outstanding-balance guard is re-evaluated here against locked state.
func (i *Invoice) RegisterPayment(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("NON_POSITIVE_AMOUNT", "Payment amount must be positive")
	}
	if !i.CanReceivePayment() {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already fully paid")
	}

	outstanding := i.Outstanding()
	if amount.Amount().GreaterThan(outstanding) {
		return shared.NewDomainError("EXCEEDS_OUTSTANDING",
			fmt.Sprintf("Payment exceeds outstanding balance of %s", outstanding.StringFixed(2))).
			WithMeta("outstanding", outstanding.StringFixed(2))
	}

	i.PaidAmount = i.PaidAmount.Add(amount.Amount())
	i.Status = i.deriveStatus()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

func (i *Invoice) deriveStatus() InvoiceStatus {
	switch {
	case i.PaidAmount.GreaterThanOrEqual(i.TotalAmount):
		return InvoiceStatusPagada
	case i.PaidAmount.IsPositive():
		return InvoiceStatusParcial
	default:
		return InvoiceStatusPendiente
	}
}
