package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/joyeria/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodEfectivo      PaymentMethod = "EFECTIVO"
	PaymentMethodTarjeta       PaymentMethod = "TARJETA"
	PaymentMethodTransferencia PaymentMethod = "TRANSFERENCIA"
)

// IsValid returns true if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodEfectivo, PaymentMethodTarjeta, PaymentMethodTransferencia:
		return true
	}
	return false
}

// String returns the payment method as a string
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment is an append-only record of money received. A payment targets
// either an invoice (InvoiceID set) or an uninvoiced order; OrderID is
// always set so order-level totals can be summed either way. Payments are
// never updated or deleted.
type Payment struct {
	shared.BaseEntity
	InvoiceID *uuid.UUID      `gorm:"type:uuid;index"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Method    PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaidAt    time.Time       `gorm:"not null"`
	Remark    string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment record
func NewPayment(invoiceID *uuid.UUID, orderID uuid.UUID, amount valueobject.Money, method PaymentMethod, remark string) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("NON_POSITIVE_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  invoiceID,
		OrderID:    orderID,
		Amount:     amount.Amount(),
		Method:     method,
		PaidAt:     time.Now(),
		Remark:     remark,
	}, nil
}
