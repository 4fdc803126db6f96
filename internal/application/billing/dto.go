package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest applies a payment against an invoice or, when no
// invoice exists, directly against an order. Exactly one of InvoiceID
// and OrderID must be set.
type RecordPaymentRequest struct {
	InvoiceID *uuid.UUID
	OrderID   *uuid.UUID
	Amount    decimal.Decimal
	Method    billing.PaymentMethod
	Remark    string
}

// PaymentResult reports the balance after a payment was applied
type PaymentResult struct {
	PaymentID uuid.UUID       `json:"payment_id"`
	NewStatus string          `json:"new_status"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// InvoiceListFilter narrows invoice listings
type InvoiceListFilter struct {
	Page     int
	PageSize int
	Status   *billing.InvoiceStatus
}

// InvoiceResponse is the full invoice representation
type InvoiceResponse struct {
	ID          uuid.UUID       `json:"id"`
	Folio       string          `json:"folio"`
	OrderID     uuid.UUID       `json:"order_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	RFC         string          `json:"rfc"`
	IssuedAt    time.Time       `json:"issued_at"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      string          `json:"status"`
}

// ToInvoiceResponse converts an invoice aggregate to its response form
func ToInvoiceResponse(i *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          i.ID,
		Folio:       i.Folio,
		OrderID:     i.OrderID,
		CustomerID:  i.CustomerID,
		RFC:         i.RFC,
		IssuedAt:    i.IssuedAt,
		Subtotal:    i.Subtotal,
		TaxAmount:   i.TaxAmount,
		TotalAmount: i.TotalAmount,
		PaidAmount:  i.PaidAmount,
		Outstanding: i.Outstanding(),
		Status:      i.Status.String(),
	}
}

// PaymentResponse is a single payment record
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	InvoiceID *uuid.UUID      `json:"invoice_id,omitempty"`
	OrderID   uuid.UUID       `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	PaidAt    time.Time       `json:"paid_at"`
	Remark    string          `json:"remark,omitempty"`
}

// ToPaymentResponse converts a payment record to its response form
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Method:    p.Method.String(),
		PaidAt:    p.PaidAt,
		Remark:    p.Remark,
	}
}
