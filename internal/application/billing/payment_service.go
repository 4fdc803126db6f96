package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/billing"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/joyeria/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService records payments against invoices and uninvoiced
// orders. The balance guard and the payment insert run in one
// transaction under a row lock, so two concurrent payments that each
// pass validation alone can never overshoot the balance together.
type PaymentService struct {
	tx       shared.TxManager
	invoices billing.InvoiceRepository
	payments billing.PaymentRepository
	orders   ordering.OrderRepository
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	tx shared.TxManager,
	invoices billing.InvoiceRepository,
	payments billing.PaymentRepository,
	orders ordering.OrderRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		tx:       tx,
		invoices: invoices,
		payments: payments,
		orders:   orders,
		logger:   logger,
	}
}

// RecordPayment applies a payment. Invoiced orders are paid through
// their invoice; the order path is only for orders that were never
// invoiced and silently redirects when an invoice exists.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResult, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("NON_POSITIVE_AMOUNT", "Payment amount must be positive")
	}
	if !req.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	switch {
	case req.InvoiceID != nil:
		return s.payInvoice(ctx, *req.InvoiceID, req)
	case req.OrderID != nil:
		invoice, err := s.invoices.FindByOrder(ctx, *req.OrderID)
		if err == nil {
			return s.payInvoice(ctx, invoice.ID, req)
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		return s.payOrder(ctx, *req.OrderID, req)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment must target an invoice or an order")
	}
}

func (s *PaymentService) payInvoice(ctx context.Context, invoiceID uuid.UUID, req RecordPaymentRequest) (*PaymentResult, error) {
	var result PaymentResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		invoice, err := s.invoices.FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		amount := valueobject.NewMoneyMXN(req.Amount)
		if err := invoice.RegisterPayment(amount); err != nil {
			return err
		}

		id := invoice.ID
		payment, err := billing.NewPayment(&id, invoice.OrderID, amount, req.Method, req.Remark)
		if err != nil {
			return err
		}
		if err := s.payments.Append(ctx, payment); err != nil {
			return err
		}
		if err := s.invoices.Save(ctx, invoice); err != nil {
			return err
		}

		result = PaymentResult{
			PaymentID: payment.ID,
			NewStatus: invoice.Status.String(),
			TotalPaid: invoice.PaidAmount,
			Remaining: invoice.Outstanding(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("method", req.Method.String()),
		zap.String("new_status", result.NewStatus))

	return &result, nil
}

// payOrder records a payment against an uninvoiced order. The order row
// lock plays the role the invoice lock plays on the invoice path.
func (s *PaymentService) payOrder(ctx context.Context, orderID uuid.UUID, req RecordPaymentRequest) (*PaymentResult, error) {
	var result PaymentResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == ordering.OrderStatusCancelado {
			return shared.NewDomainError("INVALID_STATE", "Cancelled orders cannot receive payments")
		}

		paid, err := s.payments.SumByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		outstanding := order.TotalAmount.Sub(paid)
		if req.Amount.GreaterThan(outstanding) {
			return shared.NewDomainError("EXCEEDS_OUTSTANDING",
				fmt.Sprintf("Payment exceeds outstanding balance of %s", outstanding.StringFixed(2))).
				WithMeta("outstanding", outstanding.StringFixed(2))
		}

		payment, err := billing.NewPayment(nil, order.ID, valueobject.NewMoneyMXN(req.Amount), req.Method, req.Remark)
		if err != nil {
			return err
		}
		if err := s.payments.Append(ctx, payment); err != nil {
			return err
		}

		totalPaid := paid.Add(req.Amount)
		result = PaymentResult{
			PaymentID: payment.ID,
			NewStatus: orderPaymentStatus(totalPaid, order.TotalAmount),
			TotalPaid: totalPaid,
			Remaining: order.TotalAmount.Sub(totalPaid),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("order_id", orderID.String()),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("method", req.Method.String()),
		zap.String("new_status", result.NewStatus))

	return &result, nil
}

func orderPaymentStatus(paid, total decimal.Decimal) string {
	switch {
	case paid.GreaterThanOrEqual(total):
		return billing.InvoiceStatusPagada.String()
	case paid.IsPositive():
		return billing.InvoiceStatusParcial.String()
	default:
		return billing.InvoiceStatusPendiente.String()
	}
}

// ListByInvoice lists payments applied to an invoice
func (s *PaymentService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.payments.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(payments), nil
}

// ListByOrder lists payments applied to an order
func (s *PaymentService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.payments.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(payments), nil
}

func toPaymentResponses(payments []billing.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, ToPaymentResponse(&payments[i]))
	}
	return responses
}
