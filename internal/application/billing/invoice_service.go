package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/billing"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/domain/partner"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/joyeria/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// InvoiceService issues and reads invoices. Issuing after the fact
// covers customers who ask for a factura once the order already exists.
type InvoiceService struct {
	tx        shared.TxManager
	invoices  billing.InvoiceRepository
	payments  billing.PaymentRepository
	orders    ordering.OrderRepository
	customers partner.CustomerRepository
	logger    *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	tx shared.TxManager,
	invoices billing.InvoiceRepository,
	payments billing.PaymentRepository,
	orders ordering.OrderRepository,
	customers partner.CustomerRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		tx:        tx,
		invoices:  invoices,
		payments:  payments,
		orders:    orders,
		customers: customers,
		logger:    logger,
	}
}

// EnsureForOrder returns the order's invoice, issuing one when absent.
// At most one invoice exists per order.
func (s *InvoiceService) EnsureForOrder(ctx context.Context, orderID uuid.UUID) (*InvoiceResponse, error) {
	existing, err := s.invoices.FindByOrder(ctx, orderID)
	if err == nil {
		response := ToInvoiceResponse(existing)
		return &response, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	var response InvoiceResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Re-check under the transaction; another request may have
		// issued the invoice in between.
		existing, err := s.invoices.FindByOrder(ctx, orderID)
		if err == nil {
			response = ToInvoiceResponse(existing)
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == ordering.OrderStatusCancelado {
			return shared.NewDomainError("INVALID_STATE", "Cancelled orders cannot be invoiced")
		}

		customer, err := s.customers.FindByID(ctx, order.CustomerID)
		if err != nil {
			return err
		}

		folio, err := s.invoices.NextFolio(ctx)
		if err != nil {
			return err
		}
		invoice, err := billing.NewInvoice(folio, order.ID, customer.ID, customer.RFC, order.Total())
		if err != nil {
			return err
		}

		// Payments recorded against the order before it was invoiced
		// count toward the invoice balance.
		paid, err := s.payments.SumByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if paid.IsPositive() {
			if err := invoice.RegisterPayment(valueobject.NewMoneyMXN(paid)); err != nil {
				return err
			}
		}

		if err := s.invoices.Save(ctx, invoice); err != nil {
			return err
		}

		s.logger.Info("invoice issued",
			zap.String("folio", invoice.Folio),
			zap.String("order_number", order.OrderNumber),
			zap.String("total", invoice.TotalAmount.StringFixed(2)))

		response = ToInvoiceResponse(invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByOrder retrieves the invoice for an order
func (s *InvoiceService) GetByOrder(ctx context.Context, orderID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoices.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByFolio retrieves an invoice by folio
func (s *InvoiceService) GetByFolio(ctx context.Context, folio string) (*InvoiceResponse, error) {
	invoice, err := s.invoices.FindByFolio(ctx, folio)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List lists invoices for the back office
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}

	invoices, err := s.invoices.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[i]))
	}
	return responses, nil
}
