package ordering

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/billing"
	"github.com/joyeria/backend/internal/domain/inventory"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/domain/partner"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/joyeria/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutService turns a cart into a confirmed order. Stock reservation,
// order creation and optional invoicing happen in one transaction; the
// cart is cleared only after the transaction commits.
type CheckoutService struct {
	tx        shared.TxManager
	carts     ordering.CartStore
	orders    ordering.OrderRepository
	customers partner.CustomerRepository
	levels    partner.CustomerLevelRepository
	stocks    inventory.BranchStockRepository
	movements inventory.StockMovementRepository
	invoices  billing.InvoiceRepository
	logger    *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	tx shared.TxManager,
	carts ordering.CartStore,
	orders ordering.OrderRepository,
	customers partner.CustomerRepository,
	levels partner.CustomerLevelRepository,
	stocks inventory.BranchStockRepository,
	movements inventory.StockMovementRepository,
	invoices billing.InvoiceRepository,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		tx:        tx,
		carts:     carts,
		orders:    orders,
		customers: customers,
		levels:    levels,
		stocks:    stocks,
		movements: movements,
		invoices:  invoices,
		logger:    logger,
	}
}

// CreateOrder runs the checkout for a user's cart. Preconditions are
// checked up front; stock is then reserved line by line under row locks
// so a failure on any line rolls everything back.
func (s *CheckoutService) CreateOrder(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	customer, err := s.customers.FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_CUSTOMER_LINKED", "No customer profile is linked to this account")
		}
		return nil, err
	}

	if missing := customer.MissingProfileFields(); len(missing) > 0 {
		return nil, shared.NewDomainError("INCOMPLETE_PROFILE", "Customer profile is incomplete").
			WithMeta("field", missing[0])
	}

	branchID := customer.BranchID
	if req.BranchID != nil {
		branchID = req.BranchID
	}
	if branchID == nil {
		return nil, shared.NewDomainError("NO_BRANCH_ASSIGNED", "Customer has no branch assigned")
	}

	cart, err := s.carts.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}

	discountPct := decimal.Zero
	if customer.LevelID != nil {
		level, err := s.levels.FindByID(ctx, *customer.LevelID)
		if err != nil {
			return nil, err
		}
		discountPct = level.DiscountPct
	}

	var result CheckoutResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		orderNumber, err := s.orders.NextOrderNumber(ctx)
		if err != nil {
			return err
		}

		lines := make([]ordering.OrderLineInput, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			if err := s.reserveStock(ctx, line, *branchID, orderNumber); err != nil {
				return err
			}
			lines = append(lines, ordering.OrderLineInput{
				ProductID:   line.ProductID,
				SKU:         line.SKU,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				UnitPrice:   valueobject.NewMoneyMXN(line.UnitPrice),
			})
		}

		order, err := ordering.NewOrder(orderNumber, customer.ID, customer.Name, *branchID, lines, discountPct)
		if err != nil {
			return err
		}
		if err := s.orders.Save(ctx, order); err != nil {
			return err
		}

		result = CheckoutResult{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Subtotal:    order.Subtotal,
			DiscountPct: order.DiscountPct,
			TotalDue:    order.TotalAmount,
		}

		if req.WantsInvoice {
			invoice, err := s.ensureInvoice(ctx, order, customer)
			if err != nil {
				return err
			}
			invoiceID := invoice.ID
			result.InvoiceID = &invoiceID
			result.Folio = invoice.Folio
			result.TotalDue = invoice.TotalAmount
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// The order exists either way; a cart that fails to clear only means
	// the customer sees stale lines until the next write.
	if err := s.carts.Clear(ctx, req.UserID); err != nil {
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("order_number", result.OrderNumber),
			zap.Error(err))
	}

	s.logger.Info("order created",
		zap.String("order_number", result.OrderNumber),
		zap.String("customer_id", customer.ID.String()),
		zap.String("total_due", result.TotalDue.StringFixed(2)))

	return &result, nil
}

func (s *CheckoutService) reserveStock(ctx context.Context, line ordering.CartLine, branchID uuid.UUID, orderNumber string) error {
	stock, err := s.stocks.FindByProductAndBranchForUpdate(ctx, line.ProductID, branchID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INSUFFICIENT_STOCK", "Product is not stocked at this branch").
				WithMeta("product_id", line.ProductID.String())
		}
		return err
	}
	if err := stock.Decrease(line.Quantity); err != nil {
		return err
	}
	if err := s.stocks.Save(ctx, stock); err != nil {
		return err
	}

	movement, err := inventory.NewStockMovement(line.ProductID, branchID,
		inventory.MovementTypeSalida, -line.Quantity, orderNumber, "venta", nil)
	if err != nil {
		return err
	}
	return s.movements.Append(ctx, movement)
}

// ensureInvoice returns the order's invoice, creating it when absent.
// Invoice creation is idempotent per order. The order was created in
// this same transaction, so no payments can predate the invoice here.
func (s *CheckoutService) ensureInvoice(ctx context.Context, order *ordering.Order, customer *partner.Customer) (*billing.Invoice, error) {
	existing, err := s.invoices.FindByOrder(ctx, order.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	folio, err := s.invoices.NextFolio(ctx)
	if err != nil {
		return nil, err
	}
	invoice, err := billing.NewInvoice(folio, order.ID, customer.ID, customer.RFC, order.Total())
	if err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}
