package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/inventory"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService handles order lifecycle operations after checkout
type OrderService struct {
	tx        shared.TxManager
	orders    ordering.OrderRepository
	stocks    inventory.BranchStockRepository
	movements inventory.StockMovementRepository
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	tx shared.TxManager,
	orders ordering.OrderRepository,
	stocks inventory.BranchStockRepository,
	movements inventory.StockMovementRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		tx:        tx,
		orders:    orders,
		stocks:    stocks,
		movements: movements,
		logger:    logger,
	}
}

// Advance moves an order along its lifecycle. A CANCELADO target routes
// through Cancel so the restock and audit trail are never skipped.
func (s *OrderService) Advance(ctx context.Context, req AdvanceRequest) (*OrderResponse, error) {
	if req.Target == ordering.OrderStatusCancelado {
		return s.Cancel(ctx, CancelRequest{
			OrderID: req.OrderID,
			Reason:  req.Reason,
			ActorID: req.ActorID,
		})
	}

	var response OrderResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByIDForUpdate(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if err := order.Advance(req.Target); err != nil {
			return err
		}
		if err := s.orders.Save(ctx, order); err != nil {
			return err
		}

		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order advanced",
		zap.String("order_number", response.OrderNumber),
		zap.String("status", response.Status))

	return &response, nil
}

// Cancel cancels a processing order and returns every reserved piece to
// branch stock in the same transaction.
func (s *OrderService) Cancel(ctx context.Context, req CancelRequest) (*OrderResponse, error) {
	var response OrderResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByIDForUpdate(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(req.Reason, req.ActorID); err != nil {
			return err
		}

		actorID := req.ActorID
		for _, item := range order.Items {
			stock, err := s.stocks.FindByProductAndBranchForUpdate(ctx, item.ProductID, order.BranchID)
			if err != nil {
				return err
			}
			if err := stock.Increase(item.Quantity); err != nil {
				return err
			}
			if err := s.stocks.Save(ctx, stock); err != nil {
				return err
			}

			movement, err := inventory.NewStockMovement(item.ProductID, order.BranchID,
				inventory.MovementTypeEntrada, item.Quantity, order.OrderNumber, "cancelación de pedido", &actorID)
			if err != nil {
				return err
			}
			if err := s.movements.Append(ctx, movement); err != nil {
				return err
			}
		}

		if err := s.orders.Save(ctx, order); err != nil {
			return err
		}

		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("order_number", response.OrderNumber),
		zap.String("actor_id", req.ActorID.String()),
		zap.String("reason", req.Reason))

	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByNumber retrieves an order by its order number
func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orders.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ListByCustomer lists a customer's orders
func (s *OrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, error) {
	orders, err := s.orders.FindByCustomer(ctx, customerID, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// List lists orders for the back office
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := toDomainFilter(filter)
	orders, err := s.orders.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toOrderResponses(orders), total, nil
}

// StatusSummary returns order counts per status
func (s *OrderService) StatusSummary(ctx context.Context) (map[string]int64, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	summary := make(map[string]int64, len(counts))
	for status, count := range counts {
		summary[status.String()] = count
	}
	return summary, nil
}

func toDomainFilter(filter OrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}
	return domainFilter
}

func toOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses
}
