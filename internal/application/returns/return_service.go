package returns

import (
	"context"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/inventory"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/domain/returns"
	"github.com/joyeria/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReturnService handles the return (devolución) workflow: request,
// review and restock. Eligibility is recomputed inside the creating
// transaction so concurrent requests against the same order cannot
// exceed the purchased quantity.
type ReturnService struct {
	tx        shared.TxManager
	returns   returns.ReturnRepository
	orders    ordering.OrderRepository
	stocks    inventory.BranchStockRepository
	movements inventory.StockMovementRepository
	logger    *zap.Logger
}

// NewReturnService creates a new ReturnService
func NewReturnService(
	tx shared.TxManager,
	returnRepo returns.ReturnRepository,
	orders ordering.OrderRepository,
	stocks inventory.BranchStockRepository,
	movements inventory.StockMovementRepository,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		tx:        tx,
		returns:   returnRepo,
		orders:    orders,
		stocks:    stocks,
		movements: movements,
		logger:    logger,
	}
}

// CreateReturn opens a pending return against a completed order
func (s *ReturnService) CreateReturn(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Return must contain at least one line")
	}

	lines := make([]returns.ReturnLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, returns.ReturnLineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Type:      line.Type,
			Reason:    line.Reason,
		})
	}

	var response ReturnResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByIDForUpdate(ctx, req.OrderID)
		if err != nil {
			return err
		}

		alreadyReturned, err := s.returns.SumReturnedByOrder(ctx, order.ID)
		if err != nil {
			return err
		}

		returnNumber, err := s.returns.NextReturnNumber(ctx)
		if err != nil {
			return err
		}

		ret, err := returns.NewReturn(returnNumber, order, alreadyReturned, lines)
		if err != nil {
			return err
		}
		if err := s.returns.Save(ctx, ret); err != nil {
			return err
		}

		response = ToReturnResponse(ret)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("return requested",
		zap.String("return_number", response.ReturnNumber),
		zap.String("order_number", response.OrderNumber),
		zap.String("total_refund", response.TotalRefund.StringFixed(2)))

	return &response, nil
}

// Authorize approves a pending return
func (s *ReturnService) Authorize(ctx context.Context, req ReviewRequest) (*ReturnResponse, error) {
	ret, err := s.returns.FindByID(ctx, req.ReturnID)
	if err != nil {
		return nil, err
	}
	if err := ret.Authorize(req.ActorID); err != nil {
		return nil, err
	}
	if err := s.returns.Save(ctx, ret); err != nil {
		return nil, err
	}

	s.logger.Info("return authorized",
		zap.String("return_number", ret.ReturnNumber),
		zap.String("actor_id", req.ActorID.String()))

	response := ToReturnResponse(ret)
	return &response, nil
}

// Reject declines a pending return. A rejected return frees its
// quantities for a new request.
func (s *ReturnService) Reject(ctx context.Context, req ReviewRequest) (*ReturnResponse, error) {
	ret, err := s.returns.FindByID(ctx, req.ReturnID)
	if err != nil {
		return nil, err
	}
	if err := ret.Reject(req.ActorID, req.Reason); err != nil {
		return nil, err
	}
	if err := s.returns.Save(ctx, ret); err != nil {
		return nil, err
	}

	s.logger.Info("return rejected",
		zap.String("return_number", ret.ReturnNumber),
		zap.String("reason", req.Reason))

	response := ToReturnResponse(ret)
	return &response, nil
}

// Restock completes an authorized return, putting REEMBOLSO pieces back
// into branch stock. CAMBIO lines never restock because the replacement
// piece leaves the shelf in the same act.
func (s *ReturnService) Restock(ctx context.Context, req RestockRequest) (*ReturnResponse, error) {
	var response ReturnResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ret, err := s.returns.FindByID(ctx, req.ReturnID)
		if err != nil {
			return err
		}
		if ret.Status != returns.ReturnStatusAutorizada {
			return shared.NewDomainError("NOT_AUTHORIZED", "Only authorized returns can be restocked").
				WithMeta("status", ret.Status.String())
		}
		if !ret.HasRestockableLines() {
			return shared.NewDomainError("EXCHANGE_NO_RESTOCK", "Exchange returns do not re-enter stock").
				WithMeta("return_number", ret.ReturnNumber)
		}

		actorID := req.ActorID
		for _, line := range ret.RestockableLines() {
			stock, err := s.stocks.FindByProductAndBranchForUpdate(ctx, line.ProductID, ret.BranchID)
			if err != nil {
				return err
			}
			if err := stock.Increase(line.Quantity); err != nil {
				return err
			}
			if err := s.stocks.Save(ctx, stock); err != nil {
				return err
			}

			movement, err := inventory.NewStockMovement(line.ProductID, ret.BranchID,
				inventory.MovementTypeEntrada, line.Quantity, ret.ReturnNumber, "devolución", &actorID)
			if err != nil {
				return err
			}
			if err := s.movements.Append(ctx, movement); err != nil {
				return err
			}
		}

		if err := ret.Complete(); err != nil {
			return err
		}
		if err := s.returns.Save(ctx, ret); err != nil {
			return err
		}

		response = ToReturnResponse(ret)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("return completed",
		zap.String("return_number", response.ReturnNumber),
		zap.Int("lines", len(response.Lines)))

	return &response, nil
}

// GetByID retrieves a return by ID
func (s *ReturnService) GetByID(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returns.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(ret)
	return &response, nil
}

// ListByCustomer lists a customer's returns
func (s *ReturnService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter ReturnListFilter) ([]ReturnResponse, error) {
	results, err := s.returns.FindByCustomer(ctx, customerID, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return toReturnResponses(results), nil
}

// ListByStatus lists returns in a given status for the back office
func (s *ReturnService) ListByStatus(ctx context.Context, status returns.ReturnStatus, filter ReturnListFilter) ([]ReturnResponse, error) {
	results, err := s.returns.FindByStatus(ctx, status, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return toReturnResponses(results), nil
}

// ListByOrder lists the returns requested against an order
func (s *ReturnService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]ReturnResponse, error) {
	results, err := s.returns.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toReturnResponses(results), nil
}

func toDomainFilter(filter ReturnListFilter) shared.Filter {
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
	return domainFilter
}

func toReturnResponses(results []returns.Return) []ReturnResponse {
	responses := make([]ReturnResponse, 0, len(results))
	for i := range results {
		responses = append(responses, ToReturnResponse(&results[i]))
	}
	return responses
}
