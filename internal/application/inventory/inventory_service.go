package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/catalog"
	"github.com/joyeria/backend/internal/domain/inventory"
	"github.com/joyeria/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService applies manual stock movements and answers stock
// queries. Sales and cancellations move stock through their own
// services; this one covers receiving, shrinkage and corrections.
type InventoryService struct {
	tx        shared.TxManager
	stocks    inventory.BranchStockRepository
	movements inventory.StockMovementRepository
	products  catalog.ProductRepository
	logger    *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	tx shared.TxManager,
	stocks inventory.BranchStockRepository,
	movements inventory.StockMovementRepository,
	products catalog.ProductRepository,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		tx:        tx,
		stocks:    stocks,
		movements: movements,
		products:  products,
		logger:    logger,
	}
}

// Adjust applies a manual movement. A first ENTRADA for a product at a
// branch creates the stock row; the movement and the stock change
// commit together.
func (s *InventoryService) Adjust(ctx context.Context, req AdjustRequest) (*StockResponse, error) {
	if !req.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
	if req.ActorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Adjustment must record the acting user")
	}
	if _, err := s.products.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	var response StockResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stock, err := s.stocks.FindByProductAndBranchForUpdate(ctx, req.ProductID, req.BranchID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			stock = inventory.NewBranchStock(req.ProductID, req.BranchID)
		}

		switch req.Type {
		case inventory.MovementTypeEntrada:
			err = stock.Increase(req.Quantity)
		case inventory.MovementTypeSalida:
			err = stock.Decrease(-req.Quantity)
		case inventory.MovementTypeAjuste:
			err = stock.ApplyDelta(req.Quantity)
		}
		if err != nil {
			return err
		}

		if err := s.stocks.Save(ctx, stock); err != nil {
			return err
		}

		actorID := req.ActorID
		movement, err := inventory.NewStockMovement(req.ProductID, req.BranchID,
			req.Type, req.Quantity, "", req.Reason, &actorID)
		if err != nil {
			return err
		}
		if err := s.movements.Append(ctx, movement); err != nil {
			return err
		}

		response = ToStockResponse(stock)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("product_id", req.ProductID.String()),
		zap.String("branch_id", req.BranchID.String()),
		zap.String("type", req.Type.String()),
		zap.Int("quantity", req.Quantity))

	return &response, nil
}

// SetLevels sets the ideal and maximum stock levels for a product at a
// branch, creating the stock row when absent.
func (s *InventoryService) SetLevels(ctx context.Context, req SetLevelsRequest) (*StockResponse, error) {
	var response StockResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stock, err := s.stocks.FindByProductAndBranchForUpdate(ctx, req.ProductID, req.BranchID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			stock = inventory.NewBranchStock(req.ProductID, req.BranchID)
		}

		if err := stock.SetLevels(req.IdealStock, req.MaxStock); err != nil {
			return err
		}
		if err := s.stocks.Save(ctx, stock); err != nil {
			return err
		}

		response = ToStockResponse(stock)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// GetStock returns the stock of one product at one branch
func (s *InventoryService) GetStock(ctx context.Context, productID, branchID uuid.UUID) (*StockResponse, error) {
	stock, err := s.stocks.FindByProductAndBranch(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	response := ToStockResponse(stock)
	return &response, nil
}

// ListByBranch lists the stock held at a branch
func (s *InventoryService) ListByBranch(ctx context.Context, branchID uuid.UUID, filter StockListFilter) ([]StockResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	stocks, err := s.stocks.FindByBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, err
	}
	return toStockResponses(stocks), nil
}

// ListBelowIdeal lists products under their ideal level at a branch,
// which is the restocking worklist.
func (s *InventoryService) ListBelowIdeal(ctx context.Context, branchID uuid.UUID) ([]StockResponse, error) {
	stocks, err := s.stocks.FindBelowIdeal(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return toStockResponses(stocks), nil
}

// MovementHistory lists the movements of a product at a branch
func (s *InventoryService) MovementHistory(ctx context.Context, productID, branchID uuid.UUID, filter StockListFilter) ([]MovementResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	movements, err := s.movements.FindByProduct(ctx, productID, branchID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToMovementResponse(&movements[i]))
	}
	return responses, nil
}

// MovementsByReference lists the movements caused by a business document
// (order or return number).
func (s *InventoryService) MovementsByReference(ctx context.Context, reference string) ([]MovementResponse, error) {
	movements, err := s.movements.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToMovementResponse(&movements[i]))
	}
	return responses, nil
}

func toStockResponses(stocks []inventory.BranchStock) []StockResponse {
	responses := make([]StockResponse, 0, len(stocks))
	for i := range stocks {
		responses = append(responses, ToStockResponse(&stocks[i]))
	}
	return responses
}
