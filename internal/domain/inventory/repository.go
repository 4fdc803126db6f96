package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
)

// BranchStockRepository defines the interface for stock persistence
type BranchStockRepository interface {
	// FindByProductAndBranch finds the stock record for a (product, branch) pair
	FindByProductAndBranch(ctx context.Context, productID, branchID uuid.UUID) (*BranchStock, error)

	// FindByProductAndBranchForUpdate loads the stock record under a row
	// lock. Must be called inside a transaction.
	FindByProductAndBranchForUpdate(ctx context.Context, productID, branchID uuid.UUID) (*BranchStock, error)

	// FindByBranch lists stock records for a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]BranchStock, error)

	// FindBelowIdeal lists stock records under their ideal level for a branch
	FindBelowIdeal(ctx context.Context, branchID uuid.UUID) ([]BranchStock, error)

	// Save creates or updates a stock record
	Save(ctx context.Context, stock *BranchStock) error
}

// StockMovementRepository defines the interface for movement persistence.
// Movements are append-only.
type StockMovementRepository interface {
	// Append persists a new movement record
	Append(ctx context.Context, movement *StockMovement) error

	// FindByProduct lists movements for a product at a branch
	FindByProduct(ctx context.Context, productID, branchID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByReference lists movements recorded against a business document
	FindByReference(ctx context.Context, reference string) ([]StockMovement, error)
}
