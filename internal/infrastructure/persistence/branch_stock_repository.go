package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/inventory"
	"github.com/joyeria/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBranchStockRepository implements inventory.BranchStockRepository using GORM
type GormBranchStockRepository struct {
	db *gorm.DB
}

// NewGormBranchStockRepository creates a new GormBranchStockRepository
func NewGormBranchStockRepository(db *gorm.DB) *GormBranchStockRepository {
	return &GormBranchStockRepository{db: db}
}

// FindByProductAndBranch finds the stock record for a (product, branch) pair
func (r *GormBranchStockRepository) FindByProductAndBranch(ctx context.Context, productID, branchID uuid.UUID) (*inventory.BranchStock, error) {
	var stock inventory.BranchStock
	if err := dbFrom(ctx, r.db).
		First(&stock, "product_id = ? AND branch_id = ?", productID, branchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByProductAndBranchForUpdate loads the stock record under a row lock
func (r *GormBranchStockRepository) FindByProductAndBranchForUpdate(ctx context.Context, productID, branchID uuid.UUID) (*inventory.BranchStock, error) {
	var stock inventory.BranchStock
	if err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&stock, "product_id = ? AND branch_id = ?", productID, branchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByBranch lists stock records for a branch
func (r *GormBranchStockRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.BranchStock, error) {
	var stocks []inventory.BranchStock
	query := dbFrom(ctx, r.db).
		Model(&inventory.BranchStock{}).
		Where("branch_id = ?", branchID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("product_id ASC")
	}

	if err := query.Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindBelowIdeal lists stock records under their ideal level for a branch
func (r *GormBranchStockRepository) FindBelowIdeal(ctx context.Context, branchID uuid.UUID) ([]inventory.BranchStock, error) {
	var stocks []inventory.BranchStock
	if err := dbFrom(ctx, r.db).
		Where("branch_id = ? AND ideal_stock > 0 AND current_stock < ideal_stock", branchID).
		Order("current_stock ASC").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Save creates or updates a stock record
func (r *GormBranchStockRepository) Save(ctx context.Context, stock *inventory.BranchStock) error {
	return dbFrom(ctx, r.db).Save(stock).Error
}

var _ inventory.BranchStockRepository = (*GormBranchStockRepository)(nil)
