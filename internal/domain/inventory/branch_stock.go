package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
)

// BranchStock tracks the on-hand quantity of a product at one branch.
// Jewelry is sold by the piece so quantities are whole numbers. Current
// stock can never go below zero; callers must hold a row lock while
// mutating it.
type BranchStock struct {
	shared.BaseAggregateRoot
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_branch,priority:1"`
	BranchID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_branch,priority:2"`
	CurrentStock int       `gorm:"not null;default:0"`
	IdealStock   int       `gorm:"not null;default:0"`
	MaxStock     int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BranchStock) TableName() string {
	return "branch_stocks"
}

// NewBranchStock creates a stock record for a (product, branch) pair
func NewBranchStock(productID, branchID uuid.UUID) *BranchStock {
	return &BranchStock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		BranchID:          branchID,
	}
}

// Increase adds quantity to the current stock
func (s *BranchStock) Increase(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	s.CurrentStock += quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Decrease removes quantity from the current stock. Fails with
// INSUFFICIENT_STOCK when the branch does not hold enough pieces.
func (s *BranchStock) Decrease(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if s.CurrentStock < quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Only %d pieces available", s.CurrentStock)).
			WithMeta("product_id", s.ProductID.String())
	}

	s.CurrentStock -= quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// ApplyDelta applies a signed correction to the current stock. Used by
// manual adjustments; the non-negative floor still holds.
func (s *BranchStock) ApplyDelta(delta int) error {
	if delta == 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment cannot be zero")
	}
	if s.CurrentStock+delta < 0 {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Adjustment would leave %d pieces", s.CurrentStock+delta)).
			WithMeta("product_id", s.ProductID.String())
	}

	s.CurrentStock += delta
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetLevels sets the ideal and maximum stock levels
func (s *BranchStock) SetLevels(ideal, max int) error {
	if ideal < 0 || max < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock levels cannot be negative")
	}
	if max > 0 && ideal > max {
		return shared.NewDomainError("INVALID_QUANTITY", "Ideal stock cannot exceed maximum stock")
	}

	s.IdealStock = ideal
	s.MaxStock = max
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// IsBelowIdeal returns true when current stock is under the ideal level
func (s *BranchStock) IsBelowIdeal() bool {
	return s.IdealStock > 0 && s.CurrentStock < s.IdealStock
}
