package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/inventory"
)

// AdjustRequest applies a manual stock movement at a branch. Quantity is
// signed for AJUSTE, positive for ENTRADA and negative for SALIDA.
type AdjustRequest struct {
	ProductID uuid.UUID              `json:"product_id" binding:"required"`
	BranchID  uuid.UUID              `json:"branch_id" binding:"required"`
	Type      inventory.MovementType `json:"type" binding:"required"`
	Quantity  int                    `json:"quantity" binding:"required"`
	Reason    string                 `json:"reason" binding:"required,max=200"`
	ActorID   uuid.UUID
}

// SetLevelsRequest sets the ideal and maximum stock levels
type SetLevelsRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	BranchID   uuid.UUID `json:"branch_id" binding:"required"`
	IdealStock int       `json:"ideal_stock" binding:"min=0"`
	MaxStock   int       `json:"max_stock" binding:"min=0"`
}

// StockListFilter narrows stock listings
type StockListFilter struct {
	Page     int
	PageSize int
}

// StockResponse is the per-branch stock of one product
type StockResponse struct {
	ProductID    uuid.UUID `json:"product_id"`
	BranchID     uuid.UUID `json:"branch_id"`
	CurrentStock int       `json:"current_stock"`
	IdealStock   int       `json:"ideal_stock"`
	MaxStock     int       `json:"max_stock"`
	BelowIdeal   bool      `json:"below_ideal"`
}

// ToStockResponse converts a branch stock aggregate to its response form
func ToStockResponse(s *inventory.BranchStock) StockResponse {
	return StockResponse{
		ProductID:    s.ProductID,
		BranchID:     s.BranchID,
		CurrentStock: s.CurrentStock,
		IdealStock:   s.IdealStock,
		MaxStock:     s.MaxStock,
		BelowIdeal:   s.IsBelowIdeal(),
	}
}

// MovementResponse is one audit record of a stock change
type MovementResponse struct {
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"product_id"`
	BranchID  uuid.UUID  `json:"branch_id"`
	Type      string     `json:"type"`
	Quantity  int        `json:"quantity"`
	Reference string     `json:"reference,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToMovementResponse converts a stock movement to its response form
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		BranchID:  m.BranchID,
		Type:      m.Type.String(),
		Quantity:  m.Quantity,
		Reference: m.Reference,
		Reason:    m.Reason,
		ActorID:   m.ActorID,
		CreatedAt: m.CreatedAt,
	}
}
