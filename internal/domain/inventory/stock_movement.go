package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementTypeEntrada MovementType = "ENTRADA"
	MovementTypeSalida  MovementType = "SALIDA"
	MovementTypeAjuste  MovementType = "AJUSTE"
)

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSalida, MovementTypeAjuste:
		return true
	}
	return false
}

// String returns the movement type as a string
func (t MovementType) String() string {
	return string(t)
}

// StockMovement is the append-only audit record of every stock change.
// Quantity is the signed delta applied to the branch stock; Reference
// carries the business document that caused it (order number, return
// number or adjustment note).
type StockMovement struct {
	shared.BaseEntity
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index"`
	BranchID  uuid.UUID    `gorm:"type:uuid;not null;index"`
	Type      MovementType `gorm:"type:varchar(10);not null"`
	Quantity  int          `gorm:"not null"`
	Reference string       `gorm:"type:varchar(50);index"`
	Reason    string       `gorm:"type:varchar(200)"`
	ActorID   *uuid.UUID   `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a movement record
func NewStockMovement(productID, branchID uuid.UUID, movementType MovementType, quantity int, reference, reason string, actorID *uuid.UUID) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
	if quantity == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	switch movementType {
	case MovementTypeEntrada:
		if quantity < 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Entrada quantity must be positive")
		}
	case MovementTypeSalida:
		if quantity > 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Salida quantity must be negative")
		}
	}

	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		BranchID:   branchID,
		Type:       movementType,
		Quantity:   quantity,
		Reference:  strings.TrimSpace(reference),
		Reason:     strings.TrimSpace(reason),
		ActorID:    actorID,
	}, nil
}
