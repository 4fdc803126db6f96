package returns

import (
	"context"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
)

// ReturnRepository defines the interface for return persistence
type ReturnRepository interface {
	// FindByID finds a return with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Return, error)

	// FindByOrder lists returns requested against an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Return, error)

	// FindByCustomer lists a customer's returns
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Return, error)

	// FindByStatus lists returns in a given status
	FindByStatus(ctx context.Context, status ReturnStatus, filter shared.Filter) ([]Return, error)

	// SumReturnedByOrder returns, per product, the quantity covered by
	// non-rejected returns of the order. Used to shrink eligibility.
	SumReturnedByOrder(ctx context.Context, orderID uuid.UUID) (map[uuid.UUID]int, error)

	// Save creates or updates a return together with its lines
	Save(ctx context.Context, ret *Return) error

	// NextReturnNumber issues the next sequential return number (DEV-...)
	NextReturnNumber(ctx context.Context) (string, error)
}
