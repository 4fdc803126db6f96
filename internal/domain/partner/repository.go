package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByUserID finds the customer linked to a login account
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Customer, error)

	// FindAll finds all customers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CustomerLevelRepository defines the interface for level persistence
type CustomerLevelRepository interface {
	// FindByID finds a level by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CustomerLevel, error)

	// FindAll returns every classification level
	FindAll(ctx context.Context) ([]CustomerLevel, error)

	// Save creates or updates a level
	Save(ctx context.Context, level *CustomerLevel) error
}

// BranchRepository defines the interface for branch persistence
type BranchRepository interface {
	// FindByID finds a branch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)

	// FindByCode finds a branch by its code
	FindByCode(ctx context.Context, code string) (*Branch, error)

	// FindAll returns every branch
	FindAll(ctx context.Context) ([]Branch, error)

	// Save creates or updates a branch
	Save(ctx context.Context, branch *Branch) error
}
