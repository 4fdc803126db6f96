package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads an order under a row lock. Must be called
	// inside a transaction; used to serialize payments against the order.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its order number
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByCustomer lists a customer's orders
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindAll lists orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus returns order counts grouped by status
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)

	// NextOrderNumber issues the next sequential order number (PED-...)
	NextOrderNumber(ctx context.Context) (string, error)
}

// CartStore persists carts between requests. Carts are keyed by the
// login account, not the customer, so anonymous sessions can be merged
// at login.
type CartStore interface {
	// Get loads the cart for a user, returning an empty cart when none exists
	Get(ctx context.Context, userID uuid.UUID) (Cart, error)

	// Save stores the cart for a user
	Save(ctx context.Context, userID uuid.UUID, cart Cart) error

	// Clear deletes the cart for a user
	Clear(ctx context.Context, userID uuid.UUID) error
}
