package partner

import (
	"github.com/joyeria/backend/internal/domain/shared"
)

// Event types for the partner context
const (
	EventTypeCustomerCreated = "partner.customer.created"
)

// CustomerCreatedEvent is emitted when a customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, "Customer", c.ID),
		Name:            c.Name,
		Email:           c.Email,
	}
}
