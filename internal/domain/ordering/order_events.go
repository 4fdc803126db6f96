package ordering

import (
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the ordering context
const (
	EventTypeOrderCreated       = "ordering.order.created"
	EventTypeOrderStatusChanged = "ordering.order.status_changed"
)

// OrderCreatedEvent is emitted when an order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	CustomerID  string          `json:"customer_id"`
	BranchID    string          `json:"branch_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	LineCount   int             `json:"line_count"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID.String(),
		BranchID:        o.BranchID.String(),
		TotalAmount:     o.TotalAmount,
		LineCount:       len(o.Items),
	}
}

// OrderStatusChangedEvent is emitted on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	FromStatus  string `json:"from_status"`
	ToStatus    string `json:"to_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		FromStatus:      from.String(),
		ToStatus:        o.Status.String(),
	}
}
