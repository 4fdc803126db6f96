package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/joyeria/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order (pedido)
type OrderStatus string

const (
	OrderStatusConfirmado OrderStatus = "CONFIRMADO"
	OrderStatusProcesado  OrderStatus = "PROCESADO"
	OrderStatusCompletado OrderStatus = "COMPLETADO"
	OrderStatusCancelado  OrderStatus = "CANCELADO"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusConfirmado, OrderStatusProcesado, OrderStatusCompletado, OrderStatusCancelado:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusConfirmado:
		return target == OrderStatusProcesado
	case OrderStatusProcesado:
		return target == OrderStatusCompletado || target == OrderStatusCancelado
	case OrderStatusCompletado, OrderStatusCancelado:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompletado || s == OrderStatusCancelado
}

// OrderItem represents a line item in an order. UnitPrice is the captured
// cart price (already after the product discount).
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU         string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order item
func NewOrderItem(orderID, productID uuid.UUID, sku, name string, quantity int, unitPrice valueobject.Money) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	price := unitPrice.Amount()

	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		SKU:         sku,
		ProductName: name,
		Quantity:    quantity,
		UnitPrice:   price,
		Subtotal:    price.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Order represents a confirmed purchase (pedido). It is the aggregate root
// for the ordering context. Orders are created already confirmed: stock is
// reserved in the same transaction that persists them, so there is no
// draft state.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName string          `gorm:"type:varchar(200);not null"`
	BranchID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status       OrderStatus     `gorm:"type:varchar(20);not null;default:'CONFIRMADO'"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountPct  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ProcessedAt  *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelledBy  *uuid.UUID `gorm:"type:uuid"`
	CancelReason string     `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderLineInput is a line captured from the cart at checkout
type OrderLineInput struct {
	ProductID   uuid.UUID
	SKU         string
	ProductName string
	Quantity    int
	UnitPrice   valueobject.Money
}

// NewOrder creates a confirmed order from captured cart lines.
// discountPct is the customer classification discount applied to the
// subtotal; line prices already carry the product discount.
func NewOrder(orderNumber string, customerID uuid.UUID, customerName string, branchID uuid.UUID, lines []OrderLineInput, discountPct decimal.Decimal) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Order must contain at least one line")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		BranchID:          branchID,
		Status:            OrderStatusConfirmado,
		DiscountPct:       discountPct,
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		item, err := NewOrderItem(order.ID, line.ProductID, line.SKU, line.ProductName, line.Quantity, line.UnitPrice)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
		subtotal = subtotal.Add(item.Subtotal)
	}

	order.Subtotal = subtotal
	order.TotalAmount = valueobject.NewMoneyMXN(subtotal).ApplyDiscount(discountPct).Round(2).Amount()

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// Total returns the order total as Money
func (o *Order) Total() valueobject.Money {
	return valueobject.NewMoneyMXN(o.TotalAmount)
}

// Advance moves the order to the target status following the transition
// table. Cancellation must go through Cancel so the reason and actor are
// recorded.
func (o *Order) Advance(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return illegalTransition(o.Status, target)
	}

	switch target {
	case OrderStatusProcesado:
		now := time.Now()
		o.ProcessedAt = &now
	case OrderStatusCompletado:
		now := time.Now()
		o.CompletedAt = &now
	case OrderStatusCancelado:
		return shared.NewDomainError("CANCEL_REQUIRES_REASON", "Cancellation must record a reason and actor")
	}

	from := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))

	return nil
}

// Process marks the order as being prepared
func (o *Order) Process() error {
	return o.Advance(OrderStatusProcesado)
}

// Complete marks the order as delivered
func (o *Order) Complete() error {
	return o.Advance(OrderStatusCompletado)
}

// Cancel cancels the order, recording who and why. Only processing orders
// can be cancelled; stock restitution is handled by the caller in the
// same transaction.
func (o *Order) Cancel(reason string, actorID uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelado) {
		return illegalTransition(o.Status, OrderStatusCancelado)
	}
	if reason == "" {
		return shared.NewDomainError("CANCEL_REQUIRES_REASON", "Cancellation reason cannot be empty")
	}
	if actorID == uuid.Nil {
		return shared.NewDomainError("CANCEL_REQUIRES_REASON", "Cancellation must record the acting user")
	}

	from := o.Status
	now := time.Now()
	o.Status = OrderStatusCancelado
	o.CancelledAt = &now
	o.CancelledBy = &actorID
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))

	return nil
}

// HasProduct returns true if the order contains the product
func (o *Order) HasProduct(productID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// QuantityPurchased returns the total quantity of a product in the order
func (o *Order) QuantityPurchased(productID uuid.UUID) int {
	total := 0
	for _, item := range o.Items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

// UnitPriceOf returns the captured unit price of a product in the order.
// The second return value is false when the product is not in the order.
func (o *Order) UnitPriceOf(productID uuid.UUID) (decimal.Decimal, bool) {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return item.UnitPrice, true
		}
	}
	return decimal.Zero, false
}

func illegalTransition(from, to OrderStatus) *shared.DomainError {
	return shared.NewDomainError("ILLEGAL_TRANSITION",
		fmt.Sprintf("Cannot transition order from %s to %s", from, to)).
		WithMeta("from", from.String()).
		WithMeta("to", to.String())
}
