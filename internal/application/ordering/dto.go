package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/shopspring/decimal"
)

// CheckoutRequest is the input for CreateOrder. The cart itself is loaded
// from the session store for the user.
type CheckoutRequest struct {
	UserID       uuid.UUID
	BranchID     *uuid.UUID // overrides the customer's assigned branch
	WantsInvoice bool
}

// CheckoutResult is the outcome of a successful checkout
type CheckoutResult struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	InvoiceID   *uuid.UUID      `json:"invoice_id,omitempty"`
	Folio       string          `json:"folio,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	TotalDue    decimal.Decimal `json:"total_due"`
}

// AdvanceRequest moves an order to a target status. Reason and ActorID
// are required when the target is CANCELADO.
type AdvanceRequest struct {
	OrderID uuid.UUID
	Target  ordering.OrderStatus
	ActorID uuid.UUID
	Reason  string
}

// CancelRequest cancels a processing order
type CancelRequest struct {
	OrderID uuid.UUID
	Reason  string
	ActorID uuid.UUID
}

// OrderListFilter narrows order listings
type OrderListFilter struct {
	Page     int
	PageSize int
	Status   *ordering.OrderStatus
	Search   string
}

// OrderItemResponse is a line in an order response
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the full order representation
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	CustomerID   uuid.UUID           `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	BranchID     uuid.UUID           `json:"branch_id"`
	Status       string              `json:"status"`
	Items        []OrderItemResponse `json:"items"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	DiscountPct  decimal.Decimal     `json:"discount_pct"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	ProcessedAt  *time.Time          `json:"processed_at,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
}

// ToOrderResponse converts an order aggregate to its response form
func ToOrderResponse(o *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}

	return OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		BranchID:     o.BranchID,
		Status:       o.Status.String(),
		Items:        items,
		Subtotal:     o.Subtotal,
		DiscountPct:  o.DiscountPct,
		TotalAmount:  o.TotalAmount,
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		ProcessedAt:  o.ProcessedAt,
		CompletedAt:  o.CompletedAt,
		CancelledAt:  o.CancelledAt,
	}
}

// CartLineResponse is a cart line in API responses
type CartLineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartResponse is the cart representation
type CartResponse struct {
	Lines       []CartLineResponse `json:"lines"`
	TotalPieces int                `json:"total_pieces"`
	Total       decimal.Decimal    `json:"total"`
}

// ToCartResponse converts a cart to its response form
func ToCartResponse(c ordering.Cart) CartResponse {
	lines := make([]CartLineResponse, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, CartLineResponse{
			ProductID:   line.ProductID,
			SKU:         line.SKU,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Subtotal:    line.Subtotal(),
		})
	}

	return CartResponse{
		Lines:       lines,
		TotalPieces: c.TotalPieces(),
		Total:       c.Total().Amount(),
	}
}
