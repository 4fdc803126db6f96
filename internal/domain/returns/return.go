package returns

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/joyeria/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReturnWindow is how long after the order was placed a return may be
// requested.
const ReturnWindow = 30 * 24 * time.Hour

// ReturnStatus represents the status of a return (devolución)
type ReturnStatus string

const (
	ReturnStatusPendiente  ReturnStatus = "PENDIENTE"
	ReturnStatusAutorizada ReturnStatus = "AUTORIZADA"
	ReturnStatusRechazada  ReturnStatus = "RECHAZADA"
	ReturnStatusCompletada ReturnStatus = "COMPLETADA"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPendiente, ReturnStatusAutorizada, ReturnStatusRechazada, ReturnStatusCompletada:
		return true
	}
	return false
}

// String returns the string representation of ReturnStatus
func (s ReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	switch s {
	case ReturnStatusPendiente:
		return target == ReturnStatusAutorizada || target == ReturnStatusRechazada
	case ReturnStatusAutorizada:
		return target == ReturnStatusCompletada
	case ReturnStatusRechazada, ReturnStatusCompletada:
		return false // Terminal states
	}
	return false
}

// ReturnType classifies what the customer wants for a returned line
type ReturnType string

const (
	ReturnTypeReembolso ReturnType = "REEMBOLSO"
	ReturnTypeCambio    ReturnType = "CAMBIO"
)

// IsValid returns true if the return type is known
func (t ReturnType) IsValid() bool {
	return t == ReturnTypeReembolso || t == ReturnTypeCambio
}

// ReturnLine is one returned product. RefundAmount is computed from the
// captured order price; CAMBIO lines do not re-enter stock because the
// replacement piece leaves it again.
type ReturnLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReturnID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	Quantity     int             `gorm:"not null"`
	Type         ReturnType      `gorm:"type:varchar(20);not null"`
	Reason       string          `gorm:"type:varchar(200);not null"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (ReturnLine) TableName() string {
	return "return_lines"
}

// ReturnLineInput is the requested return of one product
type ReturnLineInput struct {
	ProductID uuid.UUID
	Quantity  int
	Type      ReturnType
	Reason    string
}

// Return is the aggregate root for the returns context
type Return struct {
	shared.BaseAggregateRoot
	ReturnNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderNumber     string          `gorm:"type:varchar(50);not null"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          ReturnStatus    `gorm:"type:varchar(20);not null;default:'PENDIENTE'"`
	Lines           []ReturnLine    `gorm:"foreignKey:ReturnID"`
	TotalRefund     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RequestedAt     time.Time       `gorm:"not null"`
	ReviewedAt      *time.Time
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason string     `gorm:"type:varchar(200)"`
	CompletedAt     *time.Time
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// NewReturn validates a return request against the order and creates a
// pending return. alreadyReturned carries, per product, the quantity
// accepted by earlier non-rejected returns of the same order so the
// eligible quantity shrinks with each request. All-or-nothing: any
// invalid line rejects the whole request.
func NewReturn(returnNumber string, order *ordering.Order, alreadyReturned map[uuid.UUID]int, lines []ReturnLineInput) (*Return, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("INVALID_RETURN_NUMBER", "Return number cannot be empty")
	}
	if order == nil {
		return nil, shared.ErrNotFound
	}
	if order.Status != ordering.OrderStatusCompletado {
		return nil, shared.NewDomainError("INVALID_STATE", "Only completed orders can be returned")
	}
	if time.Since(order.CreatedAt) > ReturnWindow {
		return nil, shared.NewDomainError("RETURN_WINDOW_EXPIRED",
			"Return window of 30 days has expired").
			WithMeta("order_number", order.OrderNumber)
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Return must contain at least one line")
	}

	ret := &Return{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReturnNumber:      returnNumber,
		OrderID:           order.ID,
		OrderNumber:       order.OrderNumber,
		CustomerID:        order.CustomerID,
		BranchID:          order.BranchID,
		Status:            ReturnStatusPendiente,
		RequestedAt:       time.Now(),
	}

	requested := make(map[uuid.UUID]int)
	totalRefund := decimal.Zero
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be at least 1")
		}
		if !line.Type.IsValid() {
			return nil, shared.NewDomainError("INVALID_RETURN_TYPE", "Unknown return type")
		}
		if line.Reason == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "Return reason cannot be empty")
		}

		unitPrice, ok := order.UnitPriceOf(line.ProductID)
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_IN_ORDER",
				"Product was not part of the order").
				WithMeta("product_id", line.ProductID.String())
		}

		requested[line.ProductID] += line.Quantity
		eligible := order.QuantityPurchased(line.ProductID) - alreadyReturned[line.ProductID]
		if requested[line.ProductID] > eligible {
			return nil, shared.NewDomainError("QUANTITY_EXCEEDS_PURCHASED",
				fmt.Sprintf("Only %d pieces remain returnable", eligible)).
				WithMeta("product_id", line.ProductID.String())
		}

		now := time.Now()
		refund := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		ret.Lines = append(ret.Lines, ReturnLine{
			ID:           uuid.New(),
			ReturnID:     ret.ID,
			ProductID:    line.ProductID,
			ProductName:  productNameIn(order, line.ProductID),
			Quantity:     line.Quantity,
			Type:         line.Type,
			Reason:       line.Reason,
			RefundAmount: refund,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if line.Type == ReturnTypeReembolso {
			totalRefund = totalRefund.Add(refund)
		}
	}

	ret.TotalRefund = totalRefund

	ret.AddDomainEvent(NewReturnRequestedEvent(ret))

	return ret, nil
}

func productNameIn(order *ordering.Order, productID uuid.UUID) string {
	for _, item := range order.Items {
		if item.ProductID == productID {
			return item.ProductName
		}
	}
	return ""
}

// Authorize approves the return
func (r *Return) Authorize(actorID uuid.UUID) error {
	if !r.Status.CanTransitionTo(ReturnStatusAutorizada) {
		return illegalTransition(r.Status, ReturnStatusAutorizada)
	}
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Authorization must record the acting user")
	}

	now := time.Now()
	from := r.Status
	r.Status = ReturnStatusAutorizada
	r.ReviewedAt = &now
	r.ReviewedBy = &actorID
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnStatusChangedEvent(r, from))

	return nil
}

// Reject declines the return with a reason
func (r *Return) Reject(actorID uuid.UUID, reason string) error {
	if !r.Status.CanTransitionTo(ReturnStatusRechazada) {
		return illegalTransition(r.Status, ReturnStatusRechazada)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Rejection reason cannot be empty")
	}

	now := time.Now()
	from := r.Status
	r.Status = ReturnStatusRechazada
	r.ReviewedAt = &now
	r.ReviewedBy = &actorID
	r.RejectionReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnStatusChangedEvent(r, from))

	return nil
}

// Complete closes an authorized return after restocking
func (r *Return) Complete() error {
	if !r.Status.CanTransitionTo(ReturnStatusCompletada) {
		return illegalTransition(r.Status, ReturnStatusCompletada)
	}

	now := time.Now()
	from := r.Status
	r.Status = ReturnStatusCompletada
	r.CompletedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnStatusChangedEvent(r, from))

	return nil
}

// RestockableLines returns the lines that re-enter stock. CAMBIO lines
// are excluded: the exchanged piece replaces the returned one.
func (r *Return) RestockableLines() []ReturnLine {
	var restockable []ReturnLine
	for _, line := range r.Lines {
		if line.Type != ReturnTypeCambio {
			restockable = append(restockable, line)
		}
	}
	return restockable
}

// HasRestockableLines returns true if any line re-enters stock
func (r *Return) HasRestockableLines() bool {
	return len(r.RestockableLines()) > 0
}

// QuantityByProduct returns the returned quantity per product
func (r *Return) QuantityByProduct() map[uuid.UUID]int {
	quantities := make(map[uuid.UUID]int, len(r.Lines))
	for _, line := range r.Lines {
		quantities[line.ProductID] += line.Quantity
	}
	return quantities
}

func illegalTransition(from, to ReturnStatus) *shared.DomainError {
	return shared.NewDomainError("ILLEGAL_TRANSITION",
		fmt.Sprintf("Cannot transition return from %s to %s", from, to)).
		WithMeta("from", from.String()).
		WithMeta("to", to.String())
}

// RefundTotal returns the refundable total as Money
func (r *Return) RefundTotal() valueobject.Money {
	return valueobject.NewMoneyMXN(r.TotalRefund)
}
