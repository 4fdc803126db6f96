package returns

import (
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the returns context
const (
	EventTypeReturnRequested     = "returns.return.requested"
	EventTypeReturnStatusChanged = "returns.return.status_changed"
)

// ReturnRequestedEvent is emitted when a return is requested
type ReturnRequestedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string          `json:"return_number"`
	OrderNumber  string          `json:"order_number"`
	LineCount    int             `json:"line_count"`
	TotalRefund  decimal.Decimal `json:"total_refund"`
}

// NewReturnRequestedEvent creates a new ReturnRequestedEvent
func NewReturnRequestedEvent(r *Return) *ReturnRequestedEvent {
	return &ReturnRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRequested, "Return", r.ID),
		ReturnNumber:    r.ReturnNumber,
		OrderNumber:     r.OrderNumber,
		LineCount:       len(r.Lines),
		TotalRefund:     r.TotalRefund,
	}
}

// ReturnStatusChangedEvent is emitted on every status transition
type ReturnStatusChangedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string `json:"return_number"`
	FromStatus   string `json:"from_status"`
	ToStatus     string `json:"to_status"`
}

// NewReturnStatusChangedEvent creates a new ReturnStatusChangedEvent
func NewReturnStatusChangedEvent(r *Return, from ReturnStatus) *ReturnStatusChangedEvent {
	return &ReturnStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnStatusChanged, "Return", r.ID),
		ReturnNumber:    r.ReturnNumber,
		FromStatus:      from.String(),
		ToStatus:        r.Status.String(),
	}
}
