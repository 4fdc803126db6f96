package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/returns"
	"github.com/shopspring/decimal"
)

// ReturnLineRequest is one product in a return request
type ReturnLineRequest struct {
	ProductID uuid.UUID          `json:"product_id" binding:"required"`
	Quantity  int                `json:"quantity" binding:"required,min=1"`
	Type      returns.ReturnType `json:"type" binding:"required"`
	Reason    string             `json:"reason" binding:"required"`
}

// CreateReturnRequest opens a return against a completed order
type CreateReturnRequest struct {
	OrderID uuid.UUID
	Lines   []ReturnLineRequest
}

// ReviewRequest authorizes or rejects a pending return
type ReviewRequest struct {
	ReturnID uuid.UUID
	ActorID  uuid.UUID
	Reason   string // required on rejection
}

// RestockRequest completes an authorized return, re-entering stock
type RestockRequest struct {
	ReturnID uuid.UUID
	ActorID  uuid.UUID
}

// ReturnListFilter narrows return listings
type ReturnListFilter struct {
	Page     int
	PageSize int
	Status   *returns.ReturnStatus
}

// ReturnLineResponse is a line in a return response
type ReturnLineResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	Type         string          `json:"type"`
	Reason       string          `json:"reason"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// ReturnResponse is the full return representation
type ReturnResponse struct {
	ID              uuid.UUID            `json:"id"`
	ReturnNumber    string               `json:"return_number"`
	OrderID         uuid.UUID            `json:"order_id"`
	OrderNumber     string               `json:"order_number"`
	CustomerID      uuid.UUID            `json:"customer_id"`
	BranchID        uuid.UUID            `json:"branch_id"`
	Status          string               `json:"status"`
	Lines           []ReturnLineResponse `json:"lines"`
	TotalRefund     decimal.Decimal      `json:"total_refund"`
	RequestedAt     time.Time            `json:"requested_at"`
	ReviewedAt      *time.Time           `json:"reviewed_at,omitempty"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
}

// ToReturnResponse converts a return aggregate to its response form
func ToReturnResponse(r *returns.Return) ReturnResponse {
	lines := make([]ReturnLineResponse, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, ReturnLineResponse{
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			Quantity:     line.Quantity,
			Type:         string(line.Type),
			Reason:       line.Reason,
			RefundAmount: line.RefundAmount,
		})
	}

	return ReturnResponse{
		ID:              r.ID,
		ReturnNumber:    r.ReturnNumber,
		OrderID:         r.OrderID,
		OrderNumber:     r.OrderNumber,
		CustomerID:      r.CustomerID,
		BranchID:        r.BranchID,
		Status:          r.Status.String(),
		Lines:           lines,
		TotalRefund:     r.TotalRefund,
		RequestedAt:     r.RequestedAt,
		ReviewedAt:      r.ReviewedAt,
		RejectionReason: r.RejectionReason,
		CompletedAt:     r.CompletedAt,
	}
}
