package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/joyeria/backend/internal/application/billing"
	"github.com/joyeria/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// PaymentHandler exposes payment recording and queries
type PaymentHandler struct {
	BaseHandler
	payments *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Record applies a payment against an invoice or an uninvoiced order.
// Overpayment beyond the outstanding balance is rejected atomically.
func (h *PaymentHandler) Record(c *gin.Context) {
	var req struct {
		InvoiceID *uuid.UUID      `json:"invoice_id"`
		OrderID   *uuid.UUID      `json:"order_id"`
		Amount    decimal.Decimal `json:"amount" binding:"required"`
		Method    string          `json:"method" binding:"required"`
		Remark    string          `json:"remark" binding:"max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.payments.RecordPayment(c.Request.Context(), billingapp.RecordPaymentRequest{
		InvoiceID: req.InvoiceID,
		OrderID:   req.OrderID,
		Amount:    req.Amount,
		Method:    billing.PaymentMethod(req.Method),
		Remark:    req.Remark,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListByInvoice returns the payments applied to an invoice
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payments, err := h.payments.ListByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// ListByOrder returns the payments applied to an order
func (h *PaymentHandler) ListByOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payments, err := h.payments.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}
