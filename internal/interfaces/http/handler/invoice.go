package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/joyeria/backend/internal/application/billing"
	"github.com/joyeria/backend/internal/domain/billing"
	"github.com/joyeria/backend/internal/interfaces/http/dto"
)

// InvoiceHandler exposes invoice creation and queries
type InvoiceHandler struct {
	BaseHandler
	invoices *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// EnsureForOrder creates the invoice for an order, or returns the
// existing one. Requesting twice never duplicates.
func (h *InvoiceHandler) EnsureForOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoices.EnsureForOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get returns one invoice by ID
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoices.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// GetByOrder returns the invoice linked to an order
func (h *InvoiceHandler) GetByOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoices.GetByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// GetByFolio returns one invoice by folio
func (h *InvoiceHandler) GetByFolio(c *gin.Context) {
	invoice, err := h.invoices.GetByFolio(c.Request.Context(), c.Param("folio"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List returns invoices with an optional status filter
func (h *InvoiceHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	filter := billingapp.InvoiceListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
	}
	if statusParam := c.Query("status"); statusParam != "" {
		status := billing.InvoiceStatus(statusParam)
		filter.Status = &status
	}

	invoices, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}
