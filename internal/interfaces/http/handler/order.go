package handler

import (
	"github.com/gin-gonic/gin"
	orderingapp "github.com/joyeria/backend/internal/application/ordering"
	partnerapp "github.com/joyeria/backend/internal/application/partner"
	"github.com/joyeria/backend/internal/domain/identity"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/interfaces/http/dto"
	"github.com/joyeria/backend/internal/interfaces/http/middleware"
)

// OrderHandler exposes order queries and the staff status transitions
type OrderHandler struct {
	BaseHandler
	orders    *orderingapp.OrderService
	customers *partnerapp.CustomerService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *orderingapp.OrderService, customers *partnerapp.CustomerService) *OrderHandler {
	return &OrderHandler{orders: orders, customers: customers}
}

// ListMine returns the authenticated customer's orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	customer, err := h.customers.GetByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	orders, err := h.orders.ListByCustomer(c.Request.Context(), customer.ID, orderingapp.OrderListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// List returns orders for staff with status and search filters
func (h *OrderHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	filter := orderingapp.OrderListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		Search:   listReq.Search,
	}
	if statusParam := c.Query("status"); statusParam != "" {
		status := ordering.OrderStatus(statusParam)
		filter.Status = &status
	}

	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Get returns one order. Customers can only read their own orders.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if !h.callerMayRead(c, order) {
		h.Forbidden(c, "Order belongs to another customer")
		return
	}
	h.Success(c, order)
}

// GetByNumber returns one order by its business number. Staff only.
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.orders.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Advance moves an order along the status machine
func (h *OrderHandler) Advance(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req struct {
		Target string `json:"target" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Advance(c.Request.Context(), orderingapp.AdvanceRequest{
		OrderID: orderID,
		Target:  ordering.OrderStatus(req.Target),
		ActorID: actorID,
		Reason:  req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel aborts a processing order, restocking its lines
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), orderingapp.CancelRequest{
		OrderID: orderID,
		Reason:  req.Reason,
		ActorID: actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// StatusSummary returns order counts per status for the dashboards
func (h *OrderHandler) StatusSummary(c *gin.Context) {
	summary, err := h.orders.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// callerMayRead reports whether the authenticated caller may read the
// order: staff always, customers only for their own orders
func (h *OrderHandler) callerMayRead(c *gin.Context, order *orderingapp.OrderResponse) bool {
	role := identity.Role(middleware.GetRole(c))
	if role.IsStaff() {
		return true
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return false
	}
	customer, err := h.customers.GetByUser(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return customer.ID == order.CustomerID
}
