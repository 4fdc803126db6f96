package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderingapp "github.com/joyeria/backend/internal/application/ordering"
	partnerapp "github.com/joyeria/backend/internal/application/partner"
	returnsapp "github.com/joyeria/backend/internal/application/returns"
	"github.com/joyeria/backend/internal/domain/identity"
	"github.com/joyeria/backend/internal/domain/returns"
	"github.com/joyeria/backend/internal/interfaces/http/dto"
	"github.com/joyeria/backend/internal/interfaces/http/middleware"
)

// ReturnHandler exposes the return workflow: request, review, restock
type ReturnHandler struct {
	BaseHandler
	returns   *returnsapp.ReturnService
	orders    *orderingapp.OrderService
	customers *partnerapp.CustomerService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(
	returnSvc *returnsapp.ReturnService,
	orders *orderingapp.OrderService,
	customers *partnerapp.CustomerService,
) *ReturnHandler {
	return &ReturnHandler{returns: returnSvc, orders: orders, customers: customers}
}

// Create opens a return against a completed order. Customers may only
// return their own orders; staff can file on a customer's behalf.
func (h *ReturnHandler) Create(c *gin.Context) {
	var req struct {
		OrderID uuid.UUID                      `json:"order_id" binding:"required"`
		Lines   []returnsapp.ReturnLineRequest `json:"lines" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if !h.callerOwnsOrder(c, req.OrderID) {
		h.Forbidden(c, "Order belongs to another customer")
		return
	}

	ret, err := h.returns.CreateReturn(c.Request.Context(), returnsapp.CreateReturnRequest{
		OrderID: req.OrderID,
		Lines:   req.Lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

// Get returns one return. Customers can only read their own.
func (h *ReturnHandler) Get(c *gin.Context) {
	returnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ret, err := h.returns.GetByID(c.Request.Context(), returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	role := identity.Role(middleware.GetRole(c))
	if !role.IsStaff() && !h.callerIsCustomer(c, ret.CustomerID) {
		h.Forbidden(c, "Return belongs to another customer")
		return
	}
	h.Success(c, ret)
}

// ListMine returns the authenticated customer's returns
func (h *ReturnHandler) ListMine(c *gin.Context) {
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

	rets, err := h.returns.ListByCustomer(c.Request.Context(), customer.ID, returnsapp.ReturnListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rets)
}

// ListByStatus returns returns in the requested status for the review
// and restock queues. Defaults to PENDIENTE.
func (h *ReturnHandler) ListByStatus(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	status := returns.ReturnStatusPendiente
	if statusParam := c.Query("status"); statusParam != "" {
		status = returns.ReturnStatus(statusParam)
	}

	rets, err := h.returns.ListByStatus(c.Request.Context(), status, returnsapp.ReturnListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rets)
}

// ListByOrder returns the returns filed against an order
func (h *ReturnHandler) ListByOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rets, err := h.returns.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rets)
}

// Authorize approves a pending return
func (h *ReturnHandler) Authorize(c *gin.Context) {
	returnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	ret, err := h.returns.Authorize(c.Request.Context(), returnsapp.ReviewRequest{
		ReturnID: returnID,
		ActorID:  actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// Reject declines a pending return with a reason
func (h *ReturnHandler) Reject(c *gin.Context) {
	returnID, ok := parseIDParam(c, "id")
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

	ret, err := h.returns.Reject(c.Request.Context(), returnsapp.ReviewRequest{
		ReturnID: returnID,
		ActorID:  actorID,
		Reason:   req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// Restock completes an authorized return, re-entering REEMBOLSO lines
// into branch stock with audit movements
func (h *ReturnHandler) Restock(c *gin.Context) {
	returnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	ret, err := h.returns.Restock(c.Request.Context(), returnsapp.RestockRequest{
		ReturnID: returnID,
		ActorID:  actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// callerOwnsOrder reports whether the caller may act on the order:
// staff always, customers only on their own orders
func (h *ReturnHandler) callerOwnsOrder(c *gin.Context, orderID uuid.UUID) bool {
	role := identity.Role(middleware.GetRole(c))
	if role.IsStaff() {
		return true
	}

	order, err := h.orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		// Let the service surface NOT_FOUND with the proper envelope
		return true
	}
	return h.callerIsCustomer(c, order.CustomerID)
}

func (h *ReturnHandler) callerIsCustomer(c *gin.Context, customerID uuid.UUID) bool {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return false
	}
	customer, err := h.customers.GetByUser(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return customer.ID == customerID
}
