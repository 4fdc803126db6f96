package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/joyeria/backend/internal/application/partner"
	"github.com/joyeria/backend/internal/interfaces/http/dto"
	"github.com/joyeria/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// CustomerHandler exposes customer profiles, levels and branches
type CustomerHandler struct {
	BaseHandler
	customers *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// Me returns the authenticated user's customer profile
func (h *CustomerHandler) Me(c *gin.Context) {
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
	h.Success(c, customer)
}

// UpdateMe updates the authenticated user's billing profile. RFC,
// address and phone are required before checkout can invoice.
func (h *CustomerHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req partnerapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customers.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List returns customers for staff with name/email search
func (h *CustomerHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	customers, total, err := h.customers.List(c.Request.Context(), partnerapp.CustomerListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		Search:   listReq.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, customers, total, listReq.Page, listReq.PageSize)
}

// Get returns one customer by ID
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// AssignLevel moves a customer to a loyalty level
func (h *CustomerHandler) AssignLevel(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		LevelID uuid.UUID `json:"level_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customers.AssignLevel(c.Request.Context(), customerID, partnerapp.AssignLevelRequest{
		LevelID: req.LevelID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// AssignBranch sets a customer's home branch
func (h *CustomerHandler) AssignBranch(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		BranchID uuid.UUID `json:"branch_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customers.AssignBranch(c.Request.Context(), customerID, partnerapp.AssignBranchRequest{
		BranchID: req.BranchID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// CreateLevel registers a loyalty level with its discount percentage
func (h *CustomerHandler) CreateLevel(c *gin.Context) {
	var req struct {
		Name        string          `json:"name" binding:"required,max=50"`
		DiscountPct decimal.Decimal `json:"discount_pct"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	level, err := h.customers.CreateLevel(c.Request.Context(), req.Name, req.DiscountPct)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, level)
}

// ListLevels returns all loyalty levels
func (h *CustomerHandler) ListLevels(c *gin.Context) {
	levels, err := h.customers.ListLevels(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, levels)
}

// CreateBranch registers a branch
func (h *CustomerHandler) CreateBranch(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required,max=20"`
		Name string `json:"name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	branch, err := h.customers.CreateBranch(c.Request.Context(), req.Code, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, branch)
}

// ListBranches returns all branches
func (h *CustomerHandler) ListBranches(c *gin.Context) {
	branches, err := h.customers.ListBranches(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branches)
}
