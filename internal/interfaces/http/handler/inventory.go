package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/joyeria/backend/internal/application/inventory"
	"github.com/joyeria/backend/internal/interfaces/http/dto"
	"github.com/joyeria/backend/internal/interfaces/http/middleware"
)

// InventoryHandler exposes per-branch stock management
type InventoryHandler struct {
	BaseHandler
	inventory *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventory *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// Adjust applies a manual stock movement (ENTRADA, SALIDA or AJUSTE)
// with the acting user recorded on the movement
func (h *InventoryHandler) Adjust(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventoryapp.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ActorID = actorID

	stock, err := h.inventory.Adjust(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// SetLevels sets the ideal and maximum stock levels for a product at a branch
func (h *InventoryHandler) SetLevels(c *gin.Context) {
	var req inventoryapp.SetLevelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stock, err := h.inventory.SetLevels(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// GetStock returns the stock of one product at one branch
func (h *InventoryHandler) GetStock(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	branchID, ok := parseIDParam(c, "branchId")
	if !ok {
		return
	}

	stock, err := h.inventory.GetStock(c.Request.Context(), productID, branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// ListByBranch returns all stock records at a branch
func (h *InventoryHandler) ListByBranch(c *gin.Context) {
	branchID, ok := parseIDParam(c, "branchId")
	if !ok {
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	stocks, err := h.inventory.ListByBranch(c.Request.Context(), branchID, inventoryapp.StockListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stocks)
}

// ListBelowIdeal returns the restock report: products under their ideal
// level at a branch
func (h *InventoryHandler) ListBelowIdeal(c *gin.Context) {
	branchID, ok := parseIDParam(c, "branchId")
	if !ok {
		return
	}

	stocks, err := h.inventory.ListBelowIdeal(c.Request.Context(), branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stocks)
}

// MovementHistory returns the audit trail of one product at one branch
func (h *InventoryHandler) MovementHistory(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	branchID, ok := parseIDParam(c, "branchId")
	if !ok {
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	movements, err := h.inventory.MovementHistory(c.Request.Context(), productID, branchID, inventoryapp.StockListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// MovementsByReference returns the movements tied to a document, e.g.
// all movements of one order number
func (h *InventoryHandler) MovementsByReference(c *gin.Context) {
	reference := c.Param("reference")

	movements, err := h.inventory.MovementsByReference(c.Request.Context(), reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}
