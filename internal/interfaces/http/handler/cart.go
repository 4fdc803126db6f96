package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderingapp "github.com/joyeria/backend/internal/application/ordering"
	"github.com/joyeria/backend/internal/interfaces/http/middleware"
)

// CartHandler exposes the per-user shopping cart and checkout
type CartHandler struct {
	BaseHandler
	cart     *orderingapp.CartService
	checkout *orderingapp.CheckoutService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cart *orderingapp.CartService, checkout *orderingapp.CheckoutService) *CartHandler {
	return &CartHandler{cart: cart, checkout: checkout}
}

// Get returns the caller's cart
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	cart, err := h.cart.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddLine adds a product to the cart at the current catalog price
func (h *CartHandler) AddLine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		Quantity  int       `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cart.AddLine(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateQuantity sets the quantity of a cart line
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cart.UpdateQuantity(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveLine removes a product from the cart
func (h *CartHandler) RemoveLine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	cart, err := h.cart.RemoveLine(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.cart.Clear(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Merge folds a client-side anonymous cart into the account cart. Meant
// to be called once right after login; only product IDs and quantities
// are accepted, prices are re-read from the catalog.
func (h *CartHandler) Merge(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req struct {
		Lines []orderingapp.MergeLineRequest `json:"lines" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cart.MergeAnonymous(c.Request.Context(), userID, req.Lines)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Checkout turns the cart into a confirmed order, reserving stock and
// optionally creating the invoice in the same transaction
func (h *CartHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req struct {
		BranchID     *uuid.UUID `json:"branch_id"`
		WantsInvoice bool       `json:"wants_invoice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.checkout.CreateOrder(c.Request.Context(), orderingapp.CheckoutRequest{
		UserID:       userID,
		BranchID:     req.BranchID,
		WantsInvoice: req.WantsInvoice,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
