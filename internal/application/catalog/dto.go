package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest creates a catalog item
type CreateProductRequest struct {
	SKU       string          `json:"sku" binding:"required,max=50"`
	Name      string          `json:"name" binding:"required,max=200"`
	Category  string          `json:"category" binding:"required,max=50"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateProductRequest updates basic product information
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required,max=50"`
}

// SetPriceRequest changes the unit price
type SetPriceRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// SetDiscountRequest sets the product-level discount percentage
type SetDiscountRequest struct {
	DiscountPct decimal.Decimal `json:"discount_pct" binding:"required"`
}

// ProductListFilter narrows product listings
type ProductListFilter struct {
	Page       int
	PageSize   int
	Category   string
	Search     string
	ActiveOnly bool
}

// ProductResponse is the product representation
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPct     decimal.Decimal `json:"discount_pct"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product aggregate to its response form
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		UnitPrice:       p.UnitPrice,
		DiscountPct:     p.DiscountPct,
		DiscountedPrice: p.DiscountedPrice().Amount(),
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
