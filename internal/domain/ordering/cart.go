package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/joyeria/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartLine is a product in the shopping cart. UnitPrice is captured from
// the catalog (after product discount) at the moment the line is added
// and is never re-derived afterwards.
type CartLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	AddedAt     time.Time       `json:"added_at"`
}

// Subtotal returns UnitPrice * Quantity for this line
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds a customer's pending selection. It lives in the session
// store, not in the database, and is serialized as JSON.
type Cart struct {
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart returns an empty cart
func NewCart() Cart {
	return Cart{Lines: []CartLine{}, UpdatedAt: time.Now()}
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// AddLine adds a product to the cart, merging quantities when the product
// is already present. The captured price of an existing line wins.
func (c *Cart) AddLine(productID uuid.UUID, sku, name string, unitPrice valueobject.Money, quantity int) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += quantity
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	c.Lines = append(c.Lines, CartLine{
		ProductID:   productID,
		SKU:         sku,
		ProductName: name,
		UnitPrice:   unitPrice.Amount(),
		Quantity:    quantity,
		AddedAt:     time.Now(),
	})
	c.UpdatedAt = time.Now()

	return nil
}

// UpdateQuantity sets the quantity of an existing line
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.ErrNotFound.WithMeta("product_id", productID.String())
}

// RemoveLine removes a product from the cart
func (c *Cart) RemoveLine(productID uuid.UUID) error {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.ErrNotFound.WithMeta("product_id", productID.String())
}

// Clear removes every line
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
	c.UpdatedAt = time.Now()
}

// Total returns the sum of line subtotals
func (c *Cart) Total() valueobject.Money {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return valueobject.NewMoneyMXN(total)
}

// TotalPieces returns the total quantity across lines
func (c *Cart) TotalPieces() int {
	pieces := 0
	for _, line := range c.Lines {
		pieces += line.Quantity
	}
	return pieces
}

// Merge folds another cart into this one. Used when an anonymous cart is
// merged into the account cart at login; existing lines keep their
// captured price and gain the other cart's quantity.
func (c *Cart) Merge(other Cart) {
	for _, line := range other.Lines {
		merged := false
		for i := range c.Lines {
			if c.Lines[i].ProductID == line.ProductID {
				c.Lines[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			c.Lines = append(c.Lines, line)
		}
	}
	c.UpdatedAt = time.Now()
}
