package partner

import (
	"strings"
	"time"

	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerLevel represents a customer classification tier. Each tier
// carries the discount percentage applied to the order subtotal at
// checkout.
type CustomerLevel struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	DiscountPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerLevel) TableName() string {
	return "customer_levels"
}

// NewCustomerLevel creates a new classification level
func NewCustomerLevel(name string, discountPct decimal.Decimal) (*CustomerLevel, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Level name cannot be empty")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	}

	return &CustomerLevel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		DiscountPct:       discountPct,
	}, nil
}

// SetDiscount updates the level discount percentage
func (l *CustomerLevel) SetDiscount(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	}

	l.DiscountPct = pct
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}
