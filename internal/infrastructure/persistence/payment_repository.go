package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM.
// Payments are insert-only; there is no update path.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Append persists a new payment record
func (r *GormPaymentRepository) Append(ctx context.Context, payment *billing.Payment) error {
	return dbFrom(ctx, r.db).Create(payment).Error
}

// FindByInvoice lists payments applied to an invoice, oldest first
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	if err := dbFrom(ctx, r.db).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByOrder lists payments applied to an order, oldest first
func (r *GormPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	if err := dbFrom(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumByOrder returns the total paid against an order
func (r *GormPaymentRepository) SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := dbFrom(ctx, r.db).
		Model(&billing.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("order_id = ?", orderID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
