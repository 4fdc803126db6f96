package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/returns"
	"github.com/joyeria/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReturnRepository implements returns.ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return with its lines by ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.Return, error) {
	var ret returns.Return
	if err := dbFrom(ctx, r.db).
		Preload("Lines").
		First(&ret, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindByOrder lists returns requested against an order, oldest first
func (r *GormReturnRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]returns.Return, error) {
	var rets []returns.Return
	if err := dbFrom(ctx, r.db).
		Preload("Lines").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rets).Error; err != nil {
		return nil, err
	}
	return rets, nil
}

// FindByCustomer lists a customer's returns
func (r *GormReturnRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]returns.Return, error) {
	var rets []returns.Return
	query := r.applyFilter(
		dbFrom(ctx, r.db).Model(&returns.Return{}).
			Preload("Lines").
			Where("customer_id = ?", customerID),
		filter,
	)
	if err := query.Find(&rets).Error; err != nil {
		return nil, err
	}
	return rets, nil
}

// FindByStatus lists returns in a given status
func (r *GormReturnRepository) FindByStatus(ctx context.Context, status returns.ReturnStatus, filter shared.Filter) ([]returns.Return, error) {
	var rets []returns.Return
	query := r.applyFilter(
		dbFrom(ctx, r.db).Model(&returns.Return{}).
			Preload("Lines").
			Where("status = ?", status),
		filter,
	)
	if err := query.Find(&rets).Error; err != nil {
		return nil, err
	}
	return rets, nil
}

// SumReturnedByOrder aggregates, per product, the quantity covered by
// non-rejected returns of the order
func (r *GormReturnRepository) SumReturnedByOrder(ctx context.Context, orderID uuid.UUID) (map[uuid.UUID]int, error) {
	var rows []struct {
		ProductID uuid.UUID
		Total     int
	}
	if err := dbFrom(ctx, r.db).
		Table("return_lines").
		Select("return_lines.product_id, COALESCE(SUM(return_lines.quantity), 0) as total").
		Joins("JOIN returns ON returns.id = return_lines.return_id").
		Where("returns.order_id = ? AND returns.status <> ?", orderID, returns.ReturnStatusRechazada).
		Group("return_lines.product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		totals[row.ProductID] = row.Total
	}
	return totals, nil
}

// Save creates or updates a return together with its lines
func (r *GormReturnRepository) Save(ctx context.Context, ret *returns.Return) error {
	return dbFrom(ctx, r.db).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(ret).Error
}

// NextReturnNumber issues the next sequential return number (DEV-...)
func (r *GormReturnRepository) NextReturnNumber(ctx context.Context) (string, error) {
	var next int64
	if err := dbFrom(ctx, r.db).
		Raw("SELECT nextval('return_number_seq')").
		Scan(&next).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("DEV-%06d", next), nil
}

func (r *GormReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}
	return query
}

var _ returns.ReturnRepository = (*GormReturnRepository)(nil)
