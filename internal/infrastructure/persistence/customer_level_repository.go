package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/partner"
	"github.com/joyeria/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCustomerLevelRepository implements partner.CustomerLevelRepository using GORM
type GormCustomerLevelRepository struct {
	db *gorm.DB
}

// NewGormCustomerLevelRepository creates a new GormCustomerLevelRepository
func NewGormCustomerLevelRepository(db *gorm.DB) *GormCustomerLevelRepository {
	return &GormCustomerLevelRepository{db: db}
}

// FindByID finds a level by its ID
func (r *GormCustomerLevelRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CustomerLevel, error) {
	var level partner.CustomerLevel
	if err := dbFrom(ctx, r.db).First(&level, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindAll returns every classification level
func (r *GormCustomerLevelRepository) FindAll(ctx context.Context) ([]partner.CustomerLevel, error) {
	var levels []partner.CustomerLevel
	if err := dbFrom(ctx, r.db).Order("discount_pct ASC").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// Save creates or updates a level
func (r *GormCustomerLevelRepository) Save(ctx context.Context, level *partner.CustomerLevel) error {
	return dbFrom(ctx, r.db).Save(level).Error
}

var _ partner.CustomerLevelRepository = (*GormCustomerLevelRepository)(nil)
