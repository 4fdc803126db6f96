package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// UpdateProfileRequest updates the invoicing profile of a customer
type UpdateProfileRequest struct {
	RFC     string `json:"rfc" binding:"max=13"`
	Address string `json:"address" binding:"max=200"`
	Phone   string `json:"phone" binding:"max=20"`
}

// AssignLevelRequest sets a customer's classification level
type AssignLevelRequest struct {
	LevelID uuid.UUID `json:"level_id" binding:"required"`
}

// AssignBranchRequest sets the branch a customer buys from
type AssignBranchRequest struct {
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
}

// CustomerListFilter narrows customer listings
type CustomerListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// CustomerResponse is the customer representation
type CustomerResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	RFC             string     `json:"rfc,omitempty"`
	Address         string     `json:"address,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	LevelID         *uuid.UUID `json:"level_id,omitempty"`
	BranchID        *uuid.UUID `json:"branch_id,omitempty"`
	Status          string     `json:"status"`
	ProfileComplete bool       `json:"profile_complete"`
	MissingFields   []string   `json:"missing_fields,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToCustomerResponse converts a customer aggregate to its response form
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		UserID:          c.UserID,
		Name:            c.Name,
		Email:           c.Email,
		RFC:             c.RFC,
		Address:         c.Address,
		Phone:           c.Phone,
		LevelID:         c.LevelID,
		BranchID:        c.BranchID,
		Status:          string(c.Status),
		ProfileComplete: c.IsProfileComplete(),
		MissingFields:   c.MissingProfileFields(),
		CreatedAt:       c.CreatedAt,
	}
}

// LevelResponse is a classification level
type LevelResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// ToLevelResponse converts a level to its response form
func ToLevelResponse(l *partner.CustomerLevel) LevelResponse {
	return LevelResponse{
		ID:          l.ID,
		Name:        l.Name,
		DiscountPct: l.DiscountPct,
	}
}

// BranchResponse is a branch
type BranchResponse struct {
	ID      uuid.UUID `json:"id"`
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	Address string    `json:"address,omitempty"`
	Phone   string    `json:"phone,omitempty"`
	Status  string    `json:"status"`
}

// ToBranchResponse converts a branch to its response form
func ToBranchResponse(b *partner.Branch) BranchResponse {
	return BranchResponse{
		ID:      b.ID,
		Code:    b.Code,
		Name:    b.Name,
		Address: b.Address,
		Phone:   b.Phone,
		Status:  string(b.Status),
	}
}
