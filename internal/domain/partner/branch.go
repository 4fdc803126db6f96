package partner

import (
	"strings"
	"time"

	"github.com/joyeria/backend/internal/domain/shared"
)

// BranchStatus represents the status of a branch
type BranchStatus string

const (
	BranchStatusActive   BranchStatus = "active"
	BranchStatusInactive BranchStatus = "inactive"
)

// Branch represents a store location (sucursal). Stock is kept per branch
// and every order is fulfilled against exactly one branch.
type Branch struct {
	shared.BaseAggregateRoot
	Code    string       `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name    string       `gorm:"type:varchar(100);not null"`
	Address string       `gorm:"type:text"`
	Phone   string       `gorm:"type:varchar(20)"`
	Status  BranchStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates a new branch
func NewBranch(code, name string) (*Branch, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Branch code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Branch code cannot exceed 20 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Branch name cannot be empty")
	}

	return &Branch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            BranchStatusActive,
	}, nil
}

// IsActive returns true if the branch can fulfill orders
func (b *Branch) IsActive() bool {
	return b.Status == BranchStatusActive
}

// Deactivate marks the branch as inactive
func (b *Branch) Deactivate() {
	b.Status = BranchStatusInactive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}
