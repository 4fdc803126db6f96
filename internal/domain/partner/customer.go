package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Profile field names reported when the invoicing profile is incomplete
const (
	ProfileFieldRFC     = "rfc"
	ProfileFieldAddress = "address"
	ProfileFieldPhone   = "phone"
)

// rfcPattern matches the SAT RFC format for individuals and companies
var rfcPattern = regexp.MustCompile(`^[A-ZÑ&]{3,4}\d{6}[A-Z0-9]{3}$`)

// Customer represents a store customer. It is the aggregate root for the
// partner context and holds the invoicing profile (RFC, address, phone)
// required before checkout can complete.
type Customer struct {
	shared.BaseAggregateRoot
	UserID   *uuid.UUID     `gorm:"type:uuid;uniqueIndex"`
	Name     string         `gorm:"type:varchar(200);not null"`
	Email    string         `gorm:"type:varchar(200);index"`
	RFC      string         `gorm:"type:varchar(13)"`
	Address  string         `gorm:"type:text"`
	Phone    string         `gorm:"type:varchar(20)"`
	LevelID  *uuid.UUID     `gorm:"type:uuid;index"`
	BranchID *uuid.UUID     `gorm:"type:uuid;index"`
	Status   CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(name, email string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Status:            CustomerStatusActive,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// LinkUser associates the customer with a login account
func (c *Customer) LinkUser(userID uuid.UUID) {
	c.UserID = &userID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// UpdateProfile updates the invoicing profile fields. Empty values clear
// the corresponding field.
func (c *Customer) UpdateProfile(rfc, address, phone string) error {
	rfc = strings.ToUpper(strings.TrimSpace(rfc))
	if rfc != "" && !rfcPattern.MatchString(rfc) {
		return shared.NewDomainError("INVALID_RFC", "RFC does not match the SAT format")
	}
	if phone != "" && len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}

	c.RFC = rfc
	c.Address = strings.TrimSpace(address)
	c.Phone = strings.TrimSpace(phone)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// AssignLevel sets the classification level of the customer
func (c *Customer) AssignLevel(levelID uuid.UUID) {
	c.LevelID = &levelID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// AssignBranch sets the branch the customer buys from
func (c *Customer) AssignBranch(branchID uuid.UUID) {
	c.BranchID = &branchID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// MissingProfileFields returns the invoicing profile fields that are still
// empty, in a stable order so callers can report the first one.
func (c *Customer) MissingProfileFields() []string {
	var missing []string
	if c.RFC == "" {
		missing = append(missing, ProfileFieldRFC)
	}
	if c.Address == "" {
		missing = append(missing, ProfileFieldAddress)
	}
	if c.Phone == "" {
		missing = append(missing, ProfileFieldPhone)
	}
	return missing
}

// IsProfileComplete returns true if the invoicing profile is complete
func (c *Customer) IsProfileComplete() bool {
	return len(c.MissingProfileFields()) == 0
}

// Deactivate marks the customer as inactive
func (c *Customer) Deactivate() {
	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
