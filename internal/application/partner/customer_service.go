package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/partner"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CustomerService manages customer profiles, classification levels and
// branch assignment.
type CustomerService struct {
	customers partner.CustomerRepository
	levels    partner.CustomerLevelRepository
	branches  partner.BranchRepository
	logger    *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customers partner.CustomerRepository,
	levels partner.CustomerLevelRepository,
	branches partner.BranchRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customers: customers,
		levels:    levels,
		branches:  branches,
		logger:    logger,
	}
}

// GetByUser returns the customer linked to a login account
func (s *CustomerService) GetByUser(ctx context.Context, userID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// UpdateProfile updates the invoicing profile of the customer linked to
// the account. Checkout requires the profile to be complete.
func (s *CustomerService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*CustomerResponse, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := customer.UpdateProfile(req.RFC, req.Address, req.Phone); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer profile updated",
		zap.String("customer_id", customer.ID.String()),
		zap.Bool("complete", customer.IsProfileComplete()))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// AssignLevel sets a customer's classification level
func (s *CustomerService) AssignLevel(ctx context.Context, customerID uuid.UUID, req AssignLevelRequest) (*CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	level, err := s.levels.FindByID(ctx, req.LevelID)
	if err != nil {
		return nil, err
	}

	customer.AssignLevel(level.ID)
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer level assigned",
		zap.String("customer_id", customer.ID.String()),
		zap.String("level", level.Name))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// AssignBranch sets the branch a customer buys from. Inactive branches
// cannot take new customers.
func (s *CustomerService) AssignBranch(ctx context.Context, customerID uuid.UUID, req AssignBranchRequest) (*CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	branch, err := s.branches.FindByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Branch is not active").
			WithMeta("branch_code", branch.Code)
	}

	customer.AssignBranch(branch.ID)
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List lists customers for the back office
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search

	customers, err := s.customers.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customers.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, ToCustomerResponse(&customers[i]))
	}
	return responses, total, nil
}

// CreateLevel adds a classification level
func (s *CustomerService) CreateLevel(ctx context.Context, name string, discountPct decimal.Decimal) (*LevelResponse, error) {
	level, err := partner.NewCustomerLevel(name, discountPct)
	if err != nil {
		return nil, err
	}
	if err := s.levels.Save(ctx, level); err != nil {
		return nil, err
	}

	response := ToLevelResponse(level)
	return &response, nil
}

// ListLevels returns every classification level
func (s *CustomerService) ListLevels(ctx context.Context) ([]LevelResponse, error) {
	levels, err := s.levels.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]LevelResponse, 0, len(levels))
	for i := range levels {
		responses = append(responses, ToLevelResponse(&levels[i]))
	}
	return responses, nil
}

// CreateBranch adds a store location
func (s *CustomerService) CreateBranch(ctx context.Context, code, name string) (*BranchResponse, error) {
	branch, err := partner.NewBranch(code, name)
	if err != nil {
		return nil, err
	}
	if err := s.branches.Save(ctx, branch); err != nil {
		return nil, err
	}

	s.logger.Info("branch created", zap.String("code", branch.Code))

	response := ToBranchResponse(branch)
	return &response, nil
}

// ListBranches returns every branch
func (s *CustomerService) ListBranches(ctx context.Context) ([]BranchResponse, error) {
	branches, err := s.branches.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]BranchResponse, 0, len(branches))
	for i := range branches {
		responses = append(responses, ToBranchResponse(&branches[i]))
	}
	return responses, nil
}
