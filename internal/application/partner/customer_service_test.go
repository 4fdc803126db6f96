package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/partner"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCustomerLevelRepository is a mock implementation of partner.CustomerLevelRepository
type MockCustomerLevelRepository struct {
	mock.Mock
}

func (m *MockCustomerLevelRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CustomerLevel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CustomerLevel), args.Error(1)
}

func (m *MockCustomerLevelRepository) FindAll(ctx context.Context) ([]partner.CustomerLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.CustomerLevel), args.Error(1)
}

func (m *MockCustomerLevelRepository) Save(ctx context.Context, level *partner.CustomerLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

// MockBranchRepository is a mock implementation of partner.BranchRepository
type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindByCode(ctx context.Context, code string) (*partner.Branch, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindAll(ctx context.Context) ([]partner.Branch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Branch), args.Error(1)
}

func (m *MockBranchRepository) Save(ctx context.Context, branch *partner.Branch) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}

type customerFixture struct {
	service   *CustomerService
	customers *MockCustomerRepository
	levels    *MockCustomerLevelRepository
	branches  *MockBranchRepository
}

func newCustomerFixture() *customerFixture {
	f := &customerFixture{
		customers: new(MockCustomerRepository),
		levels:    new(MockCustomerLevelRepository),
		branches:  new(MockBranchRepository),
	}
	f.service = NewCustomerService(f.customers, f.levels, f.branches, zap.NewNop())
	return f
}

func testCustomer(t *testing.T) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer("Elena Vargas", "elena@example.com")
	require.NoError(t, err)
	return customer
}

func TestCustomerService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("should complete the profile and normalize the RFC", func(t *testing.T) {
		f := newCustomerFixture()
		customer := testCustomer(t)
		customer.LinkUser(userID)

		f.customers.On("FindByUserID", ctx, userID).Return(customer, nil)
		f.customers.On("Save", ctx, customer).Return(nil)

		result, err := f.service.UpdateProfile(ctx, userID, UpdateProfileRequest{
			RFC:     "vage900215ab1",
			Address: "Av. Juárez 22, Guadalajara",
			Phone:   "3312345678",
		})

		require.NoError(t, err)
		assert.Equal(t, "VAGE900215AB1", result.RFC)
		assert.True(t, result.ProfileComplete)
		assert.Empty(t, result.MissingFields)
	})

	t.Run("should reject a malformed RFC", func(t *testing.T) {
		f := newCustomerFixture()
		customer := testCustomer(t)
		customer.LinkUser(userID)
		f.customers.On("FindByUserID", ctx, userID).Return(customer, nil)

		result, err := f.service.UpdateProfile(ctx, userID, UpdateProfileRequest{
			RFC: "NOT-AN-RFC",
		})

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_RFC", domainErr.Code)
		f.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should report missing fields in order", func(t *testing.T) {
		f := newCustomerFixture()
		customer := testCustomer(t)
		customer.LinkUser(userID)
		f.customers.On("FindByUserID", ctx, userID).Return(customer, nil)
		f.customers.On("Save", ctx, customer).Return(nil)

		result, err := f.service.UpdateProfile(ctx, userID, UpdateProfileRequest{
			Phone: "3312345678",
		})

		require.NoError(t, err)
		assert.False(t, result.ProfileComplete)
		assert.Equal(t, []string{partner.ProfileFieldRFC, partner.ProfileFieldAddress}, result.MissingFields)
	})
}

func TestCustomerService_Assignments(t *testing.T) {
	ctx := context.Background()

	t.Run("should assign an existing level", func(t *testing.T) {
		f := newCustomerFixture()
		customer := testCustomer(t)
		level, err := partner.NewCustomerLevel("Distribuidor", decimal.NewFromInt(15))
		require.NoError(t, err)

		f.customers.On("FindByID", ctx, customer.ID).Return(customer, nil)
		f.levels.On("FindByID", ctx, level.ID).Return(level, nil)
		f.customers.On("Save", ctx, customer).Return(nil)

		result, err := f.service.AssignLevel(ctx, customer.ID, AssignLevelRequest{LevelID: level.ID})

		require.NoError(t, err)
		require.NotNil(t, result.LevelID)
		assert.Equal(t, level.ID, *result.LevelID)
	})

	t.Run("should not assign a missing level", func(t *testing.T) {
		f := newCustomerFixture()
		customer := testCustomer(t)
		missing := uuid.New()

		f.customers.On("FindByID", ctx, customer.ID).Return(customer, nil)
		f.levels.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		result, err := f.service.AssignLevel(ctx, customer.ID, AssignLevelRequest{LevelID: missing})

		assert.Nil(t, result)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		f.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should not assign an inactive branch", func(t *testing.T) {
		f := newCustomerFixture()
		customer := testCustomer(t)
		branch, err := partner.NewBranch("GDL-01", "Sucursal Guadalajara Centro")
		require.NoError(t, err)
		branch.Deactivate()

		f.customers.On("FindByID", ctx, customer.ID).Return(customer, nil)
		f.branches.On("FindByID", ctx, branch.ID).Return(branch, nil)

		result, err := f.service.AssignBranch(ctx, customer.ID, AssignBranchRequest{BranchID: branch.ID})

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Equal(t, "GDL-01", domainErr.Meta["branch_code"])
	})

	t.Run("should assign an active branch", func(t *testing.T) {
		f := newCustomerFixture()
		customer := testCustomer(t)
		branch, err := partner.NewBranch("cdmx-01", "Sucursal Centro")
		require.NoError(t, err)

		f.customers.On("FindByID", ctx, customer.ID).Return(customer, nil)
		f.branches.On("FindByID", ctx, branch.ID).Return(branch, nil)
		f.customers.On("Save", ctx, customer).Return(nil)

		result, err := f.service.AssignBranch(ctx, customer.ID, AssignBranchRequest{BranchID: branch.ID})

		require.NoError(t, err)
		require.NotNil(t, result.BranchID)
		assert.Equal(t, branch.ID, *result.BranchID)
	})
}

func TestCustomerService_Catalogs(t *testing.T) {
	ctx := context.Background()

	t.Run("should create a level within bounds", func(t *testing.T) {
		f := newCustomerFixture()
		f.levels.On("Save", ctx, mock.AnythingOfType("*partner.CustomerLevel")).Return(nil)

		result, err := f.service.CreateLevel(ctx, "Mayorista", decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.Equal(t, "Mayorista", result.Name)
	})

	t.Run("should reject an out-of-range level discount", func(t *testing.T) {
		f := newCustomerFixture()

		result, err := f.service.CreateLevel(ctx, "Imposible", decimal.NewFromInt(120))

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_DISCOUNT", domainErr.Code)
	})

	t.Run("should uppercase branch codes", func(t *testing.T) {
		f := newCustomerFixture()
		f.branches.On("Save", ctx, mock.AnythingOfType("*partner.Branch")).Return(nil)

		result, err := f.service.CreateBranch(ctx, "mty-02", "Sucursal Monterrey Sur")

		require.NoError(t, err)
		assert.Equal(t, "MTY-02", result.Code)
	})
}
