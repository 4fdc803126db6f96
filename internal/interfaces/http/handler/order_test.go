package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderingapp "github.com/joyeria/backend/internal/application/ordering"
	partnerapp "github.com/joyeria/backend/internal/application/partner"
	"github.com/joyeria/backend/internal/domain/inventory"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/domain/partner"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/joyeria/backend/internal/domain/shared/valueobject"
	"github.com/joyeria/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockOrderRepository is a mock implementation of ordering.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*ordering.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context) (map[ordering.OrderStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[ordering.OrderStatus]int64), args.Error(1)
}

func (m *MockOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockBranchStockRepository is a mock implementation of inventory.BranchStockRepository
type MockBranchStockRepository struct {
	mock.Mock
}

func (m *MockBranchStockRepository) FindByProductAndBranch(ctx context.Context, productID, branchID uuid.UUID) (*inventory.BranchStock, error) {
	args := m.Called(ctx, productID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.BranchStock), args.Error(1)
}

func (m *MockBranchStockRepository) FindByProductAndBranchForUpdate(ctx context.Context, productID, branchID uuid.UUID) (*inventory.BranchStock, error) {
	args := m.Called(ctx, productID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.BranchStock), args.Error(1)
}

func (m *MockBranchStockRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.BranchStock, error) {
	args := m.Called(ctx, branchID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BranchStock), args.Error(1)
}

func (m *MockBranchStockRepository) FindBelowIdeal(ctx context.Context, branchID uuid.UUID) ([]inventory.BranchStock, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BranchStock), args.Error(1)
}

func (m *MockBranchStockRepository) Save(ctx context.Context, stock *inventory.BranchStock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

// MockStockMovementRepository is a mock implementation of inventory.StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStockMovementRepository) FindByProduct(ctx context.Context, productID, branchID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, productID, branchID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByReference(ctx context.Context, reference string) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

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

// MockLevelRepository is a mock implementation of partner.CustomerLevelRepository
type MockLevelRepository struct {
	mock.Mock
}

func (m *MockLevelRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CustomerLevel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CustomerLevel), args.Error(1)
}

func (m *MockLevelRepository) FindAll(ctx context.Context) ([]partner.CustomerLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.CustomerLevel), args.Error(1)
}

func (m *MockLevelRepository) Save(ctx context.Context, level *partner.CustomerLevel) error {
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

type orderHandlerFixture struct {
	orders    *MockOrderRepository
	customers *MockCustomerRepository
	router    *gin.Engine
}

// asUser injects the context keys the JWT middleware would set
func asUser(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID.String())
		c.Set(middleware.RoleKey, role)
		c.Next()
	}
}

func newOrderHandlerFixture(t *testing.T, userID uuid.UUID, role string) *orderHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orderRepo := new(MockOrderRepository)
	customerRepo := new(MockCustomerRepository)
	logger := zap.NewNop()

	orderSvc := orderingapp.NewOrderService(
		fakeTxManager{}, orderRepo,
		new(MockBranchStockRepository), new(MockStockMovementRepository), logger)
	customerSvc := partnerapp.NewCustomerService(
		customerRepo, new(MockLevelRepository), new(MockBranchRepository), logger)

	h := NewOrderHandler(orderSvc, customerSvc)

	router := gin.New()
	router.Use(asUser(userID, role))
	router.GET("/orders/:id", h.Get)
	router.GET("/orders/mine", h.ListMine)

	return &orderHandlerFixture{orders: orderRepo, customers: customerRepo, router: router}
}

func newTestOrder(t *testing.T, customerID uuid.UUID) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder("PED-000001", customerID, "Ana Torres", uuid.New(),
		[]ordering.OrderLineInput{{
			ProductID:   uuid.New(),
			SKU:         "AN-001",
			ProductName: "Anillo de plata",
			Quantity:    1,
			UnitPrice:   valueobject.NewMoneyMXN(decimal.NewFromInt(1200)),
		}}, decimal.Zero)
	require.NoError(t, err)
	return order
}

func newLinkedCustomer(t *testing.T, userID uuid.UUID) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer("Ana Torres", "ana@example.com")
	require.NoError(t, err)
	customer.LinkUser(userID)
	return customer
}

func TestOrderHandler_Get(t *testing.T) {
	t.Run("customer reads own order", func(t *testing.T) {
		userID := uuid.New()
		fx := newOrderHandlerFixture(t, userID, "cliente")

		customer := newLinkedCustomer(t, userID)
		order := newTestOrder(t, customer.ID)
		fx.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		fx.customers.On("FindByUserID", mock.Anything, userID).Return(customer, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/"+order.ID.String(), nil)
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("customer cannot read another customer's order", func(t *testing.T) {
		userID := uuid.New()
		fx := newOrderHandlerFixture(t, userID, "cliente")

		customer := newLinkedCustomer(t, userID)
		order := newTestOrder(t, uuid.New())
		fx.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		fx.customers.On("FindByUserID", mock.Anything, userID).Return(customer, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/"+order.ID.String(), nil)
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("staff reads any order", func(t *testing.T) {
		userID := uuid.New()
		fx := newOrderHandlerFixture(t, userID, "ventas")

		order := newTestOrder(t, uuid.New())
		fx.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/"+order.ID.String(), nil)
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		fx.customers.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_ListMine(t *testing.T) {
	t.Run("lists the caller's orders", func(t *testing.T) {
		userID := uuid.New()
		fx := newOrderHandlerFixture(t, userID, "cliente")

		customer := newLinkedCustomer(t, userID)
		order := newTestOrder(t, customer.ID)
		fx.customers.On("FindByUserID", mock.Anything, userID).Return(customer, nil)
		fx.orders.On("FindByCustomer", mock.Anything, customer.ID, mock.Anything).
			Return([]ordering.Order{*order}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/mine", nil)
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no linked customer maps to 404", func(t *testing.T) {
		userID := uuid.New()
		fx := newOrderHandlerFixture(t, userID, "cliente")

		fx.customers.On("FindByUserID", mock.Anything, userID).Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/mine", nil)
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
