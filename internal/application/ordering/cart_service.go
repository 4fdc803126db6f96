package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/catalog"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartService manages the session cart. Prices are captured from the
// catalog when a line is added and kept until checkout.
type CartService struct {
	carts    ordering.CartStore
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(carts ordering.CartStore, products catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// Get returns the user's cart
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(cart)
	return &response, nil
}

// AddLine adds a product to the cart, capturing its discounted price
func (s *CartService) AddLine(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for sale").
			WithMeta("product_id", productID.String())
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.AddLine(product.ID, product.SKU, product.Name, product.DiscountedPrice(), quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// UpdateQuantity changes the quantity of a cart line
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartResponse, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.UpdateQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// RemoveLine removes a product from the cart
func (s *CartService) RemoveLine(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveLine(productID); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.carts.Clear(ctx, userID)
}

// MergeLineRequest is one line of an anonymous pre-login cart
type MergeLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// MergeAnonymous folds an anonymous session cart into the account cart
// at login. Prices come from the catalog, never from the client; lines
// already in the account cart keep their captured price and gain the
// anonymous quantity. Products that went inactive since they were
// browsed are dropped.
func (s *CartService) MergeAnonymous(ctx context.Context, userID uuid.UUID, lines []MergeLineRequest) (*CartResponse, error) {
	anonymous := ordering.NewCart()
	for _, line := range lines {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive() {
			s.logger.Debug("skipping inactive product during cart merge",
				zap.String("product_id", line.ProductID.String()))
			continue
		}
		if err := anonymous.AddLine(product.ID, product.SKU, product.Name, product.DiscountedPrice(), line.Quantity); err != nil {
			return nil, err
		}
	}
	if anonymous.IsEmpty() {
		return s.Get(ctx, userID)
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Merge(anonymous)
	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, err
	}

	s.logger.Debug("anonymous cart merged",
		zap.String("user_id", userID.String()),
		zap.Int("lines", len(cart.Lines)))

	response := ToCartResponse(cart)
	return &response, nil
}
