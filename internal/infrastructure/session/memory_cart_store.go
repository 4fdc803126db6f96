package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/ordering"
)

// InMemoryCartStore implements ordering.CartStore in process memory.
// Used in tests and single-instance development setups; carts do not
// survive a restart and the TTL is enforced lazily on read.
type InMemoryCartStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]memoryCartEntry
	ttl   time.Duration
}

type memoryCartEntry struct {
	cart      ordering.Cart
	expiresAt time.Time
}

// NewInMemoryCartStore creates a new in-memory cart store
func NewInMemoryCartStore(ttl time.Duration) *InMemoryCartStore {
	return &InMemoryCartStore{
		carts: make(map[uuid.UUID]memoryCartEntry),
		ttl:   ttl,
	}
}

// Get loads the cart for a user, returning an empty cart when none exists
func (s *InMemoryCartStore) Get(_ context.Context, userID uuid.UUID) (ordering.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.carts[userID]
	if !ok {
		return ordering.NewCart(), nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.carts, userID)
		return ordering.NewCart(), nil
	}
	return entry.cart, nil
}

// Save stores the cart for a user and resets its TTL
func (s *InMemoryCartStore) Save(_ context.Context, userID uuid.UUID, cart ordering.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = memoryCartEntry{
		cart:      cart,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Clear deletes the cart for a user
func (s *InMemoryCartStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

var _ ordering.CartStore = (*InMemoryCartStore)(nil)
