package cart

import (
	"context"
	"sync"

	"storefront/internal/model"
)

// memoryStore keeps carts in process memory. Used in tests and when no
// Redis address is configured; carts then last only as long as the
// process.
type memoryStore struct {
	mu    sync.Mutex
	carts map[string][]model.CartLine
}

// NewMemoryStore creates an in-process cart store.
func NewMemoryStore() Store {
	return &memoryStore{carts: make(map[string][]model.CartLine)}
}

func (s *memoryStore) Get(_ context.Context, sessionID string) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(sessionID), nil
}

func (s *memoryStore) AddItem(_ context.Context, sessionID string, line model.CartLine) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = applyAdd(s.carts[sessionID], line)
	return s.snapshot(sessionID), nil
}

func (s *memoryStore) UpdateQuantity(_ context.Context, sessionID, productID string, quantity int) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = applyQuantity(s.carts[sessionID], productID, quantity)
	return s.snapshot(sessionID), nil
}

func (s *memoryStore) RemoveItem(_ context.Context, sessionID, productID string) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = applyRemove(s.carts[sessionID], productID)
	return s.snapshot(sessionID), nil
}

func (s *memoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func (s *memoryStore) snapshot(sessionID string) model.Cart {
	lines := make([]model.CartLine, len(s.carts[sessionID]))
	copy(lines, s.carts[sessionID])
	return model.Cart{SessionID: sessionID, Lines: lines}
}
