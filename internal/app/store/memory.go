package store

import (
	"context"
	"sync"

	"shopreco/internal/app/shop"
)

// Memory is an in-process Store.
type Memory struct {
	mu        sync.RWMutex
	order     []shop.UserID
	purchases map[shop.UserID][]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{purchases: make(map[shop.UserID][]string)}
}

func (m *Memory) ListUsers(_ context.Context) ([]shop.UserID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]shop.UserID, len(m.order))
	copy(out, m.order)
	return out, nil
}

func (m *Memory) CreateUser(_ context.Context, id shop.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.purchases[id]; ok {
		return ErrUserExists
	}
	m.register(id)
	return nil
}

func (m *Memory) AddPurchase(_ context.Context, id shop.UserID, sku string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.purchases[id]; !ok {
		m.register(id)
	}
	m.purchases[id] = append(m.purchases[id], sku)
	return nil
}

func (m *Memory) Purchases(_ context.Context, id shop.UserID) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	skus := m.purchases[id]
	out := make([]string, len(skus))
	copy(out, skus)
	return out, nil
}

// register must be called with mu held for writing.
func (m *Memory) register(id shop.UserID) {
	m.order = append(m.order, id)
	m.purchases[id] = []string{}
}
