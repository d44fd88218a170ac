package cart

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"goflare.io/trade/models"
)

// MemoryRepository is an arena-style in-memory cart store for tests.
type MemoryRepository struct {
	mu      sync.Mutex
	nextID  uint64
	byBuyer map[uint64][]*models.CartItem
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:  1,
		byBuyer: make(map[uint64][]*models.CartItem),
	}
}

func (m *MemoryRepository) AddItem(_ context.Context, _ pgx.Tx, item *models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item.ID = m.nextID
	m.nextID++

	stored := *item
	m.byBuyer[item.BuyerID] = append(m.byBuyer[item.BuyerID], &stored)
	return nil
}

func (m *MemoryRepository) ListByBuyer(_ context.Context, _ pgx.Tx, buyerID uint64) ([]*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]*models.CartItem, 0, len(m.byBuyer[buyerID]))
	for _, item := range m.byBuyer[buyerID] {
		out := *item
		items = append(items, &out)
	}
	return items, nil
}

func (m *MemoryRepository) Clear(_ context.Context, _ pgx.Tx, buyerID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.byBuyer, buyerID)
	return nil
}
