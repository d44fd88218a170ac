package product

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"goflare.io/trade/models"
)

// MemoryRepository is an arena-style in-memory catalog for tests.
type MemoryRepository struct {
	mu       sync.Mutex
	nextID   uint64
	products []*models.Product
	byID     map[uint64]*models.Product
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		byID:   make(map[uint64]*models.Product),
	}
}

func (m *MemoryRepository) Create(_ context.Context, _ pgx.Tx, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	product.ID = m.nextID
	m.nextID++

	stored := *product
	m.products = append(m.products, &stored)
	m.byID[stored.ID] = &stored
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, _ pgx.Tx, id uint64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.byID[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	out := *product
	return &out, nil
}

// Remove deletes a catalog entry, letting tests simulate a product that
// disappeared after being carted.
func (m *MemoryRepository) Remove(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

func (m *MemoryRepository) List(_ context.Context, _ pgx.Tx, limit, offset uint64, activeOnly bool) ([]*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*models.Product, 0)
	for _, product := range m.products {
		if _, ok := m.byID[product.ID]; !ok {
			continue
		}
		if activeOnly && !product.Active {
			continue
		}
		out := *product
		matched = append(matched, &out)
	}

	if offset >= uint64(len(matched)) {
		return []*models.Product{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < uint64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}
