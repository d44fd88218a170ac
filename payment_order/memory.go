package payment_order

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"goflare.io/trade/models"
)

// MemoryRepository is an arena-style in-memory order store for tests.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID uint64
	orders []*models.PaymentOrder
	byID   map[uint64]*models.PaymentOrder
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		byID:   make(map[uint64]*models.PaymentOrder),
	}
}

func (m *MemoryRepository) Create(_ context.Context, _ pgx.Tx, order *models.PaymentOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order.ID = m.nextID
	m.nextID++

	stored := *order
	m.orders = append(m.orders, &stored)
	m.byID[stored.ID] = &stored
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, _ pgx.Tx, id uint64) (*models.PaymentOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.byID[id]
	if !ok {
		return nil, models.ErrPaymentOrderNotFound
	}
	out := *order
	return &out, nil
}

func (m *MemoryRepository) ListByBuyer(_ context.Context, _ pgx.Tx, buyerID uint64, limit, offset uint64) ([]*models.PaymentOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*models.PaymentOrder, 0)
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].BuyerID == buyerID {
			out := *m.orders[i]
			matched = append(matched, &out)
		}
	}

	if offset >= uint64(len(matched)) {
		return []*models.PaymentOrder{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < uint64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}
