package freight

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"goflare.io/trade/models"
)

// MemoryRepository is an arena-style in-memory Repository for tests. The tx
// argument is ignored; pair it with driver.NewMemoryTransactionManager.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID uint64
	quotes []*models.ShippingQuote
	byID   map[uint64]*models.ShippingQuote

	// FailCreate forces Create to return this error, for degradation tests.
	FailCreate error

	// CacheCalls counts Cache invocations so tests can assert the service
	// publishes to the cache only after a successful commit.
	CacheCalls int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		byID:   make(map[uint64]*models.ShippingQuote),
	}
}

func (m *MemoryRepository) Create(_ context.Context, _ pgx.Tx, quote *models.ShippingQuote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreate != nil {
		return m.FailCreate
	}

	quote.ID = m.nextID
	m.nextID++

	stored := *quote
	m.quotes = append(m.quotes, &stored)
	m.byID[stored.ID] = &stored
	return nil
}

func (m *MemoryRepository) Cache(_ context.Context, _ *models.ShippingQuote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheCalls++
}

func (m *MemoryRepository) GetByID(_ context.Context, _ pgx.Tx, id uint64) (*models.ShippingQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	quote, ok := m.byID[id]
	if !ok {
		return nil, models.ErrShippingQuoteNotFound
	}
	out := *quote
	return &out, nil
}

func (m *MemoryRepository) ListByRoute(_ context.Context, _ pgx.Tx, origin, destination string, limit, offset uint64) ([]*models.ShippingQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*models.ShippingQuote, 0)
	for _, quote := range m.quotes {
		if quote.OriginPort == origin && quote.DestinationPort == destination {
			out := *quote
			matched = append(matched, &out)
		}
	}

	if offset >= uint64(len(matched)) {
		return []*models.ShippingQuote{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < uint64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}
