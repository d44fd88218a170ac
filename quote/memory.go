package quote

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"goflare.io/trade/models"
)

// MemoryRepository is an arena-style in-memory Repository for tests. The tx
// argument is ignored; pair it with driver.NewMemoryTransactionManager, whose
// serialization stands in for the row lock GetByIDForUpdate takes against
// Postgres.
type MemoryRepository struct {
	mu           sync.Mutex
	nextID       uint64
	nextItemID   uint64
	nextComment  uint64
	quotes       []*models.Quote
	byID         map[uint64]*models.Quote
	itemsByQuote map[uint64][]*models.QuoteItem
	comments     map[uint64][]*models.QuoteComment

	// FailAppendComment forces AppendComment to return this error, for
	// best-effort audit tests.
	FailAppendComment error

	// CacheCalls counts Cache invocations so tests can assert the service
	// publishes to the cache only after a successful commit.
	CacheCalls int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:       1,
		nextItemID:   1,
		nextComment:  1,
		byID:         make(map[uint64]*models.Quote),
		itemsByQuote: make(map[uint64][]*models.QuoteItem),
		comments:     make(map[uint64][]*models.QuoteComment),
	}
}

func cloneQuote(q *models.Quote) *models.Quote {
	out := *q
	out.Items = nil
	if q.PendingCounterOfferPrice != nil {
		price := *q.PendingCounterOfferPrice
		out.PendingCounterOfferPrice = &price
	}
	if q.PendingPaymentTerms != nil {
		terms := *q.PendingPaymentTerms
		out.PendingPaymentTerms = &terms
	}
	if q.PendingDeliveryTerms != nil {
		terms := *q.PendingDeliveryTerms
		out.PendingDeliveryTerms = &terms
	}
	if q.LastCounterOfferBy != nil {
		actor := *q.LastCounterOfferBy
		out.LastCounterOfferBy = &actor
	}
	if q.AcceptedAt != nil {
		at := *q.AcceptedAt
		out.AcceptedAt = &at
	}
	if q.ShippingQuoteID != nil {
		id := *q.ShippingQuoteID
		out.ShippingQuoteID = &id
	}
	return &out
}

func (m *MemoryRepository) Create(_ context.Context, _ pgx.Tx, quote *models.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	quote.ID = m.nextID
	m.nextID++

	stored := cloneQuote(quote)
	m.quotes = append(m.quotes, stored)
	m.byID[stored.ID] = stored
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, _ pgx.Tx, id uint64) (*models.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	quote, ok := m.byID[id]
	if !ok {
		return nil, models.ErrQuoteNotFound
	}
	return cloneQuote(quote), nil
}

func (m *MemoryRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*models.Quote, error) {
	return m.GetByID(ctx, tx, id)
}

func (m *MemoryRepository) Update(_ context.Context, _ pgx.Tx, quote *models.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.byID[quote.ID]
	if !ok {
		return models.ErrQuoteNotFound
	}
	*stored = *cloneQuote(quote)
	return nil
}

func (m *MemoryRepository) ListByBuyer(_ context.Context, _ pgx.Tx, buyerID uint64, limit, offset uint64) ([]*models.Quote, error) {
	return m.list(func(q *models.Quote) bool { return q.BuyerID == buyerID }, limit, offset), nil
}

func (m *MemoryRepository) ListBySupplier(_ context.Context, _ pgx.Tx, supplierID uint64, limit, offset uint64) ([]*models.Quote, error) {
	return m.list(func(q *models.Quote) bool { return q.SupplierID == supplierID }, limit, offset), nil
}

func (m *MemoryRepository) list(match func(*models.Quote) bool, limit, offset uint64) []*models.Quote {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*models.Quote, 0)
	for i := len(m.quotes) - 1; i >= 0; i-- {
		if match(m.quotes[i]) {
			matched = append(matched, cloneQuote(m.quotes[i]))
		}
	}

	if offset >= uint64(len(matched)) {
		return []*models.Quote{}
	}
	matched = matched[offset:]
	if limit > 0 && limit < uint64(len(matched)) {
		matched = matched[:limit]
	}
	return matched
}

func (m *MemoryRepository) CreateItems(_ context.Context, _ pgx.Tx, items []*models.QuoteItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range items {
		item.ID = m.nextItemID
		m.nextItemID++
		stored := *item
		m.itemsByQuote[item.QuoteID] = append(m.itemsByQuote[item.QuoteID], &stored)
	}
	return nil
}

func (m *MemoryRepository) ListItems(_ context.Context, _ pgx.Tx, quoteID uint64) ([]*models.QuoteItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]*models.QuoteItem, 0, len(m.itemsByQuote[quoteID]))
	for _, item := range m.itemsByQuote[quoteID] {
		out := *item
		items = append(items, &out)
	}
	return items, nil
}

func (m *MemoryRepository) AppendComment(_ context.Context, _ pgx.Tx, comment *models.QuoteComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAppendComment != nil {
		return m.FailAppendComment
	}

	comment.ID = m.nextComment
	m.nextComment++
	stored := *comment
	m.comments[comment.QuoteID] = append(m.comments[comment.QuoteID], &stored)
	return nil
}

func (m *MemoryRepository) Cache(_ context.Context, _ *models.Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheCalls++
}

func (m *MemoryRepository) ListComments(_ context.Context, _ pgx.Tx, quoteID uint64) ([]*models.QuoteComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	comments := make([]*models.QuoteComment, 0, len(m.comments[quoteID]))
	for _, comment := range m.comments[quoteID] {
		out := *comment
		comments = append(comments, &out)
	}
	return comments, nil
}
