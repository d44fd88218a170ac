package quote

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/trade/driver"
	"goflare.io/trade/models"
	"goflare.io/trade/models/enum"
)

type notifierRecorder struct {
	mu     sync.Mutex
	events []enum.QuoteStatus
}

func (n *notifierRecorder) QuoteStatusChanged(_ context.Context, _ uint64, status enum.QuoteStatus, _ enum.ActorType) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, status)
}

func newTestService(repo *MemoryRepository, notifier StatusNotifier) Service {
	return NewService(repo, driver.NewMemoryTransactionManager(), notifier, zap.NewNop())
}

func createPendingQuote(t *testing.T, svc Service, price int64) *models.Quote {
	t.Helper()

	result, err := svc.Create(context.Background(), &models.Quote{
		BuyerID:       1,
		SupplierID:    2,
		TotalPrice:    decimal.NewFromInt(price),
		PaymentTerms:  "NET30",
		DeliveryTerms: "FOB",
	}, []*models.QuoteItem{{
		ProductID:    10,
		ProductTitle: "Steel coils",
		Quantity:     2,
		UnitPrice:    decimal.NewFromInt(price / 2),
		LinePrice:    decimal.NewFromInt(price),
	}})
	require.NoError(t, err)
	return result.Quote
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(s string) *string { return &s }

func TestCreateStartsPendingWithQuoteNumber(t *testing.T) {
	svc := newTestService(NewMemoryRepository(), nil)
	created := createPendingQuote(t, svc, 10000)

	assert.Equal(t, enum.QuoteStatusPending, created.Status)
	assert.NotEmpty(t, created.QuoteNumber)
	assert.Nil(t, created.PendingCounterOfferPrice)
	assert.Zero(t, created.CounterOfferCount)
}

func TestCounterOfferThenAcceptPromotesPendingPrice(t *testing.T) {
	svc := newTestService(NewMemoryRepository(), nil)
	created := createPendingQuote(t, svc, 10000)
	ctx := context.Background()

	countered, err := svc.SendCounterOffer(ctx, created.ID, 1, enum.ActorTypeBuyer, "can you do 9000?", CounterOffer{
		NewPrice: decimalPtr(9000),
	})
	require.NoError(t, err)
	require.NotNil(t, countered.Quote.PendingCounterOfferPrice)
	assert.True(t, countered.Quote.PendingCounterOfferPrice.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, uint32(1), countered.Quote.CounterOfferCount)

	accepted, err := svc.Accept(ctx, created.ID, 2, enum.ActorTypeSupplier, "deal")
	require.NoError(t, err)

	assert.Equal(t, enum.QuoteStatusAccepted, accepted.Quote.Status)
	assert.True(t, accepted.Quote.TotalPrice.Equal(decimal.NewFromInt(9000)))
	assert.Nil(t, accepted.Quote.PendingCounterOfferPrice)
	assert.Nil(t, accepted.Quote.LastCounterOfferBy)
	assert.NotNil(t, accepted.Quote.AcceptedAt)
	assert.Equal(t, uint32(1), accepted.Quote.CounterOfferCount)
}

func TestCounterOfferPromotesPendingTermsOnAccept(t *testing.T) {
	svc := newTestService(NewMemoryRepository(), nil)
	created := createPendingQuote(t, svc, 10000)
	ctx := context.Background()

	_, err := svc.SendCounterOffer(ctx, created.ID, 2, enum.ActorTypeSupplier, "new terms", CounterOffer{
		PaymentTerms:  strPtr("NET60"),
		DeliveryTerms: strPtr("CIF"),
	})
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, created.ID, 1, enum.ActorTypeBuyer, "")
	require.NoError(t, err)

	assert.Equal(t, "NET60", accepted.Quote.PaymentTerms)
	assert.Equal(t, "CIF", accepted.Quote.DeliveryTerms)
	// Price was never countered, so the principal price stands.
	assert.True(t, accepted.Quote.TotalPrice.Equal(decimal.NewFromInt(10000)))
}

func TestSequentialCounterOffers(t *testing.T) {
	svc := newTestService(NewMemoryRepository(), nil)
	created := createPendingQuote(t, svc, 10000)
	ctx := context.Background()

	_, err := svc.SendCounterOffer(ctx, created.ID, 1, enum.ActorTypeBuyer, "offer 9000", CounterOffer{NewPrice: decimalPtr(9000)})
	require.NoError(t, err)

	second, err := svc.SendCounterOffer(ctx, created.ID, 2, enum.ActorTypeSupplier, "meet at 9500", CounterOffer{NewPrice: decimalPtr(9500)})
	require.NoError(t, err)

	assert.Equal(t, enum.QuoteStatusPending, second.Quote.Status)
	assert.Equal(t, uint32(2), second.Quote.CounterOfferCount)
	require.NotNil(t, second.Quote.LastCounterOfferBy)
	assert.Equal(t, enum.ActorTypeSupplier, *second.Quote.LastCounterOfferBy)
}

func TestRejectRetainsPendingFields(t *testing.T) {
	repo := NewMemoryRepository()
	svc := newTestService(repo, nil)
	created := createPendingQuote(t, svc, 10000)
	ctx := context.Background()

	_, err := svc.SendCounterOffer(ctx, created.ID, 1, enum.ActorTypeBuyer, "offer", CounterOffer{NewPrice: decimalPtr(8000)})
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, created.ID, 2, enum.ActorTypeSupplier, "too low")
	require.NoError(t, err)

	assert.Equal(t, enum.QuoteStatusRejected, rejected.Quote.Status)
	// Historical pending values survive for audit; principal price unchanged.
	require.NotNil(t, rejected.Quote.PendingCounterOfferPrice)
	assert.True(t, rejected.Quote.TotalPrice.Equal(decimal.NewFromInt(10000)))
}

func TestTerminalQuoteRejectsFurtherTransitions(t *testing.T) {
	svc := newTestService(NewMemoryRepository(), nil)
	created := createPendingQuote(t, svc, 10000)
	ctx := context.Background()

	_, err := svc.Accept(ctx, created.ID, 2, enum.ActorTypeSupplier, "")
	require.NoError(t, err)

	before, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.SendCounterOffer(ctx, created.ID, 1, enum.ActorTypeBuyer, "late offer", CounterOffer{NewPrice: decimalPtr(1)})
	assert.ErrorIs(t, err, models.ErrInvalidStateTransition)

	_, err = svc.Reject(ctx, created.ID, 1, enum.ActorTypeBuyer, "")
	assert.ErrorIs(t, err, models.ErrInvalidStateTransition)

	// The failed attempts left the quote untouched.
	after, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Status, after.Status)
	assert.True(t, before.TotalPrice.Equal(after.TotalPrice))
	assert.Equal(t, before.CounterOfferCount, after.CounterOfferCount)
}

func TestTransitionOnMissingQuote(t *testing.T) {
	svc := newTestService(NewMemoryRepository(), nil)

	_, err := svc.Accept(context.Background(), 404, 1, enum.ActorTypeBuyer, "")
	assert.ErrorIs(t, err, models.ErrQuoteNotFound)
}

func TestCounterOfferAppendsAuditComment(t *testing.T) {
	svc := newTestService(NewMemoryRepository(), nil)
	created := createPendingQuote(t, svc, 10000)
	ctx := context.Background()

	_, err := svc.SendCounterOffer(ctx, created.ID, 1, enum.ActorTypeBuyer, "offer 9000", CounterOffer{NewPrice: decimalPtr(9000)})
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	assert.Equal(t, enum.CommentActionCounterOffer, comments[0].Action)
	assert.Equal(t, "offer 9000", comments[0].Comment)
	require.NotNil(t, comments[0].OfferedPrice)
	assert.True(t, comments[0].OfferedPrice.Equal(decimal.NewFromInt(9000)))
}

func TestCommentFailureIsWarningNotError(t *testing.T) {
	repo := NewMemoryRepository()
	svc := newTestService(repo, nil)
	created := createPendingQuote(t, svc, 10000)
	ctx := context.Background()

	repo.FailAppendComment = errors.New("audit store down")

	result, err := svc.SendCounterOffer(ctx, created.ID, 1, enum.ActorTypeBuyer, "offer", CounterOffer{NewPrice: decimalPtr(9000)})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Warnings)

	// The transition itself committed.
	stored, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stored.CounterOfferCount)
}

func TestConcurrentCounterOffersBothReflected(t *testing.T) {
	svc := newTestService(NewMemoryRepository(), nil)
	created := createPendingQuote(t, svc, 10000)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(price int64) {
			defer wg.Done()
			_, err := svc.SendCounterOffer(ctx, created.ID, 1, enum.ActorTypeBuyer, "race", CounterOffer{NewPrice: decimalPtr(price)})
			assert.NoError(t, err)
		}(int64(9000 + i*100))
	}
	wg.Wait()

	stored, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), stored.CounterOfferCount)
}

// commitFailTM runs the transaction body but fails the commit, simulating a
// transaction that rolls back after the work inside it succeeded.
type commitFailTM struct {
	inner driver.TransactionManager
	err   error
}

func (tm *commitFailTM) ExecuteTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if err := tm.inner.ExecuteTransaction(ctx, fn); err != nil {
		return err
	}
	return tm.err
}

func TestCacheNotPublishedWhenCommitFails(t *testing.T) {
	repo := NewMemoryRepository()
	commitErr := errors.New("commit failed")
	svc := NewService(repo, &commitFailTM{inner: driver.NewMemoryTransactionManager(), err: commitErr}, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Quote{
		BuyerID:       1,
		SupplierID:    2,
		TotalPrice:    decimal.NewFromInt(10000),
		PaymentTerms:  "NET30",
		DeliveryTerms: "FOB",
	}, []*models.QuoteItem{{
		ProductID:    10,
		ProductTitle: "Steel coils",
		Quantity:     2,
		UnitPrice:    decimal.NewFromInt(5000),
		LinePrice:    decimal.NewFromInt(10000),
	}})
	require.ErrorIs(t, err, commitErr)
	assert.Zero(t, repo.CacheCalls, "a failed commit must not publish to the cache")
}

func TestCachePublishedOnlyAfterCommit(t *testing.T) {
	repo := NewMemoryRepository()
	svc := newTestService(repo, nil)
	created := createPendingQuote(t, svc, 10000)
	require.Equal(t, 1, repo.CacheCalls)

	_, err := svc.Accept(context.Background(), created.ID, 2, enum.ActorTypeSupplier, "")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.CacheCalls)
}

func TestTransitionsNotifyCounterparty(t *testing.T) {
	recorder := &notifierRecorder{}
	svc := newTestService(NewMemoryRepository(), recorder)
	created := createPendingQuote(t, svc, 10000)
	ctx := context.Background()

	_, err := svc.SendCounterOffer(ctx, created.ID, 1, enum.ActorTypeBuyer, "offer", CounterOffer{NewPrice: decimalPtr(9000)})
	require.NoError(t, err)
	_, err = svc.Accept(ctx, created.ID, 2, enum.ActorTypeSupplier, "")
	require.NoError(t, err)

	assert.Equal(t, []enum.QuoteStatus{enum.QuoteStatusPending, enum.QuoteStatusAccepted}, recorder.events)
}
