package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/trade/cart"
	"goflare.io/trade/driver"
	"goflare.io/trade/freight"
	"goflare.io/trade/models"
	"goflare.io/trade/models/enum"
	"goflare.io/trade/payment_order"
	"goflare.io/trade/product"
	"goflare.io/trade/quote"
)

type fixture struct {
	marketplace Marketplace
	productRepo *product.MemoryRepository
	freightRepo *freight.MemoryRepository
	productSvc  product.Service
	cartSvc     cart.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tm := driver.NewMemoryTransactionManager()
	logger := zap.NewNop()

	productRepo := product.NewMemoryRepository()
	freightRepo := freight.NewMemoryRepository()

	cartSvc := cart.NewService(cart.NewMemoryRepository(), tm)
	freightSvc := freight.NewService(freightRepo, tm, logger)
	paymentSvc := payment_order.NewService(payment_order.NewMemoryRepository(), tm)
	productSvc := product.NewService(productRepo, tm)
	quoteSvc := quote.NewService(quote.NewMemoryRepository(), tm, nil, logger)

	m, err := NewMarketplace(logger, nil, cartSvc, freightSvc, paymentSvc, productSvc, quoteSvc)
	require.NoError(t, err)

	return &fixture{
		marketplace: m,
		productRepo: productRepo,
		freightRepo: freightRepo,
		productSvc:  productSvc,
		cartSvc:     cartSvc,
	}
}

func (f *fixture) seedProduct(t *testing.T, title string, supplierID uint64, price int64) *models.Product {
	t.Helper()

	p := &models.Product{
		Title:             title,
		SupplierID:        supplierID,
		SupplierName:      "Acme Industrial",
		PricePerContainer: decimal.NewFromInt(price),
		Active:            true,
	}
	require.NoError(t, f.productSvc.Create(context.Background(), p))
	return p
}

func (f *fixture) addToCart(t *testing.T, buyerID uint64, p *models.Product, quantity uint32) {
	t.Helper()

	err := f.cartSvc.AddItem(context.Background(), &models.CartItem{
		BuyerID:       buyerID,
		ProductID:     p.ID,
		ProductTitle:  p.Title,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		Quantity:      quantity,
		UnitPrice:     p.PricePerContainer,
		ContainerType: enum.ContainerType20GP,
		Incoterm:      enum.IncotermFOB,
	})
	require.NoError(t, err)
}

func TestCreateQuoteFromCartSnapshotsAndClears(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Steel coils", 7, 1000)
	f.addToCart(t, 1, p, 3)

	result, err := f.marketplace.CreateQuoteFromCart(ctx, CreateQuoteRequest{BuyerID: 1})
	require.NoError(t, err)
	require.Len(t, result.Quote.Items, 1)

	item := result.Quote.Items[0]
	assert.Equal(t, "Steel coils", item.ProductTitle)
	assert.Equal(t, uint32(3), item.Quantity)
	assert.True(t, item.LinePrice.Equal(decimal.NewFromInt(3000)))
	assert.True(t, result.Quote.TotalPrice.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, enum.QuoteStatusPending, result.Quote.Status)
	assert.Equal(t, uint64(7), result.Quote.SupplierID)
	assert.Equal(t, "FOB", result.Quote.DeliveryTerms)

	// Conversion empties the cart.
	left, err := f.marketplace.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestCreateQuoteRefreshesTitleFromCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Hot-rolled steel coils", 7, 500)

	// The cart line carries a title that predates a catalog rename.
	err := f.cartSvc.AddItem(ctx, &models.CartItem{
		BuyerID:      1,
		ProductID:    p.ID,
		ProductTitle: "Steel coils",
		SupplierID:   p.SupplierID,
		SupplierName: p.SupplierName,
		Quantity:     1,
		UnitPrice:    p.PricePerContainer,
	})
	require.NoError(t, err)

	result, err := f.marketplace.CreateQuoteFromCart(ctx, CreateQuoteRequest{BuyerID: 1})
	require.NoError(t, err)
	require.Len(t, result.Quote.Items, 1)
	assert.Equal(t, "Hot-rolled steel coils", result.Quote.Items[0].ProductTitle)
}

func TestCreateQuoteFallsBackToCartSnapshotWhenProductGone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Steel coils", 7, 1000)
	f.addToCart(t, 1, p, 2)
	f.productRepo.Remove(p.ID)

	result, err := f.marketplace.CreateQuoteFromCart(ctx, CreateQuoteRequest{BuyerID: 1})
	require.NoError(t, err)
	require.Len(t, result.Quote.Items, 1)

	// The cart snapshot stands in for the vanished catalog entry.
	assert.Equal(t, "Steel coils", result.Quote.Items[0].ProductTitle)
	assert.True(t, result.Quote.TotalPrice.Equal(decimal.NewFromInt(2000)))
}

func TestCreateQuoteFromEmptyCartUsesAggregateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	total := decimal.NewFromInt(4500)
	result, err := f.marketplace.CreateQuoteFromCart(ctx, CreateQuoteRequest{
		BuyerID:     1,
		TotalAmount: &total,
	})
	require.NoError(t, err)
	require.Len(t, result.Quote.Items, 1)

	assert.Equal(t, "Aggregate order", result.Quote.Items[0].ProductTitle)
	assert.True(t, result.Quote.TotalPrice.Equal(total))
}

func TestCreateQuoteTotalAmountOverridesLineSum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Steel coils", 7, 1000)
	f.addToCart(t, 1, p, 2)

	negotiated := decimal.NewFromInt(1800)
	result, err := f.marketplace.CreateQuoteFromCart(ctx, CreateQuoteRequest{
		BuyerID:     1,
		TotalAmount: &negotiated,
	})
	require.NoError(t, err)
	assert.True(t, result.Quote.TotalPrice.Equal(negotiated))
}

func TestCreateQuoteAttachesBestFreight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Steel coils", 7, 1000)
	f.addToCart(t, 1, p, 1)

	result, err := f.marketplace.CreateQuoteFromCart(ctx, CreateQuoteRequest{
		BuyerID: 1,
		Freight: &FreightSelection{
			OriginPort:        "PACLP",
			DestinationPort:   "USMIA",
			ContainerType:     enum.ContainerType20GP,
			ContainerQuantity: 1,
			EstimatedDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			Incoterm:          enum.IncotermFOB,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Quote.ShippingQuoteID)
	assert.Empty(t, result.Warnings)

	sq, err := f.marketplace.ListShippingQuotes(ctx, "PACLP", "USMIA", 0, 0)
	require.NoError(t, err)
	require.Len(t, sq, 1)
	assert.Equal(t, *result.Quote.ShippingQuoteID, sq[0].ID)
}

func TestCreateQuoteSurvivesFreightFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Steel coils", 7, 1000)
	f.addToCart(t, 1, p, 1)
	f.freightRepo.FailCreate = errors.New("rate store down")

	result, err := f.marketplace.CreateQuoteFromCart(ctx, CreateQuoteRequest{
		BuyerID: 1,
		Freight: &FreightSelection{
			OriginPort:      "PACLP",
			DestinationPort: "USMIA",
			ContainerType:   enum.ContainerType20GP,
			EstimatedDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	// The quote is created anyway, just without a freight attachment.
	assert.Nil(t, result.Quote.ShippingQuoteID)
	assert.NotEmpty(t, result.Warnings)
}

func TestSecondConversionProducesDistinctQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Steel coils", 7, 1000)
	f.addToCart(t, 1, p, 1)

	first, err := f.marketplace.CreateQuoteFromCart(ctx, CreateQuoteRequest{BuyerID: 1})
	require.NoError(t, err)

	second, err := f.marketplace.CreateQuoteFromCart(ctx, CreateQuoteRequest{BuyerID: 1})
	require.NoError(t, err)

	assert.NotEqual(t, first.Quote.ID, second.Quote.ID)
	assert.NotEqual(t, first.Quote.QuoteNumber, second.Quote.QuoteNumber)
	// The cart was already cleared, so the second quote degenerates.
	assert.Equal(t, "Aggregate order", second.Quote.Items[0].ProductTitle)
}

func TestCreatePaymentOrderRequiresAcceptedQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Steel coils", 7, 1000)
	f.addToCart(t, 1, p, 1)

	created, err := f.marketplace.CreateQuoteFromCart(ctx, CreateQuoteRequest{BuyerID: 1})
	require.NoError(t, err)

	_, err = f.marketplace.CreatePaymentOrder(ctx, created.Quote.ID, 1)
	assert.ErrorIs(t, err, models.ErrQuoteNotAccepted)

	_, err = f.marketplace.SendCounterOffer(ctx, created.Quote.ID, 7, enum.ActorTypeSupplier, "can do 900", quote.CounterOffer{
		NewPrice: decimalPtr(900),
	})
	require.NoError(t, err)
	_, err = f.marketplace.AcceptQuote(ctx, created.Quote.ID, 1, enum.ActorTypeBuyer, "")
	require.NoError(t, err)

	order, err := f.marketplace.CreatePaymentOrder(ctx, created.Quote.ID, 1)
	require.NoError(t, err)

	// The order consumes the negotiated price, not the original one.
	assert.True(t, order.Amount.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, enum.PaymentOrderStatusCreated, order.Status)
	assert.Contains(t, order.OrderNumber, "PO-")

	stored, err := f.marketplace.GetPaymentOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, stored.OrderNumber)

	listed, err := f.marketplace.ListPaymentOrders(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
