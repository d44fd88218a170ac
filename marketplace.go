package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goflare.io/trade/cart"
	"goflare.io/trade/freight"
	"goflare.io/trade/models"
	"goflare.io/trade/models/enum"
	"goflare.io/trade/payment_order"
	"goflare.io/trade/product"
	"goflare.io/trade/quote"
)

// FreightSelection is the optional freight payload of a quote-creation
// request. When Carrier/ServiceType are empty the cheapest combination is
// selected.
type FreightSelection struct {
	OriginPort        string             `json:"origin_port"`
	DestinationPort   string             `json:"destination_port"`
	ContainerType     enum.ContainerType `json:"container_type"`
	ContainerQuantity uint32             `json:"container_quantity"`
	EstimatedDate     time.Time          `json:"estimated_date"`
	Incoterm          enum.Incoterm      `json:"incoterm"`
	Carrier           string             `json:"carrier,omitempty"`
	ServiceType       enum.ServiceType   `json:"service_type,omitempty"`
}

// CreateQuoteRequest describes one cart-to-quote conversion. Items may be
// supplied explicitly; when empty the buyer's stored cart is used.
type CreateQuoteRequest struct {
	BuyerID           uint64             `json:"buyer_id"`
	Items             []*models.CartItem `json:"items,omitempty"`
	TotalAmount       *decimal.Decimal   `json:"total_amount,omitempty"`
	PaymentConditions string             `json:"payment_conditions,omitempty"`
	Notes             string             `json:"notes,omitempty"`
	Freight           *FreightSelection  `json:"freight,omitempty"`
}

// Marketplace is the application facade the HTTP handlers talk to.
type Marketplace interface {
	CreateQuoteFromCart(ctx context.Context, req CreateQuoteRequest) (*quote.TransitionResult, error)
	GetQuote(ctx context.Context, id uint64) (*models.Quote, error)
	ListQuotesByBuyer(ctx context.Context, buyerID uint64, limit, offset uint64) ([]*models.Quote, error)
	ListQuotesBySupplier(ctx context.Context, supplierID uint64, limit, offset uint64) ([]*models.Quote, error)
	ListQuoteComments(ctx context.Context, quoteID uint64) ([]*models.QuoteComment, error)

	SendCounterOffer(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string, offer quote.CounterOffer) (*quote.TransitionResult, error)
	AcceptQuote(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string) (*quote.TransitionResult, error)
	RejectQuote(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string) (*quote.TransitionResult, error)

	CalculateFreight(ctx context.Context, req freight.Request) (*models.ShippingQuote, error)
	ListFreightOptions(ctx context.Context, req freight.Request) ([]*models.ShippingQuote, error)
	ListShippingQuotes(ctx context.Context, origin, destination string, limit, offset uint64) ([]*models.ShippingQuote, error)

	GetProduct(ctx context.Context, id uint64) (*models.Product, error)
	ListProducts(ctx context.Context, limit, offset uint64) ([]*models.Product, error)

	AddCartItem(ctx context.Context, item *models.CartItem) error
	GetCart(ctx context.Context, buyerID uint64) ([]*models.CartItem, error)

	CreatePaymentOrder(ctx context.Context, quoteID, buyerID uint64) (*models.PaymentOrder, error)
	GetPaymentOrder(ctx context.Context, id uint64) (*models.PaymentOrder, error)
	ListPaymentOrders(ctx context.Context, buyerID uint64, limit, offset uint64) ([]*models.PaymentOrder, error)

	Close()
}

type tradeMarketplace struct {
	logger       *zap.Logger
	eventManager *EventManager
	workerPool   *WorkerPool

	cart         cart.Service
	freight      freight.Service
	paymentOrder payment_order.Service
	product      product.Service
	quote        quote.Service
}

func NewMarketplace(
	logger *zap.Logger,
	eventManager *EventManager,
	cartService cart.Service,
	freightService freight.Service,
	paymentOrderService payment_order.Service,
	productService product.Service,
	quoteService quote.Service,
) (Marketplace, error) {
	m := &tradeMarketplace{
		logger:       logger,
		eventManager: eventManager,
		cart:         cartService,
		freight:      freightService,
		paymentOrder: paymentOrderService,
		product:      productService,
		quote:        quoteService,
	}

	if eventManager != nil {
		m.workerPool = NewWorkerPool(4, 1024, eventManager, logger)
		m.workerPool.Run()
		eventManager.registerDefaultHandlers()
		if err := eventManager.SubscribeToEvents(m.workerPool); err != nil {
			return nil, fmt.Errorf("failed to subscribe to quote events: %w", err)
		}
	}

	return m, nil
}

// CreateQuoteFromCart snapshots cart lines into a new PENDING quote, attaches
// an optional freight quote, and clears the cart. Catalog refresh and freight
// attachment degrade to warnings; the quote itself is always created. Calling
// this twice with the same cart produces two distinct quotes: the second call
// sees an empty cart and falls back to a single aggregate item.
func (m *tradeMarketplace) CreateQuoteFromCart(ctx context.Context, req CreateQuoteRequest) (*quote.TransitionResult, error) {
	var warnings []string

	lines := req.Items
	if len(lines) == 0 {
		stored, err := m.cart.GetByBuyer(ctx, req.BuyerID)
		if err != nil {
			m.logger.Error("Failed to read cart, proceeding without lines",
				zap.Error(err), zap.Uint64("buyer_id", req.BuyerID))
			warnings = append(warnings, fmt.Sprintf("cart not read: %v", err))
		} else {
			lines = stored
		}
	}

	items, supplierID, itemWarnings := m.snapshotLines(ctx, req, lines)
	warnings = append(warnings, itemWarnings...)

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LinePrice)
	}
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	}

	newQuote := &models.Quote{
		BuyerID:       req.BuyerID,
		SupplierID:    supplierID,
		TotalPrice:    total,
		PaymentTerms:  req.PaymentConditions,
		DeliveryTerms: deliveryTermsFromLines(lines),
		Notes:         req.Notes,
	}

	if req.Freight != nil {
		if shippingQuoteID, err := m.createFreightQuote(ctx, req.Freight); err != nil {
			// Freight is best-effort: the quote is still created without it.
			m.logger.Error("Failed to attach freight quote",
				zap.Error(err), zap.Uint64("buyer_id", req.BuyerID))
			warnings = append(warnings, fmt.Sprintf("freight quote not attached: %v", err))
		} else {
			newQuote.ShippingQuoteID = &shippingQuoteID
		}
	}

	result, err := m.quote.Create(ctx, newQuote, items)
	if err != nil {
		return nil, err
	}

	if err = m.cart.Clear(ctx, req.BuyerID); err != nil {
		m.logger.Error("Failed to clear cart after quote creation",
			zap.Error(err), zap.Uint64("buyer_id", req.BuyerID))
		warnings = append(warnings, fmt.Sprintf("cart not cleared: %v", err))
	}

	result.Warnings = append(result.Warnings, warnings...)
	return result, nil
}

// snapshotLines freezes cart lines into quote items. Titles and supplier
// names are refreshed from the catalog when the product still exists;
// otherwise the values carried in the cart line win, so a quote is always
// creatable even after the catalog entry changed or disappeared.
func (m *tradeMarketplace) snapshotLines(ctx context.Context, req CreateQuoteRequest, lines []*models.CartItem) ([]*models.QuoteItem, uint64, []string) {
	var warnings []string
	var supplierID uint64

	if len(lines) == 0 {
		// Degenerate conversion: a single aggregate item so the quote always
		// has at least one line.
		total := decimal.Zero
		if req.TotalAmount != nil {
			total = *req.TotalAmount
		}
		return []*models.QuoteItem{{
			ProductTitle: "Aggregate order",
			SupplierName: "",
			Quantity:     1,
			UnitPrice:    total,
			LinePrice:    total,
		}}, 0, warnings
	}

	items := make([]*models.QuoteItem, 0, len(lines))
	for _, line := range lines {
		title := line.ProductTitle
		supplierName := line.SupplierName
		if supplierID == 0 {
			supplierID = line.SupplierID
		}

		refreshed, err := m.product.GetByID(ctx, line.ProductID)
		switch {
		case err == nil:
			title = refreshed.Title
			supplierName = refreshed.SupplierName
			if supplierID == 0 {
				supplierID = refreshed.SupplierID
			}
		case errors.Is(err, models.ErrProductNotFound):
			// Catalog entry gone; the cart snapshot stands.
		default:
			m.logger.Warn("Catalog lookup failed, using cart snapshot",
				zap.Error(err), zap.Uint64("product_id", line.ProductID))
			warnings = append(warnings, fmt.Sprintf("catalog refresh skipped for product %d: %v", line.ProductID, err))
		}

		items = append(items, &models.QuoteItem{
			ProductID:     line.ProductID,
			ProductTitle:  title,
			SupplierName:  supplierName,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			LinePrice:     line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			ContainerType: line.ContainerType,
			Incoterm:      line.Incoterm,
		})
	}

	return items, supplierID, warnings
}

func (m *tradeMarketplace) createFreightQuote(ctx context.Context, sel *FreightSelection) (uint64, error) {
	req := freight.Request{
		OriginPort:        sel.OriginPort,
		DestinationPort:   sel.DestinationPort,
		ContainerType:     sel.ContainerType,
		ContainerQuantity: sel.ContainerQuantity,
		EstimatedDate:     sel.EstimatedDate,
		Incoterm:          sel.Incoterm,
	}

	var shippingQuote *models.ShippingQuote
	var err error
	if sel.Carrier != "" {
		serviceType := sel.ServiceType
		if serviceType == "" {
			serviceType = enum.ServiceTypeStandard
		}
		shippingQuote, err = m.freight.CreateQuote(ctx, req, sel.Carrier, serviceType)
	} else {
		shippingQuote, err = m.freight.CalculateBest(ctx, req)
	}
	if err != nil {
		return 0, err
	}
	return shippingQuote.ID, nil
}

func deliveryTermsFromLines(lines []*models.CartItem) string {
	for _, line := range lines {
		if line.Incoterm != "" {
			return string(line.Incoterm)
		}
	}
	return ""
}

func (m *tradeMarketplace) GetQuote(ctx context.Context, id uint64) (*models.Quote, error) {
	return m.quote.GetByID(ctx, id)
}

func (m *tradeMarketplace) ListQuotesByBuyer(ctx context.Context, buyerID uint64, limit, offset uint64) ([]*models.Quote, error) {
	return m.quote.ListByBuyer(ctx, buyerID, limit, offset)
}

func (m *tradeMarketplace) ListQuotesBySupplier(ctx context.Context, supplierID uint64, limit, offset uint64) ([]*models.Quote, error) {
	return m.quote.ListBySupplier(ctx, supplierID, limit, offset)
}

func (m *tradeMarketplace) ListQuoteComments(ctx context.Context, quoteID uint64) ([]*models.QuoteComment, error) {
	return m.quote.ListComments(ctx, quoteID)
}

func (m *tradeMarketplace) SendCounterOffer(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string, offer quote.CounterOffer) (*quote.TransitionResult, error) {
	return m.quote.SendCounterOffer(ctx, quoteID, actorID, actorType, comment, offer)
}

func (m *tradeMarketplace) AcceptQuote(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string) (*quote.TransitionResult, error) {
	return m.quote.Accept(ctx, quoteID, actorID, actorType, comment)
}

func (m *tradeMarketplace) RejectQuote(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string) (*quote.TransitionResult, error) {
	return m.quote.Reject(ctx, quoteID, actorID, actorType, comment)
}

func (m *tradeMarketplace) CalculateFreight(ctx context.Context, req freight.Request) (*models.ShippingQuote, error) {
	return m.freight.CalculateBest(ctx, req)
}

func (m *tradeMarketplace) ListFreightOptions(ctx context.Context, req freight.Request) ([]*models.ShippingQuote, error) {
	return m.freight.CalculateAll(ctx, req)
}

func (m *tradeMarketplace) ListShippingQuotes(ctx context.Context, origin, destination string, limit, offset uint64) ([]*models.ShippingQuote, error) {
	return m.freight.ListByRoute(ctx, origin, destination, limit, offset)
}

func (m *tradeMarketplace) GetProduct(ctx context.Context, id uint64) (*models.Product, error) {
	return m.product.GetByID(ctx, id)
}

func (m *tradeMarketplace) ListProducts(ctx context.Context, limit, offset uint64) ([]*models.Product, error) {
	return m.product.List(ctx, limit, offset, true)
}

func (m *tradeMarketplace) AddCartItem(ctx context.Context, item *models.CartItem) error {
	return m.cart.AddItem(ctx, item)
}

func (m *tradeMarketplace) GetCart(ctx context.Context, buyerID uint64) ([]*models.CartItem, error) {
	return m.cart.GetByBuyer(ctx, buyerID)
}

// CreatePaymentOrder consumes an accepted quote's final price only.
func (m *tradeMarketplace) CreatePaymentOrder(ctx context.Context, quoteID, buyerID uint64) (*models.PaymentOrder, error) {
	acceptedQuote, err := m.quote.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if acceptedQuote.Status != enum.QuoteStatusAccepted {
		return nil, fmt.Errorf("%w: quote %d is %s", models.ErrQuoteNotAccepted, quoteID, acceptedQuote.Status)
	}

	order := &models.PaymentOrder{
		OrderNumber: newOrderNumber(),
		QuoteID:     acceptedQuote.ID,
		BuyerID:     buyerID,
		SupplierID:  acceptedQuote.SupplierID,
		Amount:      acceptedQuote.TotalPrice,
		Currency:    "USD",
		Status:      enum.PaymentOrderStatusCreated,
	}
	if err = m.paymentOrder.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (m *tradeMarketplace) GetPaymentOrder(ctx context.Context, id uint64) (*models.PaymentOrder, error) {
	return m.paymentOrder.GetByID(ctx, id)
}

func (m *tradeMarketplace) ListPaymentOrders(ctx context.Context, buyerID uint64, limit, offset uint64) ([]*models.PaymentOrder, error) {
	return m.paymentOrder.ListByBuyer(ctx, buyerID, limit, offset)
}

func (m *tradeMarketplace) Close() {
	if m.workerPool != nil {
		m.workerPool.Stop()
	}
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return fmt.Sprintf("PO-%s-%s", time.Now().Format("20060102"), suffix)
}
