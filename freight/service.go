package freight

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goflare.io/trade/driver"
	"goflare.io/trade/models"
	"goflare.io/trade/models/enum"
)

// Request describes one route/container combination to price. Malformed
// container type, service tier or incoterm values are priced with standard
// defaults rather than rejected; callers needing strict validation validate
// before invoking the engine.
type Request struct {
	OriginPort        string             `json:"origin_port"`
	DestinationPort   string             `json:"destination_port"`
	ContainerType     enum.ContainerType `json:"container_type"`
	ContainerQuantity uint32             `json:"container_quantity"`
	EstimatedDate     time.Time          `json:"estimated_date"`
	Incoterm          enum.Incoterm      `json:"incoterm"`
}

type Service interface {
	// CalculateAll prices and persists every carrier x offered-service
	// combination for the route. Each quote is persisted independently; an
	// interrupted run leaves a partial set of valid, already-priced quotes.
	CalculateAll(ctx context.Context, req Request) ([]*models.ShippingQuote, error)
	// CalculateBest enumerates all combinations in memory and persists only
	// the cheapest one.
	CalculateBest(ctx context.Context, req Request) (*models.ShippingQuote, error)
	// CreateQuote prices and persists one specific carrier/service
	// combination, used when a buyer has already selected a freight option.
	CreateQuote(ctx context.Context, req Request, carrier string, serviceType enum.ServiceType) (*models.ShippingQuote, error)
	GetByID(ctx context.Context, id uint64) (*models.ShippingQuote, error)
	ListByRoute(ctx context.Context, origin, destination string, limit, offset uint64) ([]*models.ShippingQuote, error)
}

type service struct {
	repo               Repository
	transactionManager driver.TransactionManager
	logger             *zap.Logger
}

func NewService(repo Repository, tm driver.TransactionManager, logger *zap.Logger) Service {
	return &service{
		repo:               repo,
		transactionManager: tm,
		logger:             logger,
	}
}

// buildQuote prices one carrier/service combination. Pure given a fixed now.
func buildQuote(req Request, carrier CarrierProfile, serviceType enum.ServiceType, now time.Time) *models.ShippingQuote {
	distance := RouteDistance(req.OriginPort, req.DestinationPort)
	quantity := req.ContainerQuantity
	if quantity == 0 {
		quantity = 1
	}

	perContainer := ContainerCost(distance, req.ContainerType, serviceType, carrier.Factor)
	transit := TransitTimeDays(distance, serviceType)
	departure := req.EstimatedDate.AddDate(0, 0, preparationLeadDays)

	return &models.ShippingQuote{
		OriginPort:        req.OriginPort,
		DestinationPort:   req.DestinationPort,
		ContainerType:     req.ContainerType,
		ContainerQuantity: quantity,
		Carrier:           carrier.Name,
		ServiceType:       serviceType,
		Incoterm:          req.Incoterm,
		Cost:              perContainer.Mul(decimal.NewFromInt(int64(quantity))),
		Currency:          defaultCurrency,
		TransitTimeDays:   transit,
		DepartureDate:     departure,
		ArrivalDate:       departure.AddDate(0, 0, int(transit)),
		ValidUntil:        now.AddDate(0, 0, quoteValidityDays),
	}
}

func (s *service) enumerate(req Request, now time.Time) []*models.ShippingQuote {
	quotes := make([]*models.ShippingQuote, 0)
	for _, carrier := range Carriers() {
		for _, serviceType := range carrier.Services {
			quotes = append(quotes, buildQuote(req, carrier, serviceType, now))
		}
	}
	return quotes
}

func (s *service) persist(ctx context.Context, quote *models.ShippingQuote) error {
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, quote)
	})
	if err != nil {
		return err
	}
	// The cache is published only once the transaction has committed.
	s.repo.Cache(ctx, quote)
	return nil
}

func (s *service) CalculateAll(ctx context.Context, req Request) ([]*models.ShippingQuote, error) {
	now := time.Now()
	persisted := make([]*models.ShippingQuote, 0)
	for _, quote := range s.enumerate(req, now) {
		if err := s.persist(ctx, quote); err != nil {
			// Already-persisted quotes stay valid; the caller gets the
			// partial set alongside the error.
			return persisted, fmt.Errorf("failed to persist shipping quote for %s/%s: %w", quote.Carrier, quote.ServiceType, err)
		}
		persisted = append(persisted, quote)
	}
	return persisted, nil
}

func (s *service) CalculateBest(ctx context.Context, req Request) (*models.ShippingQuote, error) {
	now := time.Now()
	var best *models.ShippingQuote
	for _, quote := range s.enumerate(req, now) {
		if best == nil || quote.Cost.LessThan(best.Cost) {
			best = quote
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no carrier offers a service for route %s/%s", req.OriginPort, req.DestinationPort)
	}

	if err := s.persist(ctx, best); err != nil {
		return nil, err
	}
	return best, nil
}

func (s *service) CreateQuote(ctx context.Context, req Request, carrierName string, serviceType enum.ServiceType) (*models.ShippingQuote, error) {
	carrier := CarrierProfile{Name: carrierName, Factor: carrierFactorByName(carrierName)}
	quote := buildQuote(req, carrier, serviceType, time.Now())

	if err := s.persist(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (*models.ShippingQuote, error) {
	var quote *models.ShippingQuote
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		quote, err = s.repo.GetByID(ctx, tx, id)
		return err
	})
	return quote, err
}

func (s *service) ListByRoute(ctx context.Context, origin, destination string, limit, offset uint64) ([]*models.ShippingQuote, error) {
	var quotes []*models.ShippingQuote
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		quotes, err = s.repo.ListByRoute(ctx, tx, origin, destination, limit, offset)
		return err
	})
	return quotes, err
}

func carrierFactorByName(name string) decimal.Decimal {
	for _, carrier := range Carriers() {
		if carrier.Name == name {
			return carrier.Factor
		}
	}
	// Unknown carriers price at the computed baseline.
	return decimal.NewFromFloat(1.0)
}
