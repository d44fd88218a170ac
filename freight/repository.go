package freight

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/ember"
	emberConfig "goflare.io/ember/config"
	"goflare.io/ignite"
	"goflare.io/trade/driver"
	"goflare.io/trade/models"
)

type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, quote *models.ShippingQuote) error
	GetByID(ctx context.Context, tx pgx.Tx, id uint64) (*models.ShippingQuote, error)
	ListByRoute(ctx context.Context, tx pgx.Tx, origin, destination string, limit, offset uint64) ([]*models.ShippingQuote, error)
	// Cache publishes the quote to the read-through cache, after the
	// surrounding transaction has committed.
	Cache(ctx context.Context, quote *models.ShippingQuote)
}

type repository struct {
	conn        driver.PostgresPool
	logger      *zap.Logger
	cache       *ember.MultiCache
	poolManager ignite.Manager
}

func NewRepository(conn driver.PostgresPool, logger *zap.Logger, cache *ember.MultiCache, poolManager ignite.Manager) (Repository, error) {
	err := poolManager.RegisterPool(reflect.TypeOf(&models.ShippingQuote{}), ignite.Config[any]{
		InitialSize: 10,
		MaxSize:     100,
		MaxIdleTime: 10 * time.Minute,
		Factory: func() (any, error) {
			return models.NewShippingQuote(), nil
		},
		Reset: func(obj any) error {
			sq := obj.(*models.ShippingQuote)
			*sq = models.ShippingQuote{}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register shipping quote pool: %w", err)
	}

	return &repository{
		conn:        conn,
		logger:      logger,
		cache:       cache,
		poolManager: poolManager,
	}, nil
}

func (r *repository) getFromPool(ctx context.Context) (*models.ShippingQuote, func(), error) {
	pool, err := r.poolManager.GetPool(reflect.TypeOf(&models.ShippingQuote{}))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pool: %w", err)
	}

	objWrapper, err := pool.Get(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get object from pool: %w", err)
	}

	sq := objWrapper.Object.(*models.ShippingQuote)
	release := func() {
		pool.Put(objWrapper)
	}

	return sq, release, nil
}

func (r *repository) Create(ctx context.Context, tx pgx.Tx, quote *models.ShippingQuote) error {
	const query = `
    INSERT INTO shipping_quotes (origin_port, destination_port, container_type, container_quantity,
        carrier, service_type, incoterm, cost, currency, transit_time_days,
        departure_date, arrival_date, valid_until, created_at)
    VALUES (@origin_port, @destination_port, @container_type, @container_quantity,
        @carrier, @service_type, @incoterm, @cost, @currency, @transit_time_days,
        @departure_date, @arrival_date, @valid_until, NOW())
    RETURNING id, created_at
    `

	args := pgx.NamedArgs{
		"origin_port":        quote.OriginPort,
		"destination_port":   quote.DestinationPort,
		"container_type":     quote.ContainerType,
		"container_quantity": quote.ContainerQuantity,
		"carrier":            quote.Carrier,
		"service_type":       quote.ServiceType,
		"incoterm":           quote.Incoterm,
		"cost":               quote.Cost,
		"currency":           quote.Currency,
		"transit_time_days":  quote.TransitTimeDays,
		"departure_date":     quote.DepartureDate,
		"arrival_date":       quote.ArrivalDate,
		"valid_until":        quote.ValidUntil,
	}

	if err := tx.QueryRow(ctx, query, args).Scan(&quote.ID, &quote.CreatedAt); err != nil {
		return fmt.Errorf("failed to create shipping quote: %w", err)
	}
	return nil
}

func (r *repository) Cache(ctx context.Context, quote *models.ShippingQuote) {
	cacheKey := fmt.Sprintf("shipping_quote:%d", quote.ID)
	if err := r.cache.Set(ctx, cacheKey, quote, emberConfig.NewConfig().DefaultExpiration); err != nil {
		r.logger.Warn("Failed to cache shipping quote", zap.Error(err), zap.Uint64("id", quote.ID))
	}
}

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id uint64) (*models.ShippingQuote, error) {
	cacheKey := fmt.Sprintf("shipping_quote:%d", id)

	quote, release, err := r.getFromPool(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	found, err := r.cache.Get(ctx, cacheKey, quote)
	if err != nil {
		r.logger.Warn("Failed to get shipping quote from cache", zap.Error(err), zap.Uint64("id", id))
	} else if found {
		out := *quote
		return &out, nil
	}

	const query = `
    SELECT id, origin_port, destination_port, container_type, container_quantity,
        carrier, service_type, incoterm, cost, currency, transit_time_days,
        departure_date, arrival_date, valid_until, created_at
    FROM shipping_quotes
    WHERE id = @id
    `

	row := tx.QueryRow(ctx, query, pgx.NamedArgs{"id": id})
	out, err := scanShippingQuote(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrShippingQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get shipping quote: %w", err)
	}

	// Safe to cache here: the row was read from committed state.
	r.Cache(ctx, out)

	return out, nil
}

func (r *repository) ListByRoute(ctx context.Context, tx pgx.Tx, origin, destination string, limit, offset uint64) ([]*models.ShippingQuote, error) {
	const query = `
    SELECT id, origin_port, destination_port, container_type, container_quantity,
        carrier, service_type, incoterm, cost, currency, transit_time_days,
        departure_date, arrival_date, valid_until, created_at
    FROM shipping_quotes
    WHERE origin_port = @origin AND destination_port = @destination
    ORDER BY id
    LIMIT @limit OFFSET @offset
    `

	rows, err := tx.Query(ctx, query, pgx.NamedArgs{
		"origin":      origin,
		"destination": destination,
		"limit":       int64(limit),
		"offset":      int64(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]*models.ShippingQuote, 0)
	for rows.Next() {
		quote, err := scanShippingQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipping quote: %w", err)
		}
		quotes = append(quotes, quote)
	}

	return quotes, rows.Err()
}

func scanShippingQuote(row pgx.Row) (*models.ShippingQuote, error) {
	quote := models.NewShippingQuote()
	err := row.Scan(
		&quote.ID,
		&quote.OriginPort,
		&quote.DestinationPort,
		&quote.ContainerType,
		&quote.ContainerQuantity,
		&quote.Carrier,
		&quote.ServiceType,
		&quote.Incoterm,
		&quote.Cost,
		&quote.Currency,
		&quote.TransitTimeDays,
		&quote.DepartureDate,
		&quote.ArrivalDate,
		&quote.ValidUntil,
		&quote.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return quote, nil
}
