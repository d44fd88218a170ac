package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/ember"
	emberConfig "goflare.io/ember/config"
	"goflare.io/trade/driver"
	"goflare.io/trade/models"
	"goflare.io/trade/models/enum"
)

type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, quote *models.Quote) error
	GetByID(ctx context.Context, tx pgx.Tx, id uint64) (*models.Quote, error)
	// GetByIDForUpdate reads the quote row under a row lock, serializing
	// concurrent negotiation transitions on the same quote.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*models.Quote, error)
	Update(ctx context.Context, tx pgx.Tx, quote *models.Quote) error
	ListByBuyer(ctx context.Context, tx pgx.Tx, buyerID uint64, limit, offset uint64) ([]*models.Quote, error)
	ListBySupplier(ctx context.Context, tx pgx.Tx, supplierID uint64, limit, offset uint64) ([]*models.Quote, error)
	CreateItems(ctx context.Context, tx pgx.Tx, items []*models.QuoteItem) error
	ListItems(ctx context.Context, tx pgx.Tx, quoteID uint64) ([]*models.QuoteItem, error)
	AppendComment(ctx context.Context, tx pgx.Tx, comment *models.QuoteComment) error
	ListComments(ctx context.Context, tx pgx.Tx, quoteID uint64) ([]*models.QuoteComment, error)
	// Cache publishes the quote to the read-through cache. Callers invoke it
	// only after the surrounding transaction has committed; caching inside
	// the transaction would let a failed commit leave the cache holding
	// state the database never accepted.
	Cache(ctx context.Context, quote *models.Quote)
}

type repository struct {
	conn   driver.PostgresPool
	logger *zap.Logger
	cache  *ember.MultiCache
}

func NewRepository(conn driver.PostgresPool, logger *zap.Logger, cache *ember.MultiCache) Repository {
	return &repository{
		conn:   conn,
		logger: logger,
		cache:  cache,
	}
}

const quoteColumns = `id, quote_number, buyer_id, supplier_id, status,
    total_price, payment_terms, delivery_terms,
    pending_counter_offer_price, pending_payment_terms, pending_delivery_terms,
    last_counter_offer_by, counter_offer_count,
    shipping_quote_id, notes, accepted_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, tx pgx.Tx, quote *models.Quote) error {
	const query = `
    INSERT INTO quotes (quote_number, buyer_id, supplier_id, status,
        total_price, payment_terms, delivery_terms,
        counter_offer_count, shipping_quote_id, notes, created_at, updated_at)
    VALUES (@quote_number, @buyer_id, @supplier_id, @status,
        @total_price, @payment_terms, @delivery_terms,
        0, @shipping_quote_id, @notes, NOW(), NOW())
    RETURNING id, created_at, updated_at
    `

	args := pgx.NamedArgs{
		"quote_number":      quote.QuoteNumber,
		"buyer_id":          quote.BuyerID,
		"supplier_id":       quote.SupplierID,
		"status":            quote.Status,
		"total_price":       quote.TotalPrice,
		"payment_terms":     quote.PaymentTerms,
		"delivery_terms":    quote.DeliveryTerms,
		"shipping_quote_id": quote.ShippingQuoteID,
		"notes":             quote.Notes,
	}

	if err := tx.QueryRow(ctx, query, args).Scan(&quote.ID, &quote.CreatedAt, &quote.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id uint64) (*models.Quote, error) {
	cacheKey := fmt.Sprintf("quote:%d", id)

	cached := models.NewQuote()
	found, err := r.cache.Get(ctx, cacheKey, cached)
	if err != nil {
		r.logger.Warn("Failed to get quote from cache", zap.Error(err), zap.Uint64("id", id))
	} else if found {
		return cached, nil
	}

	quote, err := r.fetch(ctx, tx, "SELECT "+quoteColumns+" FROM quotes WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, err
	}

	// Safe to cache here: the row was read from committed state.
	r.Cache(ctx, quote)
	return quote, nil
}

func (r *repository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*models.Quote, error) {
	// Never served from cache: the row lock is the point.
	return r.fetch(ctx, tx, "SELECT "+quoteColumns+" FROM quotes WHERE id = @id FOR UPDATE", pgx.NamedArgs{"id": id})
}

func (r *repository) fetch(ctx context.Context, tx pgx.Tx, query string, args pgx.NamedArgs) (*models.Quote, error) {
	quote, err := scanQuote(tx.QueryRow(ctx, query, args))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return quote, nil
}

func (r *repository) Update(ctx context.Context, tx pgx.Tx, quote *models.Quote) error {
	const query = `
    UPDATE quotes SET
        status = @status,
        total_price = @total_price,
        payment_terms = @payment_terms,
        delivery_terms = @delivery_terms,
        pending_counter_offer_price = @pending_counter_offer_price,
        pending_payment_terms = @pending_payment_terms,
        pending_delivery_terms = @pending_delivery_terms,
        last_counter_offer_by = @last_counter_offer_by,
        counter_offer_count = @counter_offer_count,
        shipping_quote_id = @shipping_quote_id,
        notes = @notes,
        accepted_at = @accepted_at,
        updated_at = NOW()
    WHERE id = @id
    RETURNING updated_at
    `

	args := pgx.NamedArgs{
		"id":                          quote.ID,
		"status":                      quote.Status,
		"total_price":                 quote.TotalPrice,
		"payment_terms":               quote.PaymentTerms,
		"delivery_terms":              quote.DeliveryTerms,
		"pending_counter_offer_price": quote.PendingCounterOfferPrice,
		"pending_payment_terms":       quote.PendingPaymentTerms,
		"pending_delivery_terms":      quote.PendingDeliveryTerms,
		"last_counter_offer_by":       quote.LastCounterOfferBy,
		"counter_offer_count":         quote.CounterOfferCount,
		"shipping_quote_id":           quote.ShippingQuoteID,
		"notes":                       quote.Notes,
		"accepted_at":                 quote.AcceptedAt,
	}

	if err := tx.QueryRow(ctx, query, args).Scan(&quote.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrQuoteNotFound
		}
		return fmt.Errorf("failed to update quote: %w", err)
	}
	return nil
}

func (r *repository) ListByBuyer(ctx context.Context, tx pgx.Tx, buyerID uint64, limit, offset uint64) ([]*models.Quote, error) {
	return r.list(ctx, tx, "buyer_id", buyerID, limit, offset)
}

func (r *repository) ListBySupplier(ctx context.Context, tx pgx.Tx, supplierID uint64, limit, offset uint64) ([]*models.Quote, error) {
	return r.list(ctx, tx, "supplier_id", supplierID, limit, offset)
}

func (r *repository) list(ctx context.Context, tx pgx.Tx, column string, partyID uint64, limit, offset uint64) ([]*models.Quote, error) {
	query := fmt.Sprintf(`SELECT %s FROM quotes WHERE %s = @party_id ORDER BY id DESC LIMIT @limit OFFSET @offset`, quoteColumns, column)

	rows, err := tx.Query(ctx, query, pgx.NamedArgs{
		"party_id": partyID,
		"limit":    int64(limit),
		"offset":   int64(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]*models.Quote, 0)
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, quote)
	}

	return quotes, rows.Err()
}

func (r *repository) CreateItems(ctx context.Context, tx pgx.Tx, items []*models.QuoteItem) error {
	const query = `
    INSERT INTO quote_items (quote_id, product_id, product_title, supplier_name,
        quantity, unit_price, line_price, container_type, incoterm, created_at)
    VALUES (@quote_id, @product_id, @product_title, @supplier_name,
        @quantity, @unit_price, @line_price, @container_type, @incoterm, NOW())
    RETURNING id, created_at
    `

	for _, item := range items {
		args := pgx.NamedArgs{
			"quote_id":       item.QuoteID,
			"product_id":     item.ProductID,
			"product_title":  item.ProductTitle,
			"supplier_name":  item.SupplierName,
			"quantity":       item.Quantity,
			"unit_price":     item.UnitPrice,
			"line_price":     item.LinePrice,
			"container_type": item.ContainerType,
			"incoterm":       item.Incoterm,
		}
		if err := tx.QueryRow(ctx, query, args).Scan(&item.ID, &item.CreatedAt); err != nil {
			return fmt.Errorf("failed to create quote item: %w", err)
		}
	}
	return nil
}

func (r *repository) ListItems(ctx context.Context, tx pgx.Tx, quoteID uint64) ([]*models.QuoteItem, error) {
	const query = `
    SELECT id, quote_id, product_id, product_title, supplier_name,
        quantity, unit_price, line_price, container_type, incoterm, created_at
    FROM quote_items WHERE quote_id = @quote_id ORDER BY id
    `

	rows, err := tx.Query(ctx, query, pgx.NamedArgs{"quote_id": quoteID})
	if err != nil {
		return nil, fmt.Errorf("failed to list quote items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.QuoteItem, 0)
	for rows.Next() {
		item := &models.QuoteItem{}
		if err = rows.Scan(
			&item.ID, &item.QuoteID, &item.ProductID, &item.ProductTitle, &item.SupplierName,
			&item.Quantity, &item.UnitPrice, &item.LinePrice, &item.ContainerType, &item.Incoterm, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quote item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *repository) AppendComment(ctx context.Context, tx pgx.Tx, comment *models.QuoteComment) error {
	const query = `
    INSERT INTO quote_comments (quote_id, user_id, user_type, action, comment,
        offered_price, offered_payment_terms, offered_delivery_terms, created_at)
    VALUES (@quote_id, @user_id, @user_type, @action, @comment,
        @offered_price, @offered_payment_terms, @offered_delivery_terms, NOW())
    RETURNING id, created_at
    `

	args := pgx.NamedArgs{
		"quote_id":               comment.QuoteID,
		"user_id":                comment.UserID,
		"user_type":              comment.UserType,
		"action":                 comment.Action,
		"comment":                comment.Comment,
		"offered_price":          comment.OfferedPrice,
		"offered_payment_terms":  comment.OfferedPaymentTerms,
		"offered_delivery_terms": comment.OfferedDeliveryTerms,
	}

	if err := tx.QueryRow(ctx, query, args).Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return fmt.Errorf("failed to append quote comment: %w", err)
	}
	return nil
}

func (r *repository) ListComments(ctx context.Context, tx pgx.Tx, quoteID uint64) ([]*models.QuoteComment, error) {
	const query = `
    SELECT id, quote_id, user_id, user_type, action, comment,
        offered_price, offered_payment_terms, offered_delivery_terms, created_at
    FROM quote_comments WHERE quote_id = @quote_id ORDER BY id
    `

	rows, err := tx.Query(ctx, query, pgx.NamedArgs{"quote_id": quoteID})
	if err != nil {
		return nil, fmt.Errorf("failed to list quote comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.QuoteComment, 0)
	for rows.Next() {
		comment := &models.QuoteComment{}
		var userType, action string
		if err = rows.Scan(
			&comment.ID, &comment.QuoteID, &comment.UserID, &userType, &action, &comment.Comment,
			&comment.OfferedPrice, &comment.OfferedPaymentTerms, &comment.OfferedDeliveryTerms, &comment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quote comment: %w", err)
		}
		comment.UserType = enum.ActorType(userType)
		comment.Action = enum.CommentAction(action)
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (r *repository) Cache(ctx context.Context, quote *models.Quote) {
	cacheKey := fmt.Sprintf("quote:%d", quote.ID)
	if err := r.cache.Set(ctx, cacheKey, quote, emberConfig.NewConfig().DefaultExpiration); err != nil {
		r.logger.Warn("Failed to cache quote", zap.Error(err), zap.Uint64("id", quote.ID))
	}
}

func scanQuote(row pgx.Row) (*models.Quote, error) {
	quote := models.NewQuote()
	var status string
	var lastCounterOfferBy *string

	err := row.Scan(
		&quote.ID, &quote.QuoteNumber, &quote.BuyerID, &quote.SupplierID, &status,
		&quote.TotalPrice, &quote.PaymentTerms, &quote.DeliveryTerms,
		&quote.PendingCounterOfferPrice, &quote.PendingPaymentTerms, &quote.PendingDeliveryTerms,
		&lastCounterOfferBy, &quote.CounterOfferCount,
		&quote.ShippingQuoteID, &quote.Notes, &quote.AcceptedAt, &quote.CreatedAt, &quote.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	quote.Status = enum.QuoteStatus(status)
	if lastCounterOfferBy != nil {
		actor := enum.ActorType(*lastCounterOfferBy)
		quote.LastCounterOfferBy = &actor
	}
	return quote, nil
}
