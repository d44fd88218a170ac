package payment_order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/trade/driver"
	"goflare.io/trade/models"
)

type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, order *models.PaymentOrder) error
	GetByID(ctx context.Context, tx pgx.Tx, id uint64) (*models.PaymentOrder, error)
	ListByBuyer(ctx context.Context, tx pgx.Tx, buyerID uint64, limit, offset uint64) ([]*models.PaymentOrder, error)
}

type repository struct {
	conn   driver.PostgresPool
	logger *zap.Logger
}

func NewRepository(conn driver.PostgresPool, logger *zap.Logger) Repository {
	return &repository{
		conn:   conn,
		logger: logger,
	}
}

const orderColumns = `id, order_number, quote_id, buyer_id, supplier_id, amount, currency, status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, tx pgx.Tx, order *models.PaymentOrder) error {
	const query = `
    INSERT INTO payment_orders (order_number, quote_id, buyer_id, supplier_id, amount, currency, status, created_at, updated_at)
    VALUES (@order_number, @quote_id, @buyer_id, @supplier_id, @amount, @currency, @status, NOW(), NOW())
    RETURNING id, created_at, updated_at
    `

	args := pgx.NamedArgs{
		"order_number": order.OrderNumber,
		"quote_id":     order.QuoteID,
		"buyer_id":     order.BuyerID,
		"supplier_id":  order.SupplierID,
		"amount":       order.Amount,
		"currency":     order.Currency,
		"status":       order.Status,
	}

	if err := tx.QueryRow(ctx, query, args).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create payment order: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id uint64) (*models.PaymentOrder, error) {
	row := tx.QueryRow(ctx, "SELECT "+orderColumns+" FROM payment_orders WHERE id = @id", pgx.NamedArgs{"id": id})
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPaymentOrderNotFound
		}
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}
	return order, nil
}

func (r *repository) ListByBuyer(ctx context.Context, tx pgx.Tx, buyerID uint64, limit, offset uint64) ([]*models.PaymentOrder, error) {
	const query = `SELECT ` + orderColumns + ` FROM payment_orders WHERE buyer_id = @buyer_id ORDER BY id DESC LIMIT @limit OFFSET @offset`

	rows, err := tx.Query(ctx, query, pgx.NamedArgs{
		"buyer_id": buyerID,
		"limit":    int64(limit),
		"offset":   int64(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payment orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.PaymentOrder, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*models.PaymentOrder, error) {
	order := &models.PaymentOrder{}
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.QuoteID, &order.BuyerID, &order.SupplierID,
		&order.Amount, &order.Currency, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}
