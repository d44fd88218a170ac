package cart

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/trade/driver"
	"goflare.io/trade/models"
)

type Repository interface {
	AddItem(ctx context.Context, tx pgx.Tx, item *models.CartItem) error
	ListByBuyer(ctx context.Context, tx pgx.Tx, buyerID uint64) ([]*models.CartItem, error)
	Clear(ctx context.Context, tx pgx.Tx, buyerID uint64) error
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

func (r *repository) AddItem(ctx context.Context, tx pgx.Tx, item *models.CartItem) error {
	const query = `
    INSERT INTO cart_items (buyer_id, product_id, product_title, supplier_id, supplier_name,
        quantity, unit_price, container_type, incoterm, created_at)
    VALUES (@buyer_id, @product_id, @product_title, @supplier_id, @supplier_name,
        @quantity, @unit_price, @container_type, @incoterm, NOW())
    RETURNING id, created_at
    `

	args := pgx.NamedArgs{
		"buyer_id":       item.BuyerID,
		"product_id":     item.ProductID,
		"product_title":  item.ProductTitle,
		"supplier_id":    item.SupplierID,
		"supplier_name":  item.SupplierName,
		"quantity":       item.Quantity,
		"unit_price":     item.UnitPrice,
		"container_type": item.ContainerType,
		"incoterm":       item.Incoterm,
	}

	if err := tx.QueryRow(ctx, query, args).Scan(&item.ID, &item.CreatedAt); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (r *repository) ListByBuyer(ctx context.Context, tx pgx.Tx, buyerID uint64) ([]*models.CartItem, error) {
	const query = `
    SELECT id, buyer_id, product_id, product_title, supplier_id, supplier_name,
        quantity, unit_price, container_type, incoterm, created_at
    FROM cart_items WHERE buyer_id = @buyer_id ORDER BY id
    `

	rows, err := tx.Query(ctx, query, pgx.NamedArgs{"buyer_id": buyerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.CartItem, 0)
	for rows.Next() {
		item := &models.CartItem{}
		if err = rows.Scan(
			&item.ID, &item.BuyerID, &item.ProductID, &item.ProductTitle, &item.SupplierID,
			&item.SupplierName, &item.Quantity, &item.UnitPrice, &item.ContainerType,
			&item.Incoterm, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *repository) Clear(ctx context.Context, tx pgx.Tx, buyerID uint64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE buyer_id = @buyer_id`, pgx.NamedArgs{"buyer_id": buyerID}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
