package product

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
	Create(ctx context.Context, tx pgx.Tx, product *models.Product) error
	GetByID(ctx context.Context, tx pgx.Tx, id uint64) (*models.Product, error)
	List(ctx context.Context, tx pgx.Tx, limit, offset uint64, activeOnly bool) ([]*models.Product, error)
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

func (r *repository) Create(ctx context.Context, tx pgx.Tx, product *models.Product) error {
	const query = `
    INSERT INTO products (title, description, supplier_id, supplier_name, price_per_container, active, created_at, updated_at)
    VALUES (@title, @description, @supplier_id, @supplier_name, @price_per_container, @active, NOW(), NOW())
    RETURNING id, created_at, updated_at
    `

	args := pgx.NamedArgs{
		"title":               product.Title,
		"description":         product.Description,
		"supplier_id":         product.SupplierID,
		"supplier_name":       product.SupplierName,
		"price_per_container": product.PricePerContainer,
		"active":              product.Active,
	}

	if err := tx.QueryRow(ctx, query, args).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id uint64) (*models.Product, error) {
	const query = `
    SELECT id, title, description, supplier_id, supplier_name, price_per_container, active, created_at, updated_at
    FROM products WHERE id = @id
    `

	product := models.NewProduct()
	err := tx.QueryRow(ctx, query, pgx.NamedArgs{"id": id}).Scan(
		&product.ID, &product.Title, &product.Description, &product.SupplierID,
		&product.SupplierName, &product.PricePerContainer, &product.Active,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (r *repository) List(ctx context.Context, tx pgx.Tx, limit, offset uint64, activeOnly bool) ([]*models.Product, error) {
	const query = `
    SELECT id, title, description, supplier_id, supplier_name, price_per_container, active, created_at, updated_at
    FROM products
    WHERE active OR NOT @active_only
    ORDER BY id
    LIMIT @limit OFFSET @offset
    `

	rows, err := tx.Query(ctx, query, pgx.NamedArgs{
		"active_only": activeOnly,
		"limit":       int64(limit),
		"offset":      int64(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		product := models.NewProduct()
		if err = rows.Scan(
			&product.ID, &product.Title, &product.Description, &product.SupplierID,
			&product.SupplierName, &product.PricePerContainer, &product.Active,
			&product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	return products, rows.Err()
}
