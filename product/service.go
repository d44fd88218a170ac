package product

import (
	"context"

	"github.com/jackc/pgx/v5"

	"goflare.io/trade/driver"
	"goflare.io/trade/models"
)

type Service interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint64) (*models.Product, error)
	List(ctx context.Context, limit, offset uint64, activeOnly bool) ([]*models.Product, error)
}

type service struct {
	repo               Repository
	transactionManager driver.TransactionManager
}

func NewService(repo Repository, tm driver.TransactionManager) Service {
	return &service{
		repo:               repo,
		transactionManager: tm,
	}
}

func (s *service) Create(ctx context.Context, product *models.Product) error {
	return s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, product)
	})
}

func (s *service) GetByID(ctx context.Context, id uint64) (*models.Product, error) {
	var product *models.Product
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		product, err = s.repo.GetByID(ctx, tx, id)
		return err
	})
	return product, err
}

func (s *service) List(ctx context.Context, limit, offset uint64, activeOnly bool) ([]*models.Product, error) {
	var products []*models.Product
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		products, err = s.repo.List(ctx, tx, limit, offset, activeOnly)
		return err
	})
	return products, err
}
