package payment_order

import (
	"context"

	"github.com/jackc/pgx/v5"

	"goflare.io/trade/driver"
	"goflare.io/trade/models"
)

type Service interface {
	Create(ctx context.Context, order *models.PaymentOrder) error
	GetByID(ctx context.Context, id uint64) (*models.PaymentOrder, error)
	ListByBuyer(ctx context.Context, buyerID uint64, limit, offset uint64) ([]*models.PaymentOrder, error)
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

func (s *service) Create(ctx context.Context, order *models.PaymentOrder) error {
	return s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, order)
	})
}

func (s *service) GetByID(ctx context.Context, id uint64) (*models.PaymentOrder, error) {
	var order *models.PaymentOrder
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		order, err = s.repo.GetByID(ctx, tx, id)
		return err
	})
	return order, err
}

func (s *service) ListByBuyer(ctx context.Context, buyerID uint64, limit, offset uint64) ([]*models.PaymentOrder, error) {
	var orders []*models.PaymentOrder
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		orders, err = s.repo.ListByBuyer(ctx, tx, buyerID, limit, offset)
		return err
	})
	return orders, err
}
