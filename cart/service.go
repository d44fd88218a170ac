package cart

import (
	"context"

	"github.com/jackc/pgx/v5"

	"goflare.io/trade/driver"
	"goflare.io/trade/models"
)

type Service interface {
	AddItem(ctx context.Context, item *models.CartItem) error
	GetByBuyer(ctx context.Context, buyerID uint64) ([]*models.CartItem, error)
	Clear(ctx context.Context, buyerID uint64) error
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

func (s *service) AddItem(ctx context.Context, item *models.CartItem) error {
	return s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.AddItem(ctx, tx, item)
	})
}

func (s *service) GetByBuyer(ctx context.Context, buyerID uint64) ([]*models.CartItem, error) {
	var items []*models.CartItem
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		items, err = s.repo.ListByBuyer(ctx, tx, buyerID)
		return err
	})
	return items, err
}

func (s *service) Clear(ctx context.Context, buyerID uint64) error {
	return s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Clear(ctx, tx, buyerID)
	})
}
