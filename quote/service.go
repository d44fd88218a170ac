package quote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goflare.io/trade/driver"
	"goflare.io/trade/models"
	"goflare.io/trade/models/enum"
)

// CounterOffer carries the optional revised price/terms of a counter-offer.
// Nil fields leave the corresponding pending value untouched.
type CounterOffer struct {
	NewPrice      *decimal.Decimal `json:"new_price,omitempty"`
	PaymentTerms  *string          `json:"payment_terms,omitempty"`
	DeliveryTerms *string          `json:"delivery_terms,omitempty"`
}

// TransitionResult separates the primary transition outcome from best-effort
// failures. A non-empty Warnings list means a peripheral step (audit comment,
// notification) failed; the status mutation itself committed.
type TransitionResult struct {
	Quote    *models.Quote `json:"quote"`
	Warnings []string      `json:"warnings,omitempty"`
}

// StatusNotifier receives fire-and-forget quote status-change events.
type StatusNotifier interface {
	QuoteStatusChanged(ctx context.Context, quoteID uint64, status enum.QuoteStatus, actor enum.ActorType)
}

// Service is the sole authority for mutating a quote's status and
// pending-offer fields.
type Service interface {
	Create(ctx context.Context, quote *models.Quote, items []*models.QuoteItem) (*TransitionResult, error)
	GetByID(ctx context.Context, id uint64) (*models.Quote, error)
	ListByBuyer(ctx context.Context, buyerID uint64, limit, offset uint64) ([]*models.Quote, error)
	ListBySupplier(ctx context.Context, supplierID uint64, limit, offset uint64) ([]*models.Quote, error)
	ListComments(ctx context.Context, quoteID uint64) ([]*models.QuoteComment, error)

	// SendCounterOffer records a revised offer from either party. Allowed
	// from PENDING only; every successful call increments the counter-offer
	// count by exactly one, so the operation is deliberately not idempotent.
	SendCounterOffer(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string, offer CounterOffer) (*TransitionResult, error)
	// Accept finalizes the quote. An open counter-offer's price/terms are
	// promoted to the principal fields; pending fields are cleared. Terminal.
	Accept(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string) (*TransitionResult, error)
	// Reject closes the quote. Pending fields are retained for audit but are
	// logically void once rejected. Terminal.
	Reject(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string) (*TransitionResult, error)
}

type service struct {
	repo               Repository
	transactionManager driver.TransactionManager
	notifier           StatusNotifier
	logger             *zap.Logger
}

func NewService(repo Repository, tm driver.TransactionManager, notifier StatusNotifier, logger *zap.Logger) Service {
	return &service{
		repo:               repo,
		transactionManager: tm,
		notifier:           notifier,
		logger:             logger,
	}
}

// NewQuoteNumber generates a unique human-readable quote number. Uniqueness
// is the only requirement; the date prefix just keeps it readable.
func NewQuoteNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return fmt.Sprintf("QT-%s-%s", time.Now().Format("20060102"), suffix)
}

func (s *service) Create(ctx context.Context, quote *models.Quote, items []*models.QuoteItem) (*TransitionResult, error) {
	if quote.QuoteNumber == "" {
		quote.QuoteNumber = NewQuoteNumber()
	}
	quote.Status = enum.QuoteStatusPending

	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.Create(ctx, tx, quote); err != nil {
			return err
		}
		for _, item := range items {
			item.QuoteID = quote.ID
		}
		if err := s.repo.CreateItems(ctx, tx, items); err != nil {
			return fmt.Errorf("failed to create quote items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	quote.Items = items
	s.repo.Cache(ctx, quote)

	result := &TransitionResult{Quote: quote}
	if quote.Notes != "" {
		s.appendComment(ctx, result, &models.QuoteComment{
			QuoteID:  quote.ID,
			UserID:   quote.BuyerID,
			UserType: enum.ActorTypeBuyer,
			Action:   enum.CommentActionCreate,
			Comment:  quote.Notes,
		})
	}
	return result, nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (*models.Quote, error) {
	var quote *models.Quote
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		quote, err = s.repo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		quote.Items, err = s.repo.ListItems(ctx, tx, id)
		return err
	})
	return quote, err
}

func (s *service) ListByBuyer(ctx context.Context, buyerID uint64, limit, offset uint64) ([]*models.Quote, error) {
	var quotes []*models.Quote
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		quotes, err = s.repo.ListByBuyer(ctx, tx, buyerID, limit, offset)
		return err
	})
	return quotes, err
}

func (s *service) ListBySupplier(ctx context.Context, supplierID uint64, limit, offset uint64) ([]*models.Quote, error) {
	var quotes []*models.Quote
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		quotes, err = s.repo.ListBySupplier(ctx, tx, supplierID, limit, offset)
		return err
	})
	return quotes, err
}

func (s *service) ListComments(ctx context.Context, quoteID uint64) ([]*models.QuoteComment, error) {
	var comments []*models.QuoteComment
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		comments, err = s.repo.ListComments(ctx, tx, quoteID)
		return err
	})
	return comments, err
}

func (s *service) SendCounterOffer(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string, offer CounterOffer) (*TransitionResult, error) {
	quote, err := s.transition(ctx, quoteID, func(q *models.Quote) error {
		if offer.NewPrice != nil {
			q.PendingCounterOfferPrice = offer.NewPrice
		}
		if offer.PaymentTerms != nil {
			q.PendingPaymentTerms = offer.PaymentTerms
		}
		if offer.DeliveryTerms != nil {
			q.PendingDeliveryTerms = offer.DeliveryTerms
		}
		actor := actorType
		q.LastCounterOfferBy = &actor
		q.CounterOfferCount++
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &TransitionResult{Quote: quote}
	s.appendComment(ctx, result, &models.QuoteComment{
		QuoteID:              quoteID,
		UserID:               actorID,
		UserType:             actorType,
		Action:               enum.CommentActionCounterOffer,
		Comment:              comment,
		OfferedPrice:         quote.PendingCounterOfferPrice,
		OfferedPaymentTerms:  quote.PendingPaymentTerms,
		OfferedDeliveryTerms: quote.PendingDeliveryTerms,
	})
	s.notify(ctx, quote, actorType)
	return result, nil
}

func (s *service) Accept(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string) (*TransitionResult, error) {
	quote, err := s.transition(ctx, quoteID, func(q *models.Quote) error {
		// The open counter-offer's values win over the principal fields.
		if q.PendingCounterOfferPrice != nil {
			q.TotalPrice = *q.PendingCounterOfferPrice
		}
		if q.PendingPaymentTerms != nil {
			q.PaymentTerms = *q.PendingPaymentTerms
		}
		if q.PendingDeliveryTerms != nil {
			q.DeliveryTerms = *q.PendingDeliveryTerms
		}
		q.ClearPendingOffer()
		q.Status = enum.QuoteStatusAccepted
		now := time.Now()
		q.AcceptedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &TransitionResult{Quote: quote}
	if comment != "" {
		s.appendComment(ctx, result, &models.QuoteComment{
			QuoteID:  quoteID,
			UserID:   actorID,
			UserType: actorType,
			Action:   enum.CommentActionAccept,
			Comment:  comment,
		})
	}
	s.notify(ctx, quote, actorType)
	return result, nil
}

func (s *service) Reject(ctx context.Context, quoteID, actorID uint64, actorType enum.ActorType, comment string) (*TransitionResult, error) {
	quote, err := s.transition(ctx, quoteID, func(q *models.Quote) error {
		// Pending fields stay as-is for the audit trail; they are logically
		// void once the quote is rejected.
		q.Status = enum.QuoteStatusRejected
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &TransitionResult{Quote: quote}
	if comment != "" {
		s.appendComment(ctx, result, &models.QuoteComment{
			QuoteID:  quoteID,
			UserID:   actorID,
			UserType: actorType,
			Action:   enum.CommentActionReject,
			Comment:  comment,
		})
	}
	s.notify(ctx, quote, actorType)
	return result, nil
}

// transition runs one read-modify-write as a unit: the quote row is read
// under a row lock, mutated, and written back before the lock is released,
// so concurrent transitions on the same quote serialize instead of losing
// updates. Terminal quotes reject any further transition.
func (s *service) transition(ctx context.Context, quoteID uint64, mutate func(*models.Quote) error) (*models.Quote, error) {
	var quote *models.Quote
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		quote, err = s.repo.GetByIDForUpdate(ctx, tx, quoteID)
		if err != nil {
			return err
		}
		if quote.Status.Terminal() {
			return fmt.Errorf("%w: quote %d is %s", models.ErrInvalidStateTransition, quoteID, quote.Status)
		}
		if err = mutate(quote); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, quote)
	})
	if err != nil {
		return nil, err
	}

	// The cache is published only once the transaction has committed; a
	// failed commit must never leave the cache ahead of the database.
	s.repo.Cache(ctx, quote)
	return quote, nil
}

// appendComment writes the audit entry in its own transaction, after the
// status mutation has committed. A failure here never unwinds the
// transition; it is logged and surfaced as a warning.
func (s *service) appendComment(ctx context.Context, result *TransitionResult, comment *models.QuoteComment) {
	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.AppendComment(ctx, tx, comment)
	})
	if err != nil {
		s.logger.Error("Failed to append quote comment",
			zap.Error(err),
			zap.Uint64("quote_id", comment.QuoteID),
			zap.String("action", string(comment.Action)))
		result.Warnings = append(result.Warnings, fmt.Sprintf("comment not recorded: %v", err))
	}
}

func (s *service) notify(ctx context.Context, quote *models.Quote, actor enum.ActorType) {
	if s.notifier == nil {
		return
	}
	s.notifier.QuoteStatusChanged(ctx, quote.ID, quote.Status, actor)
}
