package trade

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"goflare.io/trade/models/enum"
)

// QuoteEvent is the fire-and-forget payload emitted on every negotiation
// transition. Downstream consumers (counterparty notification, email) hang
// off it; emission failures never surface to the caller.
type QuoteEvent struct {
	QuoteID    uint64           `json:"quote_id"`
	Status     enum.QuoteStatus `json:"status"`
	Actor      enum.ActorType   `json:"actor"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type QuoteEventHandler func(context.Context, *QuoteEvent) error

// EventManager publishes quote status changes to NATS and dispatches
// subscribed events to registered handlers through a worker pool.
type EventManager struct {
	natsConn *nats.Conn
	handlers map[enum.QuoteStatus][]QuoteEventHandler
	logger   *zap.Logger
}

func NewEventManager(natsConn *nats.Conn, logger *zap.Logger) *EventManager {
	return &EventManager{
		natsConn: natsConn,
		handlers: make(map[enum.QuoteStatus][]QuoteEventHandler),
		logger:   logger,
	}
}

func (em *EventManager) RegisterHandler(status enum.QuoteStatus, handler QuoteEventHandler) {
	em.handlers[status] = append(em.handlers[status], handler)
}

// QuoteStatusChanged implements quote.StatusNotifier. Publish failures are
// logged and swallowed so a broker outage never blocks a transition.
func (em *EventManager) QuoteStatusChanged(_ context.Context, quoteID uint64, status enum.QuoteStatus, actor enum.ActorType) {
	event := &QuoteEvent{
		QuoteID:    quoteID,
		Status:     status,
		Actor:      actor,
		OccurredAt: time.Now(),
	}

	if err := em.PublishEvent(event); err != nil {
		em.logger.Error("Failed to publish quote event",
			zap.Error(err),
			zap.Uint64("quote_id", quoteID),
			zap.String("status", string(status)))
	}
}

func (em *EventManager) PublishEvent(event *QuoteEvent) error {
	if em.natsConn == nil {
		return nil
	}

	subject := fmt.Sprintf("trade.quote.status.%s", event.Status)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal quote event: %w", err)
	}

	return em.natsConn.Publish(subject, data)
}

func (em *EventManager) SubscribeToEvents(wp *WorkerPool) error {
	if em.natsConn == nil {
		return nil
	}

	_, err := em.natsConn.Subscribe("trade.quote.status.>", func(msg *nats.Msg) {
		var event QuoteEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			em.logger.Error("Failed to unmarshal quote event", zap.Error(err))
			return
		}

		wp.Submit(context.Background(), &event)
	})

	return err
}

func (em *EventManager) processEvent(ctx context.Context, event *QuoteEvent) error {
	handlers := em.handlers[event.Status]
	if len(handlers) == 0 {
		em.logger.Debug("No handler registered for quote event",
			zap.String("status", string(event.Status)),
			zap.Uint64("quote_id", event.QuoteID))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// registerDefaultHandlers wires the counterparty notification for every
// transition. Actual delivery (email, webhook) lives downstream; here the
// intent is recorded and logged.
func (em *EventManager) registerDefaultHandlers() {
	notify := func(_ context.Context, event *QuoteEvent) error {
		em.logger.Info("Notifying counterparty of quote status change",
			zap.Uint64("quote_id", event.QuoteID),
			zap.String("status", string(event.Status)),
			zap.String("actor", string(event.Actor)),
			zap.String("counterparty", string(event.Actor.Counterparty())))
		return nil
	}

	em.RegisterHandler(enum.QuoteStatusPending, notify)
	em.RegisterHandler(enum.QuoteStatusAccepted, notify)
	em.RegisterHandler(enum.QuoteStatusRejected, notify)
}
