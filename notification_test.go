package trade

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/trade/models/enum"
)

func TestProcessEventInvokesRegisteredHandlers(t *testing.T) {
	em := NewEventManager(nil, zap.NewNop())

	var mu sync.Mutex
	var seen []uint64
	em.RegisterHandler(enum.QuoteStatusAccepted, func(_ context.Context, event *QuoteEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, event.QuoteID)
		return nil
	})

	err := em.processEvent(context.Background(), &QuoteEvent{
		QuoteID: 42,
		Status:  enum.QuoteStatusAccepted,
		Actor:   enum.ActorTypeSupplier,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{42}, seen)
}

func TestProcessEventWithoutHandlersIsNoop(t *testing.T) {
	em := NewEventManager(nil, zap.NewNop())

	err := em.processEvent(context.Background(), &QuoteEvent{
		QuoteID: 1,
		Status:  enum.QuoteStatusRejected,
	})
	assert.NoError(t, err)
}

func TestProcessEventStopsOnHandlerError(t *testing.T) {
	em := NewEventManager(nil, zap.NewNop())

	boom := errors.New("delivery failed")
	var secondCalled bool
	em.RegisterHandler(enum.QuoteStatusPending, func(context.Context, *QuoteEvent) error { return boom })
	em.RegisterHandler(enum.QuoteStatusPending, func(context.Context, *QuoteEvent) error {
		secondCalled = true
		return nil
	})

	err := em.processEvent(context.Background(), &QuoteEvent{Status: enum.QuoteStatusPending})
	assert.ErrorIs(t, err, boom)
	assert.False(t, secondCalled)
}

func TestPublishWithoutBrokerIsSafe(t *testing.T) {
	em := NewEventManager(nil, zap.NewNop())

	assert.NoError(t, em.PublishEvent(&QuoteEvent{QuoteID: 1, Status: enum.QuoteStatusAccepted}))
	assert.NoError(t, em.SubscribeToEvents(nil))
	em.QuoteStatusChanged(context.Background(), 1, enum.QuoteStatusAccepted, enum.ActorTypeBuyer)
}

func TestDefaultHandlersCoverAllStatuses(t *testing.T) {
	em := NewEventManager(nil, zap.NewNop())
	em.registerDefaultHandlers()

	for _, status := range []enum.QuoteStatus{
		enum.QuoteStatusPending,
		enum.QuoteStatusAccepted,
		enum.QuoteStatusRejected,
	} {
		assert.NotEmpty(t, em.handlers[status], "no handler for %s", status)
	}
}

func TestWorkerPoolProcessesSubmittedEvents(t *testing.T) {
	em := NewEventManager(nil, zap.NewNop())

	done := make(chan uint64, 1)
	em.RegisterHandler(enum.QuoteStatusAccepted, func(_ context.Context, event *QuoteEvent) error {
		done <- event.QuoteID
		return nil
	})

	wp := NewWorkerPool(2, 8, em, zap.NewNop())
	wp.Run()
	defer wp.Stop()

	wp.Submit(context.Background(), &QuoteEvent{QuoteID: 7, Status: enum.QuoteStatusAccepted})

	select {
	case id := <-done:
		assert.Equal(t, uint64(7), id)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not processed")
	}
}

func TestWorkerPoolDropsWhenQueueFull(t *testing.T) {
	em := NewEventManager(nil, zap.NewNop())
	wp := NewWorkerPool(1, 1, em, zap.NewNop())
	// The pool is never started, so the queue holds exactly one event and
	// further submissions drop instead of blocking.
	wp.Submit(context.Background(), &QuoteEvent{QuoteID: 1, Status: enum.QuoteStatusPending})

	submitted := make(chan struct{})
	go func() {
		wp.Submit(context.Background(), &QuoteEvent{QuoteID: 2, Status: enum.QuoteStatusPending})
		close(submitted)
	}()

	select {
	case <-submitted:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
}
