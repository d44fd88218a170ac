package trade

import (
	"context"

	"go.uber.org/zap"
)

type WorkRequest struct {
	Event *QuoteEvent
	Ctx   context.Context
}

type Worker struct {
	ID         int
	WorkerPool chan chan WorkRequest
	JobChannel chan WorkRequest
	quit       chan bool
	manager    *EventManager
	logger     *zap.Logger
}

func NewWorker(id int, workerPool chan chan WorkRequest, manager *EventManager, logger *zap.Logger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan WorkRequest),
		quit:       make(chan bool),
		manager:    manager,
		logger:     logger,
	}
}

func (w Worker) Start() {
	go func() {
		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				if err := w.manager.processEvent(job.Ctx, job.Event); err != nil {
					w.logger.Error("Failed to process quote event",
						zap.Error(err),
						zap.Int("worker_id", w.ID),
						zap.Uint64("quote_id", job.Event.QuoteID),
						zap.String("status", string(job.Event.Status)))
				}

			case <-w.quit:
				return
			}
		}
	}()
}

func (w Worker) Stop() {
	close(w.quit)
}
