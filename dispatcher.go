package trade

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// WorkerPool fans quote events out to a fixed set of workers. Events are
// best-effort downstream notifications, so a full queue drops the event with
// a log line instead of blocking the caller.
type WorkerPool struct {
	workerQueue chan chan WorkRequest
	jobQueue    chan WorkRequest
	maxWorkers  int
	workers     []Worker
	manager     *EventManager
	logger      *zap.Logger
	stop        chan bool
	wg          sync.WaitGroup
}

func NewWorkerPool(maxWorkers, jobQueueSize int, manager *EventManager, logger *zap.Logger) *WorkerPool {
	return &WorkerPool{
		workerQueue: make(chan chan WorkRequest, maxWorkers),
		jobQueue:    make(chan WorkRequest, jobQueueSize),
		maxWorkers:  maxWorkers,
		manager:     manager,
		logger:      logger,
		stop:        make(chan bool),
	}
}

func (wp *WorkerPool) Run() {
	for i := 0; i < wp.maxWorkers; i++ {
		worker := NewWorker(i+1, wp.workerQueue, wp.manager, wp.logger)
		worker.Start()
		wp.workers = append(wp.workers, worker)
	}

	wp.wg.Add(1)
	go wp.dispatch()
}

func (wp *WorkerPool) Submit(ctx context.Context, event *QuoteEvent) {
	select {
	case wp.jobQueue <- WorkRequest{Event: event, Ctx: ctx}:
	default:
		wp.logger.Warn("Quote event queue full, dropping event",
			zap.Uint64("quote_id", event.QuoteID),
			zap.String("status", string(event.Status)))
	}
}

func (wp *WorkerPool) dispatch() {
	defer wp.wg.Done()

	for {
		select {
		case job := <-wp.jobQueue:
			select {
			case jobChannel := <-wp.workerQueue:
				jobChannel <- job
			case <-wp.stop:
				return
			}
		case <-wp.stop:
			return
		}
	}
}

func (wp *WorkerPool) Stop() {
	close(wp.stop)
	wp.wg.Wait()
	for _, worker := range wp.workers {
		worker.Stop()
	}
}
