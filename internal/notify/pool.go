package notify

import (
	"context"
	"log/slog"
	"sync"
)

// WorkerPool drains the reminder queue with a fixed number of worker
// goroutines. It handles graceful shutdown and worker lifecycle.
type WorkerPool struct {
	queue       QueueReader
	sender      Sender
	workerCount int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *slog.Logger
}

// WorkerPoolConfig holds configuration options for the worker pool.
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to
	// start. If zero or negative, defaults to 1.
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{WorkerCount: 2}
}

// NewWorkerPool creates a new worker pool over the given queue and sender.
func NewWorkerPool(queue QueueReader, sender Sender, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		queue:       queue,
		sender:      sender,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger.With(slog.String("component", "notify_pool")),
	}
}

// Start launches the worker goroutines.
func (p *WorkerPool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker pool started", "worker_count", p.workerCount)
}

// Stop cancels in-flight deliveries and waits for all workers to exit.
// The queue must be closed by its owner before or after Stop; a closed
// queue also lets workers drain and exit on their own.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	log := p.logger.With(slog.Int("worker_id", id))
	for {
		select {
		case <-p.ctx.Done():
			log.Debug("worker shutting down")
			return
		case reminder, ok := <-p.queue.GetChannel():
			if !ok {
				log.Debug("queue closed, worker exiting")
				return
			}
			if err := p.sender.Send(p.ctx, reminder); err != nil {
				log.Error("failed to deliver reminder",
					"reminder_id", reminder.ID,
					"user_id", reminder.UserID,
					"error", err)
			}
		}
	}
}
