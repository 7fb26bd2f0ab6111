package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by the Queue
var (
	ErrQueueClosed = errors.New("reminder queue is closed")
	ErrQueueFull   = errors.New("reminder queue is full")
)

// Queue implements a buffered reminder queue that satisfies both
// QueueReader and QueueWriter.
type Queue struct {
	reminders chan Reminder
	logger    *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewQueue creates a new queue with the specified buffer size.
func NewQueue(size int, logger *slog.Logger) *Queue {
	return &Queue{
		reminders: make(chan Reminder, size),
		logger:    logger,
	}
}

// Enqueue adds a reminder to the queue for delivery.
// Returns an error if the queue is full or closed.
func (q *Queue) Enqueue(reminder Reminder) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.reminders <- reminder:
		q.logger.Debug("reminder enqueued",
			"reminder_id", reminder.ID,
			"queue_len", len(q.reminders),
			"queue_cap", cap(q.reminders))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.reminders))
	}
}

// Close closes the queue, preventing further submission.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.reminders)
		q.logger.Info("reminder queue closed")
	}
}

// GetChannel returns a read-only channel for consuming reminders.
func (q *Queue) GetChannel() <-chan Reminder {
	return q.reminders
}
