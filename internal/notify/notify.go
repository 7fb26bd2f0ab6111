// Package notify delivers challenge reminders to users in the background.
// A scheduler periodically selects users whose notification preferences say
// they are due, enqueues one reminder per user, and a worker pool drains
// the queue so delivery never blocks request handling.
package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Reminder is a single notification to be delivered to a user.
type Reminder struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Email    string
	Username string
	Subject  string
	Body     string
}

// Sender delivers reminders. Implementations must be safe for concurrent
// use by multiple workers.
type Sender interface {
	Send(ctx context.Context, reminder Reminder) error
}

// QueueReader provides read-only access to the reminder channel, allowing
// workers to consume reminders without the ability to enqueue.
type QueueReader interface {
	// GetChannel returns a read-only channel for consuming reminders.
	GetChannel() <-chan Reminder
}

// QueueWriter provides write access to the reminder queue.
type QueueWriter interface {
	// Enqueue adds a reminder to the queue for delivery.
	// Returns an error if the queue is full or closed.
	Enqueue(reminder Reminder) error

	// Close closes the queue, preventing further submission.
	Close()
}

// LogSender is a Sender that records deliveries in the log instead of
// sending them anywhere. It stands in for a real mail transport in
// development and tests.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With(slog.String("component", "log_sender"))}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, reminder Reminder) error {
	s.logger.InfoContext(ctx, "reminder delivered",
		slog.String("reminder_id", reminder.ID.String()),
		slog.String("user_id", reminder.UserID.String()),
		slog.String("subject", reminder.Subject))
	return nil
}
