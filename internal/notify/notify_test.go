package notify

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackly/stackly-api/internal/domain"
)

// recordingSender collects delivered reminders.
type recordingSender struct {
	mu        sync.Mutex
	delivered []Reminder
	done      chan struct{} // closed after `expect` deliveries
	expect    int
}

func newRecordingSender(expect int) *recordingSender {
	return &recordingSender{done: make(chan struct{}), expect: expect}
}

func (s *recordingSender) Send(_ context.Context, reminder Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delivered = append(s.delivered, reminder)
	if len(s.delivered) == s.expect {
		close(s.done)
	}
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

func TestQueue(t *testing.T) {
	t.Parallel()

	t.Run("enqueue and consume", func(t *testing.T) {
		t.Parallel()
		q := NewQueue(2, slog.Default())

		reminder := Reminder{ID: uuid.New()}
		require.NoError(t, q.Enqueue(reminder))

		got := <-q.GetChannel()
		assert.Equal(t, reminder.ID, got.ID)
	})

	t.Run("full queue", func(t *testing.T) {
		t.Parallel()
		q := NewQueue(1, slog.Default())

		require.NoError(t, q.Enqueue(Reminder{ID: uuid.New()}))
		err := q.Enqueue(Reminder{ID: uuid.New()})
		assert.ErrorIs(t, err, ErrQueueFull)
	})

	t.Run("closed queue rejects", func(t *testing.T) {
		t.Parallel()
		q := NewQueue(1, slog.Default())
		q.Close()

		err := q.Enqueue(Reminder{ID: uuid.New()})
		assert.ErrorIs(t, err, ErrQueueClosed)
	})

	t.Run("double close is safe", func(t *testing.T) {
		t.Parallel()
		q := NewQueue(1, slog.Default())
		q.Close()
		q.Close()
	})
}

func TestWorkerPool(t *testing.T) {
	t.Parallel()

	q := NewQueue(10, slog.Default())
	sender := newRecordingSender(3)
	pool := NewWorkerPool(q, sender, WorkerPoolConfig{WorkerCount: 2}, slog.Default())

	pool.Start()
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(Reminder{ID: uuid.New()}))
	}

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("reminders were not delivered in time")
	}

	q.Close()
	pool.Stop()
	assert.Equal(t, 3, sender.count())
}

func TestSchedulerDue(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, SchedulerConfig{}, slog.Default())
	now := time.Now().UTC()

	user := &domain.User{ID: uuid.New(), NotifyEvery: domain.NotifyDaily}

	// Never notified: due immediately.
	assert.True(t, s.due(user, now))

	s.markSent(user.ID, now)
	assert.False(t, s.due(user, now.Add(12*time.Hour)))
	assert.True(t, s.due(user, now.Add(25*time.Hour)))

	weekly := &domain.User{ID: uuid.New(), NotifyEvery: domain.NotifyWeekly}
	s.markSent(weekly.ID, now)
	assert.False(t, s.due(weekly, now.Add(2*24*time.Hour)))
	assert.True(t, s.due(weekly, now.Add(8*24*time.Hour)))
}
