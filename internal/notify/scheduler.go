package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/store"
)

// SchedulerConfig holds configuration for the reminder scheduler.
type SchedulerConfig struct {
	// CheckInterval is how often the scheduler scans for due users.
	// If zero, defaults to one hour.
	CheckInterval time.Duration
}

// Scheduler periodically scans users and enqueues a challenge reminder for
// everyone whose notification preference says they are due. Delivery times
// are tracked in memory, so a restart re-arms every user; at reminder
// granularity (a day or more) an occasional early reminder is acceptable.
type Scheduler struct {
	users  store.UserStore
	queue  QueueWriter
	config SchedulerConfig
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	lastSent map[uuid.UUID]time.Time
}

// NewScheduler creates a Scheduler over the given user store and queue.
func NewScheduler(users store.UserStore, queue QueueWriter, config SchedulerConfig, logger *slog.Logger) *Scheduler {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		users:    users,
		queue:    queue,
		config:   config,
		logger:   logger.With(slog.String("component", "notify_scheduler")),
		ctx:      ctx,
		cancel:   cancel,
		lastSent: make(map[uuid.UUID]time.Time),
	}
}

// Start launches the scan loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	s.logger.Info("reminder scheduler started",
		"check_interval", s.config.CheckInterval.String())
}

// Stop halts the scan loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info("reminder scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.scan(s.ctx); err != nil {
				s.logger.Error("reminder scan failed", "error", err)
			}
		}
	}
}

// scan enqueues a reminder for every opted-in user that is due.
func (s *Scheduler) scan(ctx context.Context) error {
	users, err := s.users.List(ctx, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	now := time.Now().UTC()
	enqueued := 0
	for _, user := range users {
		if !user.Notification {
			continue
		}
		if !s.due(user, now) {
			continue
		}

		reminder := Reminder{
			ID:       uuid.New(),
			UserID:   user.ID,
			Email:    user.Email,
			Username: user.Username,
			Subject:  "Your next challenge is waiting",
			Body: fmt.Sprintf("Hi %s, you have %d points. Pick up a theme and keep your streak going.",
				user.Username, user.TotalPoints),
		}

		if err := s.queue.Enqueue(reminder); err != nil {
			// A full queue is back-pressure, not a failure: the user stays
			// due and is retried on the next scan.
			s.logger.Warn("failed to enqueue reminder",
				"user_id", user.ID,
				"error", err)
			continue
		}

		s.markSent(user.ID, now)
		enqueued++
	}

	if enqueued > 0 {
		s.logger.Debug("reminder scan complete", "enqueued", enqueued)
	}
	return nil
}

// due reports whether enough time has passed since the user's last
// reminder for their chosen frequency.
func (s *Scheduler) due(user *domain.User, now time.Time) bool {
	s.mu.Lock()
	last, ok := s.lastSent[user.ID]
	s.mu.Unlock()
	if !ok {
		return true
	}
	return now.Sub(last) >= frequencyInterval(user.NotifyEvery)
}

func (s *Scheduler) markSent(userID uuid.UUID, at time.Time) {
	s.mu.Lock()
	s.lastSent[userID] = at
	s.mu.Unlock()
}

func frequencyInterval(f domain.NotificationFrequency) time.Duration {
	switch f {
	case domain.NotifyWeekly:
		return 7 * 24 * time.Hour
	case domain.NotifyMonthly:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}
