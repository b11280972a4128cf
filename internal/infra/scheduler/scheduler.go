package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ticket_reminder_service/internal/app" // For ReminderService interface
	"ticket_reminder_service/internal/domain/reminder"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ErrSweepInProgress is returned by RunNow when a sweep is already running.
// Manual triggers are rejected rather than queued so two sweeps never touch
// the ticket store concurrently.
var ErrSweepInProgress = errors.New("a reminder sweep is already running")

// State is the scheduler lifecycle state.
type State string

const (
	StateIdle    State = "IDLE"    // created, cron not started yet
	StateWaiting State = "WAITING" // timer armed for the next trigger
	StateRunning State = "RUNNING" // a sweep is in progress
)

const defaultSweepTimeout = 30 * time.Minute

// ReminderScheduler triggers a reminder sweep once per day at a configured
// time and exposes a guarded manual trigger. The cron engine owns the "next
// instant" computation: today at the configured time if still ahead,
// otherwise tomorrow. A trigger missed while the process was down is not
// replayed.
type ReminderScheduler struct {
	cronEngine *cron.Cron
	service    app.ReminderService
	logger     *logrus.Logger
	cronSpec   string
	entryID    cron.EntryID

	mu          sync.Mutex
	state       State
	lastSummary *reminder.SweepSummary
}

func NewReminderScheduler(
	service app.ReminderService,
	logger *logrus.Logger,
	cronSpec string, // e.g. "0 10 * * *" (10:00 daily, local time)
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		service:    service,
		logger:     logger,
		cronSpec:   cronSpec,
		state:      StateIdle,
	}
}

// Start registers the daily job and starts the cron engine.
func (s *ReminderScheduler) Start() error {
	s.logger.Infof("starting reminder scheduler with spec %q", s.cronSpec)

	entryID, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("cron trigger fired for daily reminder sweep")
		if _, err := s.runGuarded(); err != nil {
			if errors.Is(err, ErrSweepInProgress) {
				s.logger.Warn("scheduled sweep skipped: previous sweep still running")
				return
			}
			s.logger.Errorf("scheduled sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("could not register daily sweep job: %w", err)
	}
	s.entryID = entryID

	s.mu.Lock()
	s.state = StateWaiting
	s.mu.Unlock()

	s.cronEngine.Start()
	s.logger.Infof("reminder scheduler started, next run at %s", s.cronEngine.Entry(entryID).Next.Format(time.RFC3339))
	return nil
}

// RunNow triggers a sweep immediately unless one is already in progress.
func (s *ReminderScheduler) RunNow() (*reminder.SweepSummary, error) {
	s.logger.Info("manual sweep trigger received")
	return s.runGuarded()
}

// runGuarded serialises scheduled and manual sweeps through the Running
// state. The loser of the race gets ErrSweepInProgress instead of blocking.
func (s *ReminderScheduler) runGuarded() (summary *reminder.SweepSummary, err error) {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return nil, ErrSweepInProgress
	}
	prev := s.state
	s.state = StateRunning
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if prev == StateIdle {
			s.state = StateIdle
		} else {
			s.state = StateWaiting
		}
		s.mu.Unlock()
	}()

	defer func() {
		// A panicking sweep must not break the timer loop; log it and let
		// the cron entry stay armed for tomorrow.
		if r := recover(); r != nil {
			s.logger.Errorf("reminder sweep panicked: %v", r)
			err = fmt.Errorf("reminder sweep panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaultSweepTimeout)
	defer cancel()

	summary, err = s.service.RunSweep(ctx)
	if summary != nil {
		s.mu.Lock()
		s.lastSummary = summary
		s.mu.Unlock()
	}
	return summary, err
}

// Status reports the current state and, when armed, the next trigger time.
func (s *ReminderScheduler) Status() (State, time.Time) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	var next time.Time
	if state != StateIdle {
		next = s.cronEngine.Entry(s.entryID).Next
	}
	return state, next
}

// LastSummary returns the outcome of the most recent sweep, or nil if none
// has run since the process started.
func (s *ReminderScheduler) LastSummary() *reminder.SweepSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSummary
}

// Stop stops the cron engine and waits for a running sweep to finish.
func (s *ReminderScheduler) Stop() {
	s.logger.Info("stopping reminder scheduler")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()

	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
	s.logger.Info("reminder scheduler stopped")
}
