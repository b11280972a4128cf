package app

import (
	"context"
	"fmt"
	"time"

	"ticket_reminder_service/internal/domain/notify"
	"ticket_reminder_service/internal/domain/reminder"
	"ticket_reminder_service/internal/domain/ticket"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReminderService defines the reminder engine operations exposed to the
// scheduler and the admin API.
type ReminderService interface {
	// RunSweep evaluates every pending ticket, dispatches a reminder for
	// each due one and aggregates the outcome. One ticket failing never
	// aborts the sweep.
	RunSweep(ctx context.Context) (*reminder.SweepSummary, error)
	// SendManualReminder dispatches a single reminder for one ticket,
	// bypassing the cooldown. The ticket must still be pending.
	SendManualReminder(ctx context.Context, ticketID string) error
}

// Config carries the tunables of the reminder engine. Zero Cooldown,
// SendTimeout and FromName fall back to the defaults below; a zero SendDelay
// genuinely means no pause between dispatches.
type Config struct {
	Cooldown    time.Duration // minimum gap between reminders per ticket
	SendDelay   time.Duration // pause between consecutive dispatches
	SendTimeout time.Duration // upper bound for one Notifier call
	FromName    string        // sender display name used in the message body
}

const (
	defaultSendTimeout = 30 * time.Second
	defaultFromName    = "Equipe de Suporte TI"
)

// ReminderServiceImpl implements ReminderService.
type ReminderServiceImpl struct {
	ticketRepo  ticket.Repository
	notifier    notify.Notifier
	clock       reminder.Clock
	logger      *logrus.Logger
	cooldown    time.Duration
	sendDelay   time.Duration
	sendTimeout time.Duration
	fromName    string
}

func NewReminderService(
	tr ticket.Repository,
	n notify.Notifier,
	clock reminder.Clock,
	logger *logrus.Logger,
	cfg Config,
) *ReminderServiceImpl {
	if clock == nil {
		clock = reminder.RealClock{}
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = reminder.DefaultCooldown
	}
	if cfg.SendDelay < 0 {
		cfg.SendDelay = 0
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	if cfg.FromName == "" {
		cfg.FromName = defaultFromName
	}
	return &ReminderServiceImpl{
		ticketRepo:  tr,
		notifier:    n,
		clock:       clock,
		logger:      logger,
		cooldown:    cfg.Cooldown,
		sendDelay:   cfg.SendDelay,
		sendTimeout: cfg.SendTimeout,
		fromName:    cfg.FromName,
	}
}

// RunSweep fetches pending tickets, filters them through the eligibility
// policy and dispatches reminders sequentially with a fixed delay between
// sends. The delay keeps the outbound rate bounded for the provider.
func (s *ReminderServiceImpl) RunSweep(ctx context.Context) (*reminder.SweepSummary, error) {
	summary := &reminder.SweepSummary{
		ID:        uuid.NewString(),
		StartedAt: s.clock.Now(),
	}
	s.logger.WithField("sweep_id", summary.ID).Info("starting reminder sweep")

	pending, err := s.ticketRepo.ListPending(ctx)
	if err != nil {
		s.logger.WithField("sweep_id", summary.ID).Errorf("failed to list pending tickets: %v", err)
		return nil, fmt.Errorf("failed to list pending tickets: %w", err)
	}
	summary.TotalPending = len(pending)

	now := s.clock.Now()
	eligible := make([]*ticket.Ticket, 0, len(pending))
	for _, t := range pending {
		if reminder.IsDue(t, now, s.cooldown) {
			eligible = append(eligible, t)
		}
	}
	summary.TotalEligible = len(eligible)
	s.logger.WithFields(logrus.Fields{
		"sweep_id": summary.ID,
		"pending":  summary.TotalPending,
		"eligible": summary.TotalEligible,
	}).Info("evaluated tickets for reminders")

	for i, t := range eligible {
		if i > 0 && s.sendDelay > 0 {
			if err := sleepCtx(ctx, s.sendDelay); err != nil {
				s.logger.WithField("sweep_id", summary.ID).Warnf("sweep interrupted: %v", err)
				summary.FinishedAt = s.clock.Now()
				return summary, err
			}
		}

		res := s.dispatch(ctx, t)
		if res.Success {
			summary.Sent++
		} else {
			summary.Failed++
			summary.Failures = append(summary.Failures, reminder.Failure{
				TicketID:  t.ID,
				Recipient: t.Email,
				Reason:    res.Reason,
			})
		}
	}

	summary.FinishedAt = s.clock.Now()
	s.logger.WithFields(logrus.Fields{
		"sweep_id": summary.ID,
		"sent":     summary.Sent,
		"failed":   summary.Failed,
	}).Info("reminder sweep finished")
	return summary, nil
}

// SendManualReminder is the per-ticket manual trigger used by operators. It
// skips the cooldown check on purpose: an operator asking for a resend knows
// one was already sent.
func (s *ReminderServiceImpl) SendManualReminder(ctx context.Context, ticketID string) error {
	t, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("failed to load ticket %s: %w", ticketID, err)
	}
	if t.Status != ticket.StatusPending {
		return fmt.Errorf("ticket %s is not pending (status: %s)", t.ID, t.Status)
	}

	res := s.dispatch(ctx, t)
	if !res.Success {
		return fmt.Errorf("manual reminder for ticket %s failed: %s", t.ID, res.Reason)
	}
	return nil
}

// dispatch builds and delivers one reminder and, on confirmed delivery,
// records it on the ticket. It never returns an error: the result carries
// every failure mode so the sweep loop can keep going.
func (s *ReminderServiceImpl) dispatch(ctx context.Context, t *ticket.Ticket) reminder.DispatchResult {
	log := s.logger.WithFields(logrus.Fields{"ticket_id": t.ID, "recipient": t.Email})

	if t.Email == "" {
		log.Error("ticket has no recipient address")
		return reminder.DispatchResult{Reason: notify.ErrEmptyRecipient.Error()}
	}

	newCount := t.ReminderCount + 1
	subject := buildReminderSubject(t)
	body, err := buildReminderBody(t, newCount, s.fromName)
	if err != nil {
		log.Errorf("failed to render reminder message: %v", err)
		return reminder.DispatchResult{Reason: fmt.Sprintf("render message: %v", err)}
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.notifier.Send(sendCtx, t.Email, subject, body); err != nil {
		log.Errorf("failed to send reminder: %v", err)
		return reminder.DispatchResult{Reason: err.Error()}
	}

	sentAt := s.clock.Now()
	if err := s.ticketRepo.MarkReminded(ctx, t.ID, newCount, sentAt); err != nil {
		// The email went out but the ticket still shows the old count, so
		// the next sweep may send a duplicate. Reported as a failure because
		// the state was not durably recorded.
		log.Errorf("reminder delivered but not recorded: %v", err)
		return reminder.DispatchResult{Reason: fmt.Sprintf("reminder delivered but not recorded: %v", err)}
	}

	log.WithField("reminder_count", newCount).Info("reminder sent")
	return reminder.DispatchResult{Success: true}
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
