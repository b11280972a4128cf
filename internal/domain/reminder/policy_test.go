package reminder

import (
	"database/sql"
	"testing"
	"time"

	"ticket_reminder_service/internal/domain/ticket"

	"github.com/stretchr/testify/assert"
)

func pendingTicket(last time.Time) *ticket.Ticket {
	t := &ticket.Ticket{
		ID:          "t-1",
		Name:        "Maria",
		Email:       "maria@example.com",
		ServiceDate: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Status:      ticket.StatusPending,
	}
	if !last.IsZero() {
		t.LastReminderSent = sql.NullTime{Time: last, Valid: true}
	}
	return t
}

func TestIsDue_NeverSentIsAlwaysDue(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	// Regardless of how old or recent the service date is.
	tk := pendingTicket(time.Time{})
	tk.ServiceDate = now.Add(-5 * time.Minute)
	assert.True(t, IsDue(tk, now, DefaultCooldown))

	tk.ServiceDate = now.AddDate(0, -6, 0)
	assert.True(t, IsDue(tk, now, DefaultCooldown))
}

func TestIsDue_CooldownWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		lastSent time.Time
		cooldown time.Duration
		want     bool
	}{
		{"sent 10 hours ago, 24h cooldown", now.Add(-10 * time.Hour), 24 * time.Hour, false},
		{"sent 25 hours ago, 24h cooldown", now.Add(-25 * time.Hour), 24 * time.Hour, true},
		{"sent exactly one cooldown ago", now.Add(-24 * time.Hour), 24 * time.Hour, true},
		{"sent one second short of cooldown", now.Add(-24*time.Hour + time.Second), 24 * time.Hour, false},
		{"custom 1h cooldown elapsed", now.Add(-90 * time.Minute), time.Hour, true},
		{"custom 1h cooldown not elapsed", now.Add(-30 * time.Minute), time.Hour, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tk := pendingTicket(tc.lastSent)
			assert.Equal(t, tc.want, IsDue(tk, now, tc.cooldown))
		})
	}
}

func TestIsDue_OpenTicketsNeverDue(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	tk := pendingTicket(time.Time{})
	tk.Status = ticket.StatusOpen
	assert.False(t, IsDue(tk, now, DefaultCooldown))

	// Even with a stale last reminder and a high count.
	tk = pendingTicket(now.AddDate(0, -1, 0))
	tk.Status = ticket.StatusOpen
	tk.ReminderCount = 3
	assert.False(t, IsDue(tk, now, DefaultCooldown))
}

func TestIsDue_Deterministic(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	tk := pendingTicket(now.Add(-25 * time.Hour))

	first := IsDue(tk, now, DefaultCooldown)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, IsDue(tk, now, DefaultCooldown))
	}
}
