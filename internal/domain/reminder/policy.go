package reminder

import (
	"time"

	"ticket_reminder_service/internal/domain/ticket"
)

// DefaultCooldown is the minimum gap between two reminders for one ticket.
const DefaultCooldown = 24 * time.Hour

// IsDue reports whether a reminder should be sent for the ticket at the
// given instant. The decision depends only on its inputs:
//   - non-pending tickets are never due;
//   - a pending ticket that was never reminded is due immediately, no
//     minimum age is required after it becomes pending;
//   - otherwise a full cooldown must have elapsed since the last send.
func IsDue(t *ticket.Ticket, now time.Time, cooldown time.Duration) bool {
	if t.Status != ticket.StatusPending {
		return false
	}
	if !t.LastReminderSent.Valid {
		return true
	}
	return now.Sub(t.LastReminderSent.Time) >= cooldown
}
