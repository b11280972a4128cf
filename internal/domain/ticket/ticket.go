package ticket

import (
	"database/sql"
	"time"
)

// Status is the lifecycle state of a support ticket as far as the reminder
// engine is concerned. Tickets are created and edited elsewhere; the engine
// only reads the status and never changes it.
type Status string

const (
	// StatusOpen means the requester already registered the ticket in the
	// call system. Open tickets permanently exit the reminder set.
	StatusOpen Status = "OPEN"
	// StatusPending means the service was performed but the requester has
	// not registered a ticket yet. Only pending tickets receive reminders.
	StatusPending Status = "PENDING"
)

// Ticket represents one performed service awaiting registration.
type Ticket struct {
	ID               string
	Name             string
	Email            string
	Department       string
	Analyst          string
	Problem          sql.NullString // description of the solution performed, optional
	ServiceDate      time.Time
	Status           Status
	ReminderCount    int
	LastReminderSent sql.NullTime // zero value means no reminder was ever sent
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
