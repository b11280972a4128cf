package ticket

import (
	"context"
	"time"
)

// Repository defines the operations the reminder engine needs from the
// ticket store. Create exists for the surrounding CRUD layer and for tests;
// MarkReminded is the only mutation the engine itself performs.
type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id string) (*Ticket, error)
	ListPending(ctx context.Context) ([]*Ticket, error)
	ListAll(ctx context.Context) ([]*Ticket, error)
	// MarkReminded records a confirmed delivery: it sets the reminder count
	// and stamps last_reminder_sent in a single narrow update.
	MarkReminded(ctx context.Context, id string, reminderCount int, sentAt time.Time) error
}
