package database

import (
	"context"
	"database/sql"
	"fmt"

	"ticket_reminder_service/internal/domain/ticket"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Sentinel errors surfaced to the application layer.
var ErrTicketNotFound = fmt.Errorf("ticket not found")

const ticketColumns = `id, name, email, department, analyst, problem, service_date,
               status, reminder_count, last_reminder_sent, created_at, updated_at`

type PostgresTicketRepository struct {
	db *sql.DB
}

func NewPostgresTicketRepository(db *sql.DB) *PostgresTicketRepository {
	return &PostgresTicketRepository{db: db}
}

func (r *PostgresTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = ticket.StatusPending
	}
	query := `INSERT INTO tickets (id, name, email, department, analyst, problem, service_date,
               status, reminder_count, last_reminder_sent)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
               RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Email, t.Department, t.Analyst, t.Problem, t.ServiceDate,
		t.Status, t.ReminderCount, t.LastReminderSent,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating ticket: %w", err)
	}
	return nil
}

func (r *PostgresTicketRepository) GetByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	t := &ticket.Ticket{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Email, &t.Department, &t.Analyst, &t.Problem, &t.ServiceDate,
		&t.Status, &t.ReminderCount, &t.LastReminderSent, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("error getting ticket by ID: %w", err)
	}
	return t, nil
}

// ListPending returns pending tickets in a stable order so a sweep processes
// them deterministically. The status filter happens server-side.
func (r *PostgresTicketRepository) ListPending(ctx context.Context) ([]*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
               WHERE status = $1 ORDER BY service_date, id`
	return r.list(ctx, query, string(ticket.StatusPending))
}

func (r *PostgresTicketRepository) ListAll(ctx context.Context) ([]*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY service_date, id`
	return r.list(ctx, query)
}

func (r *PostgresTicketRepository) list(ctx context.Context, query string, args ...any) ([]*ticket.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]*ticket.Ticket, 0)
	for rows.Next() {
		t := &ticket.Ticket{}
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Email, &t.Department, &t.Analyst, &t.Problem, &t.ServiceDate,
			&t.Status, &t.ReminderCount, &t.LastReminderSent, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}
	return tickets, nil
}

// MarkReminded records a confirmed delivery in a single narrow update. The
// reminder fields and updated_at are the only columns the engine ever writes.
func (r *PostgresTicketRepository) MarkReminded(ctx context.Context, id string, reminderCount int, sentAt time.Time) error {
	query := `UPDATE tickets
               SET reminder_count = $1, last_reminder_sent = $2, updated_at = NOW()
               WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, reminderCount, sentAt, id)
	if err != nil {
		return fmt.Errorf("error marking ticket reminded: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking marked rows: %w", err)
	}
	if affected == 0 {
		return ErrTicketNotFound
	}
	return nil
}
