package app

import (
	"database/sql"
	"testing"
	"time"

	"ticket_reminder_service/internal/domain/ticket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageTicket() *ticket.Ticket {
	return &ticket.Ticket{
		ID:          "t-1",
		Name:        "Ana Souza",
		Email:       "ana@example.com",
		Department:  "Financeiro",
		Analyst:     "Carlos",
		Problem:     sql.NullString{String: "Troca de monitor", Valid: true},
		ServiceDate: time.Date(2025, 4, 7, 15, 30, 0, 0, time.UTC),
		Status:      ticket.StatusPending,
	}
}

func TestBuildReminderSubject(t *testing.T) {
	subject := buildReminderSubject(messageTicket())
	assert.Equal(t, "Lembrete: registre o atendimento de 07/04/2025", subject)
}

func TestBuildReminderBody_ContainsTicketFields(t *testing.T) {
	body, err := buildReminderBody(messageTicket(), 2, "Equipe de Suporte TI")
	require.NoError(t, err)

	assert.Contains(t, body, "Ana Souza")
	assert.Contains(t, body, "Carlos")
	assert.Contains(t, body, "07/04/2025")
	assert.Contains(t, body, "Financeiro")
	assert.Contains(t, body, "Troca de monitor")
	assert.Contains(t, body, "lembrete nº 2")
	assert.Contains(t, body, "Equipe de Suporte TI")
}

func TestBuildReminderBody_MissingProblemUsesPlaceholder(t *testing.T) {
	tk := messageTicket()
	tk.Problem = sql.NullString{}

	body, err := buildReminderBody(tk, 1, "Equipe de Suporte TI")
	require.NoError(t, err)
	assert.Contains(t, body, "Não especificado")
}

func TestBuildReminderBody_EscapesHTMLInFields(t *testing.T) {
	tk := messageTicket()
	tk.Name = `<script>alert("x")</script>`

	body, err := buildReminderBody(tk, 1, "Equipe de Suporte TI")
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
