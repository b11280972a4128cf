package app

import (
	"bytes"
	"fmt"
	"html/template"

	"ticket_reminder_service/internal/domain/ticket"
)

const problemPlaceholder = "Não especificado"

const serviceDateLayout = "02/01/2006"

// reminderBodyTemplate is the rendered reminder email. The requester is asked
// to register the already-performed service in the call system, or to reply
// with the call number if they already did.
var reminderBodyTemplate = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e5e7eb; border-radius: 8px;">
    <h2 style="color: #2563eb;">Olá, {{.Name}}!</h2>
    <p>Passando para compartilhar os detalhes do atendimento que <strong>{{.Analyst}}</strong> realizou recentemente.</p>
    <table style="background-color: #f9fafb; border-radius: 6px; padding: 12px; width: 100%;">
      <tr><td style="font-weight: bold; width: 160px;">Data:</td><td>{{.ServiceDate}}</td></tr>
      <tr><td style="font-weight: bold;">Departamento:</td><td>{{.Department}}</td></tr>
      <tr><td style="font-weight: bold;">Solução Realizada:</td><td>{{.Problem}}</td></tr>
    </table>
    <p>Para mantermos nosso histórico atualizado, pedimos gentilmente que você registre este atendimento em nosso sistema de chamados.</p>
    <p>Caso já tenha registrado o chamado, responda este email com o número do chamado.</p>
    <p style="color: #6b7280; font-size: 0.9em;">Este é o lembrete nº {{.ReminderCount}} para este atendimento.</p>
    <p style="font-style: italic;">Atenciosamente,<br>{{.FromName}}</p>
  </div>
</body>
</html>
`))

type reminderMessageData struct {
	Name          string
	Analyst       string
	ServiceDate   string
	Department    string
	Problem       string
	ReminderCount int
	FromName      string
}

// buildReminderSubject returns the subject line for a ticket reminder.
func buildReminderSubject(t *ticket.Ticket) string {
	return fmt.Sprintf("Lembrete: registre o atendimento de %s", t.ServiceDate.Format(serviceDateLayout))
}

// buildReminderBody renders the HTML body for a ticket reminder.
// reminderCount is the ordinal of the reminder being sent, i.e. the ticket's
// current count plus one.
func buildReminderBody(t *ticket.Ticket, reminderCount int, fromName string) (string, error) {
	problem := problemPlaceholder
	if t.Problem.Valid && t.Problem.String != "" {
		problem = t.Problem.String
	}

	data := reminderMessageData{
		Name:          t.Name,
		Analyst:       t.Analyst,
		ServiceDate:   t.ServiceDate.Format(serviceDateLayout),
		Department:    t.Department,
		Problem:       problem,
		ReminderCount: reminderCount,
		FromName:      fromName,
	}

	var buf bytes.Buffer
	if err := reminderBodyTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error rendering reminder body: %w", err)
	}
	return buf.String(), nil
}
