package reminder

import "time"

// DispatchResult is the outcome of one reminder dispatch. A dispatch never
// returns an error to its caller; every failure mode ends up here.
type DispatchResult struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

// Failure describes one ticket that could not be reminded during a sweep.
type Failure struct {
	TicketID  string `json:"ticket_id"`
	Recipient string `json:"recipient"`
	Reason    string `json:"reason"`
}

// SweepSummary aggregates the outcome of one full reminder sweep. It is the
// payload returned by the manual trigger and logged after scheduled runs.
type SweepSummary struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	TotalPending  int       `json:"total_pending"`
	TotalEligible int       `json:"total_eligible"`
	Sent          int       `json:"sent"`
	Failed        int       `json:"failed"`
	Failures      []Failure `json:"failures,omitempty"`
}
