package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ticket_reminder_service/internal/app"
	"ticket_reminder_service/internal/domain/reminder"
	"ticket_reminder_service/internal/infra/scheduler"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// SweepScheduler is the slice of the scheduler the admin API needs.
type SweepScheduler interface {
	RunNow() (*reminder.SweepSummary, error)
	Status() (scheduler.State, time.Time)
	LastSummary() *reminder.SweepSummary
}

// Handler exposes the operator surface: a manual sweep trigger, a per-ticket
// resend, scheduler status and a liveness probe.
type Handler struct {
	scheduler SweepScheduler
	service   app.ReminderService
	logger    *logrus.Logger
}

func NewHandler(s SweepScheduler, svc app.ReminderService, logger *logrus.Logger) *Handler {
	return &Handler{scheduler: s, service: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/sweep", h.handleRunSweep)
	r.Post("/api/tickets/{ticketID}/reminder", h.handleManualReminder)
	r.Get("/api/status", h.handleStatus)
	r.Get("/healthz", h.handleHealth)
}

// NewRouter builds a router with all admin routes registered.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

type statusResponse struct {
	State       string                 `json:"state"`
	NextRun     *time.Time             `json:"next_run,omitempty"`
	LastSummary *reminder.SweepSummary `json:"last_summary,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleRunSweep runs a sweep immediately. Safe to call repeatedly: when a
// sweep is already running the request is rejected with 409 instead of
// starting a second one.
func (h *Handler) handleRunSweep(w http.ResponseWriter, r *http.Request) {
	summary, err := h.scheduler.RunNow()
	if err != nil {
		if errors.Is(err, scheduler.ErrSweepInProgress) {
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		h.logger.Errorf("manual sweep failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleManualReminder resends the reminder for one ticket, bypassing the
// cooldown. The ticket must still be pending.
func (h *Handler) handleManualReminder(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")
	if err := h.service.SendManualReminder(r.Context(), ticketID); err != nil {
		h.logger.Errorf("manual reminder for ticket %s failed: %v", ticketID, err)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent", "ticket_id": ticketID})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	state, next := h.scheduler.Status()
	resp := statusResponse{
		State:       string(state),
		LastSummary: h.scheduler.LastSummary(),
	}
	if !next.IsZero() {
		resp.NextRun = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
