package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	domainNotify "ticket_reminder_service/internal/domain/notify"

	"github.com/sirupsen/logrus"
)

// Config selects and parameterises the concrete Notifier adapter.
type Config struct {
	Kind          string // "log" (default), "noop", "fail", "webhook", "telegram"
	WebhookURL    string
	WebhookToken  string
	TelegramToken string
	ReplyTo       string // reply-to address forwarded to the email relay
}

// New builds the Notifier for the configured kind. The real email transport
// lives behind an HTTP relay (the "webhook" kind); "log" is the development
// stand-in and "noop"/"fail" exist for tests and drills.
func New(cfg Config, logger *logrus.Logger) (domainNotify.Notifier, error) {
	switch cfg.Kind {
	case "", "log":
		return &LogNotifier{logger: logger}, nil
	case "noop":
		return NoopNotifier{}, nil
	case "fail":
		return FailNotifier{}, nil
	case "webhook":
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("webhook notifier requires NOTIFIER_WEBHOOK_URL")
		}
		return &WebhookNotifier{
			url:     cfg.WebhookURL,
			token:   cfg.WebhookToken,
			replyTo: cfg.ReplyTo,
			client:  &http.Client{},
		}, nil
	case "telegram":
		return NewTelegramNotifier(cfg.TelegramToken)
	default:
		return nil, fmt.Errorf("unknown notifier kind: %q", cfg.Kind)
	}
}

// LogNotifier logs the would-be delivery instead of sending it.
type LogNotifier struct {
	logger *logrus.Logger
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	n.logger.WithFields(logrus.Fields{
		"recipient": to,
		"subject":   subject,
		"body_size": len(htmlBody),
	}).Info("log notifier: reminder delivery")
	return nil
}

// NoopNotifier accepts every message and does nothing.
type NoopNotifier struct{}

func (NoopNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	return nil
}

// FailNotifier rejects every message. Useful for failure drills.
type FailNotifier struct{}

func (FailNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	return &domainNotify.DeliveryError{Reason: "notifier configured to fail"}
}

// WebhookNotifier posts the message to an HTTP relay that performs the
// actual email delivery.
type WebhookNotifier struct {
	url     string
	token   string
	replyTo string
	client  *http.Client
}

type webhookPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	ReplyTo string `json:"reply_to,omitempty"`
}

func (n *WebhookNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload, err := json.Marshal(webhookPayload{To: to, Subject: subject, Body: htmlBody, ReplyTo: n.replyTo})
	if err != nil {
		return &domainNotify.DeliveryError{Reason: "encode payload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return &domainNotify.DeliveryError{Reason: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return &domainNotify.DeliveryError{Reason: "relay unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &domainNotify.DeliveryError{Reason: fmt.Sprintf("relay rejected request with status %d", resp.StatusCode)}
	}
	return nil
}
