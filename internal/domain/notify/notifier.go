package notify

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyRecipient is returned when a ticket carries no destination
// address. It is a configuration problem on the ticket record and will recur
// every sweep until the record is fixed.
var ErrEmptyRecipient = errors.New("recipient address is empty")

// Notifier is the outbound delivery capability consumed by the reminder
// engine. The concrete transport (SMTP relay, provider API, chat bot) lives
// behind this interface; the engine only cares about success or failure.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// DeliveryError wraps a transport-level failure with an operator-readable
// reason. Delivery errors are transient from the engine's point of view: the
// ticket is left untouched and retried on the next sweep.
type DeliveryError struct {
	Reason string
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("delivery failed: %s", e.Reason)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
