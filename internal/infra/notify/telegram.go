package notify

import (
	"context"
	"fmt"
	"strconv"

	domainNotify "ticket_reminder_service/internal/domain/notify"

	"gopkg.in/telebot.v3"
)

// TelegramNotifier delivers reminders to a Telegram chat via telebot.v3. The
// recipient address is interpreted as a numeric chat ID. Used for ops
// channels where reminders should land in a chat instead of a mailbox.
type TelegramNotifier struct {
	bot *telebot.Bot
}

func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram notifier requires TELEGRAM_TOKEN")
	}
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("could not create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

func (n *TelegramNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return &domainNotify.DeliveryError{Reason: fmt.Sprintf("recipient %q is not a telegram chat id", to), Err: err}
	}

	text := fmt.Sprintf("<b>%s</b>\n\n%s", subject, htmlBody)
	recipient := &telebot.User{ID: chatID}
	if _, err := n.bot.Send(recipient, text, &telebot.SendOptions{ParseMode: telebot.ModeHTML}); err != nil {
		return &domainNotify.DeliveryError{Reason: "telegram send failed", Err: err}
	}
	return nil
}
