// Package notify pushes complaint activity to the administrators' Telegram
// chat. It consumes the same change feed the view hub does; losing a
// notification never affects the store.
package notify

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"hostelcare/backend/internal/models"
	"hostelcare/backend/internal/viewhub"
)

// TelegramNotifier posts change summaries to a fixed admin chat.
type TelegramNotifier struct {
	BotAPI *tgbotapi.BotAPI
	ChatID int64
	Source viewhub.ChangeSource

	cancel func()
	log    *logrus.Entry
}

// NewTelegramNotifier authorizes the bot and resolves the admin chat id.
func NewTelegramNotifier(token, chatID string, source viewhub.ChangeSource, log *logrus.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid admin chat id %q: %w", chatID, err)
	}

	entry := logrus.NewEntry(log)
	entry.WithField("account", bot.Self.UserName).Info("telegram bot authorized")

	return &TelegramNotifier{
		BotAPI: bot,
		ChatID: id,
		Source: source,
		log:    entry,
	}, nil
}

// Run consumes the change feed until Stop is called.
func (n *TelegramNotifier) Run() {
	events, cancel := n.Source.SubscribeChanges()
	n.cancel = cancel

	for event := range events {
		text := n.format(event)
		if text == "" {
			continue
		}
		if _, err := n.BotAPI.Send(tgbotapi.NewMessage(n.ChatID, text)); err != nil {
			n.log.WithError(err).Warn("failed to send telegram notification")
		}
	}
}

// Stop releases the change feed subscription.
func (n *TelegramNotifier) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
}

func (n *TelegramNotifier) format(event models.ChangeEvent) string {
	switch event.Action {
	case models.ChangeInsert:
		return fmt.Sprintf("New complaint: %s (#%s)", event.Title, event.ComplaintID)
	case models.ChangeUpdate:
		label, ok := models.StatusLabels[event.Status]
		if !ok {
			return ""
		}
		return fmt.Sprintf("Complaint %s (#%s) is now %s", event.Title, event.ComplaintID, label)
	case models.ChangeDelete:
		return fmt.Sprintf("Complaint %s (#%s) was withdrawn", event.Title, event.ComplaintID)
	}
	return ""
}
