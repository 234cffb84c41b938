package bot

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"football-matches-notifier-bot/notify"
)

var unreachablePatterns = []string{
	"blocked by the user",
	"user is deactivated",
	"chat not found",
	"user not found",
	"bot can't initiate conversation",
}

var unreachableErrors = []error{
	tele.ErrBlockedByUser,
	tele.ErrUserIsDeactivated,
	tele.ErrChatNotFound,
	tele.ErrNotStartedByUser,
}

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type SubscriberDeactivator interface {
	DeactivateSubscriber(ctx context.Context, chatId int64) error
}

// Dispatcher delivers HTML messages and deactivates subscribers that can no longer be reached.
type Dispatcher struct {
	sender      sender
	subscribers SubscriberDeactivator
	logger      *zap.Logger
}

func NewDispatcher(sender sender, subscribers SubscriberDeactivator, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sender: sender, subscribers: subscribers, logger: logger}
}

func (d *Dispatcher) Send(ctx context.Context, chatId int64, text string, silent bool, keyboard notify.Keyboard) error {
	options := &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
		DisableNotification:   silent,
	}
	if keyboard != nil {
		options.ReplyMarkup = replyKeyboard(keyboard)
	}
	_, err := d.sender.Send(tele.ChatID(chatId), text, options)
	if err == nil {
		return nil
	}
	if !IsUnreachable(err) {
		return errors.Wrapf(err, "unable to send message to %v", chatId)
	}
	if deactivateErr := d.subscribers.DeactivateSubscriber(ctx, chatId); deactivateErr != nil {
		d.logger.Error("unable to deactivate subscriber", zap.Int64("chat_id", chatId), zap.Error(deactivateErr))
	} else {
		d.logger.Info("subscriber deactivated", zap.Int64("chat_id", chatId), zap.String("reason", err.Error()))
	}
	return errors.Wrapf(notify.ErrRecipientUnreachable, "chat %v: %v", chatId, err)
}

// IsUnreachable reports whether a send error means the chat is permanently gone.
func IsUnreachable(err error) bool {
	for _, target := range unreachableErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	var apiErr *tele.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code != 400 && apiErr.Code != 403 {
		return false
	}
	description := strings.ToLower(apiErr.Description + " " + apiErr.Message)
	for _, pattern := range unreachablePatterns {
		if strings.Contains(description, pattern) {
			return true
		}
	}
	return false
}
