package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// telegramSender is the slice of the bot API the notifier needs; satisfied by
// *tgbotapi.BotAPI and by stubs in tests.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier delivers notifications as Markdown messages to a chat.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
	logger *slog.Logger
}

// NewTelegramNotifier constructs the Telegram channel. Empty credentials leave
// the channel registered but self-skipping; an unreachable bot API surfaces as
// a construction error so the caller can decide whether to keep going.
func NewTelegramNotifier(botToken, chatID string, logger *slog.Logger) (*TelegramNotifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	notifier := &TelegramNotifier{logger: logger}

	if botToken == "" || chatID == "" {
		return notifier, nil
	}

	parsed, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("initialising telegram bot: %w", err)
	}

	notifier.bot = bot
	notifier.chatID = parsed
	return notifier, nil
}

// Name identifies the channel in logs.
func (n *TelegramNotifier) Name() string { return "telegram" }

// Send posts the subject and body as one Markdown message.
func (n *TelegramNotifier) Send(ctx context.Context, subject, body string) error {
	if n.bot == nil || n.chatID == 0 {
		return fmt.Errorf("%w: telegram bot token or chat id missing", ErrNotConfigured)
	}

	msg := tgbotapi.NewMessage(n.chatID, fmt.Sprintf("*%s*\n\n%s", subject, body))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}
