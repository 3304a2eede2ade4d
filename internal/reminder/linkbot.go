package reminder

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/d-medvedev/habits-api/internal/config"
	"github.com/d-medvedev/habits-api/internal/user"
)

// LinkBot runs the Telegram update loop that lets users attach their chat to
// an account, so reminders know where to go.
type LinkBot struct {
	bot   *tgbotapi.BotAPI
	users user.UserService
}

func NewLinkBot(bot *tgbotapi.BotAPI, users user.UserService) *LinkBot {
	return &LinkBot{bot: bot, users: users}
}

// Run long-polls updates until the context is cancelled.
func (b *LinkBot) Run(ctx context.Context) error {
	log := config.WithContext(ctx)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.bot.GetUpdatesChan(updateConfig)

	log.Infof("Telegram link bot started as %s", b.bot.Self.UserName)

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			reply := b.handleMessage(ctx, update.Message.Chat.ID, strings.TrimSpace(update.Message.Text))
			if _, err := b.bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, reply)); err != nil {
				log.WithError(err).Warn("Failed to send bot reply")
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (b *LinkBot) handleMessage(ctx context.Context, chatID int64, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "Send /link <email> to receive habit reminders in this chat."
	}

	switch fields[0] {
	case "/start", "/help":
		return "This bot sends habit reminders. Link your account with /link <email>."
	case "/link":
		if len(fields) < 2 {
			return "Usage: /link <email>"
		}
		return b.link(ctx, chatID, fields[1])
	default:
		return "Unknown command. Use /link <email>."
	}
}

func (b *LinkBot) link(ctx context.Context, chatID int64, email string) string {
	err := b.users.LinkChat(ctx, email, chatID)
	switch {
	case err == nil:
		return "Done. Reminders for your habits will arrive in this chat."
	case errors.Is(err, user.ErrChatTaken):
		return "This chat is already linked to another account."
	case errors.Is(err, user.ErrNotFound):
		return "No account with that email was found."
	default:
		config.WithContext(ctx).WithError(err).Error("Failed to link chat")
		return "Could not link the chat right now. Try again later."
	}
}
