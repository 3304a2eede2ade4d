package reminder

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender delivers reminders through the Telegram Bot API.
type TelegramSender struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramSender(token string) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramSender{bot: bot}, nil
}

func (s *TelegramSender) Send(chatID int64, text string) error {
	_, err := s.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// Bot exposes the underlying client for the link bot's update loop.
func (s *TelegramSender) Bot() *tgbotapi.BotAPI {
	return s.bot
}
