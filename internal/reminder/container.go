package reminder

import (
	"gorm.io/gorm"

	"github.com/d-medvedev/habits-api/internal/config"
	"github.com/d-medvedev/habits-api/internal/habit"
	"github.com/d-medvedev/habits-api/internal/user"
	"github.com/sirupsen/logrus"
)

type ReminderContainer struct {
	Store   *Store
	Worker  *Worker
	LinkBot *LinkBot
}

// NewReminderContainer wires the job store and, when a bot token is
// configured, the Telegram worker and link bot. Without a token the store
// still records jobs so reminders start flowing once a bot is configured.
func NewReminderContainer(db *gorm.DB, cfg config.Config, habitRepo habit.HabitRepository, userRepo user.UserRepository, users user.UserService) *ReminderContainer {
	store := NewStore(db)
	container := &ReminderContainer{Store: store}

	if cfg.TelegramBotToken == "" {
		logrus.Warn("TELEGRAM_BOT_TOKEN not set, reminder delivery disabled")
		return container
	}

	sender, err := NewTelegramSender(cfg.TelegramBotToken)
	if err != nil {
		logrus.WithError(err).Error("Failed to init Telegram bot, reminder delivery disabled")
		return container
	}

	container.Worker = NewWorker(store, habitRepo, userRepo, sender, cfg.ReminderPollInterval)
	container.LinkBot = NewLinkBot(sender.Bot(), users)
	return container
}
