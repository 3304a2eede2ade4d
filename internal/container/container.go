package container

import (
	"context"
	"log"

	"github.com/d-medvedev/habits-api/internal/auth"
	"github.com/d-medvedev/habits-api/internal/config"
	"github.com/d-medvedev/habits-api/internal/habit"
	"github.com/d-medvedev/habits-api/internal/reminder"
	"github.com/d-medvedev/habits-api/internal/user"
)

type Container struct {
	Config            config.Config
	UserContainer     *user.UserContainer
	HabitContainer    *habit.HabitContainer
	ReminderContainer *reminder.ReminderContainer
}

func New() *Container {
	cfg := config.Load()
	config.InitLogger()
	auth.Init(cfg.JWTSecret)

	if err := config.Connect(context.Background(), cfg.DatabaseDSN); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := config.DB.AutoMigrate(&user.User{}, &habit.Habit{}, &reminder.Job{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	userContainer := user.NewUserContainer(config.DB, cfg)
	habitRepo := habit.NewRepository(config.DB)
	reminderContainer := reminder.NewReminderContainer(
		config.DB,
		cfg,
		habitRepo,
		userContainer.Repo,
		userContainer.Service,
	)
	habitContainer := habit.NewHabitContainer(config.DB, userContainer.Repo, reminderContainer.Store)

	return &Container{
		Config:            cfg,
		UserContainer:     userContainer,
		HabitContainer:    habitContainer,
		ReminderContainer: reminderContainer,
	}
}
