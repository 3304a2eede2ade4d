package habit

import (
	"gorm.io/gorm"

	"github.com/d-medvedev/habits-api/internal/user"
)

type HabitContainer struct {
	Repo    HabitRepository
	Service HabitService
	Handler *Handler
}

func NewHabitContainer(db *gorm.DB, userRepo user.UserRepository, scheduler Scheduler) *HabitContainer {
	repo := NewRepository(db)
	service := NewService(repo, userRepo, scheduler)
	handler := NewHandler(service)

	return &HabitContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
