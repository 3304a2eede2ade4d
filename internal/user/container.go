package user

import (
	"gorm.io/gorm"

	"github.com/d-medvedev/habits-api/internal/config"
)

type UserContainer struct {
	Repo    UserRepository
	Service UserService
	Handler *Handler
}

func NewUserContainer(db *gorm.DB, cfg config.Config) *UserContainer {
	repo := NewRepository(db)
	service := NewService(repo, cfg)
	handler := NewHandler(service)

	return &UserContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
