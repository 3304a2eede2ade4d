package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/d-medvedev/habits-api/internal/auth"
	"github.com/d-medvedev/habits-api/internal/habit"
	"github.com/d-medvedev/habits-api/internal/middlewares"
	"github.com/d-medvedev/habits-api/internal/user"
)

type RouterConfig struct {
	UserHandler  *user.Handler
	HabitHandler *habit.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.UserHandler.Register)
		r.Post("/login", cfg.UserHandler.Login)
		r.Post("/refresh", cfg.UserHandler.Refresh)
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Mount("/habits", habit.Routes(cfg.HabitHandler))

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
	})

	return r
}
