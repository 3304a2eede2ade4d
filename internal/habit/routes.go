package habit

import (
	"github.com/go-chi/chi/v5"

	"github.com/d-medvedev/habits-api/internal/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/public/", h.ListPublic)
	r.With(auth.OptionalAuthMiddleware).Get("/{id}/detail/", h.Retrieve)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Get("/my/", h.ListOwn)
		r.Post("/create/", h.Create)
		r.Put("/{id}/update/", h.Update)
		r.Patch("/{id}/update/", h.Update)
		r.Delete("/{id}/delete/", h.Delete)
	})

	return r
}
