package requests

import (
	"net/http"

	"github.com/EmpoweredVote/civic-requests/internal/auth"
	"github.com/EmpoweredVote/civic-requests/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler, authz middleware.Authorizer) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(authz))
		r.Get("/", h.List)
		r.Post("/", h.Create)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(authz, auth.RoleAdmin))
		r.Get("/export", h.Export)
		r.Patch("/{id}", h.UpdateStatus)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
