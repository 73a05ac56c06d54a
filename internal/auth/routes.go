package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the auth API. credentialMW wraps only the endpoints
// that accept a password.
func SetupRoutes(h *Handler, credentialMW ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(credentialMW...)
		r.Post("/sign-up", h.SignUp)
		r.Post("/sign-in", h.SignIn)
	})

	r.Get("/me", h.Me)
	r.Post("/logout", h.Logout)

	return r
}
