// internal/app/features/login/routes.go
package login

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts the auth endpoints under /api/admin/auth. signedIn
// guards everything but login.
func (h *Handler) MountRoutes(r chi.Router, signedIn func(http.Handler) http.Handler) {
	r.Post("/login", h.Login)
	r.With(signedIn).Get("/me", h.Me)
	r.With(signedIn).Post("/logout", h.Logout)
	r.With(signedIn).Get("/logins", h.History)
}
