// internal/app/features/profile/routes.go
package profile

import "github.com/go-chi/chi/v5"

// Register attaches the profile endpoints to the user API router. The
// caller applies the signed-in requirement at the group level.
func Register(r chi.Router, h *Handler) {
	r.Post("/details", h.ServeDetails)
	r.Get("/me", h.ServeMe)
}
