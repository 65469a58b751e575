// internal/app/features/authgoogle/routes.go
package authgoogle

import "github.com/go-chi/chi/v5"

// Routes returns the router for the auth endpoints.
// The Google routes are public; logout works for any caller.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// GET /auth/google - Initiate Google OAuth flow
	r.Get("/google", h.ServeLogin)

	// GET /auth/google/callback - Handle Google OAuth callback
	r.Get("/google/callback", h.ServeCallback)

	// POST /auth/logout - Clear the session
	r.Post("/logout", h.ServeLogout)

	return r
}
