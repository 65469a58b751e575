// internal/app/features/admin/routes.go
package admin

import (
	"github.com/go-chi/chi/v5"
	"github.com/minglehub/minglehub/internal/app/system/auth"
)

// Routes returns the router for the admin endpoints. All routes require a
// signed-in caller with the admin role.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(auth.RequireAdmin)

	r.Post("/lock-user", h.ServeLockUser)
	r.Post("/unlock-user", h.ServeUnlockUser)
	r.Get("/get-user", h.ServeGetUser)
	r.Delete("/delete-user", h.ServeDeleteUser)

	return r
}
