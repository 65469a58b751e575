// internal/app/features/connections/routes.go
package connections

import "github.com/go-chi/chi/v5"

// Register attaches the relationship endpoints to the user API router. The
// caller applies the signed-in requirement at the group level. The peer
// view is registered last so the fixed paths take precedence over {id}.
func Register(r chi.Router, h *Handler) {
	r.Post("/send-request", h.ServeSendRequest)
	r.Post("/accept-request", h.ServeAcceptRequest)
	r.Post("/deny-request", h.ServeDenyRequest)
	r.Post("/remove-connection", h.ServeRemoveConnection)

	r.Post("/request-email", h.ServeRequestEmail)
	r.Post("/request-number", h.ServeRequestNumber)
	r.Post("/show-email", h.ServeShowEmail)
	r.Post("/show-number", h.ServeShowNumber)

	r.Get("/{id}", h.ServeGetUser)
}
