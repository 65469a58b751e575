package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minglehub/minglehub/internal/app/system/auth"
	"github.com/minglehub/minglehub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AsUser attaches a signed-in caller built from u to the request.
func AsUser(r *http.Request, u models.User) *http.Request {
	return auth.WithTestCaller(r, auth.Caller{
		ID:     u.ID,
		Email:  u.Email,
		Role:   u.Role,
		Locked: u.Locked,
	})
}
