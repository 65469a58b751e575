// internal/app/features/admin/handler.go

// Package admin serves the administrative endpoints: lock/unlock, lookup by
// email, and the cascading delete.
package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/minglehub/minglehub/internal/app/lifecycle"
	"github.com/minglehub/minglehub/internal/app/query"
	userstore "github.com/minglehub/minglehub/internal/app/store/users"
	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"github.com/minglehub/minglehub/internal/app/system/auth"
	"github.com/minglehub/minglehub/internal/app/system/httpjson"
	"github.com/minglehub/minglehub/internal/app/system/inputval"
	"github.com/minglehub/minglehub/internal/app/system/normalize"
	"github.com/minglehub/minglehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the admin endpoints.
type Handler struct {
	Manager *lifecycle.Manager
	Users   *userstore.Store
	ErrLog  *httpjson.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs the admin handler.
func NewHandler(manager *lifecycle.Manager, users *userstore.Store, errLog *httpjson.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Manager: manager, Users: users, ErrLog: errLog, Log: logger}
}

// idRequest is the body carrying the target user's id.
type idRequest struct {
	ID string `json:"id"`
}

type adminOp func(ctx context.Context, caller auth.Caller, target primitive.ObjectID) error

func (h *Handler) serveOp(w http.ResponseWriter, r *http.Request, op adminOp, timeout time.Duration, okMsg string) {
	caller, ok := auth.CallerFrom(r)
	if !ok {
		h.ErrLog.WriteError(w, r, apperr.NotFound("No user exists for requested input"))
		return
	}

	var req idRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}
	target, err := inputval.ID(req.ID)
	if err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if err := op(ctx, caller, target); err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}
	httpjson.OK(w, map[string]string{"message": okMsg})
}

// ServeLockUser handles POST /v1/admin/lock-user.
func (h *Handler) ServeLockUser(w http.ResponseWriter, r *http.Request) {
	h.serveOp(w, r, h.Manager.Lock, timeouts.Long(), "User locked")
}

// ServeUnlockUser handles POST /v1/admin/unlock-user.
func (h *Handler) ServeUnlockUser(w http.ResponseWriter, r *http.Request) {
	h.serveOp(w, r, h.Manager.Unlock, timeouts.Long(), "User unlocked")
}

// ServeDeleteUser handles DELETE /v1/admin/delete-user. The cascade removes
// the user's connections, visibility requests, and every reference peers
// hold to the account.
func (h *Handler) ServeDeleteUser(w http.ResponseWriter, r *http.Request) {
	h.serveOp(w, r, h.Manager.Delete, timeouts.Batch(), "User deleted")
}

// ServeGetUser handles GET /v1/admin/get-user?email=… with the full
// projection.
func (h *Handler) ServeGetUser(w http.ResponseWriter, r *http.Request) {
	email := normalize.Email(r.URL.Query().Get("email"))
	if !inputval.Email(email) {
		h.ErrLog.WriteError(w, r, apperr.Validation("Invalid email format"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}
	httpjson.OK(w, query.AdminView(user))
}
