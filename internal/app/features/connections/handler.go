// internal/app/features/connections/handler.go

// Package connections exposes the relationship operations: connection
// requests, accept/deny/remove, the visibility request/grant flow, and the
// peer view of another user.
package connections

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minglehub/minglehub/internal/app/query"
	"github.com/minglehub/minglehub/internal/app/relationship"
	connstore "github.com/minglehub/minglehub/internal/app/store/connections"
	userstore "github.com/minglehub/minglehub/internal/app/store/users"
	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"github.com/minglehub/minglehub/internal/app/system/auth"
	"github.com/minglehub/minglehub/internal/app/system/httpjson"
	"github.com/minglehub/minglehub/internal/app/system/inputval"
	"github.com/minglehub/minglehub/internal/app/system/timeouts"
	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the relationship endpoints.
type Handler struct {
	Engine *relationship.Engine
	Users  *userstore.Store
	Conns  *connstore.Store
	ErrLog *httpjson.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs the connections handler.
func NewHandler(engine *relationship.Engine, users *userstore.Store, conns *connstore.Store, errLog *httpjson.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Users: users, Conns: conns, ErrLog: errLog, Log: logger}
}

// idRequest is the body shared by every relationship operation: the peer's id.
type idRequest struct {
	ID string `json:"id"`
}

// engineOp is one Engine method bound to the caller and target.
type engineOp func(ctx context.Context, caller auth.Caller, target primitive.ObjectID) error

// serveOp decodes and validates the peer id, runs op, and writes the
// outcome message.
func (h *Handler) serveOp(w http.ResponseWriter, r *http.Request, op engineOp, okMsg string) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := op(ctx, caller, target); err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}
	httpjson.OK(w, map[string]string{"message": okMsg})
}

// ServeSendRequest handles POST /v1/user/send-request.
func (h *Handler) ServeSendRequest(w http.ResponseWriter, r *http.Request) {
	h.serveOp(w, r, h.Engine.Send, "Request sent")
}

// ServeAcceptRequest handles POST /v1/user/accept-request.
func (h *Handler) ServeAcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.serveOp(w, r, h.Engine.Accept, "Request accepted")
}

// ServeDenyRequest handles POST /v1/user/deny-request.
func (h *Handler) ServeDenyRequest(w http.ResponseWriter, r *http.Request) {
	h.serveOp(w, r, h.Engine.Deny, "Request denied")
}

// ServeRemoveConnection handles POST /v1/user/remove-connection.
func (h *Handler) ServeRemoveConnection(w http.ResponseWriter, r *http.Request) {
	h.serveOp(w, r, h.Engine.Remove, "Connection removed")
}

// ServeRequestEmail handles POST /v1/user/request-email.
func (h *Handler) ServeRequestEmail(w http.ResponseWriter, r *http.Request) {
	h.serveOp(w, r, func(ctx context.Context, c auth.Caller, target primitive.ObjectID) error {
		return h.Engine.RequestVisibility(ctx, c, target, models.VisibilityEmail)
	}, "Email requested")
}

// ServeRequestNumber handles POST /v1/user/request-number.
func (h *Handler) ServeRequestNumber(w http.ResponseWriter, r *http.Request) {
	h.serveOp(w, r, func(ctx context.Context, c auth.Caller, target primitive.ObjectID) error {
		return h.Engine.RequestVisibility(ctx, c, target, models.VisibilityPhone)
	}, "Phone number requested")
}

// ServeShowEmail handles POST /v1/user/show-email.
func (h *Handler) ServeShowEmail(w http.ResponseWriter, r *http.Request) {
	h.serveOp(w, r, func(ctx context.Context, c auth.Caller, target primitive.ObjectID) error {
		return h.Engine.GrantVisibility(ctx, c, target, models.VisibilityEmail)
	}, "Email shared")
}

// ServeShowNumber handles POST /v1/user/show-number.
func (h *Handler) ServeShowNumber(w http.ResponseWriter, r *http.Request) {
	h.serveOp(w, r, func(ctx context.Context, c auth.Caller, target primitive.ObjectID) error {
		return h.Engine.GrantVisibility(ctx, c, target, models.VisibilityPhone)
	}, "Phone number shared")
}

// ServeGetUser handles GET /v1/user/{id}. Contact fields are filtered
// through the pair's connection flags; without a connection only the public
// profile is returned.
func (h *Handler) ServeGetUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFrom(r)
	if !ok {
		h.ErrLog.WriteError(w, r, apperr.NotFound("No user exists for requested input"))
		return
	}

	target, err := inputval.ID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, target)
	if err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}

	conn, err := h.Conns.GetByPair(ctx, caller.ID, target)
	if err != nil {
		if !apperr.IsDomain(err) {
			h.ErrLog.WriteError(w, r, apperr.Storage("looking up connection", err))
			return
		}
		conn = nil
	}
	httpjson.OK(w, query.PeerView(user, conn))
}
