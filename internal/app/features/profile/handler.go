// internal/app/features/profile/handler.go

// Package profile serves the caller's own record: profile submission via
// POST /v1/user/details and retrieval via GET /v1/user/me.
package profile

import (
	"context"
	"net/http"

	"github.com/minglehub/minglehub/internal/app/query"
	userstore "github.com/minglehub/minglehub/internal/app/store/users"
	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"github.com/minglehub/minglehub/internal/app/system/auth"
	"github.com/minglehub/minglehub/internal/app/system/httpjson"
	"github.com/minglehub/minglehub/internal/app/system/inputval"
	"github.com/minglehub/minglehub/internal/app/system/normalize"
	"github.com/minglehub/minglehub/internal/app/system/sanitize"
	"github.com/minglehub/minglehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves the profile endpoints.
type Handler struct {
	Users  *userstore.Store
	ErrLog *httpjson.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs the profile handler.
func NewHandler(users *userstore.Store, errLog *httpjson.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, ErrLog: errLog, Log: logger}
}

// detailsRequest is the profile submission body.
type detailsRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Location  string `json:"location"`
	Phone     string `json:"phone"`
	TagLine   string `json:"tag_line"`
	Summary   string `json:"summary"`
	ImageURL  string `json:"image_url"`
}

// ServeDetails handles POST /v1/user/details. Inputs are sanitized and
// validated, then checked against other accounts holding the same email or
// phone before the caller's record is updated.
func (h *Handler) ServeDetails(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFrom(r)
	if !ok {
		h.ErrLog.WriteError(w, r, apperr.NotFound("No user exists for requested input"))
		return
	}

	var req detailsRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}

	upd := userstore.DetailsUpdate{
		FirstName: normalize.Name(sanitize.Text(req.FirstName)),
		LastName:  normalize.Name(sanitize.Text(req.LastName)),
		Gender:    normalize.Gender(req.Gender),
		Location:  sanitize.Text(req.Location),
		Phone:     normalize.Phone(req.Phone),
		TagLine:   sanitize.Text(req.TagLine),
		Summary:   sanitize.Text(req.Summary),
		ImageURL:  sanitize.Text(req.ImageURL),
	}

	fieldErrs := inputval.ProfileErrors(inputval.Profile{
		FirstName: upd.FirstName,
		LastName:  upd.LastName,
		Gender:    upd.Gender,
		Email:     caller.Email,
		Phone:     upd.Phone,
		TagLine:   upd.TagLine,
		Summary:   upd.Summary,
	})
	if len(fieldErrs) > 0 {
		h.ErrLog.WriteValidation(w, r, fieldErrs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// Another account already holding this phone or email blocks the
	// submission.
	matches, err := h.Users.FindByEmailOrPhone(ctx, caller.Email, upd.Phone)
	if err != nil {
		h.ErrLog.WriteError(w, r, apperr.Storage("checking for existing users", err))
		return
	}
	for _, m := range matches {
		if m.ID != caller.ID {
			h.ErrLog.WriteError(w, r, apperr.AlreadyExists("User already exists"))
			return
		}
	}

	updated, err := h.Users.UpdateDetails(ctx, caller.ID, upd)
	if err != nil {
		h.ErrLog.WriteError(w, r, apperr.Storage("updating user details", err))
		return
	}

	h.Log.Info("user details updated", zap.String("user_id", caller.ID.Hex()))
	httpjson.OK(w, query.AdminView(updated))
}

// ServeMe handles GET /v1/user/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFrom(r)
	if !ok {
		h.ErrLog.WriteError(w, r, apperr.NotFound("No user exists for requested input"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, caller.ID)
	if err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}
	httpjson.OK(w, query.AdminView(user))
}
