// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	userstore "github.com/minglehub/minglehub/internal/app/store/users"
	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"github.com/minglehub/minglehub/internal/app/system/auth"
	"github.com/minglehub/minglehub/internal/app/system/httpjson"
	"github.com/minglehub/minglehub/internal/app/system/normalize"
	"github.com/minglehub/minglehub/internal/app/system/sanitize"
	"github.com/minglehub/minglehub/internal/app/system/timeouts"
	"github.com/minglehub/minglehub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const stateCookie = "minglehub-oauth-state"

// Handler handles Google OAuth sign-in. Accounts are provisioned on first
// login; the profile itself is completed later through /v1/user/details.
type Handler struct {
	Users      *userstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *httpjson.ErrorLogger

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://minglehub.example.com/auth/google/callback"

	codec *securecookie.SecureCookie
}

// NewHandler creates a new Google OAuth handler. The state cookie is signed
// with the same key as the session cookie.
func NewHandler(
	users *userstore.Store,
	sessionMgr *auth.SessionManager,
	errLog *httpjson.ErrorLogger,
	clientID, clientSecret, baseURL, sessionKey string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:        users,
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		codec:        securecookie.New([]byte(sessionKey), nil),
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin handles GET /auth/google. It stores a fresh state value in a
// signed cookie and redirects to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		h.ErrLog.WriteError(w, r, apperr.Validation("Google sign-in is not configured"))
		return
	}

	state := uuid.NewString()
	encoded, err := h.codec.Encode(stateCookie, state)
	if err != nil {
		h.Log.Error("failed to encode OAuth state", zap.Error(err))
		h.ErrLog.WriteError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    encoded,
		Path:     "/auth",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.oauth2Config().AuthCodeURL(state)
	h.Log.Debug("initiating Google OAuth flow", zap.String("redirect_url", url))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback. It verifies the state
// cookie, exchanges the code, resolves the Google identity to an account
// (provisioning one on first login) and signs the caller in.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.ErrLog.WriteError(w, r, apperr.Validation("Google sign-in was denied"))
		return
	}

	if !h.validState(r) {
		h.Log.Warn("invalid or missing OAuth state")
		h.ErrLog.WriteError(w, r, apperr.Validation("Invalid OAuth state"))
		return
	}
	// State is single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/auth", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		h.ErrLog.WriteError(w, r, apperr.Validation("Missing OAuth code"))
		return
	}

	token, err := h.oauth2Config().Exchange(r.Context(), code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		h.ErrLog.WriteError(w, r, apperr.Storage("exchanging OAuth code", err))
		return
	}

	googleUser, err := fetchGoogleUserInfo(r.Context(), token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		h.ErrLog.WriteError(w, r, apperr.Storage("fetching Google user info", err))
		return
	}
	if !googleUser.EmailVerified {
		h.ErrLog.WriteError(w, r, apperr.Validation("Google account email is not verified"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.findOrCreate(ctx, googleUser)
	if err != nil {
		h.ErrLog.WriteError(w, r, err)
		return
	}
	if user.Locked {
		h.Log.Info("locked user attempted sign-in", zap.String("user_id", user.ID.Hex()))
		httpjson.Write(w, http.StatusForbidden, httpjson.ErrorBody{
			Status:  http.StatusForbidden,
			Message: "User is locked",
		})
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		h.ErrLog.WriteError(w, r, apperr.Storage("saving session", err))
		return
	}

	h.Log.Info("user logged in via Google OAuth",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email),
		zap.Bool("details_provided", user.DetailsProvided))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ServeLogout handles POST /auth/logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("sign-out failed", zap.Error(err))
	}
	httpjson.OK(w, map[string]string{"message": "Logged out"})
}

// validState checks the state query parameter against the signed cookie.
func (h *Handler) validState(r *http.Request) bool {
	state := r.URL.Query().Get("state")
	if state == "" {
		return false
	}
	c, err := r.Cookie(stateCookie)
	if err != nil {
		return false
	}
	var stored string
	if err := h.codec.Decode(stateCookie, c.Value, &stored); err != nil {
		return false
	}
	return stored == state
}

// findOrCreate resolves a Google identity to an account, provisioning a
// skeletal user on first login. The credential hash holds a random bcrypt
// value so the record can never match a password check.
func (h *Handler) findOrCreate(ctx context.Context, g *googleUserInfo) (*models.User, error) {
	email := normalize.Email(g.Email)

	user, err := h.Users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !apperr.IsDomain(err) {
		return nil, apperr.Storage("looking up user", err)
	}

	placeholder, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Storage("provisioning user", err)
	}

	created, err := h.Users.Create(ctx, models.User{
		Email:          email,
		FirstName:      sanitize.Text(g.GivenName),
		LastName:       sanitize.Text(g.FamilyName),
		ImageURL:       g.Picture,
		CredentialHash: string(placeholder),
	})
	if err != nil {
		return nil, apperr.Storage("provisioning user", err)
	}

	h.Log.Info("provisioned user from Google identity",
		zap.String("user_id", created.ID.Hex()),
		zap.String("email", email))
	return &created, nil
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &info, nil
}
