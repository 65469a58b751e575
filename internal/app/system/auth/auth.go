// internal/app/system/auth/auth.go

// Package auth owns session cookies and caller identity. The middleware
// resolves the signed-in caller once per request and injects it into the
// request context; everything below the HTTP layer receives the Caller as an
// explicit parameter, never via ambient state.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/minglehub/minglehub/internal/app/system/httpjson"
	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	isAuthKey    = "is_authenticated"
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// Caller identifies who is acting. Resolved by the session middleware from a
// fresh user fetch, so role and lock changes take effect on the next request.
type Caller struct {
	ID     primitive.ObjectID
	Email  string
	Role   string
	Locked bool
}

// IsAdmin reports whether the caller carries the admin role.
func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// UserFetcher loads the current user record backing a session.
type UserFetcher interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionManager wraps the gorilla cookie store and the fetcher used to
// refresh caller identity per request.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager. The key must be
// strong in production; secure controls the cookie's Secure attribute.
func NewSessionManager(key, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if key == "" {
		return nil, errors.New("session key must not be empty")
	}
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher installs the store used to refresh caller data each request.
func (m *SessionManager) SetUserFetcher(f UserFetcher) { m.fetcher = f }

// SignIn establishes a session for the user.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID.Hex()
	sess.Values[userEmailKey] = u.Email
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

type ctxKey string

const callerKey ctxKey = "caller"

// CallerFrom returns the caller injected by LoadCaller (or a test helper).
func CallerFrom(r *http.Request) (Caller, bool) {
	c, ok := r.Context().Value(callerKey).(Caller)
	return c, ok
}

// WithTestCaller injects a caller directly into the request context.
// Handler tests use this instead of minting session cookies.
func WithTestCaller(r *http.Request, c Caller) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), callerKey, c))
}

// LoadCaller resolves the session and, when authenticated, refreshes the
// user record and injects the Caller into the request context. Sessions whose
// user no longer exists are treated as signed out.
func (m *SessionManager) LoadCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.store.Get(r, m.name)
		isAuth, _ := sess.Values[isAuthKey].(bool)
		email, _ := sess.Values[userEmailKey].(string)
		if !isAuth || email == "" || m.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		u, err := m.fetcher.GetByEmail(r.Context(), email)
		if err != nil {
			m.log.Warn("session user lookup failed", zap.String("email", email), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		c := Caller{ID: u.ID, Email: u.Email, Role: u.Role, Locked: u.Locked}
		r = r.WithContext(context.WithValue(r.Context(), callerKey, c))
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects unauthenticated requests with 401 and locked
// accounts with 403.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := CallerFrom(r)
		if !ok {
			httpjson.Write(w, http.StatusUnauthorized, httpjson.ErrorBody{
				Status:  http.StatusUnauthorized,
				Message: "Sign in required",
			})
			return
		}
		if c.Locked {
			httpjson.Write(w, http.StatusForbidden, httpjson.ErrorBody{
				Status:  http.StatusForbidden,
				Message: "User is locked",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects callers without the admin role. Mounted after
// RequireSignedIn.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := CallerFrom(r)
		if !ok || !c.IsAdmin() {
			httpjson.Write(w, http.StatusForbidden, httpjson.ErrorBody{
				Status:  http.StatusForbidden,
				Message: "Admin access required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
