package authgoogle

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/minglehub/minglehub/internal/app/system/auth"
	"github.com/minglehub/minglehub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	logger := zap.NewNop()
	mgr, err := auth.NewSessionManager(testSessionKey, "minglehub-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return NewHandler(nil, mgr, httpjson.NewErrorLogger(logger),
		"client-id", "client-secret", "http://localhost:3000", testSessionKey, logger)
}

func TestServeLogin_NotConfigured(t *testing.T) {
	h := newTestHandler(t)
	h.ClientID = ""

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeLogin_RedirectsToGoogle(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad Location header: %v", err)
	}
	if !strings.Contains(loc.Host, "google.com") {
		t.Errorf("redirect host = %q, want Google", loc.Host)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Error("redirect URL missing state parameter")
	}

	// The signed cookie must round-trip to the same state value.
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("state cookie not set")
	}
	var stored string
	if err := h.codec.Decode(stateCookie, cookie.Value, &stored); err != nil {
		t.Fatalf("state cookie does not decode: %v", err)
	}
	if stored != state {
		t.Errorf("cookie state %q != query state %q", stored, state)
	}
}

func TestServeCallback_MissingState(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?code=abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeCallback_StateMismatch(t *testing.T) {
	h := newTestHandler(t)

	encoded, err := h.codec.Encode(stateCookie, "expected-state")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	req := httptest.NewRequest("GET", "/auth/google/callback?code=abc&state=other-state", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: encoded})

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeCallback_ProviderError(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?error=access_denied", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeLogout(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeLogout(rec, httptest.NewRequest("POST", "/auth/logout", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Logged out") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
