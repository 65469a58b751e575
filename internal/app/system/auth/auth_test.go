package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minglehub/minglehub/internal/app/system/auth"
	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireSignedIn_NoCaller(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/user/send-request", nil)

	auth.RequireSignedIn(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if *called {
		t.Error("next handler should not run")
	}
}

func TestRequireSignedIn_LockedCaller(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/user/send-request", nil)
	req = auth.WithTestCaller(req, auth.Caller{
		ID:     primitive.NewObjectID(),
		Email:  "locked@example.com",
		Role:   models.RoleUser,
		Locked: true,
	})

	auth.RequireSignedIn(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if *called {
		t.Error("next handler should not run for a locked account")
	}
}

func TestRequireSignedIn_OK(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/user/me", nil)
	req = auth.WithTestCaller(req, auth.Caller{
		ID:    primitive.NewObjectID(),
		Email: "user@example.com",
		Role:  models.RoleUser,
	})

	auth.RequireSignedIn(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !*called {
		t.Errorf("status = %d, called = %v", rec.Code, *called)
	}
}

func TestRequireAdmin(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/admin/lock-user", nil)
	req = auth.WithTestCaller(req, auth.Caller{
		ID:    primitive.NewObjectID(),
		Email: "user@example.com",
		Role:  models.RoleUser,
	})

	auth.RequireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || *called {
		t.Errorf("non-admin: status = %d, called = %v", rec.Code, *called)
	}

	next2, called2 := okHandler()
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/v1/admin/lock-user", nil)
	req = auth.WithTestCaller(req, auth.Caller{
		ID:    primitive.NewObjectID(),
		Email: "admin@example.com",
		Role:  models.RoleAdmin,
	})

	auth.RequireAdmin(next2).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !*called2 {
		t.Errorf("admin: status = %d, called = %v", rec.Code, *called2)
	}
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "minglehub-session", "", false, nil); err == nil {
		t.Error("expected error for empty session key")
	}
}
