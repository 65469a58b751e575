package profile_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minglehub/minglehub/internal/app/features/profile"
	userstore "github.com/minglehub/minglehub/internal/app/store/users"
	"github.com/minglehub/minglehub/internal/app/system/httpjson"
	"github.com/minglehub/minglehub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*profile.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return profile.NewHandler(userstore.New(db), httpjson.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
}

const validDetails = `{
	"first_name": "Asha",
	"last_name": "Rao",
	"gender": "F",
	"location": "Pune",
	"phone": "9876543211",
	"tag_line": "Here for good conversation",
	"summary": "Engineer who likes trail running, board games and long weekend hikes."
}`

func TestServeDetails_Valid(t *testing.T) {
	h, f := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := f.CreateUser(ctx, "Placeholder", "asha@example.com")

	req := httptest.NewRequest("POST", "/v1/user/details", strings.NewReader(validDetails))
	rec := httptest.NewRecorder()
	h.ServeDetails(rec, testutil.AsUser(req, u))

	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["first_name"] != "Asha" {
		t.Errorf("first_name = %v", body["first_name"])
	}
	if body["details_provided"] != true {
		t.Error("details_provided not set")
	}
}

func TestServeDetails_ValidationErrors(t *testing.T) {
	h, f := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := f.CreateUser(ctx, "Placeholder", "asha@example.com")

	bad := `{"first_name": "Asha123", "gender": "X", "phone": "12", "tag_line": "short", "summary": "short"}`
	req := httptest.NewRequest("POST", "/v1/user/details", strings.NewReader(bad))
	rec := httptest.NewRecorder()
	h.ServeDetails(rec, testutil.AsUser(req, u))

	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body httpjson.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Message != "Validation failed" {
		t.Errorf("message = %q", body.Message)
	}
	if len(body.Errors) == 0 {
		t.Error("expected field errors")
	}
}

func TestServeDetails_DuplicatePhone(t *testing.T) {
	h, f := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := f.CreateUser(ctx, "Asha", "asha@example.com")
	f.CreateUser(ctx, "Ben", "ben@example.com") // fixture phone 9876543210

	dup := strings.Replace(validDetails, "9876543211", "9876543210", 1)
	req := httptest.NewRequest("POST", "/v1/user/details", strings.NewReader(dup))
	rec := httptest.NewRecorder()
	h.ServeDetails(rec, testutil.AsUser(req, u))

	if rec.Code != 409 {
		t.Fatalf("status = %d, want 409; body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "User already exists") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestServeDetails_MalformedBody(t *testing.T) {
	h, f := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := f.CreateUser(ctx, "Asha", "asha@example.com")

	req := httptest.NewRequest("POST", "/v1/user/details", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeDetails(rec, testutil.AsUser(req, u))

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeMe(t *testing.T) {
	h, f := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := f.CreateUser(ctx, "Asha", "asha@example.com")

	req := httptest.NewRequest("GET", "/v1/user/me", nil)
	rec := httptest.NewRecorder()
	h.ServeMe(rec, testutil.AsUser(req, u))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["email"] != "asha@example.com" {
		t.Errorf("email = %v", body["email"])
	}
	if body["id"] != u.ID.Hex() {
		t.Errorf("id = %v", body["id"])
	}
}
