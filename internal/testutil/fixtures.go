package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with sensible profile defaults and the given
// email, and returns it with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, firstName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:              primitive.NewObjectID(),
		FirstName:       firstName,
		LastName:        "Tester",
		Gender:          "F",
		Location:        "Test City",
		Email:           email,
		Phone:           "9876543210",
		TagLine:         "Fixture tag line here",
		Summary:         "A fixture user created for tests, long enough to satisfy profile validation rules.",
		Role:            models.RoleUser,
		DetailsProvided: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin inserts a user with the admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, firstName, email string) models.User {
	f.t.Helper()

	user := f.CreateUser(ctx, firstName, email)
	_, err := f.db.Collection("users").UpdateByID(ctx, user.ID,
		map[string]any{"$set": map[string]any{"role": models.RoleAdmin}})
	if err != nil {
		f.t.Fatalf("failed to promote test user to admin: %v", err)
	}
	user.Role = models.RoleAdmin
	return user
}

// CreateConnection inserts a connection row between two users and mirrors it
// into both users' connections arrays.
func (f *Fixtures) CreateConnection(ctx context.Context, a, b models.User) models.Connection {
	f.t.Helper()

	conn := models.NewConnection(a.ID, b.ID)
	conn.ID = primitive.NewObjectID()
	if _, err := f.db.Collection("connections").InsertOne(ctx, conn); err != nil {
		f.t.Fatalf("failed to create test connection: %v", err)
	}
	for _, pair := range [][2]primitive.ObjectID{{a.ID, b.ID}, {b.ID, a.ID}} {
		_, err := f.db.Collection("users").UpdateByID(ctx, pair[0],
			map[string]any{"$addToSet": map[string]any{"connections": pair[1]}})
		if err != nil {
			f.t.Fatalf("failed to mirror test connection: %v", err)
		}
	}
	return conn
}

// CreateVisibilityRequest inserts a pending visibility request from sender
// to receiver for the given kind (EMAIL or PHONE).
func (f *Fixtures) CreateVisibilityRequest(ctx context.Context, sender, receiver models.User, kind string) models.VisibilityRequest {
	f.t.Helper()

	vr := models.NewVisibilityRequest(sender.ID, receiver.ID, kind)
	vr.ID = primitive.NewObjectID()
	if _, err := f.db.Collection("visibility_requests").InsertOne(ctx, vr); err != nil {
		f.t.Fatalf("failed to create test visibility request: %v", err)
	}
	return vr
}
