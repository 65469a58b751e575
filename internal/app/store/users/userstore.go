// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"github.com/minglehub/minglehub/internal/app/system/normalize"
	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the users collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID. Absent users surface as a domain
// not-found error; any other failure is returned raw for the caller to wrap.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("No user exists for the given Id")
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("No user exists for requested input")
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmailOrPhone returns every user matching either field. Used for the
// duplicate probe on profile submission: more than one match means two
// different accounts hold the submitted email and phone.
func (s *Store) FindByEmailOrPhone(ctx context.Context, email, phone string) ([]models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": normalize.Email(email)},
		bson.M{"phone": normalize.Phone(phone)},
	}}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new user after normalizing identity fields. Fresh accounts
// default to the user role with no details provided.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, apperr.AlreadyExists("User already exists")
		}
		return models.User{}, err
	}
	return u, nil
}

// Save replaces the full user document. The relationship engine mutates the
// in-memory relationship sets and persists them through here.
func (s *Store) Save(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	return err
}

// DetailsUpdate holds the profile fields a user can submit.
type DetailsUpdate struct {
	FirstName string
	LastName  string
	Gender    string
	Location  string
	Phone     string
	TagLine   string
	Summary   string
	ImageURL  string
}

// UpdateDetails applies a profile submission and marks the account as having
// provided details.
func (s *Store) UpdateDetails(ctx context.Context, id primitive.ObjectID, upd DetailsUpdate) (*models.User, error) {
	set := bson.M{
		"first_name":       normalize.Name(upd.FirstName),
		"last_name":        normalize.Name(upd.LastName),
		"gender":           normalize.Gender(upd.Gender),
		"location":         upd.Location,
		"phone":            normalize.Phone(upd.Phone),
		"tag_line":         upd.TagLine,
		"summary":          upd.Summary,
		"image_url":        upd.ImageURL,
		"details_provided": true,
		"updated_at":       time.Now().UTC(),
	}
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	var u models.User
	if err := res.Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("No user exists for the given Id")
		}
		return nil, err
	}
	return &u, nil
}

// SetLocked flips the lock flag.
func (s *Store) SetLocked(ctx context.Context, id primitive.ObjectID, locked bool) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"user_locked": locked, "updated_at": time.Now().UTC()}})
	return err
}

// Delete removes a user document. Returns the number deleted (0 or 1);
// deleting an already-deleted user is not an error.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// PullPeerRef removes target from the named relationship array on every user
// in peerIDs. This is the bulk update behind the deletion cascade; one call
// covers one batch.
func (s *Store) PullPeerRef(ctx context.Context, peerIDs []primitive.ObjectID, field string, target primitive.ObjectID) (int64, error) {
	if len(peerIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": peerIDs}},
		bson.M{"$pull": bson.M{field: target}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
