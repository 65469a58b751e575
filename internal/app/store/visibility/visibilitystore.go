// internal/app/store/visibility/visibilitystore.go
package visibilitystore

import (
	"context"
	"errors"

	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides access to the visibility_requests collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("visibility_requests")}
}

// GetPending returns the PENDING request from sender to receiver for one
// contact field. The directed lookup is exact; between-pair sweeps use
// ListBetween instead.
func (s *Store) GetPending(ctx context.Context, sender, receiver primitive.ObjectID, kind string) (*models.VisibilityRequest, error) {
	filter := bson.M{
		"sender":   sender,
		"receiver": receiver,
		"type":     kind,
		"status":   models.VisibilityPending,
	}
	var vr models.VisibilityRequest
	if err := s.c.FindOne(ctx, filter).Decode(&vr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Request not found")
		}
		return nil, err
	}
	return &vr, nil
}

// ListBetween returns every request between the pair, in both directions.
func (s *Store) ListBetween(ctx context.Context, a, b primitive.ObjectID) ([]models.VisibilityRequest, error) {
	cur, err := s.c.Find(ctx, bson.M{"$or": bson.A{
		bson.M{"sender": a, "receiver": b},
		bson.M{"sender": b, "receiver": a},
	}})
	if err != nil {
		return nil, err
	}
	var out []models.VisibilityRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert creates a request row.
func (s *Store) Insert(ctx context.Context, vr models.VisibilityRequest) (models.VisibilityRequest, error) {
	vr.ID = primitive.NewObjectID()
	if _, err := s.c.InsertOne(ctx, vr); err != nil {
		return models.VisibilityRequest{}, err
	}
	return vr, nil
}

// Delete removes a request by id. Absent rows are a no-op.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteBetween removes every request between the pair, both directions.
// Called when a connection is removed.
func (s *Store) DeleteBetween(ctx context.Context, a, b primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"sender": a, "receiver": b},
		bson.M{"sender": b, "receiver": a},
	}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUser removes every request where the user is either party.
// The deletion cascade calls this after sweeping connections.
func (s *Store) DeleteByUser(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"sender": id},
		bson.M{"receiver": id},
	}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
