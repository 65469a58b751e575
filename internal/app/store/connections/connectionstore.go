// internal/app/store/connections/connectionstore.go
package connectionstore

import (
	"context"
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides access to the connections collection. The edge is
// undirected: every lookup covers both orderings of the pair, and the unique
// pair_key index guarantees at most one document per unordered pair.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("connections")}
}

// pairFilter matches the edge regardless of which endpoint was stored first.
func pairFilter(a, b primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"user1": a, "user2": b},
		bson.M{"user1": b, "user2": a},
	}}
}

// GetByPair returns the connection between two users, in either orientation.
func (s *Store) GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	var conn models.Connection
	if err := s.c.FindOne(ctx, pairFilter(a, b)).Decode(&conn); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("No such connection exists")
		}
		return nil, err
	}
	return &conn, nil
}

// ListByUser returns every connection where the user is either endpoint.
func (s *Store) ListByUser(ctx context.Context, id primitive.ObjectID) ([]models.Connection, error) {
	cur, err := s.c.Find(ctx, bson.M{"$or": bson.A{
		bson.M{"user1": id},
		bson.M{"user2": id},
	}})
	if err != nil {
		return nil, err
	}
	var out []models.Connection
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert creates the edge. The unique pair_key index rejects a second row
// for the same unordered pair, which surfaces as a domain conflict.
func (s *Store) Insert(ctx context.Context, conn models.Connection) (models.Connection, error) {
	conn.ID = primitive.NewObjectID()
	if conn.PairKey == "" {
		conn.PairKey = models.PairKey(conn.User1, conn.User2)
	}
	if _, err := s.c.InsertOne(ctx, conn); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Connection{}, apperr.AlreadyExists("Connection already exists")
		}
		return models.Connection{}, err
	}
	return conn, nil
}

// SetVisibility flips one disclosure flag on the connection.
func (s *Store) SetVisibility(ctx context.Context, id primitive.ObjectID, kind string, shown bool) error {
	field := "number_show"
	if kind == models.VisibilityEmail {
		field = "email_show"
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{field: shown}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("No such connection exists")
	}
	return nil
}

// Delete removes the edge by id. Deleting an absent edge is a no-op.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByUser removes every connection where the user is either endpoint,
// returning the number removed. The deletion cascade calls this first.
func (s *Store) DeleteByUser(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"user1": id},
		bson.M{"user2": id},
	}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
