// internal/domain/models/connection.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connection is an undirected edge between two users, created when a pending
// request is accepted. PairKey is the sorted hex pair and carries a unique
// index, so at most one document exists per unordered pair.
type Connection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User1       primitive.ObjectID `bson:"user1" json:"user1"`
	User2       primitive.ObjectID `bson:"user2" json:"user2"`
	PairKey     string             `bson:"pair_key" json:"-"`
	ConnectedAt time.Time          `bson:"connected_at" json:"connected_at"`
	EmailShow   bool               `bson:"email_show" json:"email_show"`
	NumberShow  bool               `bson:"number_show" json:"number_show"`
}

// NewConnection builds the edge for a freshly accepted request. Both
// visibility flags start false.
func NewConnection(user1, user2 primitive.ObjectID) Connection {
	return Connection{
		User1:       user1,
		User2:       user2,
		PairKey:     PairKey(user1, user2),
		ConnectedAt: time.Now().UTC(),
	}
}

// PairKey returns the canonical key for an unordered user pair: both hex ids
// in ascending order joined by a colon. Lookups and the unique index use this
// so edge queries don't depend on which endpoint was stored first.
func PairKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if ah > bh {
		ah, bh = bh, ah
	}
	return ah + ":" + bh
}

// Involves reports whether id is either endpoint of the connection.
func (c *Connection) Involves(id primitive.ObjectID) bool {
	return c.User1 == id || c.User2 == id
}

// Other returns the opposite endpoint from id. Callers must have checked
// Involves first.
func (c *Connection) Other(id primitive.ObjectID) primitive.ObjectID {
	if c.User1 == id {
		return c.User2
	}
	return c.User1
}

// SplitPairKey recovers the two hex ids from a pair key. Used by tests and
// diagnostics; returns empty strings for a malformed key.
func SplitPairKey(key string) (string, string) {
	i := strings.IndexByte(key, ':')
	if i < 0 {
		return "", ""
	}
	return key[:i], key[i+1:]
}
