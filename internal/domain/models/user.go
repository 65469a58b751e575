// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user document can carry.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the root entity. The three relationship arrays hold peer ObjectIDs
// and are mutated only by the relationship engine and the lifecycle manager;
// a given peer appears in at most one of them.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Gender    string             `bson:"gender,omitempty" json:"gender,omitempty"` // "M" | "F"
	Location  string             `bson:"location,omitempty" json:"location,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	TagLine   string             `bson:"tag_line,omitempty" json:"tag_line,omitempty"`
	Summary   string             `bson:"summary,omitempty" json:"summary,omitempty"`
	ImageURL  string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Role      string             `bson:"role" json:"role"` // user | admin

	// CredentialHash is a bcrypt hash of a random placeholder set when an
	// account is bootstrapped through OAuth. It is never checked against
	// user input; sign-in is OAuth only.
	CredentialHash string `bson:"credential_hash,omitempty" json:"-"`

	Locked          bool `bson:"user_locked" json:"user_locked"`
	DetailsProvided bool `bson:"details_provided" json:"details_provided"`

	IncomingRequests []primitive.ObjectID `bson:"incoming_requests,omitempty" json:"incoming_requests,omitempty"`
	OutgoingRequests []primitive.ObjectID `bson:"outgoing_requests,omitempty" json:"outgoing_requests,omitempty"`
	Connections      []primitive.ObjectID `bson:"connections,omitempty" json:"connections,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasConnection reports whether peer is in the user's connections set.
func (u *User) HasConnection(peer primitive.ObjectID) bool {
	return containsID(u.Connections, peer)
}

// HasIncoming reports whether peer is in the user's incoming-requests set.
func (u *User) HasIncoming(peer primitive.ObjectID) bool {
	return containsID(u.IncomingRequests, peer)
}

// HasOutgoing reports whether peer is in the user's outgoing-requests set.
func (u *User) HasOutgoing(peer primitive.ObjectID) bool {
	return containsID(u.OutgoingRequests, peer)
}

// AddConnection appends peer to the connections set if absent.
func (u *User) AddConnection(peer primitive.ObjectID) {
	u.Connections = addID(u.Connections, peer)
}

// AddIncoming appends peer to the incoming-requests set if absent.
func (u *User) AddIncoming(peer primitive.ObjectID) {
	u.IncomingRequests = addID(u.IncomingRequests, peer)
}

// AddOutgoing appends peer to the outgoing-requests set if absent.
func (u *User) AddOutgoing(peer primitive.ObjectID) {
	u.OutgoingRequests = addID(u.OutgoingRequests, peer)
}

// RemoveConnection strips peer from the connections set.
func (u *User) RemoveConnection(peer primitive.ObjectID) {
	u.Connections = removeID(u.Connections, peer)
}

// RemoveIncoming strips peer from the incoming-requests set.
func (u *User) RemoveIncoming(peer primitive.ObjectID) {
	u.IncomingRequests = removeID(u.IncomingRequests, peer)
}

// RemoveOutgoing strips peer from the outgoing-requests set.
func (u *User) RemoveOutgoing(peer primitive.ObjectID) {
	u.OutgoingRequests = removeID(u.OutgoingRequests, peer)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	if containsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
