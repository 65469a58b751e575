// internal/domain/models/visibilityrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visibility request types.
const (
	VisibilityEmail = "EMAIL"
	VisibilityPhone = "PHONE"
)

// Visibility request statuses. Only PENDING rows are ever persisted: a grant
// deletes the row and flips the flag on the Connection instead of moving the
// row to ACCEPTED. The other values are kept for wire compatibility.
const (
	VisibilityPending  = "PENDING"
	VisibilityAccepted = "ACCEPTED"
	VisibilityRejected = "REJECTED"
)

// VisibilityRequest is a directed ask from Sender to Receiver to disclose one
// contact field across an existing Connection. At most one PENDING row exists
// per (sender, receiver, type).
type VisibilityRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Sender      primitive.ObjectID `bson:"sender" json:"sender"`
	Receiver    primitive.ObjectID `bson:"receiver" json:"receiver"`
	Type        string             `bson:"type" json:"type"`     // EMAIL | PHONE
	Status      string             `bson:"status" json:"status"` // PENDING
	RequestedAt time.Time          `bson:"requested_at" json:"requested_at"`
	RespondedAt *time.Time         `bson:"responded_at,omitempty" json:"responded_at,omitempty"`
}

// NewVisibilityRequest builds a PENDING request for the given contact field.
func NewVisibilityRequest(sender, receiver primitive.ObjectID, kind string) VisibilityRequest {
	return VisibilityRequest{
		Sender:      sender,
		Receiver:    receiver,
		Type:        kind,
		Status:      VisibilityPending,
		RequestedAt: time.Now().UTC(),
	}
}
