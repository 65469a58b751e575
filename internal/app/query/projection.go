// internal/app/query/projection.go

// Package query assembles read-only projections of a user into
// role-appropriate response shapes. Peers see profile fields with contact
// details filtered through the pair's visibility flags; admins see the full
// record including flags and relationship sets.
package query

import (
	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PeerUser is what one user may see of another. Email and Phone are empty
// unless the corresponding visibility flag is set on the pair's connection.
type PeerUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Location  string `json:"location,omitempty"`
	TagLine   string `json:"tag_line,omitempty"`
	Summary   string `json:"summary,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// PeerView projects target for a peer caller. conn is the connection between
// caller and target, or nil when they are not connected; contact fields are
// revealed only per its flags.
func PeerView(target *models.User, conn *models.Connection) PeerUser {
	out := PeerUser{
		FirstName: target.FirstName,
		LastName:  target.LastName,
		Gender:    target.Gender,
		Location:  target.Location,
		TagLine:   target.TagLine,
		Summary:   target.Summary,
		ImageURL:  target.ImageURL,
	}
	if conn != nil {
		if conn.EmailShow {
			out.Email = target.Email
		}
		if conn.NumberShow {
			out.Phone = target.Phone
		}
	}
	return out
}

// AdminUser is the unrestricted projection for admin callers.
type AdminUser struct {
	ID               string   `json:"id"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name,omitempty"`
	Gender           string   `json:"gender,omitempty"`
	Location         string   `json:"location,omitempty"`
	TagLine          string   `json:"tag_line,omitempty"`
	Summary          string   `json:"summary,omitempty"`
	ImageURL         string   `json:"image_url,omitempty"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone,omitempty"`
	Role             string   `json:"role"`
	Locked           bool     `json:"user_locked"`
	DetailsProvided  bool     `json:"details_provided"`
	IncomingRequests []string `json:"incoming_requests"`
	OutgoingRequests []string `json:"outgoing_requests"`
	Connections      []string `json:"connections"`
}

// AdminView projects the full record, hex-encoding the relationship sets.
func AdminView(target *models.User) AdminUser {
	return AdminUser{
		ID:               target.ID.Hex(),
		FirstName:        target.FirstName,
		LastName:         target.LastName,
		Gender:           target.Gender,
		Location:         target.Location,
		TagLine:          target.TagLine,
		Summary:          target.Summary,
		ImageURL:         target.ImageURL,
		Email:            target.Email,
		Phone:            target.Phone,
		Role:             target.Role,
		Locked:           target.Locked,
		DetailsProvided:  target.DetailsProvided,
		IncomingRequests: hexIDs(target.IncomingRequests),
		OutgoingRequests: hexIDs(target.OutgoingRequests),
		Connections:      hexIDs(target.Connections),
	}
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
