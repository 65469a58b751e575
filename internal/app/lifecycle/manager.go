// internal/app/lifecycle/manager.go

// Package lifecycle owns administrative account state: locking, unlocking,
// and the cascading deletion of a user together with every relationship
// reference other users hold to it.
package lifecycle

import (
	"context"

	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"github.com/minglehub/minglehub/internal/app/system/auth"
	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BatchSize bounds each bulk pull-update during the deletion cascade.
const BatchSize = 100

// UserStore is the slice of the users collection the manager needs.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	SetLocked(ctx context.Context, id primitive.ObjectID, locked bool) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	PullPeerRef(ctx context.Context, peerIDs []primitive.ObjectID, field string, target primitive.ObjectID) (int64, error)
}

// ConnectionStore deletes edges by endpoint.
type ConnectionStore interface {
	DeleteByUser(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// VisibilityStore deletes requests by party.
type VisibilityStore interface {
	DeleteByUser(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// Manager applies lock/unlock and the deletion cascade.
type Manager struct {
	users UserStore
	conns ConnectionStore
	vis   VisibilityStore
	log   *zap.Logger
}

// New constructs the manager on its store collaborators.
func New(users UserStore, conns ConnectionStore, vis VisibilityStore, logger *zap.Logger) *Manager {
	return &Manager{users: users, conns: conns, vis: vis, log: logger}
}

// Lock sets the target's lock flag.
func (m *Manager) Lock(ctx context.Context, caller auth.Caller, targetID primitive.ObjectID) error {
	return m.setLocked(ctx, caller, targetID, true)
}

// Unlock clears the target's lock flag.
func (m *Manager) Unlock(ctx context.Context, caller auth.Caller, targetID primitive.ObjectID) error {
	return m.setLocked(ctx, caller, targetID, false)
}

func (m *Manager) setLocked(ctx context.Context, caller auth.Caller, targetID primitive.ObjectID, locked bool) error {
	action := "unlocking user"
	if locked {
		action = "locking user"
	}

	err := func() error {
		user, err := m.users.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if caller.ID == targetID || user.Email == caller.Email {
			if locked {
				return apperr.SelfAction("Cannot lock self account")
			}
			return apperr.SelfAction("Cannot unlock self account")
		}
		if user.Locked == locked {
			if locked {
				return apperr.AlreadyInState("User is already locked")
			}
			return apperr.AlreadyInState("User is already unlocked")
		}
		return m.users.SetLocked(ctx, targetID, locked)
	}()
	if err != nil {
		return apperr.Storage(action, err)
	}

	m.log.Info("user lock state changed",
		zap.String("user_id", targetID.Hex()),
		zap.Bool("locked", locked),
		zap.String("by", caller.ID.Hex()))
	return nil
}

// Delete removes the target user and every reference to it. The cascade is
// best-effort rather than transactional: each step is idempotent, so a run
// that fails part-way can be repeated safely against the residue.
//
// Order: dependent documents first (connections, then visibility requests),
// then the peers' relationship arrays in batches, then the user document.
// Note the inverse-field pulls: a peer who had the target in its
// incoming_requests is found via the target's outgoing set, and vice versa.
func (m *Manager) Delete(ctx context.Context, caller auth.Caller, targetID primitive.ObjectID) error {
	err := func() error {
		user, err := m.users.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if caller.ID == targetID || user.Email == caller.Email {
			return apperr.SelfAction("Cannot delete self account")
		}

		if _, err := m.conns.DeleteByUser(ctx, targetID); err != nil {
			return err
		}
		if _, err := m.vis.DeleteByUser(ctx, targetID); err != nil {
			return err
		}

		if err := m.pullInBatches(ctx, user.Connections, "connections", targetID); err != nil {
			return err
		}
		if err := m.pullInBatches(ctx, user.IncomingRequests, "outgoing_requests", targetID); err != nil {
			return err
		}
		if err := m.pullInBatches(ctx, user.OutgoingRequests, "incoming_requests", targetID); err != nil {
			return err
		}

		if _, err := m.users.Delete(ctx, targetID); err != nil {
			return err
		}

		total := len(user.Connections) + len(user.IncomingRequests) + len(user.OutgoingRequests)
		m.log.Info("user deleted",
			zap.String("user_id", targetID.Hex()),
			zap.Int("references_cleaned", total),
			zap.String("by", caller.ID.Hex()))
		return nil
	}()
	return apperr.Storage("deleting user", err)
}

// pullInBatches issues the bulk pull-update over peerIDs in fixed-size
// slices, logging progress per batch.
func (m *Manager) pullInBatches(ctx context.Context, peerIDs []primitive.ObjectID, field string, target primitive.ObjectID) error {
	total := len(peerIDs)
	for start := 0; start < total; start += BatchSize {
		end := start + BatchSize
		if end > total {
			end = total
		}
		if _, err := m.users.PullPeerRef(ctx, peerIDs[start:end], field, target); err != nil {
			return err
		}
		m.log.Info("deletion cascade batch processed",
			zap.String("field", field),
			zap.Int("batch", end-start),
			zap.Int("progress", end),
			zap.Int("total", total))
	}
	return nil
}
