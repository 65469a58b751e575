// internal/app/relationship/engine.go

// Package relationship owns the state transitions spanning users,
// connections, and visibility requests: sending, accepting, denying, and
// removing connection requests, plus the request/grant workflow that
// discloses a contact field across an existing connection.
//
// Every operation takes the acting caller explicitly and serializes on the
// unordered actor/target pair, so the multi-document writes behind each
// transition are single-writer per pair.
package relationship

import (
	"context"

	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"github.com/minglehub/minglehub/internal/app/system/auth"
	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Self-action messages, one per operation.
const (
	msgSelfRequest    = "Cannot send request to self"
	msgSelfAccept     = "Cannot accept request from self"
	msgSelfDeny       = "Cannot deny request from self"
	msgSelfRemove     = "Cannot remove request from self"
	msgSelfPermission = "Cannot give permission to self"
)

// UserStore is the slice of the users collection the engine needs.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
}

// ConnectionStore is the slice of the connections collection the engine needs.
type ConnectionStore interface {
	GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error)
	Insert(ctx context.Context, conn models.Connection) (models.Connection, error)
	SetVisibility(ctx context.Context, id primitive.ObjectID, kind string, shown bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// VisibilityStore is the slice of the visibility_requests collection the
// engine needs.
type VisibilityStore interface {
	GetPending(ctx context.Context, sender, receiver primitive.ObjectID, kind string) (*models.VisibilityRequest, error)
	Insert(ctx context.Context, vr models.VisibilityRequest) (models.VisibilityRequest, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteBetween(ctx context.Context, a, b primitive.ObjectID) (int64, error)
}

// Engine applies the relationship state machine.
type Engine struct {
	users UserStore
	conns ConnectionStore
	vis   VisibilityStore
	locks *pairLocks
	log   *zap.Logger
}

// New constructs the engine on its three store collaborators.
func New(users UserStore, conns ConnectionStore, vis VisibilityStore, logger *zap.Logger) *Engine {
	return &Engine{
		users: users,
		conns: conns,
		vis:   vis,
		locks: newPairLocks(),
		log:   logger,
	}
}

// resolvePair loads both ends of an operation: the target by id, the actor by
// the caller's email. The self guard runs against both the id and the email
// so an actor can never address themselves through either identity.
func (e *Engine) resolvePair(ctx context.Context, caller auth.Caller, targetID primitive.ObjectID, selfMsg string) (actor, target *models.User, err error) {
	if caller.ID == targetID {
		return nil, nil, apperr.SelfAction(selfMsg)
	}
	target, err = e.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	if target.Email == caller.Email {
		return nil, nil, apperr.SelfAction(selfMsg)
	}
	actor, err = e.users.GetByEmail(ctx, caller.Email)
	if err != nil {
		return nil, nil, err
	}
	return actor, target, nil
}

// Send records a pending connection request from the caller to the target.
func (e *Engine) Send(ctx context.Context, caller auth.Caller, targetID primitive.ObjectID) error {
	unlock := e.locks.Lock(caller.ID, targetID)
	defer unlock()

	err := func() error {
		sender, receiver, err := e.resolvePair(ctx, caller, targetID, msgSelfRequest)
		if err != nil {
			return err
		}

		if sender.HasConnection(receiver.ID) || receiver.HasConnection(sender.ID) {
			return apperr.AlreadyExists("Connection already exists")
		}
		if sender.HasOutgoing(receiver.ID) || receiver.HasIncoming(sender.ID) {
			return apperr.AlreadyExists("Request already sent")
		}
		if sender.HasIncoming(receiver.ID) || receiver.HasOutgoing(sender.ID) {
			return apperr.AlreadyExists("Request already received")
		}

		sender.AddOutgoing(receiver.ID)
		receiver.AddIncoming(sender.ID)
		if err := e.users.Save(ctx, sender); err != nil {
			return err
		}
		return e.users.Save(ctx, receiver)
	}()
	if err != nil {
		return apperr.Storage("sending connection request", err)
	}

	e.log.Info("connection request sent",
		zap.String("from", caller.ID.Hex()),
		zap.String("to", targetID.Hex()))
	return nil
}

// Accept turns a pending request from the target into a connection. The
// caller is the receiver of the original request; targetID identifies the
// sender.
func (e *Engine) Accept(ctx context.Context, caller auth.Caller, targetID primitive.ObjectID) error {
	unlock := e.locks.Lock(caller.ID, targetID)
	defer unlock()

	err := func() error {
		receiver, sender, err := e.resolvePair(ctx, caller, targetID, msgSelfAccept)
		if err != nil {
			return err
		}

		if !sender.HasOutgoing(receiver.ID) || !receiver.HasIncoming(sender.ID) {
			return apperr.NotFound("Request not found")
		}

		sender.RemoveOutgoing(receiver.ID)
		receiver.RemoveIncoming(sender.ID)
		sender.AddConnection(receiver.ID)
		receiver.AddConnection(sender.ID)

		if _, err := e.conns.Insert(ctx, models.NewConnection(sender.ID, receiver.ID)); err != nil {
			return err
		}
		if err := e.users.Save(ctx, sender); err != nil {
			return err
		}
		return e.users.Save(ctx, receiver)
	}()
	if err != nil {
		return apperr.Storage("accepting connection request", err)
	}

	e.log.Info("connection request accepted",
		zap.String("receiver", caller.ID.Hex()),
		zap.String("sender", targetID.Hex()))
	return nil
}

// Deny discards a pending request from the target without creating a
// connection.
func (e *Engine) Deny(ctx context.Context, caller auth.Caller, targetID primitive.ObjectID) error {
	unlock := e.locks.Lock(caller.ID, targetID)
	defer unlock()

	err := func() error {
		receiver, sender, err := e.resolvePair(ctx, caller, targetID, msgSelfDeny)
		if err != nil {
			return err
		}

		if !sender.HasOutgoing(receiver.ID) || !receiver.HasIncoming(sender.ID) {
			return apperr.NotFound("Request not found")
		}

		sender.RemoveOutgoing(receiver.ID)
		receiver.RemoveIncoming(sender.ID)
		if err := e.users.Save(ctx, sender); err != nil {
			return err
		}
		return e.users.Save(ctx, receiver)
	}()
	if err != nil {
		return apperr.Storage("denying connection request", err)
	}

	e.log.Info("connection request denied",
		zap.String("receiver", caller.ID.Hex()),
		zap.String("sender", targetID.Hex()))
	return nil
}

// Remove tears down an existing connection: both users' connection sets, the
// edge document, and any visibility requests between the pair.
func (e *Engine) Remove(ctx context.Context, caller auth.Caller, targetID primitive.ObjectID) error {
	unlock := e.locks.Lock(caller.ID, targetID)
	defer unlock()

	err := func() error {
		actor, peer, err := e.resolvePair(ctx, caller, targetID, msgSelfRemove)
		if err != nil {
			return err
		}

		if !actor.HasConnection(peer.ID) || !peer.HasConnection(actor.ID) {
			return apperr.NotFound("No such connection exists")
		}

		conn, err := e.conns.GetByPair(ctx, actor.ID, peer.ID)
		if err != nil {
			return err
		}

		actor.RemoveConnection(peer.ID)
		peer.RemoveConnection(actor.ID)

		if _, err := e.vis.DeleteBetween(ctx, actor.ID, peer.ID); err != nil {
			return err
		}
		if err := e.conns.Delete(ctx, conn.ID); err != nil {
			return err
		}
		if err := e.users.Save(ctx, actor); err != nil {
			return err
		}
		return e.users.Save(ctx, peer)
	}()
	if err != nil {
		return apperr.Storage("removing connection", err)
	}

	e.log.Info("connection removed",
		zap.String("actor", caller.ID.Hex()),
		zap.String("peer", targetID.Hex()))
	return nil
}

// RequestVisibility asks the target to disclose one contact field. Requires
// an existing connection, the field not already shown, and no pending
// request of the same type from the caller.
func (e *Engine) RequestVisibility(ctx context.Context, caller auth.Caller, targetID primitive.ObjectID, kind string) error {
	unlock := e.locks.Lock(caller.ID, targetID)
	defer unlock()

	err := func() error {
		sender, receiver, err := e.resolvePair(ctx, caller, targetID, msgSelfPermission)
		if err != nil {
			return err
		}

		conn, err := e.conns.GetByPair(ctx, sender.ID, receiver.ID)
		if err != nil {
			return err
		}
		if kind == models.VisibilityEmail && conn.EmailShow {
			return apperr.AlreadyExists("Email already shared")
		}
		if kind == models.VisibilityPhone && conn.NumberShow {
			return apperr.AlreadyExists("Phone number already shared")
		}

		if _, err := e.vis.GetPending(ctx, sender.ID, receiver.ID, kind); err == nil {
			return apperr.AlreadyExists("Request already exists")
		} else if !apperr.IsDomain(err) {
			return err
		}

		_, err = e.vis.Insert(ctx, models.NewVisibilityRequest(sender.ID, receiver.ID, kind))
		return err
	}()
	if err != nil {
		return apperr.Storage("requesting visibility", err)
	}

	e.log.Info("visibility requested",
		zap.String("sender", caller.ID.Hex()),
		zap.String("receiver", targetID.Hex()),
		zap.String("type", kind))
	return nil
}

// GrantVisibility fulfils a pending request the target sent to the caller:
// the connection's flag flips on and the request row is deleted rather than
// kept in an accepted state.
func (e *Engine) GrantVisibility(ctx context.Context, caller auth.Caller, targetID primitive.ObjectID, kind string) error {
	unlock := e.locks.Lock(caller.ID, targetID)
	defer unlock()

	err := func() error {
		granter, requester, err := e.resolvePair(ctx, caller, targetID, msgSelfPermission)
		if err != nil {
			return err
		}

		vr, err := e.vis.GetPending(ctx, requester.ID, granter.ID, kind)
		if err != nil {
			return err
		}
		conn, err := e.conns.GetByPair(ctx, requester.ID, granter.ID)
		if err != nil {
			return err
		}

		if err := e.conns.SetVisibility(ctx, conn.ID, kind, true); err != nil {
			return err
		}
		return e.vis.Delete(ctx, vr.ID)
	}()
	if err != nil {
		return apperr.Storage("granting visibility", err)
	}

	e.log.Info("visibility granted",
		zap.String("granter", caller.ID.Hex()),
		zap.String("requester", targetID.Hex()),
		zap.String("type", kind))
	return nil
}
