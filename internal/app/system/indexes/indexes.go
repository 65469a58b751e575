// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureConnections(ctx, db); err != nil {
		problems = append(problems, "connections: "+err.Error())
	}
	if err := ensureVisibilityRequests(ctx, db); err != nil {
		problems = append(problems, "visibility_requests: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

// ensureIndexSet reconciles the desired indexes for one collection: reuse
// when keys and uniqueness already match, drop and recreate on a mismatch,
// create otherwise.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
	}

	var errs []string
	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig))
				continue
			}
			// Options mismatch (e.g. upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				zap.L().Info("reusing existing index (options conflict)",
					zap.String("collection", coll.Name()),
					zap.String("name", desiredName),
					zap.String("keys", desiredSig))
				continue
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// 1) Email is the login identity; must be unique across all users.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},

		// 2) Phone duplicate probe on profile submission.
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetName("idx_users_phone"),
		},

		// 3) Reverse lookups during the deletion cascade: which users hold a
		//    reference to the target in each relationship array.
		{
			Keys:    bson.D{{Key: "connections", Value: 1}},
			Options: options.Index().SetName("idx_users_connections"),
		},
		{
			Keys:    bson.D{{Key: "incoming_requests", Value: 1}},
			Options: options.Index().SetName("idx_users_incoming"),
		},
		{
			Keys:    bson.D{{Key: "outgoing_requests", Value: 1}},
			Options: options.Index().SetName("idx_users_outgoing"),
		},
	})
}

func ensureConnections(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("connections")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// 1) One edge per unordered pair. pair_key is the sorted hex ids
		//    joined with ':', so both orderings collapse to one value.
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_conns_pairkey"),
		},

		// 2) Endpoint lookups ($or over user1/user2) and delete-by-user.
		{
			Keys:    bson.D{{Key: "user1", Value: 1}},
			Options: options.Index().SetName("idx_conns_user1"),
		},
		{
			Keys:    bson.D{{Key: "user2", Value: 1}},
			Options: options.Index().SetName("idx_conns_user2"),
		},
	})
}

func ensureVisibilityRequests(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("visibility_requests")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// 1) The pending-request probe: exact (sender, receiver, type, status).
		{
			Keys: bson.D{
				{Key: "sender", Value: 1},
				{Key: "receiver", Value: 1},
				{Key: "type", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("idx_vis_sender_receiver_type_status"),
		},

		// 2) Delete-by-party during removal and the deletion cascade.
		{
			Keys:    bson.D{{Key: "receiver", Value: 1}},
			Options: options.Index().SetName("idx_vis_receiver"),
		},
	})
}
