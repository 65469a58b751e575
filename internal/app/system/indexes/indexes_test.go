package indexes_test

import (
	"testing"

	"github.com/minglehub/minglehub/internal/app/system/indexes"
	"github.com/minglehub/minglehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesExpectedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	want := map[string][]string{
		"users": {
			"uniq_users_email",
			"idx_users_phone",
			"idx_users_connections",
			"idx_users_incoming",
			"idx_users_outgoing",
		},
		"connections": {
			"uniq_conns_pairkey",
			"idx_conns_user1",
			"idx_conns_user2",
		},
		"visibility_requests": {
			"idx_vis_sender_receiver_type_status",
			"idx_vis_receiver",
		},
	}

	for coll, names := range want {
		cur, err := db.Collection(coll).Indexes().List(ctx)
		if err != nil {
			t.Fatalf("List indexes on %s failed: %v", coll, err)
		}
		got := make(map[string]bool)
		for cur.Next(ctx) {
			var idx bson.M
			if err := cur.Decode(&idx); err != nil {
				continue
			}
			if name, ok := idx["name"].(string); ok {
				got[name] = true
			}
		}
		cur.Close(ctx)

		for _, name := range names {
			if !got[name] {
				t.Errorf("expected index %q to exist on %s collection", name, coll)
			}
		}
	}
}

func TestEnsureAll_UniquePairKeyEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("connections").InsertOne(ctx, bson.M{"pair_key": "a:b"})
	if err != nil {
		t.Fatalf("Insert connection failed: %v", err)
	}
	_, err = db.Collection("connections").InsertOne(ctx, bson.M{"pair_key": "a:b"})
	if err == nil {
		t.Error("expected duplicate key error for unique index on connections.pair_key")
	}
}
