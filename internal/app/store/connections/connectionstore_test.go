package connectionstore_test

import (
	"errors"
	"testing"

	connectionstore "github.com/minglehub/minglehub/internal/app/store/connections"
	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"github.com/minglehub/minglehub/internal/domain/models"
	"github.com/minglehub/minglehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInsertAndGetByPair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := connectionstore.New(db)

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	created, err := store.Insert(ctx, models.NewConnection(a, b))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("Insert did not assign an ID")
	}
	if created.PairKey != models.PairKey(a, b) {
		t.Errorf("PairKey = %q, want %q", created.PairKey, models.PairKey(a, b))
	}

	// Both argument orders find the same row.
	got, err := store.GetByPair(ctx, a, b)
	if err != nil {
		t.Fatalf("GetByPair(a,b) failed: %v", err)
	}
	rev, err := store.GetByPair(ctx, b, a)
	if err != nil {
		t.Fatalf("GetByPair(b,a) failed: %v", err)
	}
	if got.ID != created.ID || rev.ID != created.ID {
		t.Error("GetByPair did not return the inserted row for both orders")
	}
	if got.EmailShow || got.NumberShow {
		t.Error("new connection must start with both visibility flags false")
	}
}

func TestGetByPair_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := connectionstore.New(db)

	_, err := store.GetByPair(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetByPair = %v, want NotFound", err)
	}
	if err.Error() != "No such connection exists" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestSetVisibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := connectionstore.New(db)

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	created, err := store.Insert(ctx, models.NewConnection(a, b))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.SetVisibility(ctx, created.ID, models.VisibilityEmail, true); err != nil {
		t.Fatalf("SetVisibility email failed: %v", err)
	}
	if err := store.SetVisibility(ctx, created.ID, models.VisibilityPhone, true); err != nil {
		t.Fatalf("SetVisibility phone failed: %v", err)
	}

	got, err := store.GetByPair(ctx, a, b)
	if err != nil {
		t.Fatalf("GetByPair failed: %v", err)
	}
	if !got.EmailShow || !got.NumberShow {
		t.Errorf("flags = email %v phone %v, want both true", got.EmailShow, got.NumberShow)
	}

	err = store.SetVisibility(ctx, primitive.NewObjectID(), models.VisibilityEmail, true)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SetVisibility on missing row = %v, want NotFound", err)
	}
}

func TestListByUserAndDeleteByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := connectionstore.New(db)

	target := primitive.NewObjectID()
	peer1, peer2, other := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	for _, pair := range [][2]primitive.ObjectID{{target, peer1}, {peer2, target}, {peer1, other}} {
		if _, err := store.Insert(ctx, models.NewConnection(pair[0], pair[1])); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.ListByUser(ctx, target)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListByUser returned %d rows, want 2", len(got))
	}

	n, err := store.DeleteByUser(ctx, target)
	if err != nil {
		t.Fatalf("DeleteByUser failed: %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteByUser removed %d rows, want 2", n)
	}

	// The unrelated edge survives.
	if _, err := store.GetByPair(ctx, peer1, other); err != nil {
		t.Errorf("unrelated connection was deleted: %v", err)
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := connectionstore.New(db)

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	created, err := store.Insert(ctx, models.NewConnection(a, b))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByPair(ctx, a, b); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("row still present after Delete")
	}
}
