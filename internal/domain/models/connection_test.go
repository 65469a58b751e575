package models_test

import (
	"testing"

	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPairKeyOrderIndependent(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	if models.PairKey(a, b) != models.PairKey(b, a) {
		t.Errorf("PairKey(a,b) = %q, PairKey(b,a) = %q; want equal", models.PairKey(a, b), models.PairKey(b, a))
	}
}

func TestSplitPairKey(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	key := models.PairKey(a, b)

	h1, h2 := models.SplitPairKey(key)
	if h1 > h2 {
		t.Errorf("SplitPairKey halves out of order: %q > %q", h1, h2)
	}
	want := map[string]bool{a.Hex(): true, b.Hex(): true}
	if !want[h1] || !want[h2] {
		t.Errorf("SplitPairKey(%q) = %q, %q; want the hexes of both endpoints", key, h1, h2)
	}

	if h1, h2 := models.SplitPairKey("no-separator"); h1 != "" || h2 != "" {
		t.Errorf("SplitPairKey on malformed key = %q, %q; want empty strings", h1, h2)
	}
}

func TestConnectionEndpoints(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	conn := models.NewConnection(a, b)

	if !conn.Involves(a) || !conn.Involves(b) {
		t.Error("Involves should report true for both endpoints")
	}
	if conn.Involves(c) {
		t.Error("Involves reported true for an unrelated id")
	}
	if got := conn.Other(a); got != b {
		t.Errorf("Other(a) = %s, want %s", got.Hex(), b.Hex())
	}
	if got := conn.Other(b); got != a {
		t.Errorf("Other(b) = %s, want %s", got.Hex(), a.Hex())
	}
}
