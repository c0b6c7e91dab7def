package mutate

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"cadence-cli/internal/model"
)

func TestDecideTransitionsAndStamps(t *testing.T) {
	db := testDB()

	decidedAt := testNow.Add(time.Hour)
	p, err := Decide(db, "d1", "  Vendor B  ", decidedAt)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	d, _ := db.FindDecision("d1")
	if d.Status != model.DecisionDecided {
		t.Fatalf("expected decided, got %s", d.Status)
	}
	if d.DecisionText != "Vendor B" {
		t.Fatalf("expected trimmed text, got %q", d.DecisionText)
	}
	if d.DecidedAt == nil || !d.DecidedAt.Equal(decidedAt) {
		t.Fatalf("expected DecidedAt %v, got %v", decidedAt, d.DecidedAt)
	}

	if !p.Rollback(db) {
		t.Fatalf("rollback should succeed")
	}
	d, _ = db.FindDecision("d1")
	if d.Status != model.DecisionOpen || d.DecisionText != "" || d.DecidedAt != nil {
		t.Fatalf("rollback must restore the open decision, got %+v", d)
	}
}

func TestDecideRejectsClosedDecision(t *testing.T) {
	db := testDB()
	if _, err := Decide(db, "d1", "yes", testNow); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if _, err := Decide(db, "d1", "again", testNow); !errors.Is(err, ErrDecisionClosed) {
		t.Fatalf("expected ErrDecisionClosed, got %v", err)
	}
}

func TestDecideUnknownDecision(t *testing.T) {
	db := testDB()
	var nf NotFoundError
	if _, err := Decide(db, "d-missing", "x", testNow); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeferRemovesAndRollbackReinserts(t *testing.T) {
	db := testDB()
	before := db.Clone()

	p, err := Defer(db, "d1")
	if err != nil {
		t.Fatalf("defer: %v", err)
	}
	if len(db.Decisions) != 1 || db.Decisions[0].ID != "d2" {
		t.Fatalf("expected only d2 to remain, got %+v", db.Decisions)
	}
	// The underlying decision is untouched; only visibility changed.
	if db.Decisions[0].Status != model.DecisionOpen {
		t.Fatalf("defer must not change remaining decisions")
	}

	if !p.Rollback(db) {
		t.Fatalf("rollback should succeed")
	}
	if !reflect.DeepEqual(db.Decisions, before.Decisions) {
		t.Fatalf("rollback must reinsert at the original position:\n got %+v\nwant %+v", db.Decisions, before.Decisions)
	}
}

func TestDeferLastDecisionRollback(t *testing.T) {
	db := testDB()
	before := db.Clone()

	p, err := Defer(db, "d2")
	if err != nil {
		t.Fatalf("defer: %v", err)
	}
	if !p.Rollback(db) {
		t.Fatalf("rollback should succeed")
	}
	if !reflect.DeepEqual(db.Decisions, before.Decisions) {
		t.Fatalf("rollback of a tail removal must restore order")
	}
}
