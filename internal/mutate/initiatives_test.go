package mutate

import (
	"testing"

	"cadence-cli/internal/model"
)

func TestResolveLeavesArchivalAlone(t *testing.T) {
	db := testDB()
	in, _ := db.FindInitiative("init-1")
	in.IsArchived = false

	p, err := ResolveInitiative(db, "init-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !p.Applied() {
		t.Fatalf("resolve should apply")
	}
	in, _ = db.FindInitiative("init-1")
	if in.Priority != model.PriorityResolved {
		t.Fatalf("expected resolved priority, got %s", in.Priority)
	}
	if in.IsArchived {
		t.Fatalf("resolve must not touch IsArchived")
	}
}

func TestResolveAlreadyResolvedIsNoop(t *testing.T) {
	db := testDB()
	in, _ := db.FindInitiative("init-1")
	in.Priority = model.PriorityResolved

	p, err := ResolveInitiative(db, "init-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Applied() {
		t.Fatalf("re-resolving must be a no-op")
	}
}

func TestRestoreReinstatesStrategic(t *testing.T) {
	db := testDB()
	in, _ := db.FindInitiative("init-1")
	in.Priority = model.PriorityResolved

	p, err := RestoreInitiative(db, "init-1")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	in, _ = db.FindInitiative("init-1")
	if in.Priority != model.PriorityStrategic {
		t.Fatalf("expected strategic after restore, got %s", in.Priority)
	}

	if !p.Rollback(db) {
		t.Fatalf("rollback should succeed")
	}
	in, _ = db.FindInitiative("init-1")
	if in.Priority != model.PriorityResolved {
		t.Fatalf("rollback must restore resolved priority, got %s", in.Priority)
	}
}

func TestResolveUnknownInitiative(t *testing.T) {
	db := testDB()
	if _, err := ResolveInitiative(db, "init-missing"); err == nil {
		t.Fatalf("expected not-found error")
	}
}
