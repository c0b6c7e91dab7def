package mutate

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/store"
)

var testNow = time.Date(2025, 3, 12, 10, 30, 0, 0, time.UTC)

func testDB() *store.DB {
	db := store.NewDB()
	db.Initiatives = []model.Initiative{
		{ID: "init-1", Title: "Platform migration", Priority: model.PriorityStrategic},
		{ID: "init-2", Title: "Security review", Priority: model.PriorityCritical},
	}
	db.ActionsByInitiative = map[string][]model.ActionItem{
		"init-1": {
			{ID: "a1", InitiativeID: "init-1", Title: "Draft plan", Status: model.ActionPending, Deadline: "2025-03-10"},
			{ID: "a2", InitiativeID: "init-1", Title: "Review budget", Status: model.ActionInProgress},
		},
		"init-2": {
			{ID: "a3", InitiativeID: "init-2", Title: "Audit access", Status: model.ActionDone, CompletedAt: &testNow},
		},
	}
	db.Decisions = []model.Decision{
		{ID: "d1", Question: "Vendor A or B?", Status: model.DecisionOpen, CreatedAt: testNow},
		{ID: "d2", Question: "Hire now?", Status: model.DecisionOpen, CreatedAt: testNow},
	}
	return db
}

func TestToggleMarksDoneAndStampsCompletion(t *testing.T) {
	db := testDB()

	p, it, err := ToggleAction(db, "a1", testNow)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !p.Applied() {
		t.Fatalf("toggle should produce an applied pending")
	}
	if !it.Done() {
		t.Fatalf("expected done after toggle, got %s", it.Status)
	}
	if it.CompletedAt == nil || !it.CompletedAt.Equal(testNow) {
		t.Fatalf("expected CompletedAt %v, got %v", testNow, it.CompletedAt)
	}
}

func TestToggleTwiceReturnsToNotDone(t *testing.T) {
	db := testDB()

	if _, _, err := ToggleAction(db, "a1", testNow); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	_, it, err := ToggleAction(db, "a1", testNow.Add(time.Minute))
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if it.Done() {
		t.Fatalf("expected not done after second toggle")
	}
	if it.Status != model.ActionPending {
		t.Fatalf("un-done should land on pending, got %s", it.Status)
	}
	if it.CompletedAt != nil {
		t.Fatalf("CompletedAt must be cleared, got %v", it.CompletedAt)
	}
}

func TestToggleRollbackRestoresExactState(t *testing.T) {
	db := testDB()
	before := db.Clone()

	p, _, err := ToggleAction(db, "a3", testNow)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !p.Rollback(db) {
		t.Fatalf("rollback should succeed")
	}
	if !reflect.DeepEqual(db.ActionsByInitiative, before.ActionsByInitiative) {
		t.Fatalf("rollback must restore the pre-mutation state exactly")
	}
}

func TestRollbackRejectedAfterInterveningMutation(t *testing.T) {
	db := testDB()

	p1, _, err := ToggleAction(db, "a1", testNow)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if _, _, err := ToggleAction(db, "a1", testNow.Add(time.Minute)); err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	snapshot := db.Clone()
	if p1.Rollback(db) {
		t.Fatalf("stale rollback must be rejected")
	}
	if !reflect.DeepEqual(db.ActionsByInitiative, snapshot.ActionsByInitiative) {
		t.Fatalf("rejected rollback must leave the store untouched")
	}
}

func TestRollbackRejectedAfterTokenInvalidation(t *testing.T) {
	db := testDB()

	p, _, err := ToggleAction(db, "a1", testNow)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	db.InvalidateTokens()
	if p.Rollback(db) {
		t.Fatalf("rollback across a wholesale replacement must be rejected")
	}
}

func TestUpdateActionValidation(t *testing.T) {
	db := testDB()

	empty := "   "
	if _, err := UpdateAction(db, "a1", ActionEdit{Title: &empty}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}

	p, err := UpdateAction(db, "a1", ActionEdit{})
	if err != nil {
		t.Fatalf("no-op update: %v", err)
	}
	if p.Applied() {
		t.Fatalf("no-op update must not produce an applied pending")
	}

	if _, err := UpdateAction(db, "missing", ActionEdit{}); err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestUpdateActionAppliesFields(t *testing.T) {
	db := testDB()

	title := "  Draft rollout plan  "
	deadline := "2025-04-01"
	p, err := UpdateAction(db, "a1", ActionEdit{Title: &title, Deadline: &deadline})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	it, _, _ := db.FindAction("a1")
	if it.Title != "Draft rollout plan" {
		t.Fatalf("title not trimmed/applied: %q", it.Title)
	}
	if it.Deadline != "2025-04-01" {
		t.Fatalf("deadline not applied: %q", it.Deadline)
	}

	if !p.Rollback(db) {
		t.Fatalf("rollback should succeed")
	}
	it, _, _ = db.FindAction("a1")
	if it.Title != "Draft plan" || it.Deadline != "2025-03-10" {
		t.Fatalf("rollback must restore prior fields, got %q %q", it.Title, it.Deadline)
	}
}

func TestCreateActionRequiresExistingInitiative(t *testing.T) {
	db := testDB()

	var nf NotFoundError
	_, _, err := CreateAction(db, "init-missing", "New item", "", testNow)
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Kind != "initiative" {
		t.Fatalf("expected initiative kind, got %s", nf.Kind)
	}

	if _, _, err := CreateAction(db, "init-1", "  ", "", testNow); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestCreateActionOptimisticRowAndAdopt(t *testing.T) {
	db := testDB()

	p, tmp, err := CreateAction(db, "init-1", "Ship it", "2025-03-20", testNow)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !store.IsTempID(tmp.ID) {
		t.Fatalf("optimistic row must carry a temp id, got %s", tmp.ID)
	}
	if got := len(db.ActionsByInitiative["init-1"]); got != 3 {
		t.Fatalf("expected 3 items after create, got %d", got)
	}

	created := model.ActionItem{ID: "a9", InitiativeID: "init-1", Title: "Ship it", Status: model.ActionPending, Deadline: "2025-03-20"}
	AdoptCreated(db, tmp.ID, created)

	if _, _, ok := db.FindAction(tmp.ID); ok {
		t.Fatalf("temp row must be gone after adopt")
	}
	if _, _, ok := db.FindAction("a9"); !ok {
		t.Fatalf("server row must be present after adopt")
	}

	// The adopt bumped the temp id's version, so the create's rollback token
	// is stale and must not undo the swap.
	if p.Rollback(db) {
		t.Fatalf("rollback after adopt must be rejected")
	}
}

func TestCreateActionRollbackRemovesRow(t *testing.T) {
	db := testDB()
	before := db.Clone()

	p, _, err := CreateAction(db, "init-1", "Ship it", "", testNow)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !p.Rollback(db) {
		t.Fatalf("rollback should succeed")
	}
	if !reflect.DeepEqual(db.ActionsByInitiative, before.ActionsByInitiative) {
		t.Fatalf("rollback must remove the optimistic row")
	}
}

func TestDeleteActionRollbackRestoresOrder(t *testing.T) {
	db := testDB()
	before := db.Clone()

	p, removed, err := DeleteAction(db, "a1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != "a1" {
		t.Fatalf("expected removed a1, got %s", removed.ID)
	}
	if got := len(db.ActionsByInitiative["init-1"]); got != 1 {
		t.Fatalf("expected 1 item after delete, got %d", got)
	}

	if !p.Rollback(db) {
		t.Fatalf("rollback should succeed")
	}
	if !reflect.DeepEqual(db.ActionsByInitiative, before.ActionsByInitiative) {
		t.Fatalf("rollback must restore the item at its original position")
	}
}
