package store

import (
	"reflect"
	"testing"
	"time"

	"cadence-cli/internal/model"
)

func TestGroupActionsPartitionsWithoutLoss(t *testing.T) {
	items := []model.ActionItem{
		{ID: "a1", InitiativeID: "init-1", Title: "one"},
		{ID: "a2", InitiativeID: "init-2", Title: "two"},
		{ID: "a3", InitiativeID: "init-1", Title: "three"},
		{ID: "a4", InitiativeID: " init-2 ", Title: "four"},
	}

	grouped := GroupActions(items)

	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}
	if got := len(grouped["init-1"]); got != 2 {
		t.Fatalf("init-1 group: expected 2 items, got %d", got)
	}
	if got := len(grouped["init-2"]); got != 2 {
		t.Fatalf("init-2 group: expected 2 items, got %d", got)
	}

	total := 0
	seen := map[string]bool{}
	for _, g := range grouped {
		for _, it := range g {
			total++
			if seen[it.ID] {
				t.Fatalf("duplicate item %s after grouping", it.ID)
			}
			seen[it.ID] = true
		}
	}
	if total != len(items) {
		t.Fatalf("expected %d items after grouping, got %d", len(items), total)
	}
}

func TestGroupActionsPreservesOrderWithinGroup(t *testing.T) {
	items := []model.ActionItem{
		{ID: "a1", InitiativeID: "init-1"},
		{ID: "a2", InitiativeID: "init-1"},
		{ID: "a3", InitiativeID: "init-1"},
	}
	grouped := GroupActions(items)
	g := grouped["init-1"]
	for i, want := range []string{"a1", "a2", "a3"} {
		if g[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, g[i].ID)
		}
	}
}

func TestAllActionsFollowsInitiativeOrder(t *testing.T) {
	db := NewDB()
	db.Initiatives = []model.Initiative{{ID: "init-b"}, {ID: "init-a"}}
	db.ActionsByInitiative = map[string][]model.ActionItem{
		"init-a":   {{ID: "a1", InitiativeID: "init-a"}},
		"init-b":   {{ID: "b1", InitiativeID: "init-b"}},
		"orphaned": {{ID: "o1", InitiativeID: "orphaned"}},
	}

	all := db.AllActions()
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	if all[0].ID != "b1" || all[1].ID != "a1" {
		t.Fatalf("expected initiative-ordered output, got %s then %s", all[0].ID, all[1].ID)
	}
	if all[2].ID != "o1" {
		t.Fatalf("orphaned group must still appear, got %s", all[2].ID)
	}
}

func TestFindActionReturnsOwningInitiative(t *testing.T) {
	db := NewDB()
	db.ActionsByInitiative["init-1"] = []model.ActionItem{{ID: "a1", InitiativeID: "init-1"}}

	it, initID, ok := db.FindAction("a1")
	if !ok {
		t.Fatalf("expected to find a1")
	}
	if initID != "init-1" {
		t.Fatalf("expected owner init-1, got %s", initID)
	}
	it.Title = "renamed"
	if db.ActionsByInitiative["init-1"][0].Title != "renamed" {
		t.Fatalf("FindAction must return a pointer into the store")
	}

	if _, _, ok := db.FindAction("missing"); ok {
		t.Fatalf("expected miss for unknown id")
	}
}

func TestVersionsBumpAndInvalidate(t *testing.T) {
	db := NewDB()
	if v := db.EntityVersion("x"); v != 0 {
		t.Fatalf("fresh entity version should be 0, got %d", v)
	}
	if v := db.BumpVersion("x"); v != 1 {
		t.Fatalf("first bump should be 1, got %d", v)
	}
	if v := db.BumpVersion("x"); v != 2 {
		t.Fatalf("second bump should be 2, got %d", v)
	}

	db.InvalidateTokens()
	if v := db.EntityVersion("x"); v != 0 {
		t.Fatalf("invalidation should reset versions, got %d", v)
	}
}

func TestCloneIsDeep(t *testing.T) {
	done := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	db := NewDB()
	db.Summary = &model.Summary{ActiveCount: 3}
	db.Initiatives = []model.Initiative{{ID: "init-1", Title: "one"}}
	db.ActionsByInitiative["init-1"] = []model.ActionItem{
		{ID: "a1", InitiativeID: "init-1", Status: model.ActionDone, CompletedAt: &done},
	}
	db.Decisions = []model.Decision{{ID: "d1", Question: "q"}}
	db.KeyDates = []model.KeyDate{{ID: "k1", Date: "2025-03-01", Recurrence: &model.Recurrence{Freq: model.RecurWeekly}}}

	clone := db.Clone()
	if !reflect.DeepEqual(clone.Initiatives, db.Initiatives) {
		t.Fatalf("clone initiatives differ")
	}

	clone.Initiatives[0].Title = "changed"
	*clone.ActionsByInitiative["init-1"][0].CompletedAt = done.Add(time.Hour)
	clone.KeyDates[0].Recurrence.Freq = model.RecurMonthly
	clone.Summary.ActiveCount = 99

	if db.Initiatives[0].Title != "one" {
		t.Fatalf("clone shares initiative backing array")
	}
	if !db.ActionsByInitiative["init-1"][0].CompletedAt.Equal(done) {
		t.Fatalf("clone shares CompletedAt pointer")
	}
	if db.KeyDates[0].Recurrence.Freq != model.RecurWeekly {
		t.Fatalf("clone shares Recurrence pointer")
	}
	if db.Summary.ActiveCount != 3 {
		t.Fatalf("clone shares Summary pointer")
	}
}

func TestTempIDs(t *testing.T) {
	id := NewTempID()
	if !IsTempID(id) {
		t.Fatalf("expected %q to be a temp id", id)
	}
	if IsTempID("act-123") {
		t.Fatalf("act-123 must not be a temp id")
	}
	if NewTempID() == id {
		t.Fatalf("temp ids should not repeat")
	}
}
