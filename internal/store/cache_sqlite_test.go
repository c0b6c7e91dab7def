package store

import (
	"context"
	"testing"
	"time"

	"cadence-cli/internal/model"
)

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := Cache{Dir: t.TempDir()}

	done := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	db := NewDB()
	db.Summary = &model.Summary{ActiveCount: 2, OnTrackPct: 50, NextSyncDate: "2025-03-19"}
	db.Initiatives = []model.Initiative{
		{ID: "i1", Title: "one", Priority: model.PriorityCritical, Deadline: "2025-04-01"},
		{ID: "i2", Title: "two", Priority: model.PriorityResolved, IsArchived: true},
	}
	db.ActionsByInitiative = GroupActions([]model.ActionItem{
		{ID: "a1", InitiativeID: "i1", Title: "task", Status: model.ActionDone, CompletedAt: &done},
		{ID: "a2", InitiativeID: "i2", Title: "other", Status: model.ActionPending, Deadline: "2025-03-15"},
	})
	db.Decisions = []model.Decision{{ID: "d1", Question: "q", Status: model.DecisionOpen}}
	db.KeyDates = []model.KeyDate{
		{ID: "k1", Date: "2025-03-03", Title: "sync", Recurrence: &model.Recurrence{Freq: model.RecurWeekly, Until: "2025-06-30"}},
	}
	db.LatestSync = &model.SyncSession{ID: "s1", Date: "2025-03-01", DurationMinutes: 30}

	if err := cache.Save(ctx, db); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := cache.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatalf("expected a snapshot")
	}

	if loaded.Summary == nil || loaded.Summary.ActiveCount != 2 || loaded.Summary.NextSyncDate != "2025-03-19" {
		t.Fatalf("summary roundtrip: %+v", loaded.Summary)
	}
	if len(loaded.Initiatives) != 2 {
		t.Fatalf("expected 2 initiatives, got %d", len(loaded.Initiatives))
	}
	if got := len(loaded.ActionsByInitiative["i1"]); got != 1 {
		t.Fatalf("expected 1 action for i1, got %d", got)
	}
	a, _, ok := loaded.FindAction("a1")
	if !ok || a.CompletedAt == nil || !a.CompletedAt.Equal(done) {
		t.Fatalf("CompletedAt roundtrip: %+v", a)
	}
	if len(loaded.Decisions) != 1 || loaded.Decisions[0].Question != "q" {
		t.Fatalf("decisions roundtrip: %+v", loaded.Decisions)
	}
	k := loaded.KeyDates[0]
	if k.Recurrence == nil || k.Recurrence.Freq != model.RecurWeekly || k.Recurrence.Until != "2025-06-30" {
		t.Fatalf("recurrence roundtrip: %+v", k.Recurrence)
	}
	if loaded.LatestSync == nil || loaded.LatestSync.ID != "s1" {
		t.Fatalf("latest sync roundtrip: %+v", loaded.LatestSync)
	}
}

func TestCacheSkipsTempRows(t *testing.T) {
	ctx := context.Background()
	cache := Cache{Dir: t.TempDir()}

	db := NewDB()
	db.Initiatives = []model.Initiative{{ID: "i1", Title: "one"}}
	db.ActionsByInitiative["i1"] = []model.ActionItem{
		{ID: "a1", InitiativeID: "i1", Title: "real"},
		{ID: NewTempID(), InitiativeID: "i1", Title: "optimistic"},
	}

	if err := cache.Save(ctx, db); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := cache.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(loaded.ActionsByInitiative["i1"]); got != 1 {
		t.Fatalf("temp rows must not be cached, got %d items", got)
	}
}

func TestCacheSaveIsReplaceAll(t *testing.T) {
	ctx := context.Background()
	cache := Cache{Dir: t.TempDir()}

	db := NewDB()
	db.Initiatives = []model.Initiative{{ID: "i1"}, {ID: "i2"}}
	if err := cache.Save(ctx, db); err != nil {
		t.Fatalf("first save: %v", err)
	}

	db.Initiatives = []model.Initiative{{ID: "i3"}}
	if err := cache.Save(ctx, db); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := cache.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Initiatives) != 1 || loaded.Initiatives[0].ID != "i3" {
		t.Fatalf("expected replace-all semantics, got %+v", loaded.Initiatives)
	}
}

func TestCacheLoadMissingIsNil(t *testing.T) {
	cache := Cache{Dir: t.TempDir()}
	loaded, err := cache.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil snapshot for a fresh dir")
	}
}

func TestCacheSavedAt(t *testing.T) {
	ctx := context.Background()
	cache := Cache{Dir: t.TempDir()}

	at, err := cache.SavedAt(ctx)
	if err != nil {
		t.Fatalf("saved-at on empty cache: %v", err)
	}
	if !at.IsZero() {
		t.Fatalf("expected zero time, got %v", at)
	}

	if err := cache.Save(ctx, NewDB()); err != nil {
		t.Fatalf("save: %v", err)
	}
	at, err = cache.SavedAt(ctx)
	if err != nil {
		t.Fatalf("saved-at: %v", err)
	}
	if at.IsZero() || time.Since(at) > time.Minute {
		t.Fatalf("unexpected saved-at %v", at)
	}
}
