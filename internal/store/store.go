package store

import (
	"strings"

	"cadence-cli/internal/model"
)

// DB is the client-resident working copy of the dashboard's remote
// collections. Reads and writes are synchronous and run on a single logical
// thread (the TUI event loop or a CLI invocation); there is no locking.
//
// Mutations happen through exactly two paths: the mutate package (optimistic
// apply + rollback tokens) and refresh.Apply (wholesale replacement).
type DB struct {
	Summary             *model.Summary
	Initiatives         []model.Initiative
	ActionsByInitiative map[string][]model.ActionItem
	Decisions           []model.Decision
	KeyDates            []model.KeyDate
	LatestSync          *model.SyncSession

	// LastRefreshSeq is the sequence number of the newest applied refresh
	// batch. Older batches that resolve late are rejected against it.
	LastRefreshSeq uint64

	// versions holds per-entity monotonic counters backing the
	// optimistic-concurrency rollback guard. Not persisted.
	versions map[string]uint64
}

func NewDB() *DB {
	return &DB{
		ActionsByInitiative: map[string][]model.ActionItem{},
		versions:            map[string]uint64{},
	}
}

// EntityVersion returns the current version counter for an entity id.
// Zero means "never mutated since the last wholesale replacement".
func (db *DB) EntityVersion(id string) uint64 {
	if db == nil || db.versions == nil {
		return 0
	}
	return db.versions[strings.TrimSpace(id)]
}

// BumpVersion advances an entity's version counter and returns the new value.
// Every optimistic apply and every rollback bumps, so a rollback token taken
// before an intervening mutation can detect that it is stale.
func (db *DB) BumpVersion(id string) uint64 {
	if db.versions == nil {
		db.versions = map[string]uint64{}
	}
	id = strings.TrimSpace(id)
	db.versions[id]++
	return db.versions[id]
}

// InvalidateTokens drops all version counters. Called on wholesale
// replacement so rollback tokens taken before a refresh can never clobber
// freshly fetched state.
func (db *DB) InvalidateTokens() {
	db.versions = map[string]uint64{}
}

func (db *DB) FindInitiative(id string) (*model.Initiative, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Initiatives {
		if db.Initiatives[i].ID == id {
			return &db.Initiatives[i], true
		}
	}
	return nil, false
}

// FindAction searches every initiative's group. Returns the owning
// initiative id alongside the item so callers can address the right slice.
func (db *DB) FindAction(id string) (*model.ActionItem, string, bool) {
	id = strings.TrimSpace(id)
	for initID, items := range db.ActionsByInitiative {
		for i := range items {
			if items[i].ID == id {
				return &db.ActionsByInitiative[initID][i], initID, true
			}
		}
	}
	return nil, "", false
}

func (db *DB) FindDecision(id string) (*model.Decision, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Decisions {
		if db.Decisions[i].ID == id {
			return &db.Decisions[i], true
		}
	}
	return nil, false
}

// ActionsFor returns the action items grouped under one initiative.
func (db *DB) ActionsFor(initiativeID string) []model.ActionItem {
	if db == nil || db.ActionsByInitiative == nil {
		return nil
	}
	return db.ActionsByInitiative[strings.TrimSpace(initiativeID)]
}

// AllActions flattens the grouped map. Order is grouped by initiative,
// following db.Initiatives order, so output is deterministic.
func (db *DB) AllActions() []model.ActionItem {
	var out []model.ActionItem
	seen := map[string]bool{}
	for _, init := range db.Initiatives {
		out = append(out, db.ActionsByInitiative[init.ID]...)
		seen[init.ID] = true
	}
	// Items whose initiative is not in the current list still count.
	for initID, items := range db.ActionsByInitiative {
		if !seen[initID] {
			out = append(out, items...)
		}
	}
	return out
}

// GroupActions partitions a bulk action-item list by initiative id.
//
// The collaborator returns all action items in a single call (deliberately:
// one bulk read instead of one read per initiative) and grouping happens
// client-side. The partition is pure: same items in, no duplication or loss,
// map keys only for initiative ids present in the input.
func GroupActions(items []model.ActionItem) map[string][]model.ActionItem {
	out := map[string][]model.ActionItem{}
	for _, it := range items {
		key := strings.TrimSpace(it.InitiativeID)
		out[key] = append(out[key], it)
	}
	return out
}

// Clone deep-copies the DB's entity state (not version counters). Used for
// pre-mutation snapshots in tests that assert byte-for-byte rollback.
func (db *DB) Clone() *DB {
	out := NewDB()
	if db.Summary != nil {
		s := *db.Summary
		out.Summary = &s
	}
	if db.LatestSync != nil {
		s := *db.LatestSync
		out.LatestSync = &s
	}
	out.Initiatives = cloneInitiatives(db.Initiatives)
	out.Decisions = cloneDecisions(db.Decisions)
	out.KeyDates = cloneKeyDates(db.KeyDates)
	for k, v := range db.ActionsByInitiative {
		out.ActionsByInitiative[k] = CloneActions(v)
	}
	out.LastRefreshSeq = db.LastRefreshSeq
	return out
}

func cloneInitiatives(in []model.Initiative) []model.Initiative {
	if in == nil {
		return nil
	}
	out := make([]model.Initiative, len(in))
	copy(out, in)
	return out
}

// CloneActions copies an action slice, including the CompletedAt pointers.
func CloneActions(in []model.ActionItem) []model.ActionItem {
	if in == nil {
		return nil
	}
	out := make([]model.ActionItem, len(in))
	copy(out, in)
	for i := range out {
		if out[i].CompletedAt != nil {
			t := *out[i].CompletedAt
			out[i].CompletedAt = &t
		}
	}
	return out
}

func cloneDecisions(in []model.Decision) []model.Decision {
	if in == nil {
		return nil
	}
	out := make([]model.Decision, len(in))
	copy(out, in)
	for i := range out {
		if out[i].DecidedAt != nil {
			t := *out[i].DecidedAt
			out[i].DecidedAt = &t
		}
	}
	return out
}

func cloneKeyDates(in []model.KeyDate) []model.KeyDate {
	if in == nil {
		return nil
	}
	out := make([]model.KeyDate, len(in))
	copy(out, in)
	for i := range out {
		if out[i].Recurrence != nil {
			r := *out[i].Recurrence
			out[i].Recurrence = &r
		}
	}
	return out
}
