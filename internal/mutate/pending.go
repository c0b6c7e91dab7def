package mutate

import "cadence-cli/internal/store"

// Pending is the rollback token produced by an optimistic apply.
//
// It captures the pre-mutation state of the touched slice plus the entity's
// version counter right after the apply. Rollback restores the snapshot only
// if that version is still current: if a later mutation (or a wholesale
// refresh) advanced it, the rollback is rejected rather than allowed to
// clobber newer state.
type Pending struct {
	entityID string
	version  uint64
	restore  func(*store.DB)
}

// Applied reports whether the optimistic apply changed anything. No-op verbs
// (e.g. resolving an already-resolved initiative) return an empty Pending.
func (p Pending) Applied() bool { return p.restore != nil }

// Rollback restores the pre-apply snapshot. Returns false when there was
// nothing to restore or when the entity's version advanced past the token.
func (p Pending) Rollback(db *store.DB) bool {
	if p.restore == nil || db == nil {
		return false
	}
	if db.EntityVersion(p.entityID) != p.version {
		return false
	}
	p.restore(db)
	db.BumpVersion(p.entityID)
	return true
}

// newPending bumps the entity version (the apply itself just happened) and
// wires the restore closure.
func newPending(db *store.DB, entityID string, restore func(*store.DB)) Pending {
	return Pending{
		entityID: entityID,
		version:  db.BumpVersion(entityID),
		restore:  restore,
	}
}
