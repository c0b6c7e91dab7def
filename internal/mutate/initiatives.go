package mutate

import (
	"cadence-cli/internal/model"
	"cadence-cli/internal/store"
)

// ResolveInitiative flips Priority to resolved. It deliberately leaves
// IsArchived alone: archival is a second, independently-settable completion
// flag, so resolve+restore is not guaranteed reversible with respect to it.
func ResolveInitiative(db *store.DB, id string) (Pending, error) {
	return setInitiativePriority(db, id, model.PriorityResolved)
}

// RestoreInitiative reinstates a resolved initiative as strategic.
func RestoreInitiative(db *store.DB, id string) (Pending, error) {
	return setInitiativePriority(db, id, model.PriorityStrategic)
}

func setInitiativePriority(db *store.DB, id string, p model.Priority) (Pending, error) {
	in, ok := db.FindInitiative(id)
	if !ok {
		return Pending{}, NotFoundError{Kind: "initiative", ID: id}
	}
	if in.Priority == p {
		return Pending{}, nil
	}

	prev := in.Priority
	in.Priority = p

	tok := newPending(db, id, func(db *store.DB) {
		if cur, ok := db.FindInitiative(id); ok {
			cur.Priority = prev
		}
	})
	return tok, nil
}
