package mutate

import (
	"strings"
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/store"
)

// Decide transitions an open decision to decided, carrying the supplied
// text. Irreversible from the client's perspective.
func Decide(db *store.DB, id, text string, now time.Time) (Pending, error) {
	d, ok := db.FindDecision(id)
	if !ok {
		return Pending{}, NotFoundError{Kind: "decision", ID: id}
	}
	if d.Status != model.DecisionOpen {
		return Pending{}, ErrDecisionClosed
	}

	prev := *d
	if prev.DecidedAt != nil {
		t := *prev.DecidedAt
		prev.DecidedAt = &t
	}

	d.Status = model.DecisionDecided
	d.DecisionText = strings.TrimSpace(text)
	t := now
	d.DecidedAt = &t

	p := newPending(db, id, func(db *store.DB) {
		if cur, ok := db.FindDecision(id); ok {
			*cur = prev
		}
	})
	return p, nil
}

// Defer removes the decision from the locally visible open set. The client
// does not track a "deferred" terminal state; the decision is expected to
// reappear, unchanged, via a future refresh. Rollback reinserts it at its
// original position.
func Defer(db *store.DB, id string) (Pending, error) {
	idx := -1
	for i := range db.Decisions {
		if db.Decisions[i].ID == strings.TrimSpace(id) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Pending{}, NotFoundError{Kind: "decision", ID: id}
	}
	removed := db.Decisions[idx]
	db.Decisions = append(db.Decisions[:idx], db.Decisions[idx+1:]...)

	p := newPending(db, id, func(db *store.DB) {
		at := idx
		if at > len(db.Decisions) {
			at = len(db.Decisions)
		}
		rest := append([]model.Decision{removed}, db.Decisions[at:]...)
		db.Decisions = append(db.Decisions[:at], rest...)
	})
	return p, nil
}
