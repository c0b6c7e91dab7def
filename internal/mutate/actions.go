package mutate

import (
	"strings"
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/store"
)

// ToggleAction flips an action item between done and not-done in one step:
// pending/in_progress → done (stamping CompletedAt), done → pending
// (clearing it). From the caller's perspective this is an exact two-state
// cycle regardless of the not-done sub-state.
func ToggleAction(db *store.DB, id string, now time.Time) (Pending, *model.ActionItem, error) {
	it, initID, ok := db.FindAction(id)
	if !ok {
		return Pending{}, nil, NotFoundError{Kind: "action item", ID: id}
	}

	before := store.CloneActions(db.ActionsByInitiative[initID])

	if it.Done() {
		it.Status = model.ActionPending
		it.CompletedAt = nil
	} else {
		it.Status = model.ActionDone
		t := now
		it.CompletedAt = &t
	}

	p := newPending(db, id, func(db *store.DB) {
		db.ActionsByInitiative[initID] = before
	})
	return p, it, nil
}

// ActionEdit carries the optional fields of an update mutation. Nil means
// "leave unchanged"; an empty-string Deadline clears it.
type ActionEdit struct {
	Title    *string
	Deadline *string
}

func (e ActionEdit) Fields() map[string]any {
	out := map[string]any{}
	if e.Title != nil {
		out["title"] = *e.Title
	}
	if e.Deadline != nil {
		out["deadline"] = *e.Deadline
	}
	return out
}

func UpdateAction(db *store.DB, id string, edit ActionEdit) (Pending, error) {
	it, initID, ok := db.FindAction(id)
	if !ok {
		return Pending{}, NotFoundError{Kind: "action item", ID: id}
	}
	if edit.Title == nil && edit.Deadline == nil {
		return Pending{}, nil
	}
	if edit.Title != nil && strings.TrimSpace(*edit.Title) == "" {
		return Pending{}, ErrTitleRequired
	}

	before := store.CloneActions(db.ActionsByInitiative[initID])

	if edit.Title != nil {
		it.Title = strings.TrimSpace(*edit.Title)
	}
	if edit.Deadline != nil {
		it.Deadline = strings.TrimSpace(*edit.Deadline)
	}

	p := newPending(db, id, func(db *store.DB) {
		db.ActionsByInitiative[initID] = before
	})
	return p, nil
}

// CreateAction appends an optimistic row under a temp id. The owning
// initiative must exist locally (foreign-key invariant). The server-assigned
// entity replaces the temp row via AdoptCreated once the write succeeds.
func CreateAction(db *store.DB, initiativeID, title, deadline string, now time.Time) (Pending, model.ActionItem, error) {
	initiativeID = strings.TrimSpace(initiativeID)
	title = strings.TrimSpace(title)
	if title == "" {
		return Pending{}, model.ActionItem{}, ErrTitleRequired
	}
	if _, ok := db.FindInitiative(initiativeID); !ok {
		return Pending{}, model.ActionItem{}, NotFoundError{Kind: "initiative", ID: initiativeID}
	}

	before := store.CloneActions(db.ActionsByInitiative[initiativeID])

	it := model.ActionItem{
		ID:           store.NewTempID(),
		InitiativeID: initiativeID,
		Title:        title,
		Status:       model.ActionPending,
		Deadline:     strings.TrimSpace(deadline),
		CreatedAt:    now,
	}
	db.ActionsByInitiative[initiativeID] = append(db.ActionsByInitiative[initiativeID], it)

	p := newPending(db, it.ID, func(db *store.DB) {
		db.ActionsByInitiative[initiativeID] = before
	})
	return p, it, nil
}

// AdoptCreated swaps a temp-id row for the server-assigned entity. A refresh
// would achieve the same; this keeps the store correct in the meantime.
func AdoptCreated(db *store.DB, tempID string, created model.ActionItem) {
	_, initID, ok := db.FindAction(tempID)
	if !ok {
		return
	}
	items := db.ActionsByInitiative[initID]
	for i := range items {
		if items[i].ID == tempID {
			items[i] = created
			break
		}
	}
	db.BumpVersion(tempID)
}

// DeleteAction removes the item optimistically; rollback reinserts the whole
// pre-delete slice so ordering is restored exactly.
func DeleteAction(db *store.DB, id string) (Pending, model.ActionItem, error) {
	it, initID, ok := db.FindAction(id)
	if !ok {
		return Pending{}, model.ActionItem{}, NotFoundError{Kind: "action item", ID: id}
	}
	removed := *it

	before := store.CloneActions(db.ActionsByInitiative[initID])

	items := db.ActionsByInitiative[initID]
	kept := items[:0]
	for _, a := range items {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	db.ActionsByInitiative[initID] = kept

	p := newPending(db, id, func(db *store.DB) {
		db.ActionsByInitiative[initID] = before
	})
	return p, removed, nil
}
