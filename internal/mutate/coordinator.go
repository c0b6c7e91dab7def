package mutate

import (
	"context"
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/store"
)

// Remote is the write surface of the collaborator, satisfied by *api.Client.
type Remote interface {
	ToggleActionItem(ctx context.Context, id string) error
	UpdateActionItem(ctx context.Context, id string, fields map[string]any) error
	CreateActionItem(ctx context.Context, initiativeID, title, deadline string) (model.ActionItem, error)
	DeleteActionItem(ctx context.Context, id string) error
	DecideDecision(ctx context.Context, id, text string) error
	DeferDecision(ctx context.Context, id string) error
	SetInitiativePriority(ctx context.Context, id string, p model.Priority) error
	RecordSyncSession(ctx context.Context, draft model.SyncSessionDraft) (model.SyncSession, error)
	UpdateNextSync(ctx context.Context, id, date, focus string) error
}

// Coordinator runs the full optimistic protocol for synchronous callers
// (CLI commands, tests): apply locally, issue the remote write, roll back
// and wrap the error in a user notice on failure.
//
// The TUI uses the same verbs but splits apply and remote call across its
// event loop so the apply stays on the UI thread; see internal/tui.
type Coordinator struct {
	DB     *store.DB
	Remote Remote

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (c *Coordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// finish applies the rollback-on-failure half of the protocol.
func (c *Coordinator) finish(p Pending, notice string, err error) error {
	if err == nil {
		return nil
	}
	p.Rollback(c.DB)
	return &NoticeError{Notice: notice, Err: err}
}

func (c *Coordinator) ToggleAction(ctx context.Context, id string) (*model.ActionItem, error) {
	p, it, err := ToggleAction(c.DB, id, c.now())
	if err != nil {
		return nil, err
	}
	if err := c.finish(p, "Failed to toggle action item", c.Remote.ToggleActionItem(ctx, id)); err != nil {
		return nil, err
	}
	return it, nil
}

func (c *Coordinator) EditAction(ctx context.Context, id string, edit ActionEdit) error {
	p, err := UpdateAction(c.DB, id, edit)
	if err != nil {
		return err
	}
	if !p.Applied() {
		return nil
	}
	return c.finish(p, "Failed to update action item", c.Remote.UpdateActionItem(ctx, id, edit.Fields()))
}

// CreateAction returns the server-assigned entity. The optimistic temp row is
// swapped for it on success; callers typically still trigger a refresh.
func (c *Coordinator) CreateAction(ctx context.Context, initiativeID, title, deadline string) (model.ActionItem, error) {
	p, tmp, err := CreateAction(c.DB, initiativeID, title, deadline, c.now())
	if err != nil {
		return model.ActionItem{}, err
	}
	created, callErr := c.Remote.CreateActionItem(ctx, initiativeID, title, deadline)
	if err := c.finish(p, "Failed to create action item", callErr); err != nil {
		return model.ActionItem{}, err
	}
	AdoptCreated(c.DB, tmp.ID, created)
	return created, nil
}

func (c *Coordinator) DeleteAction(ctx context.Context, id string) error {
	p, _, err := DeleteAction(c.DB, id)
	if err != nil {
		return err
	}
	return c.finish(p, "Failed to delete action item", c.Remote.DeleteActionItem(ctx, id))
}

func (c *Coordinator) Decide(ctx context.Context, id, text string) error {
	p, err := Decide(c.DB, id, text, c.now())
	if err != nil {
		return err
	}
	return c.finish(p, "Failed to record decision", c.Remote.DecideDecision(ctx, id, text))
}

func (c *Coordinator) Defer(ctx context.Context, id string) error {
	p, err := Defer(c.DB, id)
	if err != nil {
		return err
	}
	return c.finish(p, "Failed to defer decision", c.Remote.DeferDecision(ctx, id))
}

func (c *Coordinator) Resolve(ctx context.Context, id string) error {
	p, err := ResolveInitiative(c.DB, id)
	if err != nil {
		return err
	}
	if !p.Applied() {
		return nil
	}
	return c.finish(p, "Failed to resolve initiative", c.Remote.SetInitiativePriority(ctx, id, model.PriorityResolved))
}

func (c *Coordinator) Restore(ctx context.Context, id string) error {
	p, err := RestoreInitiative(c.DB, id)
	if err != nil {
		return err
	}
	if !p.Applied() {
		return nil
	}
	return c.finish(p, "Failed to restore initiative", c.Remote.SetInitiativePriority(ctx, id, model.PriorityStrategic))
}

func (c *Coordinator) RecordSync(ctx context.Context, draft model.SyncSessionDraft) (model.SyncSession, error) {
	p, tmp, err := RecordSync(c.DB, draft, c.now())
	if err != nil {
		return model.SyncSession{}, err
	}
	created, callErr := c.Remote.RecordSyncSession(ctx, draft)
	if err := c.finish(p, "Failed to record sync session", callErr); err != nil {
		return model.SyncSession{}, err
	}
	AdoptSync(c.DB, tmp.ID, created)
	return created, nil
}

func (c *Coordinator) SetNextSync(ctx context.Context, date, focus string) error {
	if c.DB.LatestSync == nil {
		return ErrNoSyncSession
	}
	id := c.DB.LatestSync.ID
	p, err := SetNextSync(c.DB, date, focus)
	if err != nil {
		return err
	}
	return c.finish(p, "Failed to update next sync", c.Remote.UpdateNextSync(ctx, id, date, focus))
}
