package mutate

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"cadence-cli/internal/model"
)

// fakeRemote records calls and fails on demand.
type fakeRemote struct {
	fail  error
	calls []string

	createResult model.ActionItem
	syncResult   model.SyncSession
}

func (f *fakeRemote) call(name string) error {
	f.calls = append(f.calls, name)
	return f.fail
}

func (f *fakeRemote) ToggleActionItem(ctx context.Context, id string) error {
	return f.call("toggle " + id)
}
func (f *fakeRemote) UpdateActionItem(ctx context.Context, id string, fields map[string]any) error {
	return f.call("update " + id)
}
func (f *fakeRemote) CreateActionItem(ctx context.Context, initiativeID, title, deadline string) (model.ActionItem, error) {
	return f.createResult, f.call("create " + initiativeID)
}
func (f *fakeRemote) DeleteActionItem(ctx context.Context, id string) error {
	return f.call("delete " + id)
}
func (f *fakeRemote) DecideDecision(ctx context.Context, id, text string) error {
	return f.call("decide " + id)
}
func (f *fakeRemote) DeferDecision(ctx context.Context, id string) error {
	return f.call("defer " + id)
}
func (f *fakeRemote) SetInitiativePriority(ctx context.Context, id string, p model.Priority) error {
	return f.call("priority " + id + " " + string(p))
}
func (f *fakeRemote) RecordSyncSession(ctx context.Context, draft model.SyncSessionDraft) (model.SyncSession, error) {
	return f.syncResult, f.call("record-sync")
}
func (f *fakeRemote) UpdateNextSync(ctx context.Context, id, date, focus string) error {
	return f.call("next-sync " + id)
}

func newTestCoordinator(remote Remote) *Coordinator {
	return &Coordinator{DB: testDB(), Remote: remote}
}

func TestCoordinatorRollsBackOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{fail: errors.New("boom")}
	c := newTestCoordinator(remote)
	before := c.DB.Clone()

	_, err := c.ToggleAction(context.Background(), "a1")
	if err == nil {
		t.Fatalf("expected error")
	}
	var ne *NoticeError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NoticeError, got %T", err)
	}
	if ne.Notice != "Failed to toggle action item" {
		t.Fatalf("unexpected notice %q", ne.Notice)
	}
	if !reflect.DeepEqual(c.DB.ActionsByInitiative, before.ActionsByInitiative) {
		t.Fatalf("failed write must leave the store as it was")
	}
}

func TestCoordinatorKeepsApplyOnSuccess(t *testing.T) {
	remote := &fakeRemote{}
	c := newTestCoordinator(remote)

	it, err := c.ToggleAction(context.Background(), "a1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !it.Done() {
		t.Fatalf("expected done after toggle")
	}
	if len(remote.calls) != 1 || remote.calls[0] != "toggle a1" {
		t.Fatalf("unexpected remote calls %v", remote.calls)
	}
}

func TestCoordinatorCreateAdoptsServerEntity(t *testing.T) {
	remote := &fakeRemote{createResult: model.ActionItem{ID: "a9", InitiativeID: "init-1", Title: "Ship it"}}
	c := newTestCoordinator(remote)

	created, err := c.CreateAction(context.Background(), "init-1", "Ship it", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "a9" {
		t.Fatalf("expected server id, got %s", created.ID)
	}
	if _, _, ok := c.DB.FindAction("a9"); !ok {
		t.Fatalf("server entity must be in the store")
	}
	for _, items := range c.DB.ActionsByInitiative {
		for _, it := range items {
			if it.ID != "a9" && it.Title == "Ship it" {
				t.Fatalf("temp row still present: %+v", it)
			}
		}
	}
}

func TestCoordinatorCreateFailureRemovesTempRow(t *testing.T) {
	remote := &fakeRemote{fail: errors.New("boom")}
	c := newTestCoordinator(remote)
	before := c.DB.Clone()

	if _, err := c.CreateAction(context.Background(), "init-1", "Ship it", ""); err == nil {
		t.Fatalf("expected error")
	}
	if !reflect.DeepEqual(c.DB.ActionsByInitiative, before.ActionsByInitiative) {
		t.Fatalf("failed create must remove the optimistic row")
	}
}

func TestCoordinatorLocalValidationSkipsRemote(t *testing.T) {
	remote := &fakeRemote{}
	c := newTestCoordinator(remote)

	if _, err := c.CreateAction(context.Background(), "init-1", "   ", ""); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if len(remote.calls) != 0 {
		t.Fatalf("local validation failures must not reach the remote: %v", remote.calls)
	}
}

func TestCoordinatorNoopSkipsRemote(t *testing.T) {
	remote := &fakeRemote{}
	c := newTestCoordinator(remote)
	in, _ := c.DB.FindInitiative("init-1")
	in.Priority = model.PriorityResolved

	if err := c.Resolve(context.Background(), "init-1"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(remote.calls) != 0 {
		t.Fatalf("no-op resolve must not reach the remote: %v", remote.calls)
	}
}

func TestUserNotice(t *testing.T) {
	if got := UserNotice(&NoticeError{Notice: "Failed to defer decision", Err: errors.New("x")}); got != "Failed to defer decision" {
		t.Fatalf("unexpected notice %q", got)
	}
	if got := UserNotice(errors.New("raw")); got != "Network error — changes reverted" {
		t.Fatalf("unexpected fallback %q", got)
	}
	if got := UserNotice(nil); got != "" {
		t.Fatalf("nil error should yield empty notice, got %q", got)
	}
}
