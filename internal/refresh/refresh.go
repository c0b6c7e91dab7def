// Package refresh orchestrates the batched multi-endpoint fetch that
// (re)populates the entity store, keyed by the visible calendar month.
package refresh

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/store"
)

// Source is the read surface of the collaborator, satisfied by *api.Client.
type Source interface {
	Summary(ctx context.Context) (model.Summary, error)
	Initiatives(ctx context.Context) ([]model.Initiative, error)
	OpenDecisions(ctx context.Context) ([]model.Decision, error)
	KeyDates(ctx context.Context, from, to string) ([]model.KeyDate, error)
	ActionItems(ctx context.Context) ([]model.ActionItem, error)
	LatestSync(ctx context.Context) (*model.SyncSession, error)
}

// Controller issues refreshes and stamps each with a monotonic sequence
// number so that a stale batch resolving late can be recognized and dropped
// instead of overwriting newer state.
type Controller struct {
	Source Source
	seq    uint64
}

// Batch is the outcome of one refresh. Slices whose fetch failed have their
// Ok flag unset and leave the corresponding store slice untouched; the
// failures are surfaced once, via Err, not per call.
type Batch struct {
	Seq   uint64
	Year  int
	Month time.Month

	Summary   model.Summary
	OkSummary bool

	Initiatives   []model.Initiative
	OkInitiatives bool

	Decisions   []model.Decision
	OkDecisions bool

	KeyDates   []model.KeyDate
	OkKeyDates bool

	// Actions is the flat bulk list; grouping by initiative id happens in
	// Apply (one bulk read instead of one read per initiative).
	Actions   []model.ActionItem
	OkActions bool

	LatestSync   *model.SyncSession
	OkLatestSync bool

	failed []string
}

// NextSeq reserves the sequence number for an upcoming fetch. The TUI calls
// this on the event-loop thread before handing the fetch to a background
// command, so numbering follows issue order, not completion order.
func (c *Controller) NextSeq() uint64 {
	c.seq++
	return c.seq
}

// Fetch runs the six reads for the given visible month. Individual failures
// degrade gracefully: the batch still carries every slice that succeeded.
func (c *Controller) Fetch(ctx context.Context, year int, month time.Month) Batch {
	return c.FetchSeq(ctx, c.NextSeq(), year, month)
}

// FetchSeq is Fetch with a pre-reserved sequence number (see NextSeq).
func (c *Controller) FetchSeq(ctx context.Context, seq uint64, year int, month time.Month) Batch {
	b := Batch{Seq: seq, Year: year, Month: month}
	from, to := MonthWindow(year, month)

	if v, err := c.Source.Summary(ctx); err == nil {
		b.Summary, b.OkSummary = v, true
	} else {
		b.failed = append(b.failed, "summary")
	}
	if v, err := c.Source.Initiatives(ctx); err == nil {
		b.Initiatives, b.OkInitiatives = v, true
	} else {
		b.failed = append(b.failed, "initiatives")
	}
	if v, err := c.Source.OpenDecisions(ctx); err == nil {
		b.Decisions, b.OkDecisions = v, true
	} else {
		b.failed = append(b.failed, "decisions")
	}
	if v, err := c.Source.KeyDates(ctx, from, to); err == nil {
		b.KeyDates, b.OkKeyDates = v, true
	} else {
		b.failed = append(b.failed, "key dates")
	}
	if v, err := c.Source.ActionItems(ctx); err == nil {
		b.Actions, b.OkActions = v, true
	} else {
		b.failed = append(b.failed, "action items")
	}
	if v, err := c.Source.LatestSync(ctx); err == nil {
		b.LatestSync, b.OkLatestSync = v, true
	} else {
		b.failed = append(b.failed, "sync sessions")
	}

	return b
}

// Err aggregates the batch's failures into a single error (nil when every
// call succeeded). One notice per refresh, not one per failed call.
func (b Batch) Err() error {
	if len(b.failed) == 0 {
		return nil
	}
	return fmt.Errorf("refresh incomplete: %s not updated", strings.Join(b.failed, ", "))
}

// Complete reports whether every slice fetched successfully.
func (b Batch) Complete() bool { return len(b.failed) == 0 }

// Apply replaces the store's contents with the batch's successful slices.
// Batches at or below the newest applied sequence number are dropped
// (returns false): a stale refresh resolving late must not overwrite state
// fetched for a newer month selection.
func Apply(db *store.DB, b Batch) bool {
	if b.Seq <= db.LastRefreshSeq {
		return false
	}
	db.LastRefreshSeq = b.Seq

	if b.OkSummary {
		s := b.Summary
		db.Summary = &s
	}
	if b.OkInitiatives {
		db.Initiatives = b.Initiatives
	}
	if b.OkDecisions {
		db.Decisions = b.Decisions
	}
	if b.OkKeyDates {
		db.KeyDates = b.KeyDates
	}
	if b.OkActions {
		db.ActionsByInitiative = store.GroupActions(b.Actions)
	}
	if b.OkLatestSync {
		db.LatestSync = b.LatestSync
	}

	// Outstanding rollback tokens must never clobber refreshed state.
	db.InvalidateTokens()
	return true
}

// MonthWindow returns the inclusive ISO date range covering a calendar month.
func MonthWindow(year int, month time.Month) (from, to string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}
