package tui

import (
	"cadence-cli/internal/mutate"
	"cadence-cli/internal/refresh"
	"cadence-cli/internal/store"
)

type view int

const (
	viewDashboard view = iota
	viewPlanning
	viewCalendar
	viewDecisions
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAddAction
	modalDecide
	modalNextSync
)

// refreshDoneMsg carries a finished fetch batch back onto the event loop.
// Staleness is decided by refresh.Apply against the batch's sequence number,
// not here; a late batch for an old month selection simply gets dropped.
type refreshDoneMsg struct {
	batch refresh.Batch
}

// writeDoneMsg is the completion of one remote write. The optimistic apply
// already happened on the event loop before the command was issued; on
// failure Update rolls the store back through the pending token.
type writeDoneMsg struct {
	notice  string
	pending mutate.Pending
	err     error
	// adopt swaps a temp-id row for the server-assigned entity (create flows).
	// Runs on the event loop, only on success.
	adopt func(*store.DB)
}

type noticeExpireMsg struct{ seq int }
