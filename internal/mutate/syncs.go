package mutate

import (
	"strings"
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/store"
)

// syncVersionKey guards the latest-sync slot; the slot is a single entity
// from the rollback guard's point of view even before a session exists.
const syncVersionKey = "latest-sync"

// SetNextSync edits the next-sync date/focus on the latest sync session and
// mirrors the change into the summary so the header updates immediately.
func SetNextSync(db *store.DB, date, focus string) (Pending, error) {
	if db.LatestSync == nil {
		return Pending{}, ErrNoSyncSession
	}

	prevSync := *db.LatestSync
	var prevSummary *model.Summary
	if db.Summary != nil {
		s := *db.Summary
		prevSummary = &s
	}

	db.LatestSync.NextSyncDate = strings.TrimSpace(date)
	db.LatestSync.NextSyncFocus = strings.TrimSpace(focus)
	if db.Summary != nil {
		db.Summary.NextSyncDate = db.LatestSync.NextSyncDate
		db.Summary.NextSyncFocus = db.LatestSync.NextSyncFocus
	}

	p := newPending(db, syncVersionKey, func(db *store.DB) {
		s := prevSync
		db.LatestSync = &s
		db.Summary = prevSummary
	})
	return p, nil
}

// RecordSync installs the drafted session as the latest one under a temp id;
// the server-assigned session replaces it via AdoptSync on success.
func RecordSync(db *store.DB, draft model.SyncSessionDraft, now time.Time) (Pending, model.SyncSession, error) {
	prev := db.LatestSync

	ss := model.SyncSession{
		ID:              store.NewTempID(),
		Date:            strings.TrimSpace(draft.Date),
		DurationMinutes: draft.DurationMinutes,
		DecisionCount:   draft.DecisionCount,
		ActionCount:     draft.ActionCount,
		NextSyncDate:    strings.TrimSpace(draft.NextSyncDate),
		NextSyncFocus:   strings.TrimSpace(draft.NextSyncFocus),
		CreatedAt:       now,
	}
	db.LatestSync = &ss

	p := newPending(db, syncVersionKey, func(db *store.DB) {
		db.LatestSync = prev
	})
	return p, ss, nil
}

func AdoptSync(db *store.DB, tempID string, created model.SyncSession) {
	if db.LatestSync == nil || db.LatestSync.ID != tempID {
		return
	}
	db.LatestSync = &created
	db.BumpVersion(syncVersionKey)
}
