package model

import "time"

type Priority string

const (
	PriorityCritical  Priority = "critical"
	PriorityHigh      Priority = "high"
	PriorityStrategic Priority = "strategic"
	PriorityNormal    Priority = "normal"
	PriorityResolved  Priority = "resolved"
)

// Initiative is a tracked strategic effort.
//
// Completion is signalled two ways: Priority == resolved and IsArchived.
// The two flags are settable independently (resolve/restore never touches
// IsArchived) and can disagree; see views.CompletionDivergence.
type Initiative struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Function    string    `json:"function,omitempty"`
	Priority    Priority  `json:"priority"`
	Owner       string    `json:"owner,omitempty"`
	StatusLabel string    `json:"status_label,omitempty"`
	Deadline    string    `json:"deadline,omitempty"` // YYYY-MM-DD
	IsArchived  bool      `json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsActive reports whether the initiative is still being worked:
// not resolved and not archived.
func (i Initiative) IsActive() bool {
	return i.Priority != PriorityResolved && !i.IsArchived
}

type ActionStatus string

const (
	ActionPending    ActionStatus = "pending"
	ActionInProgress ActionStatus = "in_progress"
	ActionDone       ActionStatus = "done"
)

// ActionItem belongs to exactly one initiative.
// CompletedAt is non-nil iff Status == done.
type ActionItem struct {
	ID           string       `json:"id"`
	InitiativeID string       `json:"initiative_id"`
	Title        string       `json:"title"`
	Status       ActionStatus `json:"status"`
	Deadline     string       `json:"deadline,omitempty"` // YYYY-MM-DD
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (a ActionItem) Done() bool { return a.Status == ActionDone }

type DecisionStatus string

const (
	DecisionOpen    DecisionStatus = "open"
	DecisionDecided DecisionStatus = "decided"
)

// Decision is an open question awaiting a recorded resolution. Deferring a
// decision removes it from the locally visible open set; there is no client-
// side "deferred" terminal state (it reappears, unchanged, on a later refresh).
type Decision struct {
	ID           string         `json:"id"`
	Question     string         `json:"question"`
	Status       DecisionStatus `json:"status"`
	DecisionText string         `json:"decision_text,omitempty"` // set only when decided
	CreatedAt    time.Time      `json:"created_at"`
	DecidedAt    *time.Time     `json:"decided_at,omitempty"`
}

type RecurrenceFreq string

const (
	RecurWeekly  RecurrenceFreq = "weekly"
	RecurMonthly RecurrenceFreq = "monthly"
)

// Recurrence is an explicit tagged rule (not inferred from loose fields) so
// that expansion is exhaustive per variant.
type Recurrence struct {
	Freq  RecurrenceFreq `json:"freq"`
	Until string         `json:"until,omitempty"` // YYYY-MM-DD, inclusive
}

// KeyDate is a calendar-significant date. With a Recurrence it is a template;
// the expander materializes occurrences inside a display window. Occurrences
// are derived, never persisted.
type KeyDate struct {
	ID         string      `json:"id"`
	Date       string      `json:"date"` // YYYY-MM-DD; anchor when recurring
	Title      string      `json:"title"`
	Emoji      string      `json:"emoji,omitempty"`
	Highlight  bool        `json:"highlight"`
	Critical   bool        `json:"critical"`
	Recurrence *Recurrence `json:"recurrence,omitempty"`
}

// Summary is recomputed server-side and fetched; the client never derives it.
type Summary struct {
	ActiveCount   int    `json:"active_count"`
	OnTrackPct    int    `json:"on_track_pct"`
	NextSyncDate  string `json:"next_sync_date,omitempty"`
	NextSyncFocus string `json:"next_sync_focus,omitempty"`
	DaysUntilSync int    `json:"days_until_sync"`
}

type SyncSession struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"` // YYYY-MM-DD
	DurationMinutes int       `json:"duration_minutes"`
	DecisionCount   int       `json:"decision_count"`
	ActionCount     int       `json:"action_count"`
	NextSyncDate    string    `json:"next_sync_date,omitempty"`
	NextSyncFocus   string    `json:"next_sync_focus,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// SyncSessionDraft is the client-side shape for recording a completed sync
// meeting before the server assigns an identity.
type SyncSessionDraft struct {
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
	DecisionCount   int    `json:"decision_count"`
	ActionCount     int    `json:"action_count"`
	NextSyncDate    string `json:"next_sync_date,omitempty"`
	NextSyncFocus   string `json:"next_sync_focus,omitempty"`
}
