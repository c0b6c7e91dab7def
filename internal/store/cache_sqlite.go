package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cadence-cli/internal/model"

	_ "modernc.org/sqlite"
)

// Cache persists the last successfully refreshed snapshot so the TUI can
// paint immediately on startup (and the CLI can degrade when the
// collaborator is unreachable). It is a cache of remote state, not a data
// model of its own: writes are replace-all, reads rebuild a DB wholesale.
type Cache struct {
	Dir string
}

const cacheFileName = "snapshot.sqlite"

func (c Cache) path() string {
	return filepath.Join(c.Dir, cacheFileName)
}

func (c Cache) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", c.path())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a CLI run races the TUI.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateCache(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateCache(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cache_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS initiatives (
			id TEXT PRIMARY KEY,
			priority TEXT NOT NULL,
			archived INTEGER NOT NULL,
			deadline TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_initiatives_priority ON initiatives(priority);`,
		`CREATE TABLE IF NOT EXISTS action_items (
			id TEXT PRIMARY KEY,
			initiative_id TEXT NOT NULL,
			status TEXT NOT NULL,
			deadline TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_initiative ON action_items(initiative_id);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_deadline ON action_items(deadline);`,
		`CREATE TABLE IF NOT EXISTS decisions (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS key_dates (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_key_dates_date ON key_dates(date);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the cached snapshot with db's current entity state.
// Replace-all in one transaction: simple, and the snapshot is small.
func (c Cache) Save(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range []string{"initiatives", "action_items", "decisions", "key_dates"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	putMeta := func(k, v string) error {
		_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO cache_meta(k, v) VALUES(?, ?)`, k, v)
		return err
	}
	summaryJSON := ""
	if st.Summary != nil {
		b, _ := json.Marshal(st.Summary)
		summaryJSON = string(b)
	}
	if err := putMeta("summary_json", summaryJSON); err != nil {
		return err
	}
	syncJSON := ""
	if st.LatestSync != nil {
		b, _ := json.Marshal(st.LatestSync)
		syncJSON = string(b)
	}
	if err := putMeta("latest_sync_json", syncJSON); err != nil {
		return err
	}
	if err := putMeta("saved_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	for _, in := range st.Initiatives {
		raw, _ := json.Marshal(in)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO initiatives(id, priority, archived, deadline, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			in.ID, string(in.Priority), boolToInt(in.IsArchived), strings.TrimSpace(in.Deadline), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, a := range st.AllActions() {
		// Optimistically created rows with temp ids are deliberately not
		// cached; they only exist until the next refresh.
		if IsTempID(a.ID) {
			continue
		}
		raw, _ := json.Marshal(a)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO action_items(id, initiative_id, status, deadline, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			a.ID, a.InitiativeID, string(a.Status), strings.TrimSpace(a.Deadline), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, d := range st.Decisions {
		raw, _ := json.Marshal(d)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO decisions(id, status, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			d.ID, string(d.Status), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, k := range st.KeyDates {
		raw, _ := json.Marshal(k)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO key_dates(id, date, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			k.ID, strings.TrimSpace(k.Date), string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load rebuilds a DB from the cached snapshot. Returns (nil, nil) when no
// snapshot has been saved yet.
func (c Cache) Load(ctx context.Context) (*DB, error) {
	if _, err := os.Stat(c.path()); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := NewDB()

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM cache_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if s := readMeta("summary_json"); s != "" {
		var sum model.Summary
		if err := json.Unmarshal([]byte(s), &sum); err == nil {
			out.Summary = &sum
		}
	}
	if s := readMeta("latest_sync_json"); s != "" {
		var ss model.SyncSession
		if err := json.Unmarshal([]byte(s), &ss); err == nil {
			out.LatestSync = &ss
		}
	}

	inits, err := readJSONRows[model.Initiative](ctx, db, `SELECT json FROM initiatives`)
	if err != nil {
		return nil, err
	}
	out.Initiatives = inits

	actions, err := readJSONRows[model.ActionItem](ctx, db, `SELECT json FROM action_items`)
	if err != nil {
		return nil, err
	}
	out.ActionsByInitiative = GroupActions(actions)

	decisions, err := readJSONRows[model.Decision](ctx, db, `SELECT json FROM decisions`)
	if err != nil {
		return nil, err
	}
	out.Decisions = decisions

	keyDates, err := readJSONRows[model.KeyDate](ctx, db, `SELECT json FROM key_dates`)
	if err != nil {
		return nil, err
	}
	out.KeyDates = keyDates

	return out, nil
}

// SavedAt returns when the snapshot was last written (zero time when never).
func (c Cache) SavedAt(ctx context.Context) (time.Time, error) {
	if _, err := os.Stat(c.path()); errors.Is(err, os.ErrNotExist) {
		return time.Time{}, nil
	}
	db, err := c.open(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer db.Close()

	var v string
	_ = db.QueryRowContext(ctx, `SELECT v FROM cache_meta WHERE k = ?`, "saved_at").Scan(&v)
	if strings.TrimSpace(v) == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, strings.TrimSpace(v))
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
