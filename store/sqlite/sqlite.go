/*
Package sqlite provides a SQLite-backed SnapshotStore.

PURPOSE:
  Keeps saved sessions on the operator's machine so a month's review can
  be closed and resumed. Every save appends a row; the newest row is the
  session that Restore brings back. Older rows are kept as history.

KEY TABLES:
  session_snapshots: id, saved_at (RFC 3339), payload (JSON Snapshot)

CONCURRENCY:
  Uses sync.RWMutex plus a single pooled connection, so ":memory:"
  databases are shared by every call and writes never interleave.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging) and a busy
  timeout, the same as the other local SQLite tools.

USAGE:
  store, err := sqlite.New("./bonus.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  state, err = session.Save(ctx, store, state, time.Now())

SEE ALSO:
  - generic/store.go: SnapshotStore
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/bonus-engine/generic"
)

// Store implements generic.SnapshotStore using SQLite.
type Store struct {
	db *sqlx.DB
	mu sync.RWMutex
}

// Compile-time check that Store implements generic.SnapshotStore
var _ generic.SnapshotStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		saved_at TEXT NOT NULL,
		payload TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

type snapshotRow struct {
	ID      int64  `db:"id"`
	SavedAt string `db:"saved_at"`
	Payload string `db:"payload"`
}

// Save appends a snapshot.
func (s *Store) Save(ctx context.Context, snap generic.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO session_snapshots (saved_at, payload)
		VALUES (:saved_at, :payload)
	`, snapshotRow{
		SavedAt: snap.SavedAt.UTC().Format(time.RFC3339Nano),
		Payload: string(payload),
	})
	return err
}

// Latest returns the newest snapshot.
func (s *Store) Latest(ctx context.Context) (*generic.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row snapshotRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, saved_at, payload FROM session_snapshots
		ORDER BY id DESC LIMIT 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}

	var snap generic.Snapshot
	if err := json.Unmarshal([]byte(row.Payload), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %d: %w", row.ID, err)
	}
	return &snap, nil
}

// LatestTime returns when the newest snapshot was saved.
func (s *Store) LatestTime(ctx context.Context) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var savedAt string
	err := s.db.GetContext(ctx, &savedAt, `
		SELECT saved_at FROM session_snapshots ORDER BY id DESC LIMIT 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse saved_at %q: %w", savedAt, err)
	}
	return t, true, nil
}

// Count returns the number of saved snapshots.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM session_snapshots`)
	return n, err
}
