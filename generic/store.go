/*
store.go - Persistence interface for session snapshots

PURPOSE:
  Defines the interface between the session and whatever medium keeps a
  saved session. A snapshot is the whole working state of one operator:
  reference lists, the raw batch, every bundle with its manual edits,
  selection and role assignment.

KEY INTERFACES:
  SnapshotStore: Save a snapshot, read back the newest one

SAVE SEMANTICS:
  Saves are whole-state and append-only; the newest snapshot wins on
  load. There is no partial update, so a failed save never leaves a half
  written session behind.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite file (production)
  - generic/store/memory.go: In-memory for testing

EXAMPLE:
  store, _ := sqlite.New("./bonus.db")
  if err := store.Save(ctx, snap); err != nil {
      // report, keep working
  }

SEE ALSO:
  - session/persist.go: Save/Restore guards around this interface
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a serializable copy of a session.
type Snapshot struct {
	ReferenceItems []ReferenceItem          `json:"referenceItems"`
	RewardRules    []RewardRule             `json:"rewardRules"`
	Batch          []Record                 `json:"batch"`
	Bundles        map[string]*PersonBundle `json:"bundles"`
	ActivePerson   string                   `json:"activePerson"`
	Selected       []string                 `json:"selected"`
	Roles          map[string]Role          `json:"roles"`
	SavedAt        time.Time                `json:"savedAt"`
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

// SnapshotStore persists session snapshots.
type SnapshotStore interface {
	// Save persists a snapshot.
	Save(ctx context.Context, snap Snapshot) error

	// Latest returns the newest snapshot, or ErrNoSnapshot.
	Latest(ctx context.Context) (*Snapshot, error)

	// LatestTime returns when the newest snapshot was saved.
	// ok is false when nothing was saved yet.
	LatestTime(ctx context.Context) (t time.Time, ok bool, err error)
}
