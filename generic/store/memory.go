// Package store provides SnapshotStore implementations.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps encoded snapshots so a saved session cannot be changed by
// later edits to the live state.
type Memory struct {
	mu        sync.RWMutex
	snapshots [][]byte
	savedAt   []time.Time
	failWith  error
}

func NewMemory() *Memory {
	return &Memory{}
}

// FailWith makes every following call return err, simulating a full or
// unavailable medium. Pass nil to recover.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Save appends a snapshot.
func (m *Memory) Save(_ context.Context, snap generic.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.snapshots = append(m.snapshots, data)
	m.savedAt = append(m.savedAt, snap.SavedAt)
	return nil
}

// Latest decodes the newest snapshot.
func (m *Memory) Latest(_ context.Context) (*generic.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if len(m.snapshots) == 0 {
		return nil, generic.ErrNoSnapshot
	}

	var snap generic.Snapshot
	if err := json.Unmarshal(m.snapshots[len(m.snapshots)-1], &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// LatestTime reports when the newest snapshot was saved.
func (m *Memory) LatestTime(_ context.Context) (time.Time, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return time.Time{}, false, m.failWith
	}
	if len(m.savedAt) == 0 {
		return time.Time{}, false, nil
	}
	return m.savedAt[len(m.savedAt)-1], true, nil
}

// Len returns the number of saved snapshots.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshots)
}

var _ generic.SnapshotStore = (*Memory)(nil)
