/*
Package session holds the operator's working state and every operation on it.

PURPOSE:
  One operator imports reference lists and a monthly sales batch, assigns
  a role to each staff member, reviews and edits the computed tables, then
  saves or exports. This package is that workflow as explicit state
  transitions: every operation takes a State and returns the next State.
  The input State is never mutated, so a refused operation (missing
  confirmation, validation failure) simply returns the old value.

STATE MACHINE:
  IDLE ──ImportSales──▶ PENDING_CLASSIFICATION ──ConfirmClassification──▶ CLASSIFIED
                               │                                              │
                               └──CancelClassification──▶ (previous phase)    │
  CLASSIFIED ──ImportSales(confirm)──▶ PENDING_CLASSIFICATION ◀───────────────┘

FILES:
  state.go:     State and copy helpers
  engine.go:    Engine (processors) and bundle construction
  workflow.go:  Reference import, sales import, classification
  order.go:     Person display order, selection
  edit.go:      Row edits with immediate recalculation
  persist.go:   Save / restore through a SnapshotStore

SEE ALSO:
  - generic/: Data model and stage builders
  - api/: Console over one State
*/
package session

import (
	"time"

	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// STATE
// =============================================================================

type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhasePending    Phase = "PENDING_CLASSIFICATION"
	PhaseClassified Phase = "CLASSIFIED"
)

// State is the whole working state of one operator session.
type State struct {
	ReferenceItems []generic.ReferenceItem
	RewardRules    []generic.RewardRule

	// Batch is the committed raw sales batch; Stage1Row.RawIndex points
	// into it. Pending is the batch awaiting role assignment.
	Batch   []generic.Record
	Pending []generic.Record

	Bundles      map[string]*generic.PersonBundle
	ActivePerson string
	Selected     map[string]bool
	Roles        map[string]generic.Role

	// SavedAt is the time of the last successful save or restore.
	SavedAt time.Time
}

// Phase derives the workflow phase.
func (s State) Phase() Phase {
	switch {
	case s.Pending != nil:
		return PhasePending
	case len(s.Batch) > 0:
		return PhaseClassified
	default:
		return PhaseIdle
	}
}

// HasData reports whether replacing the state would discard work.
func (s State) HasData() bool {
	return len(s.Batch) > 0
}

// Bundle returns a person's bundle.
func (s State) Bundle(person string) (*generic.PersonBundle, bool) {
	b, ok := s.Bundles[person]
	return b, ok
}

// Reference indexes the current reference lists.
func (s State) Reference() *generic.ReferenceData {
	return generic.NewReferenceData(s.ReferenceItems, s.RewardRules)
}

// SelectedPersons returns the selected persons that still have a bundle.
func (s State) SelectedPersons() map[string]bool {
	out := make(map[string]bool, len(s.Selected))
	for p, on := range s.Selected {
		if _, ok := s.Bundles[p]; on && ok {
			out[p] = true
		}
	}
	return out
}

// =============================================================================
// COPY HELPERS
// =============================================================================

// clone copies the maps of s; slices are shared because they are only
// ever replaced, never written in place.
func (s State) clone() State {
	c := s
	c.Bundles = make(map[string]*generic.PersonBundle, len(s.Bundles))
	for k, v := range s.Bundles {
		c.Bundles[k] = v
	}
	c.Selected = make(map[string]bool, len(s.Selected))
	for k, v := range s.Selected {
		c.Selected[k] = v
	}
	c.Roles = make(map[string]generic.Role, len(s.Roles))
	for k, v := range s.Roles {
		c.Roles[k] = v
	}
	return c
}

// withBundle returns a copy of s in which person's bundle is replaced by
// the result of fn on a private copy. ok is false when person is unknown.
func (s State) withBundle(person string, fn func(b *generic.PersonBundle) bool) (State, bool) {
	b, ok := s.Bundles[person]
	if !ok {
		return s, false
	}
	nb := b.Clone()
	if !fn(nb) {
		return s, false
	}
	c := s.clone()
	c.Bundles[person] = nb
	return c, true
}
