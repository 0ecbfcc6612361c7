package session

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// SAVE / RESTORE
// =============================================================================

// Save writes the session to store. Only a classified session can be
// saved. s is never modified; the returned State carries the new SavedAt.
func Save(ctx context.Context, store generic.SnapshotStore, s State, now time.Time) (State, error) {
	if !s.HasData() {
		return s, &generic.ValidationError{Reason: "nothing to save: no classified sales batch"}
	}
	snap := ToSnapshot(s)
	snap.SavedAt = now
	if err := store.Save(ctx, snap); err != nil {
		return s, &generic.PersistenceError{Op: "save", Err: err}
	}
	c := s.clone()
	c.SavedAt = now
	return c, nil
}

// Restore replaces s with the newest saved session. A session holding a
// batch is only replaced with confirmDiscard.
func Restore(ctx context.Context, store generic.SnapshotStore, s State, confirmDiscard bool) (State, error) {
	if s.HasData() && !confirmDiscard {
		return s, generic.ErrConfirmationRequired
	}
	snap, err := store.Latest(ctx)
	if errors.Is(err, generic.ErrNoSnapshot) {
		return s, err
	}
	if err != nil {
		return s, &generic.PersistenceError{Op: "load", Err: err}
	}
	return FromSnapshot(*snap), nil
}

// =============================================================================
// CONVERSION
// =============================================================================

// ToSnapshot copies the persistent part of s. A pending batch is not
// persisted.
func ToSnapshot(s State) generic.Snapshot {
	selected := make([]string, 0, len(s.Selected))
	for p, on := range s.SelectedPersons() {
		if on {
			selected = append(selected, p)
		}
	}
	sort.Strings(selected)

	bundles := make(map[string]*generic.PersonBundle, len(s.Bundles))
	for p, b := range s.Bundles {
		bundles[p] = b.Clone()
	}
	roles := make(map[string]generic.Role, len(s.Roles))
	for p, r := range s.Roles {
		roles[p] = r
	}

	return generic.Snapshot{
		ReferenceItems: s.ReferenceItems,
		RewardRules:    s.RewardRules,
		Batch:          s.Batch,
		Bundles:        bundles,
		ActivePerson:   s.ActivePerson,
		Selected:       selected,
		Roles:          roles,
		SavedAt:        s.SavedAt,
	}
}

// FromSnapshot rebuilds a classified State. Selections naming a person
// without a bundle are dropped, and an active person that vanished falls
// back to nobody.
func FromSnapshot(snap generic.Snapshot) State {
	s := State{
		ReferenceItems: snap.ReferenceItems,
		RewardRules:    snap.RewardRules,
		Batch:          snap.Batch,
		Bundles:        make(map[string]*generic.PersonBundle, len(snap.Bundles)),
		Selected:       make(map[string]bool, len(snap.Selected)),
		Roles:          make(map[string]generic.Role, len(snap.Roles)),
		SavedAt:        snap.SavedAt,
	}
	for p, b := range snap.Bundles {
		if b != nil {
			s.Bundles[p] = b
		}
	}
	for _, p := range snap.Selected {
		if _, ok := s.Bundles[p]; ok {
			s.Selected[p] = true
		}
	}
	for p, r := range snap.Roles {
		s.Roles[p] = r
	}
	if _, ok := s.Bundles[snap.ActivePerson]; ok {
		s.ActivePerson = snap.ActivePerson
	}
	return s
}
