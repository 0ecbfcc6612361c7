package session

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// ROW EDITS
// =============================================================================
//
// A row id that no longer exists (the table was rebuilt underneath a stale
// screen) is not an error: the edit is dropped and the state returned as
// is. Invalid input values are errors.

// SetStage1Status changes a stage 1 row's status and recalculates its
// points through the person's processor.
func (e *Engine) SetStage1Status(s State, person, rowID string, status generic.Status) (State, error) {
	if !status.Valid() {
		return s, &generic.ValidationError{Reason: fmt.Sprintf("unknown status %q", status)}
	}
	next, _ := e.editStage1(s, person, rowID, status)
	return next, nil
}

func (e *Engine) editStage1(s State, person, rowID string, status generic.Status) (State, error) {
	b, ok := s.Bundles[person]
	if !ok {
		return s, fmt.Errorf("person %q: %w", person, generic.ErrStaleReference)
	}
	// Only eligible roles ever get a bundle.
	p := e.processors.MustLookup(b.Role)

	next, ok := s.withBundle(person, func(nb *generic.PersonBundle) bool {
		for i := range nb.Stage1 {
			if nb.Stage1[i].ID != rowID {
				continue
			}
			nb.Stage1[i].Status = status
			nb.Stage1[i].CalculatedPoints = generic.Recalculate(nb.Stage1[i], p, s.Batch)
			return true
		}
		return false
	})
	if !ok {
		return s, fmt.Errorf("stage 1 row %q: %w", rowID, generic.ErrStaleReference)
	}
	return next, nil
}

// ToggleStage2Deleted flips the soft-delete flag of a sales reward row.
// Pharmacist dispensing counts cannot be deleted.
func (e *Engine) ToggleStage2Deleted(s State, person, rowID string) State {
	next, _ := e.editStage2(s, person, rowID, func(r *generic.Stage2Row) {
		r.IsDeleted = !r.IsDeleted
	})
	return next
}

// SetStage2CustomReward overrides the amount of a sales reward row. A
// blank input clears the override.
func (e *Engine) SetStage2CustomReward(s State, person, rowID, input string) (State, error) {
	var override decimal.NullDecimal
	if in := strings.TrimSpace(input); in != "" {
		d, err := decimal.NewFromString(strings.ReplaceAll(in, ",", ""))
		if err != nil {
			return s, &generic.ValidationError{Reason: fmt.Sprintf("custom reward %q is not a number", input)}
		}
		override = decimal.NewNullDecimal(d)
	}
	next, _ := e.editStage2(s, person, rowID, func(r *generic.Stage2Row) {
		r.CustomReward = override
	})
	return next, nil
}

func (e *Engine) editStage2(s State, person, rowID string, fn func(r *generic.Stage2Row)) (State, error) {
	b, ok := s.Bundles[person]
	if !ok {
		return s, fmt.Errorf("person %q: %w", person, generic.ErrStaleReference)
	}
	if b.Role != generic.RoleSales {
		return s, fmt.Errorf("role %s has no editable rewards: %w", b.Role, generic.ErrStaleReference)
	}
	next, ok := s.withBundle(person, func(nb *generic.PersonBundle) bool {
		for i := range nb.Stage2 {
			if nb.Stage2[i].ID == rowID {
				fn(&nb.Stage2[i])
				return true
			}
		}
		return false
	})
	if !ok {
		return s, fmt.Errorf("stage 2 row %q: %w", rowID, generic.ErrStaleReference)
	}
	return next, nil
}
