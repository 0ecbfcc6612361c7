package session

import (
	"sort"

	"github.com/warp/bonus-engine/factory"
	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// REFERENCE LISTS
// =============================================================================

// LoadReferenceItems replaces the pharmacist point list. Existing bundles
// keep the classification they were built with.
func (e *Engine) LoadReferenceItems(s State, t generic.Table) (State, error) {
	items := factory.ParseReferenceItems(t)
	if len(items) == 0 {
		return s, &generic.ValidationError{Reason: "point list has no item ids"}
	}
	c := s.clone()
	c.ReferenceItems = items
	return c, nil
}

// LoadRewardRules replaces the reward rule list.
func (e *Engine) LoadRewardRules(s State, t generic.Table) (State, error) {
	rules := factory.ParseRewardRules(t)
	if len(rules) == 0 {
		return s, &generic.ValidationError{Reason: "reward list has no item ids"}
	}
	c := s.clone()
	c.RewardRules = rules
	return c, nil
}

// =============================================================================
// SALES IMPORT
// =============================================================================

// ImportSales stages a sales batch for role assignment.
//
// Both reference lists must be loaded first, and at least one row must
// name a sales person; both checks run before anything is discarded. Replacing a committed batch
// discards every bundle and edit, so it needs confirmDiscard; without it
// the call fails with ErrConfirmationRequired and s is returned as is.
func (e *Engine) ImportSales(s State, t generic.Table, confirmDiscard bool) (State, error) {
	if len(s.ReferenceItems) == 0 || len(s.RewardRules) == 0 {
		return s, &generic.ValidationError{Reason: "load the point list and the reward list before importing sales"}
	}
	if s.HasData() && !confirmDiscard {
		return s, generic.ErrConfirmationRequired
	}
	if len(t.Rows) == 0 {
		return s, &generic.ValidationError{Reason: "sales file has no rows"}
	}
	if len(groupByPerson(t.Rows)) == 0 {
		return s, &generic.ValidationError{Reason: "找不到銷售人員資料: no row names a sales person"}
	}

	c := s.clone()
	c.Bundles = map[string]*generic.PersonBundle{}
	c.Selected = map[string]bool{}
	c.ActivePerson = ""
	c.Batch = nil
	c.Pending = t.Rows
	return c, nil
}

// PendingNames lists the distinct persons of the pending batch, sorted.
func (e *Engine) PendingNames(s State) []string {
	groups := groupByPerson(s.Pending)
	names := make([]string, 0, len(groups))
	for p := range groups {
		names = append(names, p)
	}
	sort.Strings(names)
	return names
}

// PendingRoles pre-fills the role form: the previous assignment where one
// exists, SALES otherwise.
func (e *Engine) PendingRoles(s State) map[string]generic.Role {
	out := make(map[string]generic.Role)
	for _, p := range e.PendingNames(s) {
		if r, ok := s.Roles[p]; ok {
			out[p] = r
		} else {
			out[p] = generic.RoleSales
		}
	}
	return out
}

// ConfirmClassification commits the pending batch and builds one bundle
// per eligible person. Persons missing from roles are SALES; NO_BONUS
// persons get no bundle. Every bundle starts selected and the first
// person in display order becomes active.
func (e *Engine) ConfirmClassification(s State, roles map[string]generic.Role) (State, error) {
	if s.Pending == nil {
		return s, &generic.ValidationError{Reason: "no sales batch awaiting classification"}
	}

	batch := s.Pending
	ref := s.Reference()

	c := s.clone()
	c.Pending = nil
	c.Batch = batch
	c.Bundles = map[string]*generic.PersonBundle{}
	c.Selected = map[string]bool{}

	for person, indices := range groupByPerson(batch) {
		role, ok := roles[person]
		if !ok || role == "" {
			role = generic.RoleSales
		}
		c.Roles[person] = role

		bundle, ok := e.buildBundle(person, role, batch, indices, ref)
		if !ok {
			continue
		}
		c.Bundles[person] = bundle
		c.Selected[person] = true
	}

	c.ActivePerson = ""
	if order := e.SortedPersons(c); len(order) > 0 {
		c.ActivePerson = order[0]
	}
	return c, nil
}

// CancelClassification drops the pending batch. Work discarded by a
// confirmed import stays discarded.
func (e *Engine) CancelClassification(s State) State {
	if s.Pending == nil {
		return s
	}
	c := s.clone()
	c.Pending = nil
	return c
}
