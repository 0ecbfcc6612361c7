package session

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// =============================================================================
// DISPLAY ORDER
// =============================================================================

// SortedPersons returns the persons with a bundle in display order: sales
// staff first, then pharmacists, each group by Traditional Chinese
// collation of the name.
func (e *Engine) SortedPersons(s State) []string {
	names := make([]string, 0, len(s.Bundles))
	for p := range s.Bundles {
		names = append(names, p)
	}

	col := collate.New(language.TraditionalChinese)
	sort.SliceStable(names, func(i, j int) bool {
		pi := s.Bundles[names[i]].Role.DisplayPriority()
		pj := s.Bundles[names[j]].Role.DisplayPriority()
		if pi != pj {
			return pi < pj
		}
		if c := col.CompareString(names[i], names[j]); c != 0 {
			return c < 0
		}
		return names[i] < names[j]
	})
	return names
}

// =============================================================================
// SELECTION
// =============================================================================

// ToggleSelection flips whether a person is included in the export.
func (e *Engine) ToggleSelection(s State, person string) State {
	if _, ok := s.Bundles[person]; !ok {
		return s
	}
	c := s.clone()
	c.Selected[person] = !s.Selected[person]
	return c
}

// SetActivePerson chooses the person shown for review.
func (e *Engine) SetActivePerson(s State, person string) State {
	if _, ok := s.Bundles[person]; !ok || s.ActivePerson == person {
		return s
	}
	c := s.clone()
	c.ActivePerson = person
	return c
}
