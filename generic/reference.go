package generic

import "strings"

// =============================================================================
// REFERENCE DATA - Point list and reward rules keyed by item id
// =============================================================================

// ReferenceData indexes the two reference lists for the classifiers.
//
// Duplicate item ids resolve last-write-wins in both lists: the later
// entry of the source list replaces the earlier one.
type ReferenceData struct {
	categories map[string]string
	rules      map[string]RewardRule
}

// NewReferenceData builds the lookup maps. Item ids are trimmed.
func NewReferenceData(items []ReferenceItem, rules []RewardRule) *ReferenceData {
	ref := &ReferenceData{
		categories: make(map[string]string, len(items)),
		rules:      make(map[string]RewardRule, len(rules)),
	}
	for _, it := range items {
		ref.categories[strings.TrimSpace(it.ItemID)] = strings.TrimSpace(it.Category)
	}
	for _, r := range rules {
		ref.rules[strings.TrimSpace(r.ItemID)] = r
	}
	return ref
}

// ItemCategory returns the point-list category of an item.
func (d *ReferenceData) ItemCategory(itemID string) (string, bool) {
	if d == nil {
		return "", false
	}
	c, ok := d.categories[itemID]
	return c, ok
}

// IsDispensing reports whether an item is listed under dispensing points.
func (d *ReferenceData) IsDispensing(itemID string) bool {
	c, ok := d.ItemCategory(itemID)
	return ok && c == CategoryDispensingPoints
}

// Rule returns the reward rule of an item.
func (d *ReferenceData) Rule(itemID string) (RewardRule, bool) {
	if d == nil {
		return RewardRule{}, false
	}
	r, ok := d.rules[itemID]
	return r, ok
}

// Len reports the number of distinct items in each list.
func (d *ReferenceData) Len() (items, rules int) {
	if d == nil {
		return 0, 0
	}
	return len(d.categories), len(d.rules)
}
