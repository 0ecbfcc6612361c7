/*
Package factory converts imported reference tables into typed lists.

PURPOSE:
  The pharmacist point list and the reward list arrive as spreadsheets
  maintained by hand, with header names that drifted over the years. The
  factory maps whatever headers a file carries onto ReferenceItem and
  RewardRule so the rest of the engine only sees typed values.

POINT LIST HEADERS:
  item id:   品項編號 | Item ID | first non-empty cell of the row
  category:  分類 | 類別

REWARD LIST HEADERS:
  item id:   品項編號
  note:      備註
  category:  類別
  reward:    獎勵金額 | 獎勵 | 金額  (first non-empty; non-numeric is 0)
  label:     the same cell as written
  format:    形式, default 現金

  Rows without an item id are dropped with a warning.

SEE ALSO:
  - tabular/: Produces the generic.Table input
  - generic/reference.go: Lookup over the parsed lists
*/
package factory

import (
	"log"

	"github.com/warp/bonus-engine/generic"
)

const (
	colItemIDEN = "Item ID"
	colCategory = "分類"
	colKind     = "類別"
	colNote     = "備註"
	colFormat   = "形式"
)

var rewardColumns = []string{"獎勵金額", "獎勵", "金額"}

// =============================================================================
// POINT LIST
// =============================================================================

// ParseReferenceItems reads the pharmacist point list.
func ParseReferenceItems(t generic.Table) []generic.ReferenceItem {
	items := make([]generic.ReferenceItem, 0, len(t.Rows))
	for i, rec := range t.Rows {
		id := rec.First(generic.ColItemID, colItemIDEN)
		if id == "" {
			id = firstCell(t.Columns, rec)
		}
		if id == "" {
			log.Printf("WARN: point list row %d has no item id, skipped", i+2)
			continue
		}
		items = append(items, generic.ReferenceItem{
			ItemID:   id,
			Category: rec.First(colCategory, colKind),
		})
	}
	return items
}

// firstCell returns the first non-empty value in header order.
func firstCell(columns []string, rec generic.Record) string {
	for _, c := range columns {
		if v := rec.Str(c); v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// REWARD LIST
// =============================================================================

// ParseRewardRules reads the reward list.
func ParseRewardRules(t generic.Table) []generic.RewardRule {
	rules := make([]generic.RewardRule, 0, len(t.Rows))
	for i, rec := range t.Rows {
		id := rec.Str(generic.ColItemID)
		if id == "" {
			log.Printf("WARN: reward list row %d has no item id, skipped", i+2)
			continue
		}
		label := rec.First(rewardColumns...)
		rules = append(rules, generic.RewardRule{
			ItemID:      id,
			Note:        rec.Str(colNote),
			Category:    rec.Str(colKind),
			Reward:      generic.ParseNumber(label),
			RewardLabel: label,
			Format:      generic.ParseRewardFormat(rec.Str(colFormat)),
		})
	}
	return rules
}
