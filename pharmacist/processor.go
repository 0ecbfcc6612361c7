/*
Package pharmacist implements the stage processor for pharmacists.

PURPOSE:
  Pharmacists earn points on adult milk powder and on items from the
  pharmacist point list, and are credited with the month's dispensing
  counts instead of per-sale cash rewards. They have no cosmetics stage.

STAGE 1 RULES (after the common gates):
  category-1 05-1:                 成人奶粉, floor(points / quantity)
  item on list as 調劑點數:          調劑點數, points as exported, never halved
  item on list, any other category: 其他, points as exported
  anything else:                   excluded
  repurchase (except 調劑點數):      floor(result / 2)

  No unit-price or container-deposit gate applies to pharmacists.

STAGE 2:
  Fully aggregated: total quantity of the two dispensing items over all of
  the person's records. No per-sale rows, so nothing to delete or override.

SEE ALSO:
  - sales/: The other eligible role
  - generic/processor.go: StageProcessor
*/
package pharmacist

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// DISPENSING ITEMS
// =============================================================================

// DispensingItem is one item counted in the pharmacist stage 2 table.
type DispensingItem struct {
	ItemID string
	Name   string
	Unit   string
}

var (
	SelfPaidDispensing = DispensingItem{ItemID: "001727", Name: "自費調劑", Unit: "件"}
	DispensingService  = DispensingItem{ItemID: "001345", Name: "調劑藥事服務費", Unit: "組"}
)

// DispensingItems in table order.
var DispensingItems = []DispensingItem{SelfPaidDispensing, DispensingService}

// CategoryDispensing is the stage 2 category of the aggregate rows.
const CategoryDispensing = "調劑"

// UnitFor returns the count unit printed after a dispensing quantity.
func UnitFor(itemID string) string {
	for _, it := range DispensingItems {
		if it.ItemID == itemID {
			return it.Unit
		}
	}
	return DispensingService.Unit
}

var priority = map[string]int{
	generic.CategoryAdultMilkPowder:  1,
	generic.CategoryOther:            2,
	generic.CategoryDispensingPoints: 3,
}

// =============================================================================
// PROCESSOR
// =============================================================================

// Processor is the pharmacist StageProcessor.
type Processor struct{}

func New() *Processor { return &Processor{} }

// Compile-time check that Processor implements generic.StageProcessor
var _ generic.StageProcessor = (*Processor)(nil)

func (p *Processor) Role() generic.Role { return generic.RolePharmacist }

// Classify admits adult milk powder and listed items.
// A list category other than 調劑點數 is folded into 其他.
func (p *Processor) Classify(rec generic.Record, ref *generic.ReferenceData) (string, bool) {
	if rec.Str(generic.ColCategory1) == "05-1" {
		return generic.CategoryAdultMilkPowder, true
	}
	listed, ok := ref.ItemCategory(rec.Str(generic.ColItemID))
	if !ok {
		return "", false
	}
	if listed == generic.CategoryDispensingPoints {
		return generic.CategoryDispensingPoints, true
	}
	return generic.CategoryOther, true
}

// ComputePoints applies the pharmacist point rules.
func (p *Processor) ComputePoints(in generic.PointInput) decimal.Decimal {
	if in.Category == generic.CategoryDispensingPoints {
		return in.Original
	}
	base := in.Original
	if in.Category == generic.CategoryAdultMilkPowder {
		base = generic.DivideByQuantity(base, in.Quantity)
	}
	if in.Status == generic.StatusRepurchase {
		return generic.Halve(base)
	}
	return base
}

func (p *Processor) Priority(category string) int {
	if o, ok := priority[category]; ok {
		return o
	}
	return generic.UnknownPriority
}

// =============================================================================
// STAGE 2 - Dispensing counts
// =============================================================================

// BuildRewards sums the quantity of each dispensing item. Items with a
// zero total are omitted.
func (p *Processor) BuildRewards(person string, records []generic.Record, _ *generic.ReferenceData) []generic.Stage2Row {
	totals := make(map[string]decimal.Decimal, len(DispensingItems))
	for _, it := range DispensingItems {
		totals[it.ItemID] = decimal.Zero
	}
	for _, rec := range records {
		id := rec.Str(generic.ColItemID)
		if sum, ok := totals[id]; ok {
			totals[id] = sum.Add(rec.Num(generic.ColQuantity))
		}
	}

	var rows []generic.Stage2Row
	for _, it := range DispensingItems {
		qty := totals[it.ItemID]
		if !qty.IsPositive() {
			continue
		}
		rows = append(rows, generic.Stage2Row{
			ID:          uuid.NewString(),
			SalesPerson: person,
			ItemID:      it.ItemID,
			ItemName:    it.Name,
			Quantity:    qty,
			Category:    CategoryDispensing,
			Reward:      decimal.Zero,
			RewardLabel: it.Unit,
			Format:      generic.FormatTally,
		})
	}
	return rows
}

// Summarize returns an empty summary: pharmacists have no cosmetics stage.
func (p *Processor) Summarize(person string, _ []generic.Record) generic.Stage3Summary {
	return generic.EmptySummary(person)
}
