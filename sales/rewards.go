package sales

import (
	"sort"

	"github.com/google/uuid"
	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// STAGE 2 - Reward rows
// =============================================================================

// BuildRewards emits one row per record whose item has a reward rule.
//
// Stage 2 reads the raw records again rather than the stage 1 rows: the
// two tables are parallel views with different inclusion rules. A reward
// needs a customer, a nonzero unit price, no debt and no container
// deposit, but not points.
func (p *Processor) BuildRewards(person string, records []generic.Record, ref *generic.ReferenceData) []generic.Stage2Row {
	var rows []generic.Stage2Row
	for _, rec := range records {
		itemID := rec.Str(generic.ColItemID)
		rule, ok := ref.Rule(itemID)
		if !ok {
			continue
		}

		cid := generic.CustomerID(rec)
		if cid == "" {
			continue
		}
		if !passesSaleGates(rec) {
			continue
		}
		if rec.Num(generic.ColDebt).IsPositive() {
			continue
		}

		rows = append(rows, generic.Stage2Row{
			ID:           uuid.NewString(),
			SalesPerson:  generic.SalesPerson(rec),
			DisplayDate:  generic.TicketDate(rec.Str(generic.ColTicketNo)),
			SortDate:     rec.Str(generic.ColSalesDate),
			CustomerID:   cid,
			CustomerName: rec.Str(generic.ColCustomerName),
			ItemID:       itemID,
			ItemName:     generic.ItemName(rec),
			Quantity:     rec.Num(generic.ColQuantity),
			Category:     rule.Category,
			Note:         rule.Note,
			Reward:       rule.Reward,
			RewardLabel:  rule.RewardLabel,
			Format:       rule.Format,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].DisplayDate < rows[j].DisplayDate
	})
	return rows
}
