package generic

import "github.com/shopspring/decimal"

// =============================================================================
// STAGE TOTALS
// =============================================================================

// Stage1Total sums calculated points of counted rows. Repurchase rows
// contribute their already halved value.
func Stage1Total(rows []Stage1Row) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		if r.Status.Counted() {
			total = total.Add(r.CalculatedPoints)
		}
	}
	return total
}

// RepurchaseRows returns the rows in repurchase status, in table order.
func RepurchaseRows(rows []Stage1Row) []Stage1Row {
	var out []Stage1Row
	for _, r := range rows {
		if r.Status == StatusRepurchase {
			out = append(out, r)
		}
	}
	return out
}

// Stage2Totals is the payout of a reward table.
type Stage2Totals struct {
	Cash     decimal.Decimal `json:"cash"`
	Vouchers decimal.Decimal `json:"vouchers"`
	Active   int             `json:"active"`
}

// SumStage2 totals the rows that are not soft-deleted. Vouchers count
// quantity; tally rows count toward neither.
func SumStage2(rows []Stage2Row) Stage2Totals {
	t := Stage2Totals{Cash: decimal.Zero, Vouchers: decimal.Zero}
	for _, r := range rows {
		if r.IsDeleted {
			continue
		}
		t.Active++
		switch r.Format {
		case FormatVoucher:
			t.Vouchers = t.Vouchers.Add(r.Quantity)
		case FormatTally:
		default:
			t.Cash = t.Cash.Add(r.EffectiveReward())
		}
	}
	return t
}
