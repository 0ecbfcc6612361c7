/*
stage.go - Stage builders shared by every role

PURPOSE:
  Stage 1 construction is the same walk for every role: apply the common
  gates, let the role classify, derive points through Recalculate, sort by
  the role's priority table and date. This file owns that walk and the
  small field derivations both roles rely on.

COMMON GATES:
  - customer id present (the literal "undefined" counts as missing)
  - points nonzero (點數小計, else 點數)
  - debt not positive

FLOOR ARITHMETIC:
  Quantity division and repurchase halving both floor toward negative
  infinity. A zero quantity divides by 1.

SEE ALSO:
  - processor.go: StageProcessor
  - points.go: Recalculate
*/
package generic

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// =============================================================================
// FIELD DERIVATIONS
// =============================================================================

// UnknownDate is shown when the ticket number is too short to hold a day.
const UnknownDate = "??"

// TicketDate extracts the two-digit day at offset 5 of the ticket number.
func TicketDate(ticket string) string {
	r := []rune(ticket)
	if len(r) < 7 {
		return UnknownDate
	}
	return string(r[5:7])
}

// CustomerID returns the customer id of a record, "" when missing.
func CustomerID(rec Record) string {
	cid := rec.Str(ColCustomerID)
	if cid == "undefined" {
		return ""
	}
	return cid
}

// RecordPoints returns the source points of a record.
func RecordPoints(rec Record) decimal.Decimal {
	return rec.FirstNum(ColPoints, ColPointsAlt)
}

// ItemName falls back to the short header used by older exports.
func ItemName(rec Record) string {
	return rec.First(ColItemName, ColItemNameAlt)
}

// SalesPerson returns the staff member of a record.
func SalesPerson(rec Record) string {
	if p := rec.Str(ColSalesPerson); p != "" {
		return p
	}
	return "Unknown"
}

// PassesCommonGates applies the role-independent stage 1 gates.
func PassesCommonGates(rec Record) bool {
	if CustomerID(rec) == "" {
		return false
	}
	if RecordPoints(rec).IsZero() {
		return false
	}
	return !rec.Num(ColDebt).IsPositive()
}

// DivideByQuantity is floor(points / quantity), with zero quantity as 1.
func DivideByQuantity(points, quantity decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return points.Floor()
	}
	return points.Div(quantity).Floor()
}

// Halve is floor(points / 2).
func Halve(points decimal.Decimal) decimal.Decimal {
	return points.Div(two).Floor()
}

// =============================================================================
// STAGE 1
// =============================================================================

// BuildStage1 turns the records at indices of batch into sorted stage 1
// rows. Each row keeps its index as RawIndex.
func BuildStage1(p StageProcessor, batch []Record, indices []int, ref *ReferenceData) []Stage1Row {
	var rows []Stage1Row
	for _, idx := range indices {
		if idx < 0 || idx >= len(batch) {
			continue
		}
		rec := batch[idx]
		if !PassesCommonGates(rec) {
			continue
		}
		category, ok := p.Classify(rec, ref)
		if !ok {
			continue
		}
		row := Stage1Row{
			ID:             uuid.NewString(),
			SalesPerson:    SalesPerson(rec),
			Date:           TicketDate(rec.Str(ColTicketNo)),
			CustomerID:     CustomerID(rec),
			CustomerName:   rec.Str(ColCustomerName),
			ItemID:         rec.Str(ColItemID),
			ItemName:       ItemName(rec),
			Quantity:       rec.Num(ColQuantity),
			OriginalPoints: decimal.NewNullDecimal(RecordPoints(rec)),
			Category:       category,
			Status:         StatusDevelop,
			RawIndex:       idx,
		}
		row.CalculatedPoints = Recalculate(row, p, batch)
		rows = append(rows, row)
	}
	SortStage1(p, rows)
	return rows
}

// SortStage1 orders rows by the processor's category priority, then by
// date string. Equal rows keep their source order.
func SortStage1(p StageProcessor, rows []Stage1Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		pi, pj := p.Priority(rows[i].Category), p.Priority(rows[j].Category)
		if pi != pj {
			return pi < pj
		}
		return rows[i].Date < rows[j].Date
	})
}

// =============================================================================
// STAGE 3
// =============================================================================

// EmptySummary is the stage 3 value for roles without cosmetics.
func EmptySummary(person string) Stage3Summary {
	return Stage3Summary{SalesPerson: person, Rows: []Stage3Row{}, Total: decimal.Zero}
}
