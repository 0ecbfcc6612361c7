package generic

import "github.com/shopspring/decimal"

// =============================================================================
// POINT RECALCULATION
// =============================================================================

// Recalculate derives CalculatedPoints for a stage 1 row. It is used both
// when a row is built and on every status edit, so the two can never
// disagree.
//
// Rules, in order:
//  1. DELETE is always 0, whatever the role or category.
//  2. The role's processor handles everything else.
//
// Rows saved before OriginalPoints existed recover it from the raw batch
// through RawIndex; if that is gone too the base is 0.
func Recalculate(row Stage1Row, p StageProcessor, batch []Record) decimal.Decimal {
	if row.Status == StatusDelete {
		return decimal.Zero
	}
	return p.ComputePoints(PointInput{
		Original: OriginalPoints(row, batch),
		Category: row.Category,
		Quantity: row.Quantity,
		Status:   row.Status,
	})
}

// OriginalPoints returns the untouched source points of a row.
func OriginalPoints(row Stage1Row, batch []Record) decimal.Decimal {
	if row.OriginalPoints.Valid {
		return row.OriginalPoints.Decimal
	}
	if row.RawIndex >= 0 && row.RawIndex < len(batch) {
		return RecordPoints(batch[row.RawIndex])
	}
	return decimal.Zero
}
