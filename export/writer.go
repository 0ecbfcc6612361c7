package export

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// WRITER - excelize output
// =============================================================================

// Write renders wb as an .xlsx stream. A workbook without sheets is a
// validation error: there is nobody selected to export.
func Write(ctx context.Context, w io.Writer, wb Workbook) error {
	if len(wb.Sheets) == 0 {
		return &generic.ValidationError{Reason: "no person selected for export"}
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sh := range wb.Sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.Name); err != nil {
				return fmt.Errorf("sheet %q: %w", sh.Name, err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("sheet %q: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh); err != nil {
			return fmt.Errorf("sheet %q: %w", sh.Name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh Sheet) error {
	for i, row := range sh.Rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := cellValues(row)
		if err := f.SetSheetRow(sh.Name, cell, &values); err != nil {
			return err
		}
	}
	for i, width := range sh.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.Name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// cellValues turns decimals into numeric cells; everything else is
// written as is.
func cellValues(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if d, ok := v.(decimal.Decimal); ok {
			out[i] = d.InexactFloat64()
			continue
		}
		out[i] = v
	}
	return out
}
