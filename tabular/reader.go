/*
Package tabular reads spreadsheet uploads into generic.Table.

PURPOSE:
  Every input of the engine (sales export, point list, reward list) is a
  spreadsheet whose first row holds the headers. The POS exports legacy
  .xls, staff re-save as .xlsx, and some lists come as CSV from Excel on
  a Traditional Chinese Windows install (Big5). Read hides the format.

FORMATS:
  .xls:              extrame/xls, first sheet
  .csv:              UTF-8 (BOM skipped) or Big5 when not valid UTF-8
  anything else:     excelize, first sheet, raw cell values

  Raw values matter: a formatted cell such as "1,200" or "$30" must reach
  the engine as the number the POS wrote.

ERRORS:
  Every failure is a *generic.ImportFormatError. Legacy is set when the
  .xls decoder chokes on a BIFF record, so the operator is told to re-save
  the file as .xlsx.

SEE ALSO:
  - factory/: Typed reference lists from a Table
  - export/: The writing side
*/
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/warp/bonus-engine/generic"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read parses the first sheet of a spreadsheet upload.
func Read(r io.Reader, filename string) (generic.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return generic.Table{}, &generic.ImportFormatError{Source: filename, Err: err}
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		rows, err = readXLS(data)
	case ".csv":
		rows, err = readCSV(data)
	default:
		rows, err = readXLSX(data)
	}
	if err != nil {
		return generic.Table{}, &generic.ImportFormatError{Source: filename, Legacy: isLegacyError(err), Err: err}
	}
	return toTable(rows, filename)
}

// =============================================================================
// FORMAT READERS
// =============================================================================

var errLegacyPanic = errors.New("xls decoder panic")

func readXLS(data []byte) (rows [][]string, err error) {
	// The decoder panics on some malformed BIFF streams.
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("%w: %v", errLegacyPanic, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("no worksheet found")
	}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no worksheet found")
	}
	return f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func readCSV(data []byte) ([][]string, error) {
	var src io.Reader
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		src = bytes.NewReader(data[len(utf8BOM):])
	case utf8.Valid(data):
		src = bytes.NewReader(data)
	default:
		src = transform.NewReader(bytes.NewReader(data), traditionalchinese.Big5.NewDecoder())
	}
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

// isLegacyError recognizes the BIFF-level failures of old .xls files.
func isLegacyError(err error) bool {
	if errors.Is(err, errLegacyPanic) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Record") || strings.Contains(msg, "0x")
}

// =============================================================================
// TABLE
// =============================================================================

// toTable uses the first non-blank row as headers. Blank rows are skipped
// and blank cells left out of the record, so a missing column and an
// empty one read the same.
func toTable(rows [][]string, source string) (generic.Table, error) {
	start := 0
	for start < len(rows) && isBlank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return generic.Table{}, &generic.ImportFormatError{Source: source, Err: fmt.Errorf("worksheet is empty")}
	}

	header := rows[start]
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	t := generic.Table{Columns: columns}
	for _, row := range rows[start+1:] {
		if isBlank(row) {
			continue
		}
		rec := make(generic.Record, len(row))
		for i, cell := range row {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			if v := strings.TrimSpace(cell); v != "" {
				rec[columns[i]] = v
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
