package tabular_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/tabular"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
)

// =============================================================================
// XLSX
// =============================================================================

func xlsxBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestRead_XLSX(t *testing.T) {
	// GIVEN: A sheet with a blank leading row, numeric cells and a blank row
	data := xlsxBytes(t, [][]any{
		{},
		{" 銷售人員 ", "品項編號", "數量", "點數小計"},
		{"王小明", "M1", 2, 90},
		{},
		{"李大華", "V1", 1, ""},
	})

	// WHEN: Reading it
	tbl, err := tabular.Read(bytes.NewReader(data), "sales.xlsx")

	// THEN: Trimmed headers, two records, blank cells omitted
	require.NoError(t, err)
	assert.Equal(t, []string{"銷售人員", "品項編號", "數量", "點數小計"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "王小明", tbl.Rows[0].Str(generic.ColSalesPerson))
	assert.Equal(t, "90", tbl.Rows[0].Num(generic.ColPoints).String())
	_, ok := tbl.Rows[1][generic.ColPoints]
	assert.False(t, ok)
}

func TestRead_XLSXRejectsGarbage(t *testing.T) {
	_, err := tabular.Read(strings.NewReader("not a workbook"), "sales.xlsx")

	var ife *generic.ImportFormatError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, "sales.xlsx", ife.Source)
	assert.True(t, generic.IsClientError(err))
}

func TestRead_EmptySheet(t *testing.T) {
	data := xlsxBytes(t, nil)

	_, err := tabular.Read(bytes.NewReader(data), "empty.xlsx")

	assert.ErrorIs(t, err, generic.ErrImportFormat)
}

// =============================================================================
// XLS
// =============================================================================

func TestRead_XLSRejectsGarbage(t *testing.T) {
	_, err := tabular.Read(strings.NewReader("definitely not BIFF"), "pos.xls")

	assert.ErrorIs(t, err, generic.ErrImportFormat)
}

// =============================================================================
// CSV
// =============================================================================

func TestRead_CSVWithBOM(t *testing.T) {
	data := "\ufeff品項編號,分類\nRX1,調劑點數\n,\nP1,其他\n"

	tbl, err := tabular.Read(strings.NewReader(data), "points.CSV")

	require.NoError(t, err)
	assert.Equal(t, []string{"品項編號", "分類"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "RX1", tbl.Rows[0].Str("品項編號"))
	assert.Equal(t, "其他", tbl.Rows[1].Str("分類"))
}

func TestRead_CSVBig5(t *testing.T) {
	// GIVEN: A list saved by Excel on a Traditional Chinese Windows install
	src := "品項編號,類別,獎勵金額\nR1,奶粉,50\n"
	encoded, err := traditionalchinese.Big5.NewEncoder().String(src)
	require.NoError(t, err)

	// WHEN: Reading it
	tbl, err := tabular.Read(strings.NewReader(encoded), "rewards.csv")

	// THEN: Headers and values are decoded
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "奶粉", tbl.Rows[0].Str("類別"))
	assert.Equal(t, "50", tbl.Rows[0].Num("獎勵金額").String())
}

func TestRead_CSVRaggedRows(t *testing.T) {
	data := "a,b\n1\n2,3,4\n"

	tbl, err := tabular.Read(strings.NewReader(data), "x.csv")

	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, generic.Record{"a": "1"}, tbl.Rows[0])
	assert.Equal(t, generic.Record{"a": "2", "b": "3"}, tbl.Rows[1])
}

func TestRead_CSVEmpty(t *testing.T) {
	_, err := tabular.Read(strings.NewReader("\n\n"), "x.csv")

	assert.ErrorIs(t, err, generic.ErrImportFormat)
}
