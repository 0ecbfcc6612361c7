/*
Package export lays out and writes the payroll workbook.

PURPOSE:
  Payroll receives one sheet per selected person, with the three stages
  stacked vertically, plus a repurchase summary sheet. Layout is a pure
  function from bundles to rows of cells (Build); writing those rows to an
  .xlsx stream is a separate step (Write) so the layout can be tested
  without a spreadsheet library.

SHEET LAYOUT:
  【第一階段：點數表】 {total}點
  header, active rows (DELETE skipped, REPURCHASE moved to the summary)
  two blank rows
  stage 2 title, header, rows
  two blank rows
  【第三階段：美妝金額】 (not for pharmacists)

SHEET NAMES:
  []:*?/\ become _, at most 31 characters, "Unknown" when empty.
  Collisions get the first 28 characters plus "(n)".

SEE ALSO:
  - writer.go: excelize output
  - generic/totals.go: Stage totals shown in the titles
*/
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/pharmacist"
	"github.com/warp/bonus-engine/sales"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// RepurchaseSheet is the name of the summary sheet.
const RepurchaseSheet = "回購總表"

var (
	personWidths     = []float64{18, 10, 12, 12, 25, 8, 20, 15}
	repurchaseWidths = []float64{25, 10, 12, 12, 25, 8, 10}
)

// Sheet is one laid-out worksheet. A nil row is a blank line. Cells hold
// strings or decimal.Decimal values.
type Sheet struct {
	Name   string
	Rows   [][]any
	Widths []float64
}

// Workbook is the ordered list of sheets to write.
type Workbook struct {
	Sheets []Sheet
}

// DefaultFilename is the suggested file name for an export made at now.
func DefaultFilename(now time.Time) string {
	return "獎金計算報表_" + now.Format("2006-01-02") + ".xlsx"
}

// =============================================================================
// BUILD
// =============================================================================

type repurchaseGroup struct {
	rows  []generic.Stage1Row
	total decimal.Decimal
}

// Build lays out one sheet per selected person with a bundle, in name
// order, then the repurchase summary when any exported row is a
// repurchase.
func Build(bundles map[string]*generic.PersonBundle, selected map[string]bool) Workbook {
	persons := make([]string, 0, len(bundles))
	for p := range bundles {
		persons = append(persons, p)
	}
	sort.Strings(persons)

	var wb Workbook
	names := map[string]bool{}
	repurchase := map[string]*repurchaseGroup{}

	for _, person := range persons {
		b := bundles[person]
		if b == nil || !selected[person] || b.Role == generic.RoleNoBonus {
			continue
		}
		var rows [][]any
		rows = append(rows, stage1Section(person, b, repurchase)...)
		rows = append(rows, nil, nil)
		if b.Role == generic.RolePharmacist {
			rows = append(rows, dispensingSection(b)...)
		} else {
			rows = append(rows, rewardSection(b)...)
		}
		rows = append(rows, nil, nil)
		if b.Role != generic.RolePharmacist {
			rows = append(rows, cosmeticsSection(b)...)
		}
		wb.Sheets = append(wb.Sheets, Sheet{
			Name:   uniqueSheetName(SheetName(person), names),
			Rows:   rows,
			Widths: personWidths,
		})
	}

	if len(repurchase) > 0 {
		wb.Sheets = append(wb.Sheets, Sheet{
			Name:   uniqueSheetName(RepurchaseSheet, names),
			Rows:   repurchaseSummary(repurchase),
			Widths: repurchaseWidths,
		})
	}
	return wb
}

// =============================================================================
// SECTIONS
// =============================================================================

func stage1Section(person string, b *generic.PersonBundle, repurchase map[string]*repurchaseGroup) [][]any {
	pointsHeader := "計算點數"
	if b.Role == generic.RolePharmacist {
		pointsHeader = "點數"
	}
	rows := [][]any{
		{fmt.Sprintf("【第一階段：點數表】 %s點", generic.Stage1Total(b.Stage1).String())},
		{"分類", "日期", "客戶編號", "品項編號", "品名", "數量", "備註", pointsHeader},
	}

	for _, r := range b.Stage1 {
		switch r.Status {
		case generic.StatusDelete:
			continue
		case generic.StatusRepurchase:
			g, ok := repurchase[person]
			if !ok {
				g = &repurchaseGroup{total: decimal.Zero}
				repurchase[person] = g
			}
			g.rows = append(g.rows, r)
			g.total = g.total.Add(r.CalculatedPoints)
			continue
		}

		note := string(r.Status)
		var points any = r.CalculatedPoints
		if b.Role == generic.RolePharmacist {
			if r.Category == generic.CategoryDispensingPoints {
				note = ""
			}
		} else if sales.PointsHidden(r.Category) {
			points = ""
		}
		rows = append(rows, []any{r.Category, r.Date, r.CustomerID, r.ItemID, r.ItemName, r.Quantity, note, points})
	}
	return rows
}

func dispensingSection(b *generic.PersonBundle) [][]any {
	rows := [][]any{
		{"【第二階段：當月調劑件數】"},
		{"品項編號", "品名", "數量"},
	}
	for _, r := range b.Stage2 {
		rows = append(rows, []any{r.ItemID, r.ItemName, r.Quantity.String() + pharmacist.UnitFor(r.ItemID)})
	}
	return rows
}

func rewardSection(b *generic.PersonBundle) [][]any {
	totals := generic.SumStage2(b.Stage2)
	rows := [][]any{
		{fmt.Sprintf("【第二階段：現金獎勵表】 現金$%s 禮券%s張", FormatAmount(totals.Cash), totals.Vouchers.String())},
		{"類別", "日期", "客戶編號", "品項編號", "品名", "數量", "備註", "獎勵"},
	}
	for _, r := range b.Stage2 {
		if r.IsDeleted {
			continue
		}
		rows = append(rows, []any{r.Category, r.DisplayDate, r.CustomerID, r.ItemID, r.ItemName, r.Quantity, r.Note, RewardDisplay(r)})
	}
	return rows
}

func cosmeticsSection(b *generic.PersonBundle) [][]any {
	rows := [][]any{
		{"【第三階段：美妝金額】"},
		{"品牌分類", "金額"},
	}
	for _, r := range b.Stage3.Rows {
		rows = append(rows, []any{r.CategoryName, r.SubTotal})
	}
	return append(rows, []any{"總金額", b.Stage3.Total})
}

func repurchaseSummary(groups map[string]*repurchaseGroup) [][]any {
	persons := make([]string, 0, len(groups))
	for p := range groups {
		persons = append(persons, p)
	}
	sort.Strings(persons)

	var rows [][]any
	for _, p := range persons {
		g := groups[p]
		rows = append(rows,
			[]any{fmt.Sprintf("%s    回購：%s", p, g.total.String())},
			[]any{"分類", "日期", "客戶編號", "品項編號", "品名", "數量", "計算點數"},
		)
		for _, r := range g.rows {
			rows = append(rows, []any{r.Category, r.Date, r.CustomerID, r.ItemID, r.ItemName, r.Quantity, r.CalculatedPoints})
		}
		rows = append(rows, nil)
	}
	return rows
}

// =============================================================================
// FORMATTING
// =============================================================================

// RewardDisplay renders the reward cell of a sales row: "{q}張{label}" for
// vouchers, "{amount}元" otherwise.
func RewardDisplay(r generic.Stage2Row) string {
	if r.Format == generic.FormatVoucher {
		return r.Quantity.String() + "張" + r.RewardLabel
	}
	return r.EffectiveReward().String() + "元"
}

// FormatAmount prints a cash total with thousands separators.
func FormatAmount(d decimal.Decimal) string {
	p := message.NewPrinter(language.TraditionalChinese)
	return p.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}

// SheetName makes a person name usable as a worksheet name.
func SheetName(name string) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	clean = truncate(clean, 31)
	if clean == "" {
		return "Unknown"
	}
	return clean
}

// uniqueSheetName compares case-insensitively, the way Excel and excelize
// match sheet names.
func uniqueSheetName(base string, used map[string]bool) string {
	name := base
	for n := 1; used[strings.ToLower(name)]; n++ {
		name = fmt.Sprintf("%s(%d)", truncate(base, 28), n)
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
