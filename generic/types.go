/*
Package generic provides the core data model of the bonus engine.

PURPOSE:
  This package contains role-agnostic types and algorithms for turning a
  monthly sales export into per-person bonus tables. Whether a staff member
  is paid as a sales clerk or a pharmacist, the same model carries the
  point table (stage 1), the reward table (stage 2) and the cosmetics
  summary (stage 3).

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: One raw sales-ledger line (column name -> scalar)
  - Role / Status / RewardFormat: Closed vocabularies
  - Stage1Row, Stage2Row, Stage3Summary: Derived rows per person
  - PersonBundle: Everything computed for one staff member

DESIGN PRINCIPLES:
  1. Immutability: Records are never modified; they are the source of truth
     for every recomputation
  2. Precision: Uses decimal.Decimal for points and money
  3. Derivation: CalculatedPoints is always re-derived, never edited directly
  4. Soft delete: Stage 2 rows are flagged, never removed

SEE ALSO:
  - processor.go: StageProcessor, the per-role capability interface
  - stage.go: Stage builders shared by all roles
  - points.go: Point recalculation entry point
  - totals.go: Stage totals
*/
package generic

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORD - One raw sales line
// =============================================================================

// Record is one row of the sales export keyed by column header.
// Values are strings when read from a spreadsheet; numbers are tolerated.
type Record map[string]any

// Str returns the trimmed string form of a column, or "" when absent.
func (r Record) Str(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return decimal.NewFromFloat(t).String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Num returns the numeric value of a column. Missing, blank or malformed
// values are zero.
func (r Record) Num(col string) decimal.Decimal {
	v, ok := r[col]
	if !ok || v == nil {
		return decimal.Zero
	}
	switch t := v.(type) {
	case decimal.Decimal:
		return t
	case float64:
		return decimal.NewFromFloat(t)
	case float32:
		return decimal.NewFromFloat32(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case bool:
		if t {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	}
	return ParseNumber(r.Str(col))
}

// First returns the first non-empty string among cols.
func (r Record) First(cols ...string) string {
	for _, c := range cols {
		if s := r.Str(c); s != "" {
			return s
		}
	}
	return ""
}

// FirstNum returns the first nonzero number among cols.
func (r Record) FirstNum(cols ...string) decimal.Decimal {
	for _, c := range cols {
		if n := r.Num(c); !n.IsZero() {
			return n
		}
	}
	return decimal.Zero
}

// ParseNumber parses a spreadsheet number. Thousands separators are
// accepted; anything unparseable is zero.
func ParseNumber(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Table is an ordered sheet: header order is kept because some imports
// fall back to "the first column".
type Table struct {
	Columns []string
	Rows    []Record
}

// =============================================================================
// ROLES
// =============================================================================

type Role string

const (
	RoleSales      Role = "SALES"
	RolePharmacist Role = "PHARMACIST"
	RoleNoBonus    Role = "NO_BONUS"
)

// ParseRole accepts the role names case-insensitively. Empty means SALES.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(RoleSales):
		return RoleSales, nil
	case string(RolePharmacist):
		return RolePharmacist, nil
	case string(RoleNoBonus):
		return RoleNoBonus, nil
	}
	return "", &ValidationError{Reason: fmt.Sprintf("unknown role %q", s)}
}

// DisplayPriority orders persons: sales first, then pharmacists, then the rest.
func (r Role) DisplayPriority() int {
	switch r {
	case RoleSales:
		return 1
	case RolePharmacist:
		return 2
	default:
		return 3
	}
}

// =============================================================================
// STATUS & FORMAT
// =============================================================================

// Status is the operator-controlled state of a stage 1 row. The values are
// the labels printed in the export note column.
type Status string

const (
	StatusDevelop    Status = "開發"
	StatusHalfYear   Status = "隔半年"
	StatusRepurchase Status = "回購"
	StatusDelete     Status = "刪除"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDevelop, StatusHalfYear, StatusRepurchase, StatusDelete:
		return true
	}
	return false
}

// Counted reports whether rows in this status contribute to the point total.
func (s Status) Counted() bool {
	return s == StatusDevelop || s == StatusHalfYear || s == StatusRepurchase
}

type RewardFormat string

const (
	FormatCash    RewardFormat = "現金"
	FormatVoucher RewardFormat = "禮券"
	FormatTally   RewardFormat = "統計" // pharmacist aggregate rows, no payout
)

// ParseRewardFormat defaults to cash for blank or unknown text.
func ParseRewardFormat(s string) RewardFormat {
	switch RewardFormat(strings.TrimSpace(s)) {
	case FormatVoucher:
		return FormatVoucher
	case FormatTally:
		return FormatTally
	}
	return FormatCash
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// ReferenceItem is one entry of the pharmacist point list.
type ReferenceItem struct {
	ItemID   string `json:"itemID"`
	Category string `json:"category"`
}

// RewardRule is one entry of the cash reward list.
type RewardRule struct {
	ItemID      string          `json:"itemID"`
	Note        string          `json:"note"`
	Category    string          `json:"category"`
	Reward      decimal.Decimal `json:"reward"`
	RewardLabel string          `json:"rewardLabel"`
	Format      RewardFormat    `json:"format"`
}

// =============================================================================
// STAGE ROWS
// =============================================================================

// Stage1Row is one point-bearing line.
// CalculatedPoints is a pure function of (OriginalPoints, Category,
// Quantity, Status, role); see Recalculate.
type Stage1Row struct {
	ID               string              `json:"id"`
	SalesPerson      string              `json:"salesPerson"`
	Date             string              `json:"date"`
	CustomerID       string              `json:"customerID"`
	CustomerName     string              `json:"customerName"`
	ItemID           string              `json:"itemID"`
	ItemName         string              `json:"itemName"`
	Quantity         decimal.Decimal     `json:"quantity"`
	OriginalPoints   decimal.NullDecimal `json:"originalPoints"`
	CalculatedPoints decimal.Decimal     `json:"calculatedPoints"`
	Category         string              `json:"category"`
	Status           Status              `json:"status"`

	// RawIndex points into the committed batch; -1 when unknown.
	RawIndex int `json:"rawIndex"`
}

// Stage2Row is one reward line.
type Stage2Row struct {
	ID           string              `json:"id"`
	SalesPerson  string              `json:"salesPerson"`
	DisplayDate  string              `json:"displayDate"`
	SortDate     string              `json:"sortDate"`
	CustomerID   string              `json:"customerID"`
	CustomerName string              `json:"customerName"`
	ItemID       string              `json:"itemID"`
	ItemName     string              `json:"itemName"`
	Quantity     decimal.Decimal     `json:"quantity"`
	Category     string              `json:"category"`
	Note         string              `json:"note"`
	Reward       decimal.Decimal     `json:"reward"`
	RewardLabel  string              `json:"rewardLabel"`
	Format       RewardFormat        `json:"format"`
	IsDeleted    bool                `json:"isDeleted"`
	CustomReward decimal.NullDecimal `json:"customReward"`
}

// EffectiveReward is the override when set, else quantity * reward.
func (r Stage2Row) EffectiveReward() decimal.Decimal {
	if r.CustomReward.Valid {
		return r.CustomReward.Decimal
	}
	return r.Quantity.Mul(r.Reward)
}

type Stage3Row struct {
	CategoryName string          `json:"categoryName"`
	SubTotal     decimal.Decimal `json:"subTotal"`
}

// Stage3Summary is the cosmetics revenue per brand bucket for one person.
type Stage3Summary struct {
	SalesPerson string          `json:"salesPerson"`
	Rows        []Stage3Row     `json:"rows"`
	Total       decimal.Decimal `json:"total"`
}

// =============================================================================
// PERSON BUNDLE
// =============================================================================

// PersonBundle is the unit of selection, editing and export.
type PersonBundle struct {
	Role   Role          `json:"role"`
	Stage1 []Stage1Row   `json:"stage1"`
	Stage2 []Stage2Row   `json:"stage2"`
	Stage3 Stage3Summary `json:"stage3"`
}

// Clone copies the row slices so edits on the copy leave b untouched.
func (b *PersonBundle) Clone() *PersonBundle {
	if b == nil {
		return nil
	}
	c := *b
	c.Stage1 = append([]Stage1Row(nil), b.Stage1...)
	c.Stage2 = append([]Stage2Row(nil), b.Stage2...)
	c.Stage3.Rows = append([]Stage3Row(nil), b.Stage3.Rows...)
	return &c
}
