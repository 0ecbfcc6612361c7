/*
catalog.go - Column names and rule tables

PURPOSE:
  Holds the fixed vocabulary of the sales export (column headers) and the
  lookup tables the classifiers consult: category-1 code -> category,
  stage 1 sort priorities and the cosmetics brand buckets.

  The tables vary between chains, so they live in a Catalog value that
  config can override. Everything else (pharmacist rules, dispensing item
  ids) is fixed and lives with the role that uses it.

SEE ALSO:
  - config/config.go: YAML overrides
  - sales/processor.go, pharmacist/processor.go: Consumers
*/
package generic

import "fmt"

// =============================================================================
// SALES EXPORT COLUMNS
// =============================================================================

const (
	ColSalesPerson  = "銷售人員"
	ColCustomerID   = "客戶編號"
	ColCustomerName = "客戶名稱"
	ColItemID       = "品項編號"
	ColItemName     = "品項名稱"
	ColItemNameAlt  = "品名"
	ColQuantity     = "數量"
	ColUnit         = "單位"
	ColUnitPrice    = "單價"
	ColSubtotal     = "小計"
	ColPoints       = "點數小計"
	ColPointsAlt    = "點數"
	ColDebt         = "欠款"
	ColCategory1    = "分類一"
	ColCategory2    = "分類二"
	ColTicketNo     = "單號"
	ColSalesDate    = "銷售日期"
)

// =============================================================================
// CATEGORY NAMES
// =============================================================================

const (
	CategoryAdultMilkPowder  = "成人奶粉"
	CategoryAdultMilkDrink   = "成人奶水"
	CategoryInfantCereal     = "嬰幼兒米麥精"
	CategoryCashPediatric    = "現金-小兒銷售"
	CategoryDispensingPoints = "調劑點數"
	CategoryOther            = "其他"
)

// UnknownPriority sorts categories missing from a priority table last.
const UnknownPriority = 99

// =============================================================================
// CATALOG
// =============================================================================

// Brand is one cosmetics bucket: a category-2 code and its display name.
type Brand struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"brand" json:"brand"`
}

// Catalog is the set of rule tables used by the classifiers.
type Catalog struct {
	// Categories maps category-1 codes to sales categories.
	Categories map[string]string
	// SalesOrder is the stage 1 display priority for sales rows.
	SalesOrder map[string]int
	// Brands is the cosmetics bucket list in canonical display order.
	Brands []Brand
}

// DefaultCatalog returns the tables used when config does not override them.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Categories: map[string]string{
			"05-1": CategoryAdultMilkPowder,
			"05-2": CategoryAdultMilkDrink,
			"05-3": CategoryCashPediatric,
			"05-4": "營養品",
			"06-1": "保健食品",
			"07-1": "醫療器材",
		},
		SalesOrder: map[string]int{
			CategoryAdultMilkPowder: 1,
			CategoryAdultMilkDrink:  2,
			CategoryInfantCereal:    3,
			"營養品":                   4,
			"保健食品":                  5,
			"醫療器材":                  6,
			CategoryCashPediatric:   7,
			CategoryOther:           8,
		},
		Brands: []Brand{
			{Code: "08-1", Name: "理膚寶水"},
			{Code: "08-2", Name: "薇姿"},
			{Code: "08-3", Name: "雅漾"},
			{Code: "08-4", Name: "貝膚黛瑪"},
			{Code: "08-5", Name: "其他美妝"},
		},
	}
}

// Category maps a category-1 code, defaulting to Other.
func (c *Catalog) Category(code string) string {
	if name, ok := c.Categories[code]; ok {
		return name
	}
	return CategoryOther
}

// SalesPriority returns the sort priority of a sales category.
func (c *Catalog) SalesPriority(category string) int {
	if p, ok := c.SalesOrder[category]; ok {
		return p
	}
	return UnknownPriority
}

// BrandFor returns the brand bucket of a category-2 code.
func (c *Catalog) BrandFor(code string) (string, bool) {
	for _, b := range c.Brands {
		if b.Code == code {
			return b.Name, true
		}
	}
	return "", false
}

// Validate rejects tables that would make stage 3 ambiguous.
func (c *Catalog) Validate() error {
	codes := make(map[string]bool, len(c.Brands))
	names := make(map[string]bool, len(c.Brands))
	for _, b := range c.Brands {
		if b.Code == "" || b.Name == "" {
			return &ValidationError{Reason: "cosmetic brand needs both code and brand"}
		}
		if codes[b.Code] {
			return &ValidationError{Reason: fmt.Sprintf("duplicate cosmetic code %q", b.Code)}
		}
		// Stage 3 keys subtotals by brand name.
		if names[b.Name] {
			return &ValidationError{Reason: fmt.Sprintf("duplicate cosmetic brand %q", b.Name)}
		}
		codes[b.Code] = true
		names[b.Name] = true
	}
	for name, p := range c.SalesOrder {
		if p <= 0 {
			return &ValidationError{Reason: fmt.Sprintf("sales order for %q must be positive", name)}
		}
	}
	return nil
}
