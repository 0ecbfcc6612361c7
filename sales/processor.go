/*
Package sales implements the stage processor for store sales staff.

PURPOSE:
  Sales clerks earn development points on qualifying product sales, cash
  or voucher rewards on listed items, and a cosmetics bonus computed from
  brand revenue. This package holds the sales-specific half of each stage.

STAGE 1 GATES (after the common gates):
  - unit price must be nonzero (free samples and gifts never count)
  - category-1 05-2 sold by 罐/瓶 is a container deposit, excluded
  - items on the point list under 調劑點數 belong to pharmacists, excluded

CATEGORIES:
  Category-1 code through the catalog table, default 其他. Category-1 05-3
  becomes 嬰幼兒米麥精 when the item name mentions 麥精 or 米精.

POINTS:
  現金-小兒銷售:                    always 0 (shown as a dash, not a zero)
  成人奶粉 / 成人奶水 / 嬰幼兒米麥精: floor(points / quantity)
  everything else:                 points as exported
  repurchase:                      floor(result / 2)

SEE ALSO:
  - rewards.go: Stage 2 for sales
  - cosmetics.go: Stage 3
  - pharmacist/: The other eligible role
*/
package sales

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
)

// Processor is the sales StageProcessor.
type Processor struct {
	catalog *generic.Catalog
}

// New creates a sales processor. A nil catalog uses the defaults.
func New(catalog *generic.Catalog) *Processor {
	if catalog == nil {
		catalog = generic.DefaultCatalog()
	}
	return &Processor{catalog: catalog}
}

// Compile-time check that Processor implements generic.StageProcessor
var _ generic.StageProcessor = (*Processor)(nil)

func (p *Processor) Role() generic.Role { return generic.RoleSales }

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classify applies the sales gates and assigns the sales category.
func (p *Processor) Classify(rec generic.Record, ref *generic.ReferenceData) (string, bool) {
	if !passesSaleGates(rec) {
		return "", false
	}
	if ref.IsDispensing(rec.Str(generic.ColItemID)) {
		return "", false
	}
	return p.category(rec), true
}

func (p *Processor) category(rec generic.Record) string {
	cat1 := rec.Str(generic.ColCategory1)
	category := p.catalog.Category(cat1)
	if cat1 == "05-3" {
		name := generic.ItemName(rec)
		if strings.Contains(name, "麥精") || strings.Contains(name, "米精") {
			category = generic.CategoryInfantCereal
		}
	}
	return category
}

// passesSaleGates holds the gates shared by sales stage 1 and stage 2,
// except the customer and debt checks stage 1 already ran.
func passesSaleGates(rec generic.Record) bool {
	if rec.Num(generic.ColUnitPrice).IsZero() {
		return false
	}
	return !isContainerDeposit(rec)
}

func isContainerDeposit(rec generic.Record) bool {
	if rec.Str(generic.ColCategory1) != "05-2" {
		return false
	}
	unit := rec.Str(generic.ColUnit)
	return unit == "罐" || unit == "瓶"
}

// =============================================================================
// POINTS
// =============================================================================

// ComputePoints applies the sales point rules.
func (p *Processor) ComputePoints(in generic.PointInput) decimal.Decimal {
	if in.Category == generic.CategoryCashPediatric {
		return decimal.Zero
	}
	base := in.Original
	if dividesByQuantity(in.Category) {
		base = generic.DivideByQuantity(base, in.Quantity)
	}
	if in.Status == generic.StatusRepurchase {
		return generic.Halve(base)
	}
	return base
}

func dividesByQuantity(category string) bool {
	switch category {
	case generic.CategoryAdultMilkPowder, generic.CategoryAdultMilkDrink, generic.CategoryInfantCereal:
		return true
	}
	return false
}

// Priority orders sales categories by the catalog table.
func (p *Processor) Priority(category string) int {
	return p.catalog.SalesPriority(category)
}

// PointsHidden reports whether a category's points are suppressed in
// every rendering (a dash instead of a number).
func PointsHidden(category string) bool {
	return category == generic.CategoryCashPediatric
}
