package sales

import (
	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// STAGE 3 - Cosmetics brand revenue
// =============================================================================

// Summarize sums the subtotal column per brand bucket. Every bucket of the
// catalog is present in canonical order, zero when nothing sold, so the
// export columns never shift between persons.
func (p *Processor) Summarize(person string, records []generic.Record) generic.Stage3Summary {
	byBrand := make(map[string]decimal.Decimal, len(p.catalog.Brands))
	for _, rec := range records {
		brand, ok := p.catalog.BrandFor(rec.Str(generic.ColCategory2))
		if !ok {
			continue
		}
		sum, ok := byBrand[brand]
		if !ok {
			sum = decimal.Zero
		}
		byBrand[brand] = sum.Add(rec.Num(generic.ColSubtotal))
	}

	summary := generic.Stage3Summary{
		SalesPerson: person,
		Rows:        make([]generic.Stage3Row, 0, len(p.catalog.Brands)),
		Total:       decimal.Zero,
	}
	for _, b := range p.catalog.Brands {
		sub, ok := byBrand[b.Name]
		if !ok {
			sub = decimal.Zero
		}
		summary.Rows = append(summary.Rows, generic.Stage3Row{CategoryName: b.Name, SubTotal: sub})
		summary.Total = summary.Total.Add(sub)
	}
	return summary
}
