package sales_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/sales"
)

// =============================================================================
// STAGE 2
// =============================================================================

func TestBuildRewards_MatchesRules(t *testing.T) {
	// GIVEN: A rule-matched sale and an unmatched one
	p := sales.New(nil)
	records := []generic.Record{
		record("R1", "05-1", "2", "0"),
		record("X9", "05-1", "2", "0"),
	}

	// WHEN: Building rewards
	rows := p.BuildRewards("王小明", records, testRef())

	// THEN: One row carrying the rule's fields, points not required
	require.Len(t, rows, 1)
	r := rows[0]
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "R1", r.ItemID)
	assert.Equal(t, "奶粉", r.Category)
	assert.Equal(t, "每罐", r.Note)
	assert.Equal(t, generic.FormatCash, r.Format)
	assert.Equal(t, "10", r.DisplayDate)
	assert.False(t, r.IsDeleted)
	assert.False(t, r.CustomReward.Valid)
	assert.Equal(t, "100", r.EffectiveReward().String())
}

func TestBuildRewards_Gates(t *testing.T) {
	p := sales.New(nil)

	noCustomer := record("R1", "05-1", "1", "0")
	noCustomer[generic.ColCustomerID] = "undefined"

	inDebt := record("R1", "05-1", "1", "0")
	inDebt[generic.ColDebt] = "100"

	gift := record("R1", "05-1", "1", "0")
	gift[generic.ColUnitPrice] = "0"

	deposit := record("R1", "05-2", "1", "0")
	deposit[generic.ColUnit] = "瓶"

	rows := p.BuildRewards("王小明", []generic.Record{noCustomer, inDebt, gift, deposit}, testRef())
	assert.Empty(t, rows)
}

func TestBuildRewards_SortsByCategoryThenDate(t *testing.T) {
	p := sales.New(nil)
	late := record("R1", "05-1", "1", "0")
	late[generic.ColTicketNo] = "A112025"
	early := record("R1", "05-1", "1", "0")
	early[generic.ColTicketNo] = "A112003"
	voucher := record("V1", "05-1", "1", "0")

	rows := p.BuildRewards("王小明", []generic.Record{late, voucher, early}, testRef())

	require.Len(t, rows, 3)
	assert.Equal(t, "奶粉", rows[0].Category)
	assert.Equal(t, "03", rows[0].DisplayDate)
	assert.Equal(t, "25", rows[1].DisplayDate)
	assert.Equal(t, "禮券", rows[2].Category)
}

func TestBuildRewards_VoucherTotals(t *testing.T) {
	p := sales.New(nil)
	rows := p.BuildRewards("王小明", []generic.Record{
		record("V1", "05-1", "2", "0"),
		record("R1", "05-1", "3", "0"),
	}, testRef())

	totals := generic.SumStage2(rows)

	assert.Equal(t, "150", totals.Cash.String())
	assert.Equal(t, "2", totals.Vouchers.String())
}

// =============================================================================
// STAGE 3
// =============================================================================

func TestSummarize_EveryBrandInOrder(t *testing.T) {
	// GIVEN: Sales in two cosmetics buckets and one non-cosmetic line
	p := sales.New(nil)
	a := record("C1", "08", "1", "0")
	a[generic.ColCategory2] = "08-1"
	a[generic.ColSubtotal] = "1,200"
	b := record("C2", "08", "1", "0")
	b[generic.ColCategory2] = "08-1"
	b[generic.ColSubtotal] = "300"
	c := record("C3", "08", "1", "0")
	c[generic.ColCategory2] = "08-3"
	c[generic.ColSubtotal] = "450"
	other := record("M1", "05-1", "1", "0")

	// WHEN: Summarizing
	s := p.Summarize("王小明", []generic.Record{a, b, c, other})

	// THEN: All five buckets, zero-filled, in catalog order
	require.Len(t, s.Rows, 5)
	assert.Equal(t, "理膚寶水", s.Rows[0].CategoryName)
	assert.Equal(t, "1500", s.Rows[0].SubTotal.String())
	assert.Equal(t, "0", s.Rows[1].SubTotal.String())
	assert.Equal(t, "450", s.Rows[2].SubTotal.String())
	assert.Equal(t, "其他美妝", s.Rows[4].CategoryName)
	assert.Equal(t, "1950", s.Total.String())
	assert.Equal(t, "王小明", s.SalesPerson)
}

func TestSummarize_CustomCatalog(t *testing.T) {
	cat := generic.DefaultCatalog()
	cat.Brands = []generic.Brand{{Code: "09-1", Name: "自有品牌"}}
	p := sales.New(cat)

	rec := record("C1", "09", "1", "0")
	rec[generic.ColCategory2] = "09-1"

	s := p.Summarize("王小明", []generic.Record{rec})

	require.Len(t, s.Rows, 1)
	assert.Equal(t, "1000", s.Total.String())
}
