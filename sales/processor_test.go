package sales_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/sales"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func record(itemID, cat1, qty, points string) generic.Record {
	return generic.Record{
		generic.ColSalesPerson:  "王小明",
		generic.ColCustomerID:   "C001",
		generic.ColCustomerName: "林小姐",
		generic.ColItemID:       itemID,
		generic.ColItemName:     "商品" + itemID,
		generic.ColQuantity:     qty,
		generic.ColUnit:         "盒",
		generic.ColUnitPrice:    "500",
		generic.ColSubtotal:     "1000",
		generic.ColPoints:       points,
		generic.ColCategory1:    cat1,
		generic.ColTicketNo:     "A1120101",
	}
}

func testRef() *generic.ReferenceData {
	return generic.NewReferenceData(
		[]generic.ReferenceItem{
			{ItemID: "RX1", Category: generic.CategoryDispensingPoints},
			{ItemID: "P1", Category: "其他"},
		},
		[]generic.RewardRule{
			{ItemID: "R1", Category: "奶粉", Note: "每罐", Reward: dec("50"), RewardLabel: "50", Format: generic.FormatCash},
			{ItemID: "V1", Category: "禮券", Reward: dec("0"), RewardLabel: "100元禮券", Format: generic.FormatVoucher},
		},
	)
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

func TestClassify_Categories(t *testing.T) {
	p := sales.New(nil)
	ref := testRef()

	tests := []struct {
		name string
		rec  generic.Record
		want string
	}{
		{"adult milk powder", record("M1", "05-1", "1", "10"), generic.CategoryAdultMilkPowder},
		{"nutrition", record("N1", "05-4", "1", "10"), "營養品"},
		{"unknown code", record("X1", "99-1", "1", "10"), generic.CategoryOther},
		{"pediatric cash", record("K1", "05-3", "1", "10"), generic.CategoryCashPediatric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Classify(tt.rec, ref)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_InfantCerealOverride(t *testing.T) {
	p := sales.New(nil)
	rec := record("K2", "05-3", "1", "10")
	rec[generic.ColItemName] = "雀巢米精 250g"

	got, ok := p.Classify(rec, testRef())

	require.True(t, ok)
	assert.Equal(t, generic.CategoryInfantCereal, got)
}

func TestClassify_Exclusions(t *testing.T) {
	p := sales.New(nil)
	ref := testRef()

	free := record("M1", "05-1", "1", "10")
	free[generic.ColUnitPrice] = "0"
	_, ok := p.Classify(free, ref)
	assert.False(t, ok, "zero unit price is a gift")

	deposit := record("D1", "05-2", "1", "10")
	deposit[generic.ColUnit] = "罐"
	_, ok = p.Classify(deposit, ref)
	assert.False(t, ok, "05-2 by the can is a container deposit")

	drink := record("D2", "05-2", "1", "10")
	drink[generic.ColUnit] = "箱"
	_, ok = p.Classify(drink, ref)
	assert.True(t, ok, "05-2 by the case is a sale")

	_, ok = p.Classify(record("RX1", "05-4", "1", "10"), ref)
	assert.False(t, ok, "dispensing items belong to pharmacists")

	_, ok = p.Classify(record("P1", "05-4", "1", "10"), ref)
	assert.True(t, ok, "other point-list items stay with sales")
}

// =============================================================================
// POINTS
// =============================================================================

func TestComputePoints(t *testing.T) {
	p := sales.New(nil)

	tests := []struct {
		name     string
		category string
		original string
		qty      string
		status   generic.Status
		want     string
	}{
		{"milk powder divides", generic.CategoryAdultMilkPowder, "100", "3", generic.StatusDevelop, "33"},
		{"milk powder repurchase", generic.CategoryAdultMilkPowder, "100", "3", generic.StatusRepurchase, "16"},
		{"milk drink divides", generic.CategoryAdultMilkDrink, "90", "2", generic.StatusHalfYear, "45"},
		{"cereal divides", generic.CategoryInfantCereal, "30", "4", generic.StatusDevelop, "7"},
		{"other kept", "營養品", "45", "3", generic.StatusDevelop, "45"},
		{"other repurchase", "營養品", "45", "3", generic.StatusRepurchase, "22"},
		{"pediatric cash is zero", generic.CategoryCashPediatric, "80", "1", generic.StatusDevelop, "0"},
		{"zero quantity divides by one", generic.CategoryAdultMilkPowder, "100", "0", generic.StatusDevelop, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ComputePoints(generic.PointInput{
				Original: dec(tt.original),
				Category: tt.category,
				Quantity: dec(tt.qty),
				Status:   tt.status,
			})
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPriority_UnknownSortsLast(t *testing.T) {
	p := sales.New(nil)
	assert.Less(t, p.Priority(generic.CategoryAdultMilkPowder), p.Priority(generic.CategoryOther))
	assert.Equal(t, generic.UnknownPriority, p.Priority("新分類"))
}

func TestPointsHidden(t *testing.T) {
	assert.True(t, sales.PointsHidden(generic.CategoryCashPediatric))
	assert.False(t, sales.PointsHidden(generic.CategoryAdultMilkPowder))
}

func TestStage1_Scenario(t *testing.T) {
	// GIVEN: Three sales lines, one of them a free gift
	p := sales.New(nil)
	batch := []generic.Record{
		record("M1", "05-1", "3", "100"),
		record("N1", "05-4", "1", "45"),
		record("G1", "05-4", "1", "20"),
	}
	batch[2][generic.ColUnitPrice] = "0"

	// WHEN: Building stage 1
	rows := generic.BuildStage1(p, batch, []int{0, 1, 2}, testRef())

	// THEN: Milk powder first at floor(100/3), the gift excluded
	require.Len(t, rows, 2)
	assert.Equal(t, generic.CategoryAdultMilkPowder, rows[0].Category)
	assert.Equal(t, "33", rows[0].CalculatedPoints.String())
	assert.Equal(t, "45", rows[1].CalculatedPoints.String())
	assert.Equal(t, "78", generic.Stage1Total(rows).String())
}
