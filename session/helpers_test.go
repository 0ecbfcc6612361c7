package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/session"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

const (
	clerkA     = "王小明"
	clerkB     = "李大華"
	pharmacist = "陳藥師"
	manager    = "林店長"
)

func pointListTable() generic.Table {
	return generic.Table{
		Columns: []string{generic.ColItemID, "分類"},
		Rows: []generic.Record{
			{generic.ColItemID: "RX1", "分類": generic.CategoryDispensingPoints},
			{generic.ColItemID: "P1", "分類": "其他"},
		},
	}
}

func rewardListTable() generic.Table {
	return generic.Table{
		Columns: []string{generic.ColItemID, "類別", "備註", "獎勵金額", "形式"},
		Rows: []generic.Record{
			{generic.ColItemID: "R1", "類別": "奶粉", "備註": "每罐", "獎勵金額": "50"},
			{generic.ColItemID: "V1", "類別": "禮券", "獎勵金額": "100元禮券", "形式": "禮券"},
		},
	}
}

func line(person, itemID, cat1, qty, points string) generic.Record {
	return generic.Record{
		generic.ColSalesPerson: person,
		generic.ColCustomerID:  "C001",
		generic.ColItemID:      itemID,
		generic.ColItemName:    "商品" + itemID,
		generic.ColQuantity:    qty,
		generic.ColUnit:        "盒",
		generic.ColUnitPrice:   "300",
		generic.ColSubtotal:    "600",
		generic.ColPoints:      points,
		generic.ColCategory1:   cat1,
		generic.ColTicketNo:    "A1120412",
	}
}

func salesTable() generic.Table {
	return generic.Table{Rows: []generic.Record{
		line(clerkA, "M1", "05-1", "2", "90"),
		line(clerkA, "R1", "05-1", "2", "0"),
		line(clerkA, "N1", "05-4", "1", "45"),
		line(clerkB, "V1", "06-1", "1", "12"),
		line(pharmacist, "RX1", "09-9", "1", "37"),
		line(pharmacist, "001727", "09-9", "4", "0"),
		line(manager, "M1", "05-1", "1", "50"),
	}}
}

var roles = map[string]generic.Role{
	clerkA:     generic.RoleSales,
	clerkB:     generic.RoleSales,
	pharmacist: generic.RolePharmacist,
	manager:    generic.RoleNoBonus,
}

// loadedState has both reference lists and nothing else.
func loadedState(t *testing.T, e *session.Engine) session.State {
	t.Helper()
	s, err := e.LoadReferenceItems(session.State{}, pointListTable())
	require.NoError(t, err)
	s, err = e.LoadRewardRules(s, rewardListTable())
	require.NoError(t, err)
	return s
}

// classifiedState runs the whole import for the standard batch.
func classifiedState(t *testing.T, e *session.Engine) session.State {
	t.Helper()
	s, err := e.ImportSales(loadedState(t, e), salesTable(), false)
	require.NoError(t, err)
	s, err = e.ConfirmClassification(s, roles)
	require.NoError(t, err)
	return s
}

func findStage1(t *testing.T, b *generic.PersonBundle, itemID string) generic.Stage1Row {
	t.Helper()
	for _, r := range b.Stage1 {
		if r.ItemID == itemID {
			return r
		}
	}
	t.Fatalf("no stage 1 row for %s", itemID)
	return generic.Stage1Row{}
}
