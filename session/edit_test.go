package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/session"
)

// =============================================================================
// STAGE 1 STATUS
// =============================================================================

func TestSetStage1Status_RepurchaseHalvesAndRestores(t *testing.T) {
	// GIVEN: Milk powder at floor(90/2) = 45
	e := session.NewEngine(nil)
	s := classifiedState(t, e)
	b, _ := s.Bundle(clerkA)
	row := findStage1(t, b, "M1")
	require.Equal(t, "45", row.CalculatedPoints.String())

	// WHEN: Marking it repurchase
	rep, err := e.SetStage1Status(s, clerkA, row.ID, generic.StatusRepurchase)
	require.NoError(t, err)

	// THEN: Points halve, the total follows
	rb, _ := rep.Bundle(clerkA)
	got := findStage1(t, rb, "M1")
	assert.Equal(t, generic.StatusRepurchase, got.Status)
	assert.Equal(t, "22", got.CalculatedPoints.String())
	assert.Equal(t, "67", generic.Stage1Total(rb.Stage1).String())
	assert.Len(t, generic.RepurchaseRows(rb.Stage1), 1)

	// AND: The input state is untouched
	assert.Equal(t, "45", findStage1(t, b, "M1").CalculatedPoints.String())
	assert.Equal(t, generic.StatusDevelop, findStage1(t, b, "M1").Status)

	// WHEN: Going back to develop
	back, err := e.SetStage1Status(rep, clerkA, row.ID, generic.StatusDevelop)
	require.NoError(t, err)

	// THEN: The original points come back, not a halved value doubled
	bb, _ := back.Bundle(clerkA)
	assert.Equal(t, "45", findStage1(t, bb, "M1").CalculatedPoints.String())
}

func TestSetStage1Status_DeleteZeroesRow(t *testing.T) {
	e := session.NewEngine(nil)
	s := classifiedState(t, e)
	b, _ := s.Bundle(clerkA)
	row := findStage1(t, b, "N1")

	next, err := e.SetStage1Status(s, clerkA, row.ID, generic.StatusDelete)
	require.NoError(t, err)

	nb, _ := next.Bundle(clerkA)
	assert.True(t, findStage1(t, nb, "N1").CalculatedPoints.IsZero())
	assert.Equal(t, "45", generic.Stage1Total(nb.Stage1).String())
	assert.Len(t, nb.Stage1, 2, "deleted rows stay visible")
}

func TestSetStage1Status_DispensingIgnoresRepurchase(t *testing.T) {
	e := session.NewEngine(nil)
	s := classifiedState(t, e)
	b, _ := s.Bundle(pharmacist)
	row := findStage1(t, b, "RX1")

	next, err := e.SetStage1Status(s, pharmacist, row.ID, generic.StatusRepurchase)
	require.NoError(t, err)

	nb, _ := next.Bundle(pharmacist)
	assert.Equal(t, "37", findStage1(t, nb, "RX1").CalculatedPoints.String())
}

func TestSetStage1Status_StaleReferenceIsNoop(t *testing.T) {
	e := session.NewEngine(nil)
	s := classifiedState(t, e)

	next, err := e.SetStage1Status(s, clerkA, "no-such-row", generic.StatusRepurchase)
	require.NoError(t, err)
	assert.Equal(t, s.Bundles, next.Bundles)

	next, err = e.SetStage1Status(s, "nobody", "no-such-row", generic.StatusRepurchase)
	require.NoError(t, err)
	assert.Equal(t, s.Bundles, next.Bundles)
}

func TestSetStage1Status_InvalidStatus(t *testing.T) {
	e := session.NewEngine(nil)
	s := classifiedState(t, e)
	b, _ := s.Bundle(clerkA)

	_, err := e.SetStage1Status(s, clerkA, b.Stage1[0].ID, generic.Status("作廢"))

	assert.ErrorIs(t, err, generic.ErrValidation)
}

// =============================================================================
// STAGE 2 EDITS
// =============================================================================

func TestToggleStage2Deleted(t *testing.T) {
	// GIVEN: clerkA's 100 cash reward
	e := session.NewEngine(nil)
	s := classifiedState(t, e)
	b, _ := s.Bundle(clerkA)
	id := b.Stage2[0].ID

	// WHEN: Deleting it
	off := e.ToggleStage2Deleted(s, clerkA, id)

	// THEN: It leaves the totals but stays in the table
	ob, _ := off.Bundle(clerkA)
	require.Len(t, ob.Stage2, 1)
	assert.True(t, ob.Stage2[0].IsDeleted)
	assert.True(t, generic.SumStage2(ob.Stage2).Cash.IsZero())
	assert.False(t, b.Stage2[0].IsDeleted)

	// WHEN: Toggling again
	on := e.ToggleStage2Deleted(off, clerkA, id)
	nb, _ := on.Bundle(clerkA)
	assert.Equal(t, "100", generic.SumStage2(nb.Stage2).Cash.String())
}

func TestSetStage2CustomReward(t *testing.T) {
	e := session.NewEngine(nil)
	s := classifiedState(t, e)
	b, _ := s.Bundle(clerkA)
	id := b.Stage2[0].ID

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "80", "80"},
		{"thousands separator", " 1,200 ", "1200"},
		{"zero overrides", "0", "0"},
		{"blank clears", "  ", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := e.SetStage2CustomReward(s, clerkA, id, tt.input)
			require.NoError(t, err)

			nb, _ := next.Bundle(clerkA)
			assert.Equal(t, tt.want, generic.SumStage2(nb.Stage2).Cash.String())
		})
	}
}

func TestSetStage2CustomReward_ClearAfterSet(t *testing.T) {
	e := session.NewEngine(nil)
	s := classifiedState(t, e)
	b, _ := s.Bundle(clerkA)
	id := b.Stage2[0].ID

	set, err := e.SetStage2CustomReward(s, clerkA, id, "70")
	require.NoError(t, err)
	cleared, err := e.SetStage2CustomReward(set, clerkA, id, "")
	require.NoError(t, err)

	cb, _ := cleared.Bundle(clerkA)
	assert.False(t, cb.Stage2[0].CustomReward.Valid)
	assert.Equal(t, "100", cb.Stage2[0].EffectiveReward().String())
}

func TestSetStage2CustomReward_RejectsText(t *testing.T) {
	e := session.NewEngine(nil)
	s := classifiedState(t, e)
	b, _ := s.Bundle(clerkA)

	same, err := e.SetStage2CustomReward(s, clerkA, b.Stage2[0].ID, "五十")

	assert.ErrorIs(t, err, generic.ErrValidation)
	sb, _ := same.Bundle(clerkA)
	assert.False(t, sb.Stage2[0].CustomReward.Valid)
}

func TestStage2Edits_PharmacistRowsAreReadOnly(t *testing.T) {
	e := session.NewEngine(nil)
	s := classifiedState(t, e)
	b, _ := s.Bundle(pharmacist)
	id := b.Stage2[0].ID

	next := e.ToggleStage2Deleted(s, pharmacist, id)
	nb, _ := next.Bundle(pharmacist)
	assert.False(t, nb.Stage2[0].IsDeleted)

	next, err := e.SetStage2CustomReward(s, pharmacist, id, "10")
	require.NoError(t, err)
	nb, _ = next.Bundle(pharmacist)
	assert.False(t, nb.Stage2[0].CustomReward.Valid)
}

func TestStage2Edits_StaleReferenceIsNoop(t *testing.T) {
	e := session.NewEngine(nil)
	s := classifiedState(t, e)

	next := e.ToggleStage2Deleted(s, clerkA, "gone")
	assert.Equal(t, s.Bundles, next.Bundles)

	next, err := e.SetStage2CustomReward(s, "nobody", "gone", "10")
	require.NoError(t, err)
	assert.Equal(t, s.Bundles, next.Bundles)
}
