package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func snapshot(active string, at time.Time) generic.Snapshot {
	return generic.Snapshot{
		ReferenceItems: []generic.ReferenceItem{{ItemID: "RX1", Category: generic.CategoryDispensingPoints}},
		Batch:          []generic.Record{{generic.ColSalesPerson: active, generic.ColPoints: "90"}},
		Bundles: map[string]*generic.PersonBundle{
			active: {
				Role: generic.RoleSales,
				Stage1: []generic.Stage1Row{{
					ID:               "row-1",
					OriginalPoints:   decimal.NewNullDecimal(decimal.NewFromInt(90)),
					CalculatedPoints: decimal.NewFromInt(45),
					Status:           generic.StatusRepurchase,
				}},
			},
		},
		ActivePerson: active,
		Selected:     []string{active},
		Roles:        map[string]generic.Role{active: generic.RoleSales},
		SavedAt:      at,
	}
}

func TestStore_EmptyDatabase(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Latest(ctx)
	assert.ErrorIs(t, err, generic.ErrNoSnapshot)

	_, ok, err := s.LatestTime(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SaveAndLatest(t *testing.T) {
	// GIVEN: Two saves
	ctx := context.Background()
	s := newStore(t)
	first := time.Date(2024, 4, 30, 17, 0, 0, 0, time.UTC)
	second := first.Add(90 * time.Minute)

	require.NoError(t, s.Save(ctx, snapshot("王小明", first)))
	require.NoError(t, s.Save(ctx, snapshot("李大華", second)))

	// WHEN: Reading back
	got, err := s.Latest(ctx)
	require.NoError(t, err)

	// THEN: The newest wins and decimals survive the JSON payload
	assert.Equal(t, "李大華", got.ActivePerson)
	b := got.Bundles["李大華"]
	require.NotNil(t, b)
	require.Len(t, b.Stage1, 1)
	assert.Equal(t, "45", b.Stage1[0].CalculatedPoints.String())
	assert.True(t, b.Stage1[0].OriginalPoints.Valid)
	assert.Equal(t, generic.StatusRepurchase, b.Stage1[0].Status)
	assert.Equal(t, "90", got.Batch[0].Str(generic.ColPoints))

	at, ok, err := s.LatestTime(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, at.Equal(second))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_FileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bonus.db")
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	s, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, snapshot("陳藥師", at)))
	require.NoError(t, s.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "陳藥師", got.ActivePerson)
	assert.True(t, got.SavedAt.Equal(at))
}
