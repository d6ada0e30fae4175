package fitdna_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westhnu/fitdna/internal/fitdna"
)

func TestReadTableJSON(t *testing.T) {
	tableJson := `{
		"25_M_grip_right": {"mean": 42.5, "std": 7.2, "count": 1200},
		"25_F_grip_right": {"mean": 26.1, "std": 5.4, "count": 1100},
		"60_M_sit_and_reach": {"mean": 5.5, "std": 8.0, "count": 340}
	}`

	table, err := fitdna.ReadTableJSON(strings.NewReader(tableJson))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Size())

	entry, err := table.Get(25, fitdna.GenderMale, fitdna.ItemGripRight)
	require.NoError(t, err)
	assert.Equal(t, 42.5, entry.Mean)
	assert.Equal(t, 7.2, entry.Std)
	assert.Equal(t, 1200, entry.Count)

	// item names may themselves contain underscores
	entry, err = table.Get(60, fitdna.GenderMale, fitdna.ItemSitAndReach)
	require.NoError(t, err)
	assert.Equal(t, 5.5, entry.Mean)
}

func TestReadTableJSON_malformedKeys(t *testing.T) {
	testCases := []struct {
		name      string
		tableJson string
	}{
		{"TooFewParts", `{"25M": {"mean": 1, "std": 1, "count": 1}}`},
		{"NonNumericAge", `{"abc_M_grip_right": {"mean": 1, "std": 1, "count": 1}}`},
		{"BadGender", `{"25_X_grip_right": {"mean": 1, "std": 1, "count": 1}}`},
		{"NotJSON", `[1, 2, 3]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fitdna.ReadTableJSON(strings.NewReader(tc.tableJson))
			assert.Error(t, err)
		})
	}
}

func TestTable_Get_missingEntry(t *testing.T) {
	table := fitdna.NewTable(map[fitdna.ReferenceKey]fitdna.ReferenceEntry{
		{Age: 25, Gender: fitdna.GenderMale, Item: fitdna.ItemGripRight}: {Mean: 40, Std: 10, Count: 100},
	})

	// no nearest-age fallback
	_, err := table.Get(26, fitdna.GenderMale, fitdna.ItemGripRight)
	assert.ErrorIs(t, err, fitdna.ErrReferenceMissing)

	_, err = table.Get(25, fitdna.GenderFemale, fitdna.ItemGripRight)
	assert.ErrorIs(t, err, fitdna.ErrReferenceMissing)
}

func TestNormalize(t *testing.T) {
	table := fitdna.NewTable(map[fitdna.ReferenceKey]fitdna.ReferenceEntry{
		{Age: 25, Gender: fitdna.GenderMale, Item: fitdna.ItemGripRight}: {Mean: 40, Std: 10, Count: 100},
	})

	z, err := fitdna.Normalize(50, 25, fitdna.GenderMale, fitdna.ItemGripRight, table)
	require.NoError(t, err)
	assert.Equal(t, 1.0, z)

	z, err = fitdna.Normalize(25, 25, fitdna.GenderMale, fitdna.ItemGripRight, table)
	require.NoError(t, err)
	assert.Equal(t, -1.5, z)

	z, err = fitdna.Normalize(40, 25, fitdna.GenderMale, fitdna.ItemGripRight, table)
	require.NoError(t, err)
	assert.Equal(t, 0.0, z)
}

func TestNormalize_degenerateReference(t *testing.T) {
	table := fitdna.NewTable(map[fitdna.ReferenceKey]fitdna.ReferenceEntry{
		{Age: 25, Gender: fitdna.GenderMale, Item: fitdna.ItemGripRight}: {Mean: 40, Std: 0, Count: 1},
		{Age: 25, Gender: fitdna.GenderMale, Item: fitdna.ItemGripLeft}:  {Mean: 40, Std: -1, Count: 1},
	})

	_, err := fitdna.Normalize(50, 25, fitdna.GenderMale, fitdna.ItemGripRight, table)
	assert.ErrorIs(t, err, fitdna.ErrDegenerateReference)

	_, err = fitdna.Normalize(50, 25, fitdna.GenderMale, fitdna.ItemGripLeft, table)
	assert.ErrorIs(t, err, fitdna.ErrDegenerateReference)
}
