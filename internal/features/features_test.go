package features

import (
	"errors"
	"math"
	"testing"

	"github.com/KaramelBytes/listenlens/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var header = []string{ColAge, ColCountry, ColMinutes, ColSongsLiked, ColDiscoverWeekly}

var rows = [][]string{
	{"10", "Brazil", "100", "50", "70"},
	{"18", "India", "200", "51", "70.5"},
	{"65", "USA", "300", "10", "90"},
	{"66", "Brazil", "", "0", ""},
	{"26", "Japan", "400", "75", "12"},
	{"19", "Germany", "500", "5", "71"},
	{"50", "France", "600", "99", "69.9"},
}

func derived(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.FromRecords("listeners.csv", header, rows)
	require.NoError(t, err)
	require.NoError(t, Derive(tbl))
	return tbl
}

func bools(t *testing.T, tbl *dataset.Table, name string) []bool {
	t.Helper()
	c, err := tbl.ColumnOf(name, dataset.Bool)
	require.NoError(t, err)
	out := make([]bool, c.Len())
	for i := range out {
		v, ok := c.Bool(i)
		require.True(t, ok, "%s row %d missing", name, i)
		out[i] = v
	}
	return out
}

func TestDerive_AddsColumnsInOrder(t *testing.T) {
	tbl := derived(t)
	names := tbl.Names()
	assert.Equal(t, []string{ColHighEngagement, ColMinutesNorm, ColHeavyLiker, ColAgeGroup, ColTopCountry}, names[len(header):])
}

func TestThresholdFlags(t *testing.T) {
	tbl := derived(t)
	// strictly greater than the limit; missing engagement compares false
	assert.Equal(t, []bool{false, true, true, false, false, true, false}, bools(t, tbl, ColHighEngagement))
	assert.Equal(t, []bool{false, true, false, false, true, false, true}, bools(t, tbl, ColHeavyLiker))
}

func TestNormalizedMinutes(t *testing.T) {
	tbl := derived(t)
	c, err := tbl.ColumnOf(ColMinutesNorm, dataset.Numeric)
	require.NoError(t, err)

	std := math.Sqrt(175000.0 / 5)
	first, ok := c.Float(0)
	require.True(t, ok)
	assert.InDelta(t, -250/std, first, 1e-9)
	last, _ := c.Float(6)
	assert.InDelta(t, 250/std, last, 1e-9)
	assert.True(t, c.IsMissing(3), "missing minutes stay missing")

	var sum float64
	for _, v := range c.Floats() {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestNormalizedMinutes_ConstantColumn(t *testing.T) {
	tbl, err := dataset.FromRecords("flat.csv", []string{ColMinutes}, [][]string{{"5"}, {"5"}})
	require.NoError(t, err)
	c, err := NormalizedMinutes(tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Missing())
}

func TestAgeGroup_RightClosedBands(t *testing.T) {
	tbl := derived(t)
	c, err := tbl.ColumnOf(ColAgeGroup, dataset.Categorical)
	require.NoError(t, err)
	assert.Equal(t, AgeLabels, c.Levels)
	assert.Equal(t, "category", c.Dtype())

	want := []string{"", "Teen (13-18)", "Senior (51+)", "", "Adult (26-35)", "Young Adult (19-25)", "Mid-age (36-50)"}
	for i, w := range want {
		got, ok := c.Str(i)
		if w == "" {
			assert.False(t, ok, "row %d should fall outside every band", i)
			continue
		}
		assert.True(t, ok)
		assert.Equal(t, w, got, "row %d", i)
	}
}

func TestTopCountry(t *testing.T) {
	tbl := derived(t)
	// Brazil leads; the remaining one-offs tie and keep first appearance, so France is sixth
	assert.Equal(t, []bool{true, true, true, true, true, true, false}, bools(t, tbl, ColTopCountry))
}

func TestDerive_MissingSourceColumn(t *testing.T) {
	tbl, err := dataset.FromRecords("partial.csv", []string{ColAge}, [][]string{{"20"}})
	require.NoError(t, err)
	err = Derive(tbl)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrColumnNotFound))
	assert.Contains(t, err.Error(), ColHighEngagement)
}

func TestDerive_WrongKind(t *testing.T) {
	tbl, err := dataset.FromRecords("odd.csv", []string{ColAge}, [][]string{{"young"}})
	require.NoError(t, err)
	_, err = AgeGroup(tbl)
	var kindErr *dataset.ColumnKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, dataset.Numeric, kindErr.Want)
}
