package nutrition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_ExactKeysReturnTableValues(t *testing.T) {
	est := NewEstimator(nil)
	for name, food := range BuiltinTable() {
		got := est.Estimate(name, PortionMedium)
		assert.Equal(t, food.Calories, got.Calories, name)
		assert.Equal(t, name, got.Match, name)
	}
}

func TestEstimate_LargeIsOneAndAHalfMedium(t *testing.T) {
	est := NewEstimator(nil)
	names := []string{"", "unicorn stew", "Chicken Biryani", "a"}
	for name := range BuiltinTable() {
		names = append(names, name)
	}
	for _, name := range names {
		medium := est.Estimate(name, PortionMedium)
		large := est.Estimate(name, PortionLarge)
		assert.Equal(t, int(math.Round(float64(medium.Calories)*1.5)), large.Calories, name)
	}
}

func TestEstimate_SmallPortion(t *testing.T) {
	got := NewEstimator(nil).Estimate("pizza", PortionSmall)
	assert.Equal(t, 214, got.Calories) // 285 * 0.75 = 213.75
	assert.Equal(t, 9.0, got.Protein)
	assert.Equal(t, 27.0, got.Carbs)
	assert.Equal(t, 7.5, got.Fat)
}

func TestEstimate_EmptyNameReturnsDefault(t *testing.T) {
	est := NewEstimator(nil)
	for _, name := range []string{"", "   ", "\t"} {
		got := est.Estimate(name, PortionMedium)
		assert.Equal(t, Estimate{Calories: 200, Protein: 10, Carbs: 25, Fat: 8}, got)
	}
	assert.Equal(t, 300, est.Estimate("", PortionLarge).Calories)
}

func TestEstimate_UnknownReturnsDefault(t *testing.T) {
	got := NewEstimator(nil).Estimate("zzzz", PortionMedium)
	assert.Equal(t, 200, got.Calories)
	assert.Empty(t, got.Match)
}

func TestLookup_CaseAndWhitespaceInsensitive(t *testing.T) {
	key, _, ok := NewEstimator(nil).Lookup("  BaNaNa ")
	require.True(t, ok)
	assert.Equal(t, "banana", key)
}

func TestLookup_ExactBeatsSubstring(t *testing.T) {
	est := NewEstimator(nil)
	key, _, ok := est.Lookup("egg")
	require.True(t, ok)
	assert.Equal(t, "egg", key) // not "boiled egg"
}

func TestLookup_QueryContainsKey_LongestFirst(t *testing.T) {
	est := NewEstimator(nil)
	key, _, _ := est.Lookup("grilled chicken breast with herbs")
	assert.Equal(t, "chicken breast", key)

	key, _, _ = est.Lookup("large pepperoni pizza")
	assert.Equal(t, "pizza", key)
}

func TestLookup_KeyContainsQuery(t *testing.T) {
	key, _, ok := NewEstimator(nil).Lookup("avoca")
	require.True(t, ok)
	assert.Equal(t, "avocado", key)
}

func TestLookup_Deterministic(t *testing.T) {
	est := NewEstimator(Table{"ab": {1, 0, 0, 0}, "ac": {2, 0, 0, 0}})
	for i := 0; i < 20; i++ {
		key, _, _ := est.Lookup("a")
		assert.Equal(t, "ab", key)
	}
}

func TestParsePortion(t *testing.T) {
	p, err := ParsePortion("")
	require.NoError(t, err)
	assert.Equal(t, PortionMedium, p)

	p, err = ParsePortion("LARGE")
	require.NoError(t, err)
	assert.Equal(t, PortionLarge, p)

	_, err = ParsePortion("huge")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 1.0, Portion("huge").Multiplier())
}

func TestParseTable(t *testing.T) {
	tbl, err := ParseTable([]byte(`
Mango: {calories: 99, protein: 1.4, carbs: 25, fat: 0.6}
paratha: {calories: 260, protein: 5, carbs: 36, fat: 10}
`))
	require.NoError(t, err)
	assert.Len(t, tbl, 2)
	assert.Equal(t, 99, tbl["mango"].Calories)

	est := NewEstimator(tbl)
	assert.Equal(t, 99, est.Estimate("mango lassi", PortionMedium).Calories)
	assert.Equal(t, 200, est.Estimate("apple", PortionMedium).Calories)
}

func TestParseTable_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"negative":       `kale: {calories: -1}`,
		"fractional cal": `kale: {calories: 33.5}`,
		"duplicate":      "Kale: {calories: 33}\nkale: {calories: 34}",
		"not yaml":       `[[[`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTable([]byte(raw))
			assert.Error(t, err)
		})
	}
}
