// estimator.go - Keyword-table nutrition estimates

package nutrition

import (
	"math"
	"sort"
	"strings"
)

// Food is the per-serving (medium portion) nutrition of one table entry.
type Food struct {
	Calories int     `yaml:"calories" json:"calories"`
	Protein  float64 `yaml:"protein" json:"protein"`
	Carbs    float64 `yaml:"carbs" json:"carbs"`
	Fat      float64 `yaml:"fat" json:"fat"`
}

// Table maps a lowercase food keyword to its nutrition.
type Table map[string]Food

// DefaultFood is returned when nothing in the table matches.
var DefaultFood = Food{Calories: 200, Protein: 10, Carbs: 25, Fat: 8}

// Estimate is the scaled estimator output. Match is the table key that was
// used, empty when DefaultFood was.
type Estimate struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Match    string  `json:"match,omitempty"`
}

type Estimator struct {
	table Table
	keys  []string // longest first, then alphabetical
}

// NewEstimator builds an estimator over t. A nil table means BuiltinTable.
func NewEstimator(t Table) *Estimator {
	if t == nil {
		t = BuiltinTable()
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return &Estimator{table: t, keys: keys}
}

// Lookup finds the table entry for name: exact key first, then a key the
// name contains, then a key containing the name.
func (e *Estimator) Lookup(name string) (string, Food, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return "", DefaultFood, false
	}
	if f, ok := e.table[q]; ok {
		return q, f, true
	}
	for _, k := range e.keys {
		if strings.Contains(q, k) {
			return k, e.table[k], true
		}
	}
	for _, k := range e.keys {
		if strings.Contains(k, q) {
			return k, e.table[k], true
		}
	}
	return "", DefaultFood, false
}

// Estimate returns the nutrition of name scaled to portion.
func (e *Estimator) Estimate(name string, portion Portion) Estimate {
	key, f, _ := e.Lookup(name)
	m := portion.Multiplier()
	return Estimate{
		Calories: int(math.Round(float64(f.Calories) * m)),
		Protein:  round1(f.Protein * m),
		Carbs:    round1(f.Carbs * m),
		Fat:      round1(f.Fat * m),
		Match:    key,
	}
}

// Size reports how many foods the estimator knows.
func (e *Estimator) Size() int { return len(e.table) }

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// BuiltinTable returns a fresh copy of the compiled-in keyword table.
func BuiltinTable() Table {
	return Table{
		"apple":          {95, 0.5, 25, 0.3},
		"avocado":        {240, 3, 12.8, 22},
		"banana":         {105, 1.3, 27, 0.4},
		"beef":           {250, 26, 0, 15},
		"biryani":        {290, 12, 38, 10},
		"boiled egg":     {78, 6.3, 0.6, 5.3},
		"bread":          {79, 2.7, 15, 1},
		"burger":         {354, 20, 29, 17},
		"cheese":         {113, 7, 0.4, 9},
		"chicken":        {239, 27, 0, 14},
		"chicken breast": {165, 31, 0, 3.6},
		"coffee":         {2, 0.3, 0, 0},
		"cookie":         {148, 1.5, 20, 7},
		"dal":            {198, 13, 34, 1},
		"donut":          {195, 2, 22, 11},
		"egg":            {78, 6.3, 0.6, 5.3},
		"french fries":   {312, 3.4, 41, 15},
		"fried rice":     {238, 5.5, 45, 4.1},
		"ice cream":      {207, 3.5, 24, 11},
		"milk":           {103, 8, 12, 2.4},
		"oatmeal":        {158, 6, 27, 3.2},
		"orange":         {62, 1.2, 15, 0.2},
		"pasta":          {221, 8.1, 43, 1.3},
		"pizza":          {285, 12, 36, 10},
		"potato":         {161, 4.3, 37, 0.2},
		"rice":           {206, 4.3, 45, 0.4},
		"roti":           {120, 3, 18, 3.7},
		"salad":          {33, 2, 6, 0.4},
		"salmon":         {208, 20, 0, 13},
		"samosa":         {262, 4, 24, 17},
		"sandwich":       {250, 11, 30, 9},
		"soda":           {140, 0, 39, 0},
		"steak":          {271, 25, 0, 19},
		"tea":            {2, 0, 0.5, 0},
		"yogurt":         {100, 17, 6, 0.7},
	}
}
