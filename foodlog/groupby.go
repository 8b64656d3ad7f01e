// groupby.go - Per-day aggregation of food entries

package foodlog

import (
	"math"
	"sort"
	"time"

	"calorie-backend/models"
)

const dayLayout = "2006-01-02"

// Totals sums calories and macros over a set of entries.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Count    int     `json:"count"`
}

func (t *Totals) add(e models.FoodLog) {
	t.Calories = round1(t.Calories + e.Calories)
	t.Protein = round1(t.Protein + float64(e.Nutrients.Protein))
	t.Carbs = round1(t.Carbs + float64(e.Nutrients.Carbs))
	t.Fat = round1(t.Fat + float64(e.Nutrients.Fat))
	t.Count++
}

// DayGroup is one calendar day of history.
type DayGroup struct {
	Date string `json:"date"` // YYYY-MM-DD in the store's zone
	Totals
}

// GroupByDay buckets entries by the calendar day they were created on in loc,
// newest day first. Entries may arrive in any order.
func GroupByDay(entries []models.FoodLog, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.UTC
	}
	byDay := make(map[string]*DayGroup)
	for _, e := range entries {
		day := e.CreatedAt.In(loc).Format(dayLayout)
		g, ok := byDay[day]
		if !ok {
			g = &DayGroup{Date: day}
			byDay[day] = g
		}
		g.add(e)
	}

	out := make([]DayGroup, 0, len(byDay))
	for _, g := range byDay {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date }) // YYYY-MM-DD sorts lexically
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
