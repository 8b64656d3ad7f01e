// result.go - Normalized analysis result shared by every source

package nutrition

import (
	"errors"
	"math"

	"calorie-backend/models"
)

var (
	// ErrInvalidInput marks caller mistakes (undecodable image, unknown portion, empty query).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound means the source answered but has no such food.
	ErrNotFound = errors.New("food not found")
	// ErrUpstream wraps transport, status and payload failures of a third-party source.
	ErrUpstream = errors.New("nutrition source failed")
)

// Result is the one shape every analysis path returns, whatever produced it.
type Result struct {
	FoodName   string           `json:"foodName"`
	Calories   float64          `json:"calories"`
	Nutrients  models.Nutrients `json:"nutrients"`
	Source     string           `json:"source"`
	Confidence float64          `json:"confidence"`
	Fallback   bool             `json:"fallback"` // true when the values are a placeholder or default
	Portion    Portion          `json:"portion,omitempty"`
}

// BarcodeFallback is served when a barcode cannot be resolved.
func BarcodeFallback() Result {
	return Result{
		FoodName:  "Offline Item",
		Calories:  100,
		Nutrients: models.Nutrients{Protein: 5, Fat: 2, Carbs: 10},
		Source:    "fallback",
		Fallback:  true,
	}
}

// FromEstimate converts estimator output for name into a Result.
func FromEstimate(name string, e Estimate, p Portion) Result {
	if name == "" {
		name = "Unknown Food"
	}
	confidence := 0.5
	if e.Match == "" {
		confidence = 0
	}
	return Result{
		FoodName:   name,
		Calories:   float64(e.Calories),
		Nutrients:  models.Nutrients{Protein: models.Grams(e.Protein), Carbs: models.Grams(e.Carbs), Fat: models.Grams(e.Fat)},
		Source:     "estimator",
		Confidence: confidence,
		Fallback:   e.Match == "",
		Portion:    p,
	}
}

// Scale multiplies a medium-portion result by p, rounding like the estimator does.
func (r Result) Scale(p Portion) Result {
	m := p.Multiplier()
	r.Calories = math.Round(r.Calories * m)
	r.Nutrients = models.Nutrients{
		Protein: models.Grams(round1(float64(r.Nutrients.Protein) * m)),
		Carbs:   models.Grams(round1(float64(r.Nutrients.Carbs) * m)),
		Fat:     models.Grams(round1(float64(r.Nutrients.Fat) * m)),
	}
	r.Portion = p
	return r
}
