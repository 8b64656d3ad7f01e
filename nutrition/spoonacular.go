// spoonacular.go - Text nutrition sources (local, mock, Spoonacular)

package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"calorie-backend/models"
)

// TextSource turns a free-text food description into a medium-portion Result.
type TextSource interface {
	Name() string
	AnalyzeText(ctx context.Context, query string) (Result, error)
}

// localText answers from the keyword table.
type localText struct{ est *Estimator }

func (l localText) Name() string { return "estimator" }

func (l localText) AnalyzeText(_ context.Context, query string) (Result, error) {
	return FromEstimate(query, l.est.Estimate(query, PortionMedium), PortionMedium), nil
}

// MockText always answers with the same record; useful for client development.
type MockText struct{}

func (MockText) Name() string { return "mock" }

func (MockText) AnalyzeText(_ context.Context, query string) (Result, error) {
	name := strings.TrimSpace(query)
	if name == "" {
		name = "Test Food"
	}
	return Result{
		FoodName:  name,
		Calories:  250,
		Nutrients: models.Nutrients{Protein: 15, Fat: 10, Carbs: 30},
		Source:    "mock",
	}, nil
}

// Spoonacular uses the guessNutrition endpoint to estimate a dish by title.
type Spoonacular struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewSpoonacular(baseURL, apiKey string, timeout time.Duration) *Spoonacular {
	return &Spoonacular{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *Spoonacular) Name() string { return "spoonacular" }

type spoonValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type spoonGuess struct {
	Status   string     `json:"status"`
	Calories spoonValue `json:"calories"`
	Protein  spoonValue `json:"protein"`
	Fat      spoonValue `json:"fat"`
	Carbs    spoonValue `json:"carbs"`
	Recipes  int        `json:"recipesUsed"`
}

func (s *Spoonacular) AnalyzeText(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, fmt.Errorf("%w: empty query", ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("title", query)
	params.Set("apiKey", s.apiKey)
	u := s.baseURL + "/recipes/guessNutrition?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: build spoonacular request: %v", ErrUpstream, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: call spoonacular: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read spoonacular response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		// 402 is the daily quota, 401 a bad key; both are upstream problems for us.
		return Result{}, fmt.Errorf("%w: spoonacular status %d", ErrUpstream, resp.StatusCode)
	}

	var g spoonGuess
	if err := json.Unmarshal(body, &g); err != nil {
		return Result{}, fmt.Errorf("%w: parse spoonacular JSON: %v", ErrUpstream, err)
	}
	if g.Status == "failure" || (g.Recipes == 0 && g.Calories.Value == 0) {
		return Result{}, ErrNotFound
	}

	return Result{
		FoodName: query,
		Calories: math.Round(g.Calories.Value),
		Nutrients: models.Nutrients{
			Protein: models.Grams(round1(g.Protein.Value)),
			Fat:     models.Grams(round1(g.Fat.Value)),
			Carbs:   models.Grams(round1(g.Carbs.Value)),
		},
		Source:     "spoonacular",
		Confidence: 0.8,
	}, nil
}
