// openfoodfacts.go - Barcode lookups against OpenFoodFacts

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

// BarcodeSource resolves a product barcode to nutrition.
type BarcodeSource interface {
	LookupBarcode(ctx context.Context, code string) (Result, error)
}

// OpenFoodFacts queries the OpenFoodFacts v2 product API.
type OpenFoodFacts struct {
	baseURL string
	client  *http.Client
}

func NewOpenFoodFacts(baseURL string, timeout time.Duration) *OpenFoodFacts {
	return &OpenFoodFacts{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type offResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		Nutriments  struct {
			EnergyKcal100g models.Grams `json:"energy-kcal_100g"`
			Proteins100g   models.Grams `json:"proteins_100g"`
			Fat100g        models.Grams `json:"fat_100g"`
			Carbs100g      models.Grams `json:"carbohydrates_100g"`
		} `json:"nutriments"`
	} `json:"product"`
}

// LookupBarcode returns per-100g nutrition for code. ErrNotFound when the
// product is unknown, ErrUpstream for anything that went wrong on the way.
func (o *OpenFoodFacts) LookupBarcode(ctx context.Context, code string) (Result, error) {
	u := fmt.Sprintf("%s/api/v2/product/%s.json", o.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: build openfoodfacts request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: call openfoodfacts: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read openfoodfacts response: %v", ErrUpstream, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return Result{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: openfoodfacts status %d", ErrUpstream, resp.StatusCode)
	}

	var pr offResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return Result{}, fmt.Errorf("%w: parse openfoodfacts JSON: %v", ErrUpstream, err)
	}
	if pr.Status != 1 {
		return Result{}, ErrNotFound
	}

	name := strings.TrimSpace(pr.Product.ProductName)
	if name == "" {
		name = "Unknown"
	}
	n := pr.Product.Nutriments
	return Result{
		FoodName: name,
		Calories: math.Round(float64(n.EnergyKcal100g)*10) / 10,
		Nutrients: models.Nutrients{
			Protein: n.Proteins100g,
			Fat:     n.Fat100g,
			Carbs:   n.Carbs100g,
		},
		Source:     "openfoodfacts",
		Confidence: 1,
	}, nil
}
