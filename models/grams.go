// grams.go - Gram quantities that accept numbers or "15g" strings

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Grams is a macro magnitude. It decodes from either a JSON number (15) or a
// string carrying the unit ("15g", "15 g", "15.5"), and always encodes as a number.
type Grams float64

func (g *Grams) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*g = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseGrams(s)
		if err != nil {
			return err
		}
		*g = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("grams: %w", err)
	}
	return g.set(f)
}

func (g *Grams) set(f float64) error {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("grams: %v is not a valid amount", f)
	}
	*g = Grams(f)
	return nil
}

// ParseGrams parses "15g", "15 g", "15.5" or "" (zero).
func ParseGrams(s string) (Grams, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, MacroUnit))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("grams: cannot parse %q", s)
	}
	var g Grams
	if err := g.set(f); err != nil {
		return 0, err
	}
	return g, nil
}
