// portion.go - Portion sizes and their calorie multipliers

package nutrition

import (
	"fmt"
	"strings"
)

// Portion is a serving size relative to the table's medium serving.
type Portion string

const (
	PortionSmall  Portion = "small"
	PortionMedium Portion = "medium"
	PortionLarge  Portion = "large"
)

// ParsePortion accepts small|medium|large in any case; empty means medium.
func ParsePortion(s string) (Portion, error) {
	switch p := Portion(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PortionMedium, nil
	case PortionSmall, PortionMedium, PortionLarge:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown portion %q", ErrInvalidInput, s)
	}
}

// Multiplier scales medium-portion values. Anything unrecognised counts as medium.
func (p Portion) Multiplier() float64 {
	switch p {
	case PortionSmall:
		return 0.75
	case PortionLarge:
		return 1.5
	default:
		return 1.0
	}
}
