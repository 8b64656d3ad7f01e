// table.go - Loads the keyword nutrition table from YAML

package nutrition

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTable reads a keyword table from a YAML file of the form
//
//	apple: {calories: 95, protein: 0.5, carbs: 25, fat: 0.3}
//
// Keys are lowercased. The result replaces the built-in table entirely.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read nutrition table: %w", err)
	}
	return ParseTable(raw)
}

func ParseTable(raw []byte) (Table, error) {
	var in map[string]Food
	if err := yaml.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("parse nutrition table: %w", err)
	}
	if len(in) == 0 {
		return nil, fmt.Errorf("nutrition table is empty")
	}
	out := make(Table, len(in))
	for k, f := range in {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			return nil, fmt.Errorf("nutrition table: empty food name")
		}
		if f.Calories < 0 || f.Protein < 0 || f.Carbs < 0 || f.Fat < 0 {
			return nil, fmt.Errorf("nutrition table: %q has a negative value", key)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("nutrition table: %q listed twice", key)
		}
		out[key] = f
	}
	return out, nil
}
