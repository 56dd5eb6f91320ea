package vehicle

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Registry is the vehicle population batch generation iterates over.
type Registry struct {
	Vehicles []Descriptor `json:"vehicles"`
}

// LoadRegistry reads the vehicle registry JSON file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vehicle registry: %w", err)
	}
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse vehicle registry: %w", err)
	}
	return &reg, nil
}

// Filter narrows the registry by brand and class; empty values match all.
// A positive limit caps the result.
func (r *Registry) Filter(brand, class string, limit int) []Descriptor {
	var out []Descriptor
	for _, d := range r.Vehicles {
		if brand != "" && !strings.EqualFold(d.Brand, brand) {
			continue
		}
		if class != "" && !strings.EqualFold(d.Class, class) {
			continue
		}
		out = append(out, d)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
