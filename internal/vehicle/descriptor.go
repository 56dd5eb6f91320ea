// Package vehicle defines vehicle descriptors and their normalized search form.
package vehicle

import (
	"fmt"
	"strings"
)

// Descriptor identifies one vehicle variant. It is immutable input to the
// resolution pipeline; all matching happens against the normalized form.
type Descriptor struct {
	ID             string `json:"id,omitempty"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Trim           string `json:"trim,omitempty"`
	Year           int    `json:"year"`
	EngineCode     string `json:"engineCode,omitempty"`
	EngineName     string `json:"engineName,omitempty"`
	DisplacementCc int    `json:"displacementCc,omitempty"`
	Fuel           string `json:"fuel,omitempty"`
	Class          string `json:"vehicleClass"`
}

// DisplayName returns a human readable identity for reports and logs.
func (d Descriptor) DisplayName() string {
	parts := []string{d.Brand, d.Model}
	if d.Trim != "" {
		parts = append(parts, d.Trim)
	}
	if d.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", d.Year))
	}
	return strings.Join(parts, " ")
}

// Key returns the stable identifier used for result files and cache entries.
// An explicit ID wins; otherwise the normalized key is derived.
func (d Descriptor) Key() string {
	if d.ID != "" {
		return d.ID
	}
	return NormalizedKey(d)
}
