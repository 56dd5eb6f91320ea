// Package matching implements the layered part matcher: direct fitment,
// technical attributes, heuristic token similarity, and the universal
// engine-code fallback, tried in that order.
package matching

import (
	"github.com/partfit/compat-engine/internal/catalog"
	"github.com/partfit/compat-engine/internal/checklist"
)

// Strategy identifies which matcher layer produced a hit.
type Strategy string

const (
	StrategyDirect    Strategy = "direct"
	StrategyTechnical Strategy = "technical"
	StrategyHeuristic Strategy = "heuristic"
	StrategyUniversal Strategy = "universal"
)

// Evidence records how a match was produced and how much to trust it.
type Evidence struct {
	Strategy                Strategy `json:"strategy"`
	Source                  string   `json:"sourceDescription"`
	Confidence              float64  `json:"confidence"`
	RequiresHumanValidation bool     `json:"requiresHumanValidation"`
}

// Alternative is a lower-ranked candidate kept alongside the best match.
type Alternative struct {
	PartNumber string  `json:"partNumber"`
	Brand      string  `json:"brand,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Match pairs the winning candidate part with its requirement and evidence.
type Match struct {
	Part         catalog.Part
	Requirement  checklist.Requirement
	Evidence     Evidence
	Alternatives []Alternative
}

// Miss records a requirement no layer could satisfy.
type Miss struct {
	Requirement checklist.Requirement
	Reason      string
	Attempted   []Strategy
}
