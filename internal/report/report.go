// Package report defines the compatibility report produced per vehicle and
// the confidence/coverage aggregation over its matches.
package report

import (
	"time"

	"github.com/partfit/compat-engine/internal/checklist"
	"github.com/partfit/compat-engine/internal/matching"
)

// MatchedPart is one successfully resolved checklist category.
type MatchedPart struct {
	Category                string                 `json:"category"`
	CategoryName            string                 `json:"categoryName"`
	Priority                checklist.Priority     `json:"priority"`
	PartNumber              string                 `json:"partNumber"`
	PartBrand               string                 `json:"partBrand,omitempty"`
	Strategy                matching.Strategy      `json:"strategy"`
	Source                  string                 `json:"sourceDescription"`
	Confidence              float64                `json:"confidence"`
	RequiresHumanValidation bool                   `json:"requiresHumanValidation"`
	Alternatives            []matching.Alternative `json:"alternatives,omitempty"`
}

// MissingPart is one checklist category no strategy could satisfy.
type MissingPart struct {
	Category     string              `json:"category"`
	CategoryName string              `json:"categoryName"`
	Priority     checklist.Priority  `json:"priority"`
	Reason       string              `json:"reason"`
	Attempted    []matching.Strategy `json:"strategiesAttempted"`
}

// EconomyClass classifies a shared-part suggestion.
type EconomyClass string

const (
	EconomyHighVolume  EconomyClass = "high_volume"
	EconomyAlternative EconomyClass = "alternative"
)

// SharedVehicle identifies another vehicle using the same part.
type SharedVehicle struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
}

// SharedPart records a part shared with vehicles of other brands, surfacing
// cross-brand economy substitutes.
type SharedPart struct {
	PartNumber    string          `json:"partNumber"`
	CategoryName  string          `json:"partCategoryName"`
	OtherVehicles []SharedVehicle `json:"otherVehicles"`
	TotalVehicles int             `json:"totalVehicles"`
	Economy       EconomyClass    `json:"economyClass"`
	SavingsPct    [2]int          `json:"estimatedSavingsPct"`
}

// CompatibilityReport is the full answer for one vehicle. Field names are the
// stable serialization contract consumed by the export pipeline.
type CompatibilityReport struct {
	VehicleID    string        `json:"vehicleId"`
	VehicleName  string        `json:"vehicleName"`
	VehicleClass string        `json:"vehicleClass"`
	GeneratedAt  time.Time     `json:"generatedAt"`
	Matched      []MatchedPart `json:"compatibleParts"`
	Missing      []MissingPart `json:"missingParts"`
	Shared       []SharedPart  `json:"sharedParts"`
	Coverage     float64       `json:"coverage"`
	Confidence   float64       `json:"confidence"`
}

// CoverageBucket is a read-only view grouping reports by coverage.
type CoverageBucket string

const (
	BucketFull   CoverageBucket = "full"
	BucketHigh   CoverageBucket = "high"
	BucketMedium CoverageBucket = "medium"
	BucketLow    CoverageBucket = "low"
)

// Bucket classifies the report's coverage.
func (r *CompatibilityReport) Bucket() CoverageBucket {
	switch {
	case r.Coverage >= 1.0:
		return BucketFull
	case r.Coverage >= 0.8:
		return BucketHigh
	case r.Coverage >= 0.5:
		return BucketMedium
	default:
		return BucketLow
	}
}

// Aggregate recomputes coverage and overall confidence from the matched and
// missing lists. Coverage is matched over total requirements; confidence is
// the mean matched confidence, zero when nothing matched.
func (r *CompatibilityReport) Aggregate() {
	total := len(r.Matched) + len(r.Missing)
	if total == 0 {
		r.Coverage = 0
		r.Confidence = 0
		return
	}

	r.Coverage = float64(len(r.Matched)) / float64(total)

	if len(r.Matched) == 0 {
		r.Confidence = 0
		return
	}
	sum := 0.0
	for _, m := range r.Matched {
		sum += m.Confidence
	}
	r.Confidence = sum / float64(len(r.Matched))
}

// NewMatchedPart converts a matcher hit into its report form.
func NewMatchedPart(m *matching.Match) MatchedPart {
	return MatchedPart{
		Category:                m.Requirement.ID,
		CategoryName:            m.Requirement.DisplayName,
		Priority:                m.Requirement.Priority,
		PartNumber:              m.Part.Number,
		PartBrand:               m.Part.Brand,
		Strategy:                m.Evidence.Strategy,
		Source:                  m.Evidence.Source,
		Confidence:              m.Evidence.Confidence,
		RequiresHumanValidation: m.Evidence.RequiresHumanValidation,
		Alternatives:            m.Alternatives,
	}
}

// NewMissingPart converts a matcher miss into its report form.
func NewMissingPart(miss *matching.Miss) MissingPart {
	return MissingPart{
		Category:     miss.Requirement.ID,
		CategoryName: miss.Requirement.DisplayName,
		Priority:     miss.Requirement.Priority,
		Reason:       miss.Reason,
		Attempted:    miss.Attempted,
	}
}
