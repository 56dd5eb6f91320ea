package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partfit/compat-engine/internal/catalog"
	"github.com/partfit/compat-engine/internal/checklist"
	"github.com/partfit/compat-engine/internal/matching"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name               string
		matched            []float64
		missing            int
		expectedCoverage   float64
		expectedConfidence float64
	}{
		{"all matched", []float64{0.95, 0.85}, 0, 1.0, 0.90},
		{"half matched", []float64{0.98}, 1, 0.5, 0.98},
		{"nothing matched", nil, 3, 0.0, 0.0},
		{"empty report", nil, 0, 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := &CompatibilityReport{}
			for _, conf := range tt.matched {
				rep.Matched = append(rep.Matched, MatchedPart{Confidence: conf})
			}
			for i := 0; i < tt.missing; i++ {
				rep.Missing = append(rep.Missing, MissingPart{})
			}

			rep.Aggregate()
			assert.InDelta(t, tt.expectedCoverage, rep.Coverage, 1e-9)
			assert.InDelta(t, tt.expectedConfidence, rep.Confidence, 1e-9)
		})
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		coverage float64
		expected CoverageBucket
	}{
		{1.0, BucketFull},
		{0.95, BucketHigh},
		{0.8, BucketHigh},
		{0.79, BucketMedium},
		{0.5, BucketMedium},
		{0.49, BucketLow},
		{0.0, BucketLow},
	}

	for _, tt := range tests {
		rep := &CompatibilityReport{Coverage: tt.coverage}
		assert.Equal(t, tt.expected, rep.Bucket(), "coverage %.2f", tt.coverage)
	}
}

func TestReportJSONContract(t *testing.T) {
	rep := &CompatibilityReport{
		VehicleID:    "vw-gol-2020",
		VehicleName:  "Volkswagen Gol 1.6 MSI 2020",
		VehicleClass: "car",
		GeneratedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Matched: []MatchedPart{{
			Category:   "oil_filter",
			PartNumber: "W712/95",
			Strategy:   matching.StrategyDirect,
			Confidence: 0.98,
		}},
		Missing: []MissingPart{{
			Category:  "chain_kit",
			Attempted: []matching.Strategy{matching.StrategyDirect},
		}},
		Shared: []SharedPart{{
			PartNumber:    "W712/95",
			TotalVehicles: 7,
			Economy:       EconomyHighVolume,
			SavingsPct:    [2]int{15, 30},
		}},
		Coverage:   0.5,
		Confidence: 0.98,
	}

	data, err := json.Marshal(rep)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{
		"vehicleId", "vehicleName", "vehicleClass", "generatedAt",
		"compatibleParts", "missingParts", "sharedParts", "coverage", "confidence",
	} {
		assert.Contains(t, raw, key)
	}

	var decoded CompatibilityReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rep.VehicleID, decoded.VehicleID)
	assert.Equal(t, rep.Matched[0].PartNumber, decoded.Matched[0].PartNumber)
	assert.Equal(t, rep.Shared[0].SavingsPct, decoded.Shared[0].SavingsPct)
	assert.InDelta(t, rep.Coverage, decoded.Coverage, 1e-9)
	assert.InDelta(t, rep.Confidence, decoded.Confidence, 1e-9)
	assert.True(t, rep.GeneratedAt.Equal(decoded.GeneratedAt))
}

func TestNewMatchedPart(t *testing.T) {
	m := &matching.Match{
		Part:        catalog.Part{Number: "W712/95", Brand: "Mann"},
		Requirement: checklist.Requirement{ID: "oil_filter", DisplayName: "Oil Filter", Priority: checklist.PriorityCritical},
		Evidence: matching.Evidence{
			Strategy:   matching.StrategyTechnical,
			Source:     "engine code EA211",
			Confidence: 0.85,
		},
		Alternatives: []matching.Alternative{{PartNumber: "PH5548", Confidence: 0.85}},
	}

	mp := NewMatchedPart(m)
	assert.Equal(t, "oil_filter", mp.Category)
	assert.Equal(t, "Oil Filter", mp.CategoryName)
	assert.Equal(t, "W712/95", mp.PartNumber)
	assert.Equal(t, "Mann", mp.PartBrand)
	assert.Equal(t, matching.StrategyTechnical, mp.Strategy)
	assert.InDelta(t, 0.85, mp.Confidence, 1e-9)
	assert.Len(t, mp.Alternatives, 1)
}

func TestNewMissingPart(t *testing.T) {
	miss := &matching.Miss{
		Requirement: checklist.Requirement{ID: "chain_kit", DisplayName: "Chain Kit"},
		Reason:      "no candidate part matched",
		Attempted:   []matching.Strategy{matching.StrategyDirect, matching.StrategyHeuristic},
	}

	mp := NewMissingPart(miss)
	assert.Equal(t, "chain_kit", mp.Category)
	assert.Equal(t, "Chain Kit", mp.CategoryName)
	assert.Equal(t, miss.Attempted, mp.Attempted)
}
