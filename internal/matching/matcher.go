package matching

import (
	"fmt"
	"strings"

	"github.com/partfit/compat-engine/internal/catalog"
	"github.com/partfit/compat-engine/internal/checklist"
	"github.com/partfit/compat-engine/internal/vehicle"
)

const universalConfidence = 0.85

// Config holds matcher tunables.
type Config struct {
	// HeuristicThreshold is the minimum token similarity the heuristic layer
	// accepts. Zero falls back to the default of 0.4.
	HeuristicThreshold float64
	// MaxAlternatives caps lower-ranked candidates kept per match.
	MaxAlternatives int
}

// Matcher resolves one (vehicle, category) pair through the ordered strategy
// layers. It holds no mutable state; every call is a pure function of the
// vehicle, the requirement, and the immutable catalog.
type Matcher struct {
	provider catalog.Provider
	cfg      Config
}

// NewMatcher creates a matcher over the given catalog.
func NewMatcher(provider catalog.Provider, cfg Config) *Matcher {
	if cfg.HeuristicThreshold <= 0 {
		cfg.HeuristicThreshold = 0.4
	}
	if cfg.MaxAlternatives <= 0 {
		cfg.MaxAlternatives = 3
	}
	return &Matcher{provider: provider, cfg: cfg}
}

// MatchCategory runs the strategy layers in order and stops at the first that
// produces a hit. Exactly one of the returned values is non-nil.
func (m *Matcher) MatchCategory(d vehicle.Descriptor, req checklist.Requirement) (*Match, *Miss) {
	parts := sortedParts(m.provider.Category(req.ID))
	terms := vehicle.SearchTerms(d)
	engineCode, _ := vehicle.EngineCode(d)

	attempted := []Strategy{StrategyDirect}
	if hits := matchDirect(terms, d.Year, parts); len(hits) > 0 {
		return m.buildMatch(req, hits), nil
	}

	attempted = append(attempted, StrategyTechnical)
	if hits := matchTechnical(engineCode, d.Brand, d.Model, d.DisplacementCc, parts); len(hits) > 0 {
		return m.buildMatch(req, hits), nil
	}

	attempted = append(attempted, StrategyHeuristic)
	vehicleTokens := Tokenize(strings.Join([]string{d.Brand, d.Model, d.Trim, engineCode}, " "))
	if hits := matchHeuristic(vehicleTokens, m.cfg.HeuristicThreshold, parts); len(hits) > 0 {
		return m.buildMatch(req, hits), nil
	}

	if code, ok := m.provider.EngineCodeFor(d.Brand, d.Model); ok {
		attempted = append(attempted, StrategyUniversal)
		if hits := m.matchUniversal(code, req.ID); len(hits) > 0 {
			return m.buildMatch(req, hits), nil
		}
	}

	return nil, &Miss{
		Requirement: req,
		Reason:      fmt.Sprintf("no candidate part matched %s for %s", req.ID, d.DisplayName()),
		Attempted:   attempted,
	}
}

// matchUniversal falls back to the canonical engine family: vehicles sharing
// an engine code share its fixed consumable parts list.
func (m *Matcher) matchUniversal(engineCode, categoryID string) []layerHit {
	engineParts, ok := m.provider.EngineParts(engineCode)
	if !ok {
		return nil
	}
	numbers := engineParts[categoryID]
	if len(numbers) == 0 {
		return nil
	}

	slice := m.provider.Category(categoryID)
	hits := make([]layerHit, 0, len(numbers))
	for _, number := range numbers {
		part, found := slice[number]
		if !found {
			part = catalog.Part{Number: number}
		}
		hits = append(hits, layerHit{
			part: part,
			evidence: Evidence{
				Strategy:   StrategyUniversal,
				Source:     fmt.Sprintf("engine family %s parts list", engineCode),
				Confidence: universalConfidence,
			},
		})
	}
	return hits
}

func (m *Matcher) buildMatch(req checklist.Requirement, hits []layerHit) *Match {
	best := hits[0]
	match := &Match{
		Part:        best.part,
		Requirement: req,
		Evidence:    best.evidence,
	}

	for _, hit := range hits[1:] {
		if len(match.Alternatives) >= m.cfg.MaxAlternatives {
			break
		}
		match.Alternatives = append(match.Alternatives, Alternative{
			PartNumber: hit.part.Number,
			Brand:      hit.part.Brand,
			Confidence: hit.evidence.Confidence,
		})
	}
	return match
}
