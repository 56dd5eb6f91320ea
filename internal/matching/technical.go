package matching

import (
	"fmt"

	"github.com/partfit/compat-engine/internal/catalog"
	"github.com/partfit/compat-engine/internal/vehicle"
)

const (
	technicalEngineConfidence       = 0.85
	technicalEngineBrandConfidence  = 0.88
	technicalDisplacementConfidence = 0.75
	technicalDisplacementModelBonus = 0.80
)

// matchTechnical matches on technical attributes rather than recorded
// fitments: first the engine code, then displacement co-occurring with the
// brand. Engine codes are shared across models and brands, so a code hit is
// strong even without a fitment entry.
func matchTechnical(engineCode, brand, model string, displacementCc int, parts []catalog.Part) []layerHit {
	foldedBrand := vehicle.Fold(brand)
	foldedModel := vehicle.Fold(model)

	if engineCode != "" {
		if hits := matchByEngineCode(engineCode, foldedBrand, parts); len(hits) > 0 {
			return hits
		}
	}
	if displacementCc > 0 {
		return matchByDisplacement(displacementCc, foldedBrand, foldedModel, parts)
	}
	return nil
}

func matchByEngineCode(engineCode, foldedBrand string, parts []catalog.Part) []layerHit {
	code := vehicle.Fold(engineCode)
	var hits []layerHit

	for _, part := range parts {
		for _, text := range engineTexts(part) {
			folded := vehicle.Fold(text)
			if !containsTerm(folded, code) {
				continue
			}

			confidence := technicalEngineConfidence
			if containsTerm(folded, foldedBrand) {
				confidence = technicalEngineBrandConfidence
			}

			hits = append(hits, layerHit{
				part: part,
				evidence: Evidence{
					Strategy:   StrategyTechnical,
					Source:     fmt.Sprintf("engine code %s in %q", engineCode, text),
					Confidence: confidence,
				},
			})
			break
		}
	}

	sortHits(hits)
	return hits
}

func matchByDisplacement(displacementCc int, foldedBrand, foldedModel string, parts []catalog.Part) []layerHit {
	liters := FormatDisplacement(displacementCc)
	var hits []layerHit

	for _, part := range parts {
		for _, app := range part.Applications {
			folded := vehicle.Fold(app)
			// Displacement alone is too generic; the brand must co-occur in
			// the same application string.
			if !containsTerm(folded, liters) || !containsTerm(folded, foldedBrand) {
				continue
			}

			confidence := technicalDisplacementConfidence
			if containsTerm(folded, foldedModel) {
				confidence = technicalDisplacementModelBonus
			}

			hits = append(hits, layerHit{
				part: part,
				evidence: Evidence{
					Strategy:   StrategyTechnical,
					Source:     fmt.Sprintf("displacement %s with brand in %q", liters, app),
					Confidence: confidence,
				},
			})
			break
		}
	}

	sortHits(hits)
	return hits
}

// engineTexts returns the part texts an engine code may appear in:
// applications plus any engine list carried in the specs map.
func engineTexts(part catalog.Part) []string {
	texts := part.Applications
	if engines, ok := part.Specs["engines"]; ok {
		texts = append(append([]string{}, texts...), engines)
	}
	return texts
}

// FormatDisplacement renders an engine displacement in cc as the "d.d" liter
// form used by catalog applications (999 -> "1.0", 1598 -> "1.6").
func FormatDisplacement(cc int) string {
	tenths := (cc + 50) / 100
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}
