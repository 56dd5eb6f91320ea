package matching

import (
	"fmt"

	"github.com/partfit/compat-engine/internal/catalog"
)

const (
	heuristicBaseConfidence  = 0.50
	heuristicSimilarityScale = 0.30
	heuristicMaxConfidence   = 0.70
)

// matchHeuristic scores every candidate application by token overlap against
// the vehicle tokens and keeps the best one above the threshold. Heuristic
// hits always require human validation.
func matchHeuristic(vehicleTokens []string, threshold float64, parts []catalog.Part) []layerHit {
	type scored struct {
		part       catalog.Part
		app        string
		similarity float64
	}

	var best *scored
	var runnersUp []scored

	for _, part := range parts {
		for _, app := range part.Applications {
			sim := TokenOverlap(vehicleTokens, Tokenize(app))
			if sim <= threshold {
				continue
			}
			entry := scored{part: part, app: app, similarity: sim}
			if best == nil || sim > best.similarity {
				if best != nil {
					runnersUp = append(runnersUp, *best)
				}
				best = &entry
			} else {
				runnersUp = append(runnersUp, entry)
			}
		}
	}

	if best == nil {
		return nil
	}

	hits := []layerHit{heuristicHit(best.part, best.app, best.similarity)}
	for _, r := range runnersUp {
		if r.part.Number == best.part.Number {
			continue
		}
		hits = append(hits, heuristicHit(r.part, r.app, r.similarity))
	}

	sortHits(hits[1:])
	return hits
}

func heuristicHit(part catalog.Part, app string, similarity float64) layerHit {
	confidence := heuristicBaseConfidence + heuristicSimilarityScale*similarity
	if confidence > heuristicMaxConfidence {
		confidence = heuristicMaxConfidence
	}
	return layerHit{
		part: part,
		evidence: Evidence{
			Strategy:                StrategyHeuristic,
			Source:                  fmt.Sprintf("similarity %.2f against %q", similarity, app),
			Confidence:              confidence,
			RequiresHumanValidation: true,
		},
	}
}
