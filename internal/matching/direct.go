package matching

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/partfit/compat-engine/internal/catalog"
	"github.com/partfit/compat-engine/internal/vehicle"
)

const (
	directConfidence         = 0.95
	directYearConfidence     = 0.98
	directYearTolerance      = 3
	directMinMatchingTerms   = 2
)

var yearRegex = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// layerHit is one candidate produced by a matcher layer.
type layerHit struct {
	part     catalog.Part
	evidence Evidence
}

// matchDirect scans every candidate's application strings for recorded
// fitments. A hit needs at least two of the vehicle's search terms inside the
// same application string; a brand mention alone proves nothing.
func matchDirect(terms []string, year int, parts []catalog.Part) []layerHit {
	var hits []layerHit

	for _, part := range parts {
		for _, app := range part.Applications {
			folded := vehicle.Fold(app)

			matched := 0
			for _, term := range terms {
				if containsTerm(folded, term) {
					matched++
				}
			}
			if matched < directMinMatchingTerms {
				continue
			}

			confidence := directConfidence
			if year > 0 && yearWithinTolerance(folded, year) {
				confidence = directYearConfidence
			}

			hits = append(hits, layerHit{
				part: part,
				evidence: Evidence{
					Strategy:   StrategyDirect,
					Source:     fmt.Sprintf("fitment %q", app),
					Confidence: confidence,
				},
			})
			break
		}
	}

	sortHits(hits)
	return hits
}

// yearWithinTolerance reports whether the application mentions a four-digit
// year within the accepted window of the vehicle's year.
func yearWithinTolerance(foldedApp string, year int) bool {
	for _, raw := range yearRegex.FindAllString(foldedApp, -1) {
		appYear, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		diff := appYear - year
		if diff < 0 {
			diff = -diff
		}
		if diff <= directYearTolerance {
			return true
		}
	}
	return false
}

// sortHits orders hits by confidence descending, then part number, so layer
// output is deterministic regardless of catalog map iteration order.
func sortHits(hits []layerHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].evidence.Confidence != hits[j].evidence.Confidence {
			return hits[i].evidence.Confidence > hits[j].evidence.Confidence
		}
		return hits[i].part.Number < hits[j].part.Number
	})
}

// sortedParts returns a category slice ordered by part number.
func sortedParts(slice map[string]catalog.Part) []catalog.Part {
	numbers := make([]string, 0, len(slice))
	for number := range slice {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	parts := make([]catalog.Part, 0, len(numbers))
	for _, number := range numbers {
		parts = append(parts, slice[number])
	}
	return parts
}
