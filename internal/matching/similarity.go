package matching

import (
	"strings"

	"github.com/partfit/compat-engine/internal/vehicle"
)

// Tokenize splits a fitment string into folded tokens, dropping single
// characters that carry no signal.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(vehicle.Fold(s), func(r rune) bool {
		return r == ' ' || r == '/' || r == ',' || r == '(' || r == ')'
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// TokenOverlap scores how well two token sets describe the same vehicle:
// matches / max(|a|, |b|, 1). A token counts as matched when either side is a
// substring of the other, which tolerates partial model names ("gol" vs
// "gol g5"). The result is in [0, 1].
func TokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	matches := 0
	used := make([]bool, len(b))
	for _, ta := range a {
		for i, tb := range b {
			if used[i] {
				continue
			}
			if tokensMatch(ta, tb) {
				matches++
				used[i] = true
				break
			}
		}
	}

	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	if denom < 1 {
		denom = 1
	}
	return float64(matches) / float64(denom)
}

func tokensMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// containsTerm reports whether the folded application string contains the
// folded term as a substring.
func containsTerm(foldedApp, term string) bool {
	return term != "" && strings.Contains(foldedApp, term)
}
