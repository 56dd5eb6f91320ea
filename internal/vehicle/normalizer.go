package vehicle

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// Engine code extraction patterns, tried in order against the upper-cased
	// engine name. First hit wins; extraction failure only disables the
	// engine based matching layers.
	engineCodePatterns = []*regexp.Regexp{
		// Manufacturer family codes: EA211, K9K, EJ20, M54B30.
		regexp.MustCompile(`\b([A-Z]{1,3}\d{2,4}[A-Z]{0,2}\d{0,2})\b`),
		// Displacement plus injection suffix: "1.0 TSI", "2.0 TDI".
		regexp.MustCompile(`\b(\d\.\d\s?(?:TSI|TDI|TFSI|TGI|MPI|GDI|THP))\b`),
		// Generic short alphanumeric codes containing both letters and digits.
		regexp.MustCompile(`\b([A-Z0-9]{3,5})\b`),
	}
	hasDigit  = regexp.MustCompile(`\d`)
	hasLetter = regexp.MustCompile(`[A-Z]`)
)

// diacriticFolder strips combining marks after NFD decomposition.
var diacriticFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lower-cases, strips diacritics, and collapses whitespace.
func Fold(s string) string {
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = whitespaceRegex.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// NormalizedKey derives the cache/search key for a descriptor. The same
// descriptor fields always produce the same key.
func NormalizedKey(d Descriptor) string {
	fields := []string{Fold(d.Brand), Fold(d.Model)}
	if d.Trim != "" {
		fields = append(fields, Fold(d.Trim))
	}
	if d.Year > 0 {
		fields = append(fields, strconv.Itoa(d.Year))
	}
	key := strings.Join(fields, "_")
	return strings.ReplaceAll(key, " ", "_")
}

// SearchTerms returns the folded terms used by the matching layers: brand and
// its alternate spellings, model, model sub-tokens, trim, engine code, and
// engine name. Applications abbreviate brands ("VW Gol"), so every known
// spelling must be searchable.
func SearchTerms(d Descriptor) []string {
	seen := make(map[string]bool)
	var terms []string
	add := func(raw string) {
		term := Fold(raw)
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	for _, alias := range BrandAliases(d.Brand) {
		add(alias)
	}
	add(d.Model)
	for _, tok := range splitModelTokens(d.Model) {
		add(tok)
	}
	add(d.Trim)
	add(d.EngineCode)
	add(d.EngineName)

	return terms
}

// EngineCode returns the explicit engine code when present, otherwise attempts
// extraction from the free-text engine name. The boolean reports success.
func EngineCode(d Descriptor) (string, bool) {
	if d.EngineCode != "" {
		return strings.ToUpper(strings.TrimSpace(d.EngineCode)), true
	}
	return ExtractEngineCode(d.EngineName)
}

// ExtractEngineCode applies the ordered patterns against a free-text engine
// name and returns the first match.
func ExtractEngineCode(engineName string) (string, bool) {
	name := strings.ToUpper(strings.TrimSpace(engineName))
	if name == "" {
		return "", false
	}

	for i, pattern := range engineCodePatterns {
		for _, m := range pattern.FindAllStringSubmatch(name, -1) {
			code := strings.TrimSpace(m[1])
			// The family and generic patterns must mix letters and digits,
			// otherwise plain words and bare numbers slip through.
			if i != 1 && (!hasDigit.MatchString(code) || !hasLetter.MatchString(code)) {
				continue
			}
			return code, true
		}
	}
	return "", false
}

// splitModelTokens splits a model name on whitespace and hyphens so partial
// names like "gol" out of "Gol G5" remain searchable.
func splitModelTokens(model string) []string {
	return strings.FieldsFunc(model, func(r rune) bool {
		return r == ' ' || r == '-' || r == '/'
	})
}
