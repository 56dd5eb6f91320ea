package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "citroen", Fold("Citroën"))
	assert.Equal(t, "sandero stepway", Fold("  Sandero   STEPWAY "))
	assert.Equal(t, "uno mille", Fold("Uno Millé"))
}

func TestNormalizedKey_Stable(t *testing.T) {
	d := Descriptor{Brand: "Volkswagen", Model: "Gol", Year: 2020, Class: "car"}

	assert.Equal(t, NormalizedKey(d), NormalizedKey(d))
	assert.Equal(t, "volkswagen_gol_2020", NormalizedKey(d))

	withTrim := d
	withTrim.Trim = "Highline"
	assert.Equal(t, "volkswagen_gol_highline_2020", NormalizedKey(withTrim))
}

func TestSearchTerms(t *testing.T) {
	d := Descriptor{
		Brand:      "Volkswagen",
		Model:      "Gol G5",
		Trim:       "Trend",
		EngineCode: "EA211",
	}

	terms := SearchTerms(d)
	assert.Contains(t, terms, "volkswagen")
	assert.Contains(t, terms, "gol g5")
	assert.Contains(t, terms, "gol")
	assert.Contains(t, terms, "g5")
	assert.Contains(t, terms, "trend")
	assert.Contains(t, terms, "ea211")
}

func TestSearchTerms_BrandAliases(t *testing.T) {
	// Catalog applications abbreviate brands, so both spellings must be
	// searchable regardless of which one the descriptor carries.
	terms := SearchTerms(Descriptor{Brand: "Volkswagen", Model: "Gol"})
	assert.Contains(t, terms, "volkswagen")
	assert.Contains(t, terms, "vw")

	terms = SearchTerms(Descriptor{Brand: "VW", Model: "Gol"})
	assert.Contains(t, terms, "vw")
	assert.Contains(t, terms, "volkswagen")
}

func TestCanonicalBrand(t *testing.T) {
	tests := []struct {
		brand    string
		expected string
	}{
		{"VW", "volkswagen"},
		{"Volkswagen", "volkswagen"},
		{"Chevy", "chevrolet"},
		{"GM", "chevrolet"},
		{"Mercedes", "mercedes-benz"},
		{"Fiat", "fiat"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CanonicalBrand(tt.brand), tt.brand)
	}
}

func TestBrandAliases(t *testing.T) {
	assert.ElementsMatch(t, []string{"volkswagen", "vw"}, BrandAliases("Volkswagen"))
	assert.ElementsMatch(t, []string{"vw", "volkswagen"}, BrandAliases("VW"))
	assert.ElementsMatch(t, []string{"chevy", "chevrolet", "gm"}, BrandAliases("Chevy"))
	assert.Equal(t, []string{"fiat"}, BrandAliases("Fiat"))
}

func TestSearchTerms_HyphenatedModel(t *testing.T) {
	d := Descriptor{Brand: "Mercedes-Benz", Model: "C-180"}

	terms := SearchTerms(d)
	assert.Contains(t, terms, "c")
	assert.Contains(t, terms, "180")
}

func TestEngineCode_ExplicitWins(t *testing.T) {
	d := Descriptor{EngineCode: "ea211", EngineName: "1.0 TSI"}

	code, ok := EngineCode(d)
	assert.True(t, ok)
	assert.Equal(t, "EA211", code)
}

func TestExtractEngineCode(t *testing.T) {
	tests := []struct {
		name   string
		engine string
		want   string
		ok     bool
	}{
		{"family code", "EA211 Total Flex", "EA211", true},
		{"displacement suffix", "1.0 TSI", "1.0 TSI", true},
		{"generic code", "Fire 1.4", "1.4", false},
		{"short alphanumeric", "Sigma TIVCT", "", false},
		{"empty", "", "", false},
		{"renault family", "K7M 1.6 8v", "K7M", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := ExtractEngineCode(tt.engine)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, code)
			}
		})
	}
}
