package vehicle

// Catalog applications spell the same brand several ways. Both maps work on
// folded names.
var brandCanonical = map[string]string{
	"vw":       "volkswagen",
	"chevy":    "chevrolet",
	"gm":       "chevrolet",
	"mercedes": "mercedes-benz",
	"mb":       "mercedes-benz",
}

var brandSpellings = map[string][]string{
	"volkswagen":    {"vw"},
	"chevrolet":     {"chevy", "gm"},
	"mercedes-benz": {"mercedes", "mb"},
}

// CanonicalBrand folds a brand name onto its canonical spelling.
func CanonicalBrand(brand string) string {
	folded := Fold(brand)
	if canonical, ok := brandCanonical[folded]; ok {
		return canonical
	}
	return folded
}

// BrandAliases returns every known folded spelling of a brand, the given one
// first. A brand without known aliases yields just its folded form.
func BrandAliases(brand string) []string {
	folded := Fold(brand)
	canonical := CanonicalBrand(brand)

	aliases := []string{folded}
	if canonical != folded {
		aliases = append(aliases, canonical)
	}
	for _, spelling := range brandSpellings[canonical] {
		if spelling != folded {
			aliases = append(aliases, spelling)
		}
	}
	return aliases
}
