// Package catalog provides read-only access to the part catalog shards and
// the universal engine-code index the matcher layers query.
package catalog

// Fixed category id vocabulary. The checklist resolver and the catalog shards
// reference categories by these ids.
const (
	CategoryOilFilter          = "oil_filter"
	CategoryAirFilter          = "air_filter"
	CategoryFuelFilter         = "fuel_filter"
	CategoryCabinFilter        = "cabin_filter"
	CategoryEngineOil          = "engine_oil"
	CategorySparkPlugs         = "spark_plugs"
	CategoryBrakePadsFront     = "brake_pads_front"
	CategoryTimingBeltKit      = "timing_belt_kit"
	CategoryShockAbsorberFront = "shock_absorber_front"
	CategoryBattery            = "battery"
	CategoryChainKit           = "chain_kit"
	CategorySeparatorFilter    = "separator_filter"
	CategoryAirSpring          = "air_spring"
)

// Part is one candidate part in a catalog category. Applications are free-text
// fitment strings; Equivalents are other part numbers considered
// interchangeable. The equivalents relation is not guaranteed symmetric in the
// source data, and the engine does not normalize it.
type Part struct {
	Number       string            `json:"number"`
	Brand        string            `json:"brand"`
	Applications []string          `json:"applications"`
	Equivalents  []string          `json:"equivalents,omitempty"`
	Specs        map[string]string `json:"specs,omitempty"`
}

// EngineEntry maps one canonical engine code to its fixed parts per category.
type EngineEntry struct {
	// Parts maps category id to part numbers known to fit this engine family.
	Parts map[string][]string `json:"parts"`
}

// BrandEngines holds engine code lookups for one brand: per-model entries plus
// a brand-level default used when the model is absent.
type BrandEngines struct {
	Default string            `json:"default,omitempty"`
	Models  map[string]string `json:"models,omitempty"`
}

// Provider is the read-only catalog contract the engine depends on.
type Provider interface {
	// Category returns the parts of one category keyed by part number.
	// A nil map means the category has no catalog slice.
	Category(id string) map[string]Part
	// CategoryIDs returns all category ids present in the catalog.
	CategoryIDs() []string
	// EngineCodeFor resolves a (brand, model) pair to a canonical engine code
	// via the universal index, falling back to the brand default.
	EngineCodeFor(brand, model string) (string, bool)
	// EngineParts returns the fixed parts list for an engine code, keyed by
	// category id.
	EngineParts(code string) (map[string][]string, bool)
}
