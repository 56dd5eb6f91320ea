// Package crossref discovers vehicles of other brands sharing a matched part
// number or one of its equivalents, surfacing economy substitutes.
package crossref

import (
	"sort"
	"strings"

	"github.com/partfit/compat-engine/internal/catalog"
	"github.com/partfit/compat-engine/internal/report"
	"github.com/partfit/compat-engine/internal/vehicle"
)

// Brands that move enough volume for their shared parts to carry real
// aftermarket discounts. Keyed by canonical brand name.
var highVolumeBrands = map[string]bool{
	"volkswagen": true,
	"fiat":       true,
	"chevrolet":  true,
	"ford":       true,
	"toyota":     true,
	"honda":      true,
	"hyundai":    true,
	"renault":    true,
}

const sharedSetHighVolumeSize = 5

// Finder scans the whole catalog for shared-part usage.
type Finder struct {
	provider   catalog.Provider
	displayCap int
}

// NewFinder creates a finder. displayCap bounds the vehicles surfaced per
// shared part; the true total is reported separately.
func NewFinder(provider catalog.Provider, displayCap int) *Finder {
	if displayCap <= 0 {
		displayCap = 5
	}
	return &Finder{provider: provider, displayCap: displayCap}
}

// SharedParts augments matched parts with cross-brand usage. Every catalog
// category is scanned, not just the matched one: equivalents cross category
// and brand boundaries. The equivalents relation is asymmetric in the source
// data, so both the candidate's own number and its equivalents set are
// checked.
func (f *Finder) SharedParts(queryBrand string, matched []report.MatchedPart) []report.SharedPart {
	var shared []report.SharedPart
	ownBrand := vehicle.CanonicalBrand(queryBrand)

	for _, m := range matched {
		if m.PartNumber == "" {
			continue
		}
		vehicles := f.collectVehicles(m.PartNumber, ownBrand)
		if len(vehicles) == 0 {
			continue
		}

		entry := report.SharedPart{
			PartNumber:    m.PartNumber,
			CategoryName:  m.CategoryName,
			TotalVehicles: len(vehicles),
			OtherVehicles: vehicles,
		}
		if len(vehicles) > f.displayCap {
			entry.OtherVehicles = vehicles[:f.displayCap]
		}
		entry.Economy, entry.SavingsPct = classifyEconomy(vehicles)

		shared = append(shared, entry)
	}
	return shared
}

// collectVehicles gathers every vehicle, outside the query brand, named in the
// applications of any candidate matching the part number directly or through
// its equivalents set.
func (f *Finder) collectVehicles(partNumber, ownBrand string) []report.SharedVehicle {
	seen := make(map[string]bool)
	var vehicles []report.SharedVehicle

	for _, categoryID := range f.provider.CategoryIDs() {
		for number, part := range f.provider.Category(categoryID) {
			if number != partNumber && !containsNumber(part.Equivalents, partNumber) {
				continue
			}
			for _, app := range part.Applications {
				brand, model, ok := parseApplication(app)
				if !ok {
					continue
				}
				if vehicle.CanonicalBrand(brand) == ownBrand {
					continue
				}
				key := strings.ToLower(brand) + "_" + strings.ToLower(model)
				if seen[key] {
					continue
				}
				seen[key] = true
				vehicles = append(vehicles, report.SharedVehicle{Brand: brand, Model: model})
			}
		}
	}

	sort.Slice(vehicles, func(i, j int) bool {
		if vehicles[i].Brand != vehicles[j].Brand {
			return vehicles[i].Brand < vehicles[j].Brand
		}
		return vehicles[i].Model < vehicles[j].Model
	})
	return vehicles
}

// parseApplication splits a free-text fitment string into brand and model:
// first token is the brand, the remainder the model.
func parseApplication(app string) (brand, model string, ok bool) {
	fields := strings.Fields(strings.TrimSpace(app))
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], strings.Join(fields[1:], " "), true
}

func classifyEconomy(vehicles []report.SharedVehicle) (report.EconomyClass, [2]int) {
	if len(vehicles) > sharedSetHighVolumeSize {
		return report.EconomyHighVolume, [2]int{15, 30}
	}
	for _, v := range vehicles {
		if highVolumeBrands[vehicle.CanonicalBrand(v.Brand)] {
			return report.EconomyHighVolume, [2]int{15, 30}
		}
	}
	return report.EconomyAlternative, [2]int{5, 15}
}

func containsNumber(numbers []string, target string) bool {
	for _, n := range numbers {
		if strings.EqualFold(n, target) {
			return true
		}
	}
	return false
}
