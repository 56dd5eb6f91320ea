// Package checklist maps vehicle classes to the ordered list of part
// categories that must be resolved for a compatibility report.
package checklist

import (
	"strings"

	"github.com/partfit/compat-engine/internal/catalog"
)

// Priority ranks how important a category is for a given vehicle class.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
)

// Requirement is one checklist entry: a part category a vehicle class needs.
type Requirement struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Domain      string   `json:"domainCategory"`
	Priority    Priority `json:"priority"`
}

// Canonical vehicle classes.
const (
	ClassCar        = "car"
	ClassSUV        = "suv"
	ClassPickup     = "pickup"
	ClassVan        = "van"
	ClassMotorcycle = "motorcycle"
	ClassTruck      = "truck"
	ClassBus        = "bus"
)

// classAliases folds regional and shorthand class names onto canonical ones.
var classAliases = map[string]string{
	"moto":        ClassMotorcycle,
	"motorbike":   ClassMotorcycle,
	"motocicleta": ClassMotorcycle,
	"caminhao":    ClassTruck,
	"caminhão":    ClassTruck,
	"lorry":       ClassTruck,
	"onibus":      ClassBus,
	"ônibus":      ClassBus,
	"automovel":   ClassCar,
	"automóvel":   ClassCar,
	"hatch":       ClassCar,
	"sedan":       ClassCar,
	"utilitario":  ClassVan,
	"pick-up":     ClassPickup,
	"picape":      ClassPickup,
}

// Resolver owns the per-class requirement lists.
type Resolver struct {
	lists map[string][]Requirement
}

// NewResolver builds the class checklists. suv, pickup and van start as exact
// copies of the car list, and bus as a copy of the truck list, so later
// mutation of one class never leaks into another.
func NewResolver() *Resolver {
	lists := map[string][]Requirement{
		ClassCar:        carChecklist(),
		ClassMotorcycle: motorcycleChecklist(),
		ClassTruck:      truckChecklist(),
	}
	lists[ClassSUV] = copyList(lists[ClassCar])
	lists[ClassPickup] = copyList(lists[ClassCar])
	lists[ClassVan] = copyList(lists[ClassCar])
	lists[ClassBus] = copyList(lists[ClassTruck])

	return &Resolver{lists: lists}
}

// NormalizeClass folds a raw class name onto a canonical one. Unknown classes
// default to car.
func NormalizeClass(raw string) string {
	class := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := classAliases[class]; ok {
		return alias
	}
	switch class {
	case ClassCar, ClassSUV, ClassPickup, ClassVan, ClassMotorcycle, ClassTruck, ClassBus:
		return class
	default:
		return ClassCar
	}
}

// Requirements returns the ordered checklist for a vehicle class. The returned
// slice is a copy; callers may not mutate resolver state.
func (r *Resolver) Requirements(class string) []Requirement {
	return copyList(r.lists[NormalizeClass(class)])
}

func copyList(src []Requirement) []Requirement {
	dst := make([]Requirement, len(src))
	copy(dst, src)
	return dst
}

func carChecklist() []Requirement {
	return []Requirement{
		{ID: catalog.CategoryOilFilter, DisplayName: "Oil Filter", Domain: "filters", Priority: PriorityCritical},
		{ID: catalog.CategoryAirFilter, DisplayName: "Air Filter", Domain: "filters", Priority: PriorityCritical},
		{ID: catalog.CategoryFuelFilter, DisplayName: "Fuel Filter", Domain: "filters", Priority: PriorityHigh},
		{ID: catalog.CategoryCabinFilter, DisplayName: "Cabin Filter", Domain: "filters", Priority: PriorityMedium},
		{ID: catalog.CategoryEngineOil, DisplayName: "Engine Oil", Domain: "fluids", Priority: PriorityCritical},
		{ID: catalog.CategorySparkPlugs, DisplayName: "Spark Plugs", Domain: "ignition", Priority: PriorityHigh},
		{ID: catalog.CategoryBrakePadsFront, DisplayName: "Front Brake Pads", Domain: "brakes", Priority: PriorityCritical},
		{ID: catalog.CategoryTimingBeltKit, DisplayName: "Timing Belt Kit", Domain: "engine", Priority: PriorityHigh},
		{ID: catalog.CategoryShockAbsorberFront, DisplayName: "Front Shock Absorbers", Domain: "suspension", Priority: PriorityMedium},
		{ID: catalog.CategoryBattery, DisplayName: "Battery", Domain: "electrical", Priority: PriorityMedium},
	}
}

func motorcycleChecklist() []Requirement {
	return []Requirement{
		{ID: catalog.CategoryOilFilter, DisplayName: "Oil Filter", Domain: "filters", Priority: PriorityCritical},
		{ID: catalog.CategoryAirFilter, DisplayName: "Air Filter", Domain: "filters", Priority: PriorityHigh},
		{ID: catalog.CategoryEngineOil, DisplayName: "Engine Oil", Domain: "fluids", Priority: PriorityCritical},
		{ID: catalog.CategorySparkPlugs, DisplayName: "Spark Plugs", Domain: "ignition", Priority: PriorityHigh},
		{ID: catalog.CategoryChainKit, DisplayName: "Chain Kit", Domain: "transmission", Priority: PriorityCritical},
		{ID: catalog.CategoryBrakePadsFront, DisplayName: "Front Brake Pads", Domain: "brakes", Priority: PriorityHigh},
		{ID: catalog.CategoryBattery, DisplayName: "Battery", Domain: "electrical", Priority: PriorityMedium},
	}
}

func truckChecklist() []Requirement {
	return []Requirement{
		{ID: catalog.CategoryOilFilter, DisplayName: "Oil Filter", Domain: "filters", Priority: PriorityCritical},
		{ID: catalog.CategoryAirFilter, DisplayName: "Air Filter", Domain: "filters", Priority: PriorityCritical},
		{ID: catalog.CategoryFuelFilter, DisplayName: "Fuel Filter", Domain: "filters", Priority: PriorityCritical},
		{ID: catalog.CategorySeparatorFilter, DisplayName: "Water Separator Filter", Domain: "filters", Priority: PriorityHigh},
		{ID: catalog.CategoryEngineOil, DisplayName: "Engine Oil", Domain: "fluids", Priority: PriorityCritical},
		{ID: catalog.CategoryBrakePadsFront, DisplayName: "Front Brake Pads", Domain: "brakes", Priority: PriorityHigh},
		{ID: catalog.CategoryAirSpring, DisplayName: "Air Spring", Domain: "suspension", Priority: PriorityMedium},
		{ID: catalog.CategoryBattery, DisplayName: "Battery", Domain: "electrical", Priority: PriorityHigh},
	}
}
