package export

import (
	"context"
	"fmt"

	"github.com/partfit/compat-engine/internal/observability"
	"github.com/partfit/compat-engine/internal/report"
)

// SearchIndexPath is the document path of the consolidated search index.
const SearchIndexPath = "searchIndex/current"

// VehicleSummary is the per-vehicle entry in the search index.
type VehicleSummary struct {
	VehicleName string  `json:"vehicleName"`
	Coverage    float64 `json:"coverage"`
	Confidence  float64 `json:"confidence"`
	Matched     int     `json:"matchedParts"`
	Missing     int     `json:"missingParts"`
}

// SearchIndex maps part numbers to the vehicles they fit and vehicles to
// summary stats, for catalog-wide lookups without loading every report.
type SearchIndex struct {
	PartNumbers map[string][]string       `json:"partNumbers"`
	Vehicles    map[string]VehicleSummary `json:"vehicles"`
}

// Exporter writes reports into the document store.
type Exporter struct {
	store  *DocumentStore
	logger *observability.Logger
}

// NewExporter creates an exporter over the given store.
func NewExporter(store *DocumentStore, logger *observability.Logger) *Exporter {
	return &Exporter{store: store, logger: logger}
}

// DocumentPath returns the store path for one vehicle's current report.
func DocumentPath(vehicleID string) string {
	return fmt.Sprintf("vehicles/%s/compatibilityIndex/current", vehicleID)
}

// ExportReports writes every report under vehicles/{id}/compatibilityIndex/
// current and then the consolidated search index.
func (e *Exporter) ExportReports(ctx context.Context, reports []*report.CompatibilityReport) error {
	index := &SearchIndex{
		PartNumbers: make(map[string][]string),
		Vehicles:    make(map[string]VehicleSummary),
	}

	for _, rep := range reports {
		if err := e.store.Put(ctx, DocumentPath(rep.VehicleID), rep); err != nil {
			return fmt.Errorf("export report %s: %w", rep.VehicleID, err)
		}

		index.Vehicles[rep.VehicleID] = VehicleSummary{
			VehicleName: rep.VehicleName,
			Coverage:    rep.Coverage,
			Confidence:  rep.Confidence,
			Matched:     len(rep.Matched),
			Missing:     len(rep.Missing),
		}
		for _, m := range rep.Matched {
			if m.PartNumber == "" {
				continue
			}
			index.PartNumbers[m.PartNumber] = appendUnique(index.PartNumbers[m.PartNumber], rep.VehicleID)
		}
	}

	if err := e.store.Put(ctx, SearchIndexPath, index); err != nil {
		return fmt.Errorf("export search index: %w", err)
	}

	e.logger.Info().
		Int("reports", len(reports)).
		Int("indexed_parts", len(index.PartNumbers)).
		Msg("export completed")
	return nil
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
