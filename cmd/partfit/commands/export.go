package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partfit/compat-engine/cmd/partfit/ui"
	"github.com/partfit/compat-engine/internal/export"
	"github.com/partfit/compat-engine/internal/report"
	"github.com/partfit/compat-engine/internal/validate"
)

var exportSkipValidation bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export validated reports into the document store",
	Long: `Writes each generated report under vehicles/{id}/compatibilityIndex/current
in the document store, plus a consolidated search index. Validation gates the
export: strict mode blocks on any invalid report, lenient mode tolerates a
configured share.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportSkipValidation, "skip-validation", false, "export without the validation gate")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, logger, _, err := loadEnvironment()
	if err != nil {
		return err
	}
	ctx := context.Background()

	reports, err := loadGeneratedReports(cfg.Batch.ResultsDir)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		ui.Warning("no generated reports found in %s; run generate first", cfg.Batch.ResultsDir)
		return nil
	}

	validator := validate.NewValidator(validate.Config{
		MinConfidence: cfg.Validation.MinConfidence,
		Strict:        cfg.Validation.Strict,
		InvalidRatio:  cfg.Validation.InvalidRatio,
	})

	exportable := reports
	if !exportSkipValidation {
		result := validator.ValidateAll(reports)
		if !validator.ExportAllowed(result) {
			return fmt.Errorf("export blocked: %d of %d reports invalid",
				result.InvalidReports(), result.TotalReports)
		}
		exportable = filterValid(validator, reports)
	}

	store, err := export.OpenStore(cfg.Export.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	spin := ui.NewSpinner(fmt.Sprintf("Exporting %d reports...", len(exportable)))
	spin.Start()
	err = export.NewExporter(store, logger).ExportReports(ctx, exportable)
	spin.Stop()
	if err != nil {
		return err
	}

	ui.Success("exported %d reports to %s", len(exportable), cfg.Export.StorePath)
	return nil
}

func filterValid(validator *validate.Validator, reports []*report.CompatibilityReport) []*report.CompatibilityReport {
	var valid []*report.CompatibilityReport
	for _, rep := range reports {
		if validate.IsValid(validator.ValidateOne(rep)) {
			valid = append(valid, rep)
		}
	}
	return valid
}
