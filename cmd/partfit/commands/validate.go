package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partfit/compat-engine/cmd/partfit/ui"
	"github.com/partfit/compat-engine/internal/batch"
	"github.com/partfit/compat-engine/internal/report"
	"github.com/partfit/compat-engine/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate generated reports against structural rules",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, _, err := loadEnvironment()
	if err != nil {
		return err
	}

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

	spin := ui.NewSpinner(fmt.Sprintf("Validating %d reports...", len(reports)))
	spin.Start()
	result := validator.ValidateAll(reports)
	spin.Stop()

	if err := validate.WriteReport(cfg.Validation.ReportFile, result); err != nil {
		return err
	}

	warnings := 0
	blocking := 0
	for _, issue := range result.Issues {
		if issue.Severity == validate.SeverityWarning {
			warnings++
		} else {
			blocking++
		}
	}

	ui.Section("Validation Summary")
	ui.Table([]string{"Metric", "Value"}, [][]string{
		{"Reports", fmt.Sprintf("%d", result.TotalReports)},
		{"Valid", fmt.Sprintf("%d", result.ValidReports)},
		{"Invalid", fmt.Sprintf("%d", result.InvalidReports())},
		{"Blocking issues", fmt.Sprintf("%d", blocking)},
		{"Warnings", fmt.Sprintf("%d", warnings)},
	})
	ui.Info("validation report written to %s", cfg.Validation.ReportFile)

	if validator.ExportAllowed(result) {
		ui.Success("export is allowed")
	} else {
		ui.Error("export is blocked by validation policy")
	}
	return nil
}

func loadGeneratedReports(dir string) ([]*report.CompatibilityReport, error) {
	ids, err := batch.ListReports(dir)
	if err != nil {
		return nil, err
	}
	reports := make([]*report.CompatibilityReport, 0, len(ids))
	for _, id := range ids {
		rep, err := batch.ReadReport(dir, id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
