package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/partfit/compat-engine/cmd/partfit/ui"
	"github.com/partfit/compat-engine/internal/engine"
	"github.com/partfit/compat-engine/internal/matching"
	"github.com/partfit/compat-engine/internal/vehicle"
)

var (
	resolveBrand    string
	resolveModel    string
	resolveTrim     string
	resolveYear     int
	resolveEngine   string
	resolveCc       int
	resolveClass    string
	resolveCategory string
	resolveJSON     bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve part compatibility for a single vehicle",
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveBrand, "brand", "", "vehicle brand (required)")
	resolveCmd.Flags().StringVar(&resolveModel, "model", "", "vehicle model (required)")
	resolveCmd.Flags().StringVar(&resolveTrim, "trim", "", "trim level")
	resolveCmd.Flags().IntVar(&resolveYear, "year", 0, "model year")
	resolveCmd.Flags().StringVar(&resolveEngine, "engine", "", "engine code or name")
	resolveCmd.Flags().IntVar(&resolveCc, "cc", 0, "engine displacement in cc")
	resolveCmd.Flags().StringVar(&resolveClass, "class", "car", "vehicle class")
	resolveCmd.Flags().StringVar(&resolveCategory, "category", "", "restrict to one part category")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print the raw report JSON")
	_ = resolveCmd.MarkFlagRequired("brand")
	_ = resolveCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	_, _, resolver, err := loadEnvironment()
	if err != nil {
		return err
	}

	d := vehicle.Descriptor{
		Brand:          resolveBrand,
		Model:          resolveModel,
		Trim:           resolveTrim,
		Year:           resolveYear,
		EngineName:     resolveEngine,
		DisplacementCc: resolveCc,
		Class:          resolveClass,
	}

	rep, err := resolver.Resolve(context.Background(), d, engine.Options{
		CategoryFilter: resolveCategory,
	})
	if err != nil {
		return fmt.Errorf("resolve %s: %w", d.DisplayName(), err)
	}

	if resolveJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	ui.Section(fmt.Sprintf("Compatibility: %s", rep.VehicleName))
	ui.Info("coverage %.0f%% · confidence %.2f · bucket %s",
		rep.Coverage*100, rep.Confidence, rep.Bucket())
	ui.Newline()

	if len(rep.Matched) > 0 {
		rows := make([][]string, 0, len(rep.Matched))
		for _, m := range rep.Matched {
			flag := ""
			if m.RequiresHumanValidation {
				flag = "verify"
			}
			rows = append(rows, []string{
				m.CategoryName, m.PartNumber, m.PartBrand,
				string(m.Strategy), fmt.Sprintf("%.2f", m.Confidence), flag,
			})
		}
		ui.Table([]string{"Category", "Part", "Brand", "Strategy", "Confidence", ""}, rows)
		ui.Newline()
	}

	for _, miss := range rep.Missing {
		ui.Warning("%s: %s (tried %s)", miss.CategoryName, miss.Reason, joinStrategies(miss.Attempted))
	}

	if len(rep.Shared) > 0 {
		ui.Newline()
		ui.Section("Shared parts")
		for _, s := range rep.Shared {
			names := make([]string, 0, len(s.OtherVehicles))
			for _, v := range s.OtherVehicles {
				names = append(names, v.Brand+" "+v.Model)
			}
			ui.Info("%s (%s): %d vehicles, %s savings %d-%d%%: %s",
				s.PartNumber, s.CategoryName, s.TotalVehicles,
				s.Economy, s.SavingsPct[0], s.SavingsPct[1], strings.Join(names, ", "))
		}
	}

	return nil
}

func joinStrategies(strategies []matching.Strategy) string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
