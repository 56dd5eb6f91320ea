package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/partfit/compat-engine/cmd/partfit/ui"
	"github.com/partfit/compat-engine/internal/batch"
	"github.com/partfit/compat-engine/internal/vehicle"
)

var (
	generateBrand string
	generateClass string
	generateLimit int
	generateForce bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate compatibility reports for the vehicle registry",
	Long: `Computes a compatibility report for every vehicle in the registry
(optionally filtered), writing one JSON file per vehicle into the results
directory. Progress is tracked in a progress file so interrupted runs resume.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateBrand, "brand", "", "only vehicles of this brand")
	generateCmd.Flags().StringVar(&generateClass, "class", "", "only vehicles of this class")
	generateCmd.Flags().IntVar(&generateLimit, "limit", 0, "cap the number of vehicles")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "reprocess already-generated vehicles")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, logger, resolver, err := loadEnvironment()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	spin := ui.NewSpinner("Loading vehicle registry...")
	spin.Start()
	registry, err := vehicle.LoadRegistry(cfg.Catalog.VehicleFile)
	spin.Stop()
	if err != nil {
		return err
	}

	vehicles := registry.Filter(generateBrand, generateClass, generateLimit)
	if len(vehicles) == 0 {
		ui.Warning("no vehicles matched the filters")
		return nil
	}

	progress, err := batch.LoadProgress(cfg.Batch.ProgressFile)
	if err != nil {
		return err
	}

	processor := batch.NewProcessor(resolver, logger, cfg.Batch.Workers, cfg.Batch.ResultsDir, progress)

	bar := ui.NewProgressBar(int64(len(vehicles)), "Resolving compatibility")
	processor.OnItem = func(done, total int) {
		bar.Set(int64(done))
	}

	summary, err := processor.Run(ctx, vehicles, generateForce)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("batch run: %w", err)
	}

	ui.Newline()
	ui.Section("Generation Summary")
	ui.Table([]string{"Metric", "Value"}, [][]string{
		{"Run", summary.RunID},
		{"Vehicles", fmt.Sprintf("%d", summary.Total)},
		{"Succeeded", fmt.Sprintf("%d", summary.Succeeded)},
		{"Failed", fmt.Sprintf("%d", summary.Failed)},
		{"Skipped", fmt.Sprintf("%d", summary.Skipped)},
		{"Full coverage", fmt.Sprintf("%d", summary.Buckets["full"])},
		{"High coverage", fmt.Sprintf("%d", summary.Buckets["high"])},
		{"Medium coverage", fmt.Sprintf("%d", summary.Buckets["medium"])},
		{"Low coverage", fmt.Sprintf("%d", summary.Buckets["low"])},
		{"Duration", ui.FormatDuration(summary.Duration)},
	})

	if summary.Failed > 0 {
		ui.Warning("%d vehicles failed; see logs", summary.Failed)
	} else {
		ui.Success("all vehicles processed")
	}
	return nil
}
