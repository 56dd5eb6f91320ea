package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/partfit/compat-engine/internal/engine"
	"github.com/partfit/compat-engine/internal/observability"
	"github.com/partfit/compat-engine/internal/report"
	"github.com/partfit/compat-engine/internal/vehicle"
)

// Summary aggregates the outcome of one batch run.
type Summary struct {
	RunID     string                            `json:"runId"`
	Total     int                               `json:"total"`
	Succeeded int                               `json:"succeeded"`
	Failed    int                               `json:"failed"`
	Skipped   int                               `json:"skipped"`
	Buckets   map[report.CoverageBucket]int     `json:"coverageBuckets"`
	Duration  time.Duration                     `json:"duration"`
}

// Processor runs report generation over many vehicles with a fixed-size
// worker pool. Each vehicle's computation is independent and its result file
// is written exactly once per run.
type Processor struct {
	resolver   *engine.Resolver
	logger     *observability.Logger
	workers    int
	resultsDir string
	progress   *Progress
	// OnItem is called after each vehicle completes, for progress display.
	OnItem func(done, total int)
}

// NewProcessor creates a batch processor.
func NewProcessor(resolver *engine.Resolver, logger *observability.Logger, workers int, resultsDir string, progress *Progress) *Processor {
	if workers <= 0 {
		workers = 10
	}
	return &Processor{
		resolver:   resolver,
		logger:     logger.WithOperation("batch"),
		workers:    workers,
		resultsDir: resultsDir,
		progress:   progress,
	}
}

// Run generates one report file per vehicle. A failure on one vehicle is
// logged and counted but never aborts the batch. Already-processed vehicles
// are skipped unless force is set.
func (p *Processor) Run(ctx context.Context, vehicles []vehicle.Descriptor, force bool) (*Summary, error) {
	if err := os.MkdirAll(p.resultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	if force {
		p.progress.Reset()
	}

	summary := &Summary{
		RunID:   uuid.NewString(),
		Total:   len(vehicles),
		Buckets: make(map[report.CoverageBucket]int),
	}
	start := time.Now()

	workChan := make(chan vehicle.Descriptor, len(vehicles))
	for _, d := range vehicles {
		workChan <- d
	}
	close(workChan)

	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	workers := p.workers
	if workers > len(vehicles) {
		workers = len(vehicles)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range workChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				id := d.Key()
				if !force && p.progress.IsProcessed(id) {
					mu.Lock()
					summary.Skipped++
					done++
					p.notifyLocked(done, summary.Total)
					mu.Unlock()
					continue
				}

				rep, err := p.processOne(ctx, d)

				mu.Lock()
				if err != nil {
					summary.Failed++
					p.logger.WithVehicle(id).Error().Err(err).Msg("vehicle resolution failed")
				} else {
					summary.Succeeded++
					summary.Buckets[rep.Bucket()]++
				}
				p.progress.Mark(summary.RunID, id, err == nil)
				done++
				p.notifyLocked(done, summary.Total)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	summary.Duration = time.Since(start)
	if err := p.progress.Save(); err != nil {
		return summary, fmt.Errorf("save progress: %w", err)
	}

	p.logger.Info().
		Str("run_id", summary.RunID).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Dur("duration", summary.Duration).
		Msg("batch run finished")

	return summary, ctx.Err()
}

// processOne resolves and persists a single vehicle, converting panics into
// errors so one bad record cannot take down the pool.
func (p *Processor) processOne(ctx context.Context, d vehicle.Descriptor) (rep *report.CompatibilityReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic resolving %s: %v", d.DisplayName(), r)
		}
	}()

	rep, err = p.resolver.Resolve(ctx, d, engine.Options{})
	if err != nil {
		return nil, err
	}
	if err := WriteReport(p.resultsDir, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (p *Processor) notifyLocked(done, total int) {
	if p.OnItem != nil {
		p.OnItem(done, total)
	}
}

// WriteReport writes one report file under the results directory, named by
// vehicle id.
func WriteReport(dir string, rep *report.CompatibilityReport) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report %s: %w", rep.VehicleID, err)
	}
	path := filepath.Join(dir, rep.VehicleID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", rep.VehicleID, err)
	}
	return nil
}

// ReadReport loads one report file by vehicle id.
func ReadReport(dir, vehicleID string) (*report.CompatibilityReport, error) {
	data, err := os.ReadFile(filepath.Join(dir, vehicleID+".json"))
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", vehicleID, err)
	}
	var rep report.CompatibilityReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", vehicleID, err)
	}
	return &rep, nil
}

// ListReports returns the vehicle ids that have report files in dir.
func ListReports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read results dir: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || name == "progress.json" || name == "validation-report.json" {
			continue
		}
		ids = append(ids, name[:len(name)-len(".json")])
	}
	return ids, nil
}
