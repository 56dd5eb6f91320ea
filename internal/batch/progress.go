// Package batch generates compatibility reports for the whole vehicle
// population with bounded parallelism and resumable progress.
package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Progress tracks which vehicle ids have been processed across runs, so an
// interrupted batch resumes instead of starting over.
type Progress struct {
	mu   sync.Mutex
	path string

	state progressState
}

type progressState struct {
	RunID     string          `json:"runId"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Processed map[string]bool `json:"processed"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
}

// LoadProgress reads the progress file, returning empty progress when the
// file does not exist yet.
func LoadProgress(path string) (*Progress, error) {
	p := &Progress{
		path:  path,
		state: progressState{Processed: make(map[string]bool)},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress file: %w", err)
	}
	if err := json.Unmarshal(data, &p.state); err != nil {
		return nil, fmt.Errorf("parse progress file: %w", err)
	}
	if p.state.Processed == nil {
		p.state.Processed = make(map[string]bool)
	}
	return p, nil
}

// IsProcessed reports whether a vehicle id was already handled.
func (p *Progress) IsProcessed(vehicleID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Processed[vehicleID]
}

// Mark records the outcome for one vehicle.
func (p *Progress) Mark(runID, vehicleID string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.RunID = runID
	p.state.Processed[vehicleID] = true
	if ok {
		p.state.Succeeded++
	} else {
		p.state.Failed++
	}
}

// Reset clears all progress, for forced full regeneration.
func (p *Progress) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = progressState{Processed: make(map[string]bool)}
}

// Save writes the progress file atomically.
func (p *Progress) Save() error {
	p.mu.Lock()
	p.state.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(p.state, "", "  ")
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write progress file: %w", err)
	}
	return os.Rename(tmp, p.path)
}

// Counts returns the processed/succeeded/failed counters.
func (p *Progress) Counts() (processed, succeeded, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.state.Processed), p.state.Succeeded, p.state.Failed
}
