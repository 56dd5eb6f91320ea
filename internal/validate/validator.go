// Package validate checks generated compatibility reports against structural
// rules and gates the export step.
package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/partfit/compat-engine/internal/checklist"
	"github.com/partfit/compat-engine/internal/report"
)

// Severity ranks a validation issue. Critical and error issues make a report
// invalid and block its export; warnings are advisory.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
)

// Issue is one finding against one report.
type Issue struct {
	VehicleID string   `json:"vehicleId"`
	Severity  Severity `json:"severity"`
	Rule      string   `json:"rule"`
	Detail    string   `json:"detail"`
}

// Report is the persisted outcome of a validation pass.
type Report struct {
	GeneratedAt  time.Time `json:"generatedAt"`
	TotalReports int       `json:"totalReports"`
	ValidReports int       `json:"validReports"`
	Issues       []Issue   `json:"issues"`
}

// InvalidReports returns how many reports carry blocking issues.
func (r *Report) InvalidReports() int {
	return r.TotalReports - r.ValidReports
}

// Config holds validation thresholds.
type Config struct {
	// MinConfidence below which a report draws a warning.
	MinConfidence float64
	// Strict blocks export on any invalid report. Lenient mode allows export
	// while the invalid share stays under InvalidRatio.
	Strict       bool
	InvalidRatio float64
}

// Validator applies the structural rules.
type Validator struct {
	cfg Config
}

// NewValidator creates a validator. Zero thresholds fall back to defaults.
func NewValidator(cfg Config) *Validator {
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.65
	}
	if cfg.InvalidRatio <= 0 {
		cfg.InvalidRatio = 0.10
	}
	return &Validator{cfg: cfg}
}

// ValidateOne checks a single report and returns its issues.
func (v *Validator) ValidateOne(rep *report.CompatibilityReport) []Issue {
	var issues []Issue
	add := func(severity Severity, rule, detail string) {
		issues = append(issues, Issue{
			VehicleID: rep.VehicleID,
			Severity:  severity,
			Rule:      rule,
			Detail:    detail,
		})
	}

	if rep.VehicleID == "" {
		add(SeverityCritical, "missing_vehicle_id", "report has no vehicle id")
	}
	if rep.GeneratedAt.IsZero() {
		add(SeverityError, "missing_generated_at", "report has no generation timestamp")
	}
	if len(rep.Matched) == 0 && len(rep.Missing) == 0 {
		add(SeverityCritical, "empty_report", "report has neither matched nor missing parts")
	}

	for _, m := range rep.Matched {
		if m.Strategy == "" || m.Source == "" {
			add(SeverityError, "missing_evidence",
				fmt.Sprintf("match for %s lacks supporting evidence", m.Category))
		}
		if m.PartNumber == "" {
			add(SeverityWarning, "missing_part_number",
				fmt.Sprintf("match for %s has no part number", m.Category))
		}
		if m.PartBrand == "" {
			add(SeverityWarning, "missing_part_brand",
				fmt.Sprintf("match for %s has no part brand", m.Category))
		}
	}

	if len(rep.Matched) > 0 && rep.Confidence < v.cfg.MinConfidence {
		add(SeverityWarning, "low_confidence",
			fmt.Sprintf("overall confidence %.2f below minimum %.2f", rep.Confidence, v.cfg.MinConfidence))
	}
	if rep.Coverage < 0.5 {
		add(SeverityWarning, "low_coverage",
			fmt.Sprintf("coverage %.2f below 50%%", rep.Coverage))
	}
	for _, miss := range rep.Missing {
		if miss.Priority == checklist.PriorityCritical {
			add(SeverityWarning, "missing_critical_part",
				fmt.Sprintf("critical category %s unresolved", miss.Category))
		}
	}

	return issues
}

// IsValid reports whether a set of issues leaves the report exportable.
func IsValid(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityCritical || issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// ValidateAll checks every report and builds the validation report.
func (v *Validator) ValidateAll(reports []*report.CompatibilityReport) *Report {
	out := &Report{
		GeneratedAt:  time.Now().UTC(),
		TotalReports: len(reports),
		Issues:       []Issue{},
	}
	for _, rep := range reports {
		issues := v.ValidateOne(rep)
		if IsValid(issues) {
			out.ValidReports++
		}
		out.Issues = append(out.Issues, issues...)
	}
	return out
}

// ExportAllowed applies the gating policy to a validation report.
func (v *Validator) ExportAllowed(rep *Report) bool {
	if rep.TotalReports == 0 {
		return false
	}
	invalid := rep.InvalidReports()
	if v.cfg.Strict {
		return invalid == 0
	}
	return float64(invalid)/float64(rep.TotalReports) < v.cfg.InvalidRatio
}

// WriteReport persists the validation report file.
func WriteReport(path string, rep *Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal validation report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create validation report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write validation report: %w", err)
	}
	return nil
}
