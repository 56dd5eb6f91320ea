// Package engine wires the resolution pipeline: normalize the vehicle,
// resolve its checklist, run the layered matcher per category, aggregate
// confidence, attach shared parts, and cache the finished report.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/partfit/compat-engine/internal/cache"
	"github.com/partfit/compat-engine/internal/catalog"
	"github.com/partfit/compat-engine/internal/checklist"
	"github.com/partfit/compat-engine/internal/crossref"
	"github.com/partfit/compat-engine/internal/matching"
	"github.com/partfit/compat-engine/internal/observability"
	"github.com/partfit/compat-engine/internal/report"
	"github.com/partfit/compat-engine/internal/vehicle"
)

// ErrNoRequirements indicates the vehicle class resolved to an empty checklist.
var ErrNoRequirements = errors.New("no requirements for vehicle class")

// Options control a single resolution request.
type Options struct {
	// CategoryFilter restricts resolution to one category id for ad-hoc lookups.
	CategoryFilter string
	// BypassCache forces recomputation and overwrites the cached entry.
	BypassCache bool
}

// Config holds resolver settings.
type Config struct {
	CacheTTL              time.Duration
	HeuristicThreshold    float64
	MaxAlternatives       int
	SharedPartsDisplayCap int
}

// Resolver produces compatibility reports. It is stateless per request; the
// report cache is the only shared mutable resource and is safe for concurrent
// batch workers.
type Resolver struct {
	provider   catalog.Provider
	checklists *checklist.Resolver
	matcher    *matching.Matcher
	finder     *crossref.Finder
	cache      cache.Client
	ttl        time.Duration
	logger     *observability.Logger
	now        func() time.Time
	recomputes atomic.Int64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock injects a clock for deterministic report timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithCache sets the report cache backend. Without one, every request
// recomputes.
func WithCache(c cache.Client) Option {
	return func(r *Resolver) { r.cache = c }
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(provider catalog.Provider, logger *observability.Logger, cfg Config, opts ...Option) *Resolver {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	r := &Resolver{
		provider:   provider,
		checklists: checklist.NewResolver(),
		matcher: matching.NewMatcher(provider, matching.Config{
			HeuristicThreshold: cfg.HeuristicThreshold,
			MaxAlternatives:    cfg.MaxAlternatives,
		}),
		finder: crossref.NewFinder(provider, cfg.SharedPartsDisplayCap),
		ttl:    cfg.CacheTTL,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the compatibility report for a vehicle, served from cache
// when a fresh entry exists. Two workers racing on the same vehicle may both
// compute; the last write wins, which is idempotent.
func (r *Resolver) Resolve(ctx context.Context, d vehicle.Descriptor, opts Options) (*report.CompatibilityReport, error) {
	key := cacheKey(d, opts)

	if r.cache != nil && !opts.BypassCache {
		if cached, err := r.cache.Get(ctx, key); err == nil {
			var rep report.CompatibilityReport
			if err := json.Unmarshal(cached, &rep); err == nil {
				r.logger.WithVehicle(rep.VehicleID).Debug().Msg("report cache hit")
				return &rep, nil
			}
		}
	}

	rep, err := r.compute(d, opts)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if data, err := json.Marshal(rep); err == nil {
			if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
				r.logger.WithVehicle(rep.VehicleID).Warn().Err(err).Msg("failed to cache report")
			}
		}
	}
	return rep, nil
}

// Recomputes reports how many times a full report was computed rather than
// served from cache. Observable in tests.
func (r *Resolver) Recomputes() int64 {
	return r.recomputes.Load()
}

func (r *Resolver) compute(d vehicle.Descriptor, opts Options) (*report.CompatibilityReport, error) {
	r.recomputes.Add(1)

	class := checklist.NormalizeClass(d.Class)
	requirements := r.checklists.Requirements(class)
	if opts.CategoryFilter != "" {
		requirements = filterRequirements(requirements, opts.CategoryFilter)
	}
	if len(requirements) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRequirements, class)
	}

	rep := &report.CompatibilityReport{
		VehicleID:    d.Key(),
		VehicleName:  d.DisplayName(),
		VehicleClass: class,
		GeneratedAt:  r.now().UTC(),
		Matched:      []report.MatchedPart{},
		Missing:      []report.MissingPart{},
		Shared:       []report.SharedPart{},
	}

	for _, req := range requirements {
		match, miss := r.matcher.MatchCategory(d, req)
		if match != nil {
			rep.Matched = append(rep.Matched, report.NewMatchedPart(match))
		} else {
			rep.Missing = append(rep.Missing, report.NewMissingPart(miss))
		}
	}

	rep.Aggregate()
	rep.Shared = r.finder.SharedParts(d.Brand, rep.Matched)
	if rep.Shared == nil {
		rep.Shared = []report.SharedPart{}
	}

	r.logger.WithVehicle(rep.VehicleID).Debug().
		Float64("coverage", rep.Coverage).
		Float64("confidence", rep.Confidence).
		Int("matched", len(rep.Matched)).
		Int("missing", len(rep.Missing)).
		Msg("report computed")

	return rep, nil
}

func cacheKey(d vehicle.Descriptor, opts Options) string {
	key := vehicle.NormalizedKey(d)
	if opts.CategoryFilter != "" {
		key += ":" + opts.CategoryFilter
	}
	return key
}

func filterRequirements(reqs []checklist.Requirement, categoryID string) []checklist.Requirement {
	var filtered []checklist.Requirement
	for _, req := range reqs {
		if req.ID == categoryID {
			filtered = append(filtered, req)
		}
	}
	return filtered
}
