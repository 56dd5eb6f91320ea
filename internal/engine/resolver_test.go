package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partfit/compat-engine/internal/cache"
	"github.com/partfit/compat-engine/internal/catalog"
	"github.com/partfit/compat-engine/internal/matching"
	"github.com/partfit/compat-engine/internal/observability"
	"github.com/partfit/compat-engine/internal/vehicle"
)

// fakeClock is a mutable clock shared by the resolver and its cache.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func resolverProvider() *catalog.StaticProvider {
	return catalog.NewStaticProvider(catalog.Shard{
		Categories: map[string]map[string]catalog.Part{
			catalog.CategoryOilFilter: {
				"W712/95": {
					Number:       "W712/95",
					Brand:        "Mann",
					Applications: []string{"VW Gol 1.0 1.6 2008-2023", "Audi A1 1.4"},
				},
			},
			catalog.CategoryAirFilter: {
				"ARL8621": {
					Number:       "ARL8621",
					Brand:        "Tecfil",
					Applications: []string{"VW Gol 1.0 1.6 2013-2022"},
				},
			},
			catalog.CategoryBrakePadsFront: {
				"N-1101": {
					Number:       "N-1101",
					Brand:        "Cobreq",
					Applications: []string{"VW Gol 2008-2022"},
				},
			},
		},
	})
}

func newTestResolver(t *testing.T, clock *fakeClock, ttl time.Duration) *Resolver {
	t.Helper()
	reportCache := cache.NewMemoryClient(100, cache.WithClock(clock.Now))
	t.Cleanup(func() { reportCache.Close() })

	return NewResolver(resolverProvider(), observability.Nop(), Config{
		CacheTTL: ttl,
	}, WithCache(reportCache), WithClock(clock.Now))
}

func golDescriptor() vehicle.Descriptor {
	return vehicle.Descriptor{
		ID:    "vw-gol-2020",
		Brand: "VW",
		Model: "Gol",
		Year:  2020,
		Class: "car",
	}
}

func TestResolveRequirementPartition(t *testing.T) {
	r := newTestResolver(t, newFakeClock(), time.Hour)

	rep, err := r.Resolve(context.Background(), golDescriptor(), Options{})
	require.NoError(t, err)

	// Every checklist category lands in exactly one of the two lists.
	assert.Len(t, rep.Matched, 3)
	assert.Len(t, rep.Missing, 7)
	assert.Equal(t, "vw-gol-2020", rep.VehicleID)
	assert.Equal(t, "car", rep.VehicleClass)
	assert.InDelta(t, 0.3, rep.Coverage, 1e-9)
	assert.NotNil(t, rep.Shared)
}

func TestResolveFullBrandNameMatchesAbbreviatedApplications(t *testing.T) {
	r := newTestResolver(t, newFakeClock(), time.Hour)

	// Fixture applications all abbreviate the brand to "VW".
	d := vehicle.Descriptor{
		ID:    "volkswagen-gol-2020",
		Brand: "Volkswagen",
		Model: "Gol",
		Year:  2020,
		Class: "car",
	}
	rep, err := r.Resolve(context.Background(), d, Options{})
	require.NoError(t, err)

	assert.Len(t, rep.Matched, 3)
	for _, m := range rep.Matched {
		if m.Category == catalog.CategoryOilFilter {
			assert.Equal(t, matching.StrategyDirect, m.Strategy)
			assert.GreaterOrEqual(t, m.Confidence, 0.95)
		}
	}
}

func TestResolveServesFromCacheWithinTTL(t *testing.T) {
	clock := newFakeClock()
	r := newTestResolver(t, clock, time.Hour)
	ctx := context.Background()

	first, err := r.Resolve(ctx, golDescriptor(), Options{})
	require.NoError(t, err)
	require.EqualValues(t, 1, r.Recomputes())

	clock.Advance(30 * time.Minute)
	second, err := r.Resolve(ctx, golDescriptor(), Options{})
	require.NoError(t, err)

	assert.EqualValues(t, 1, r.Recomputes(), "second resolve must be served from cache")
	assert.True(t, first.GeneratedAt.Equal(second.GeneratedAt))
	assert.Equal(t, first.Matched, second.Matched)
}

func TestResolveRecomputesAfterTTLExpiry(t *testing.T) {
	clock := newFakeClock()
	r := newTestResolver(t, clock, time.Hour)
	ctx := context.Background()

	first, err := r.Resolve(ctx, golDescriptor(), Options{})
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Minute)
	second, err := r.Resolve(ctx, golDescriptor(), Options{})
	require.NoError(t, err)

	assert.EqualValues(t, 2, r.Recomputes())
	assert.True(t, second.GeneratedAt.After(first.GeneratedAt))
	// Same catalog, same vehicle: the recomputed content is identical.
	assert.Equal(t, first.Matched, second.Matched)
	assert.Equal(t, first.Missing, second.Missing)
	assert.InDelta(t, first.Coverage, second.Coverage, 1e-9)
	assert.InDelta(t, first.Confidence, second.Confidence, 1e-9)
}

func TestResolveBypassCache(t *testing.T) {
	r := newTestResolver(t, newFakeClock(), time.Hour)
	ctx := context.Background()

	_, err := r.Resolve(ctx, golDescriptor(), Options{})
	require.NoError(t, err)
	_, err = r.Resolve(ctx, golDescriptor(), Options{BypassCache: true})
	require.NoError(t, err)

	assert.EqualValues(t, 2, r.Recomputes())
}

func TestResolveCategoryFilter(t *testing.T) {
	r := newTestResolver(t, newFakeClock(), time.Hour)

	rep, err := r.Resolve(context.Background(), golDescriptor(), Options{
		CategoryFilter: catalog.CategoryOilFilter,
	})
	require.NoError(t, err)

	require.Len(t, rep.Matched, 1)
	assert.Empty(t, rep.Missing)
	assert.Equal(t, catalog.CategoryOilFilter, rep.Matched[0].Category)
	assert.InDelta(t, 1.0, rep.Coverage, 1e-9)
}

func TestResolveCategoryFilterKeysCacheSeparately(t *testing.T) {
	r := newTestResolver(t, newFakeClock(), time.Hour)
	ctx := context.Background()

	_, err := r.Resolve(ctx, golDescriptor(), Options{})
	require.NoError(t, err)
	_, err = r.Resolve(ctx, golDescriptor(), Options{CategoryFilter: catalog.CategoryOilFilter})
	require.NoError(t, err)

	assert.EqualValues(t, 2, r.Recomputes())
}

func TestResolveUnknownCategoryFilter(t *testing.T) {
	r := newTestResolver(t, newFakeClock(), time.Hour)

	_, err := r.Resolve(context.Background(), golDescriptor(), Options{
		CategoryFilter: "hyperdrive",
	})
	assert.ErrorIs(t, err, ErrNoRequirements)
}

func TestResolveWithoutCache(t *testing.T) {
	r := NewResolver(resolverProvider(), observability.Nop(), Config{}, WithClock(newFakeClock().Now))
	ctx := context.Background()

	_, err := r.Resolve(ctx, golDescriptor(), Options{})
	require.NoError(t, err)
	_, err = r.Resolve(ctx, golDescriptor(), Options{})
	require.NoError(t, err)

	assert.EqualValues(t, 2, r.Recomputes())
}

func TestResolveSharedPartsExcludeOwnBrand(t *testing.T) {
	r := newTestResolver(t, newFakeClock(), time.Hour)

	rep, err := r.Resolve(context.Background(), golDescriptor(), Options{
		CategoryFilter: catalog.CategoryOilFilter,
	})
	require.NoError(t, err)

	require.Len(t, rep.Shared, 1)
	assert.Equal(t, "W712/95", rep.Shared[0].PartNumber)
	require.Len(t, rep.Shared[0].OtherVehicles, 1)
	assert.Equal(t, "Audi", rep.Shared[0].OtherVehicles[0].Brand)
}
