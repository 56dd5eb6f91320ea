package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_SetGet(t *testing.T) {
	c := NewMemoryClient(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	_, err = c.Get(ctx, "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_TTLExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryClient(10, WithClock(func() time.Time { return now }))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))

	now = now.Add(59 * time.Minute)
	_, err := c.Get(ctx, "k")
	assert.NoError(t, err, "entry inside TTL must hit")

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss, "entry past TTL must miss")
}

func TestMemoryClient_SweepRemovesExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryClient(10, WithClock(func() time.Time { return now }))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "old", []byte("1"), time.Minute))
	now = now.Add(30 * time.Minute)
	require.NoError(t, c.Set(ctx, "fresh", []byte("2"), time.Hour))

	require.NoError(t, c.Sweep(ctx))

	assert.Equal(t, 1, c.Len())
	_, err := c.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryClient_OverwriteResetsTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryClient(10, WithClock(func() time.Time { return now }))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v1"), time.Minute))
	now = now.Add(50 * time.Second)
	require.NoError(t, c.Set(ctx, "k", []byte("v2"), time.Minute))
	now = now.Add(30 * time.Second)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestMemoryClient_EvictsOldestWhenFull(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryClient(2, WithClock(func() time.Time { return now }))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Hour))
	now = now.Add(time.Second)
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Hour))
	now = now.Add(time.Second)
	require.NoError(t, c.Set(ctx, "c", []byte("3"), time.Hour))

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestMemoryClient_OverwriteAtCapacityDoesNotEvict(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryClient(2, WithClock(func() time.Time { return now }))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Hour))
	now = now.Add(time.Second)
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Hour))
	now = now.Add(time.Second)
	require.NoError(t, c.Set(ctx, "a", []byte("1b"), time.Hour))

	assert.Equal(t, 2, c.Len())
	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1b"), got)
	_, err = c.Get(ctx, "b")
	assert.NoError(t, err, "overwriting a must not evict b")
}

func TestMemoryClient_ConcurrentAccess(t *testing.T) {
	c := NewMemoryClient(100)
	defer c.Close()
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				_ = c.Set(ctx, "shared", []byte("v"), time.Minute)
				_, _ = c.Get(ctx, "shared")
				_ = c.Sweep(ctx)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	got, err := c.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
