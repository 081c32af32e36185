package cache

import (
	"context"
	"route-refiner/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisDistanceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisDistanceCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedisCache(t, time.Hour)

	err := c.PutMany(ctx, "HUB", map[string]ports.DistanceResult{
		"A": {DistanceMeters: 1000, DurationSeconds: 300},
		"B": {DistanceMeters: 2000, DurationSeconds: 600},
	})
	require.NoError(t, err)

	got, err := c.GetMany(ctx, "HUB", []string{"A", " B ", "C", "A", ""})
	require.NoError(t, err)

	assert.Equal(t, map[string]ports.DistanceResult{
		"A": {DistanceMeters: 1000, DurationSeconds: 300},
		"B": {DistanceMeters: 2000, DurationSeconds: 600},
	}, got)
}

func TestRedisDistanceCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	require.NoError(t, c.PutMany(ctx, "HUB", map[string]ports.DistanceResult{"A": {DistanceMeters: 1, DurationSeconds: 1}}))
	assert.Equal(t, time.Minute, mr.TTL("distance:HUB"))

	mr.FastForward(2 * time.Minute)

	got, err := c.GetMany(ctx, "HUB", []string{"A"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisDistanceCacheSkipsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 0)

	mr.HSet("distance:HUB", "A", "not-a-number", "B", "10,20")

	got, err := c.GetMany(ctx, "HUB", []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, map[string]ports.DistanceResult{"B": {DistanceMeters: 10, DurationSeconds: 20}}, got)
}

func TestRedisDistanceCacheRejectsEmptyKeys(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedisCache(t, 0)

	_, err := c.GetMany(ctx, "", []string{"A"})
	assert.Error(t, err)

	err = c.PutMany(ctx, "HUB", map[string]ports.DistanceResult{" ": {}})
	assert.Error(t, err)
}
