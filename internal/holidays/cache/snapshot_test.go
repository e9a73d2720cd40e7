package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonhours/pkg/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisSnapshotCache(rdb, ttl), mr
}

func sampleSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Registry: []*model.HolidaySchedule{{
			ID:        "6571f0c2a4b5c6d7e8f90123",
			Name:      "Christmas",
			Type:      model.HolidayChristmas,
			IsActive:  true,
			Hours:     map[model.Weekday]string{model.Monday: "10:00-14:00"},
			Closed:    map[model.Weekday]bool{model.Wednesday: true},
			CreatedAt: time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC),
		}},
		Legacy: &model.LegacySchedule{Enabled: true, StartDate: "2024-12-20", EndDate: "2025-01-06"},
	}
}

func TestSnapshotCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, 0, sampleSnapshot()))

	got, ok := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, sampleSnapshot(), got)
}

func TestSnapshotCache_Expires(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, sampleSnapshot()))
	mr.FastForward(31 * time.Second)

	_, ok := c.Get(ctx)
	assert.False(t, ok)
}

func TestSnapshotCache_Invalidate(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, sampleSnapshot()))
	require.NoError(t, c.Invalidate(ctx))

	assert.False(t, mr.Exists(SnapshotKey))
	_, ok := c.Get(ctx)
	assert.False(t, ok)

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestSnapshotCache_SetAfterInvalidateIsStale(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)

	// A write lands between the store read and the cache fill.
	require.NoError(t, c.Invalidate(ctx))

	err = c.Set(ctx, gen, sampleSnapshot())
	assert.ErrorIs(t, err, ErrStaleSnapshot)
	assert.False(t, mr.Exists(SnapshotKey))

	gen, err = c.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, gen, sampleSnapshot()))
	_, ok := c.Get(ctx)
	assert.True(t, ok)
}

func TestSnapshotCache_CorruptValueIsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(SnapshotKey, "{not json"))

	_, ok := c.Get(context.Background())
	assert.False(t, ok)
}

func TestSnapshotCache_RedisDownIsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Close()

	ctx := context.Background()
	assert.Error(t, c.Set(ctx, 0, sampleSnapshot()))
	_, ok := c.Get(ctx)
	assert.False(t, ok)
	_, err := c.Generation(ctx)
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(ctx))
}

func TestNewRedisSnapshotCache_DisabledIsNoop(t *testing.T) {
	c := NewRedisSnapshotCache(nil, time.Minute)
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, 0, sampleSnapshot()))
	_, ok := c.Get(ctx)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx))
}
