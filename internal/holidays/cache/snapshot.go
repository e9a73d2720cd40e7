// Package cache keeps the last registry snapshot in Redis so footer reads
// do not hit Mongo on every page view.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"salonhours/pkg/model"
)

const (
	SnapshotKey   = "holidays:snapshot"
	GenerationKey = "holidays:snapshot:generation"
)

// ErrStaleSnapshot is returned by Set when the cache was invalidated after
// the caller read the generation it passes in.
var ErrStaleSnapshot = errors.New("snapshot was invalidated while it was being read")

// SnapshotCache stores one registry snapshot. Callers read Generation before
// loading from the store and hand it back to Set, so a snapshot loaded
// across an Invalidate is never written.
type SnapshotCache interface {
	Get(ctx context.Context) (*model.Snapshot, bool)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, generation int64, snap *model.Snapshot) error
	Invalidate(ctx context.Context) error
}

type redisSnapshotCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisSnapshotCache returns a no-op cache when rdb is nil or ttl is not
// positive.
func NewRedisSnapshotCache(rdb *redis.Client, ttl time.Duration) SnapshotCache {
	if rdb == nil || ttl <= 0 {
		return noopCache{}
	}
	return &redisSnapshotCache{redis: rdb, ttl: ttl}
}

// Get reports a miss on any read or decode failure.
func (c *redisSnapshotCache) Get(ctx context.Context) (*model.Snapshot, bool) {
	val, err := c.redis.Get(ctx, SnapshotKey).Bytes()
	if err != nil {
		return nil, false
	}
	var snap model.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

func (c *redisSnapshotCache) Generation(ctx context.Context) (int64, error) {
	return readGeneration(ctx, c.redis)
}

func (c *redisSnapshotCache) Set(ctx context.Context, generation int64, snap *model.Snapshot) error {
	if snap == nil {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != generation {
			return ErrStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, SnapshotKey, data, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleSnapshot
	}
	if err != nil && !errors.Is(err, ErrStaleSnapshot) {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return err
}

// Invalidate drops the snapshot and bumps the generation in one transaction.
func (c *redisSnapshotCache) Invalidate(ctx context.Context) error {
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, SnapshotKey)
		pipe.Incr(ctx, GenerationKey)
		return nil
	})
	return err
}

func readGeneration(ctx context.Context, cmd redis.Cmdable) (int64, error) {
	gen, err := cmd.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot generation: %w", err)
	}
	return gen, nil
}

type noopCache struct{}

func (noopCache) Get(context.Context) (*model.Snapshot, bool)       { return nil, false }
func (noopCache) Generation(context.Context) (int64, error)         { return 0, nil }
func (noopCache) Set(context.Context, int64, *model.Snapshot) error { return nil }
func (noopCache) Invalidate(context.Context) error                  { return nil }
