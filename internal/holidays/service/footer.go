package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonhours/internal/holidays/cache"
	holidayerrors "salonhours/internal/holidays/errors"
	"salonhours/internal/holidays/metrics"
	"salonhours/internal/holidays/repository"
	"salonhours/internal/holidays/resolver"
	"salonhours/pkg/config"
	apperrors "salonhours/pkg/errors"
	"salonhours/pkg/model"
)

// FooterService answers the public "what are the hours this week" question.
type FooterService interface {
	Today() time.Time
	ResolveWeek(ctx context.Context, today time.Time) (*model.FooterHours, error)
	ResolveDay(ctx context.Context, today time.Time, day model.Weekday) (*model.ResolvedHours, error)
	// Fallback is the regular-hours answer served when resolving fails.
	Fallback(today time.Time) *model.FooterHours
}

type footerService struct {
	repo       repository.HolidayRepository
	legacyRepo repository.LegacyRepository
	cache      cache.SnapshotCache
	cfg        *config.Config
	now        func() time.Time
}

func NewFooterService(
	repo repository.HolidayRepository,
	legacyRepo repository.LegacyRepository,
	snapshotCache cache.SnapshotCache,
	cfg *config.Config,
) FooterService {
	return &footerService{
		repo:       repo,
		legacyRepo: legacyRepo,
		cache:      snapshotCache,
		cfg:        cfg,
		now:        cfg.Now,
	}
}

func (s *footerService) Today() time.Time {
	return s.now()
}

func (s *footerService) ResolveWeek(ctx context.Context, today time.Time) (*model.FooterHours, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	days := resolver.ResolveWeek(*snap, s.cfg.BaseHours, today)
	src, _ := resolver.ActiveSource(*snap, today)
	metrics.IncResolve(string(sourceKind(src)))

	return &model.FooterHours{
		Date:           today.Format(model.DateLayout),
		Days:           days,
		ClosureNotices: resolver.ActiveNotices(*snap, today),
	}, nil
}

func (s *footerService) ResolveDay(ctx context.Context, today time.Time, day model.Weekday) (*model.ResolvedHours, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	resolved := resolver.Resolve(*snap, s.cfg.BaseHours, today, day)
	metrics.IncResolve(string(resolved.Source))
	return &resolved, nil
}

func (s *footerService) Fallback(today time.Time) *model.FooterHours {
	metrics.IncResolveDegraded()
	return &model.FooterHours{
		Date:           today.Format(model.DateLayout),
		Days:           resolver.ResolveWeek(model.Snapshot{}, s.cfg.BaseHours, today),
		ClosureNotices: []model.ClosureNotice{},
		Degraded:       true,
	}
}

// snapshot reads both schedule shapes, from the cache when possible. Any
// store failure is reported as an Unavailable error wrapping
// ErrUnableToResolve.
func (s *footerService) snapshot(ctx context.Context) (*model.Snapshot, error) {
	if snap, ok := s.cache.Get(ctx); ok {
		metrics.IncSnapshotCache(true)
		s.checkConsistency(snap)
		return snap, nil
	}
	metrics.IncSnapshotCache(false)

	// Read before the store so a write landing mid-read discards this fill.
	generation, genErr := s.cache.Generation(ctx)

	registry, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to read holiday registry", "error", err)
		return nil, unableToResolve(err)
	}

	legacy, err := s.legacyRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, holidayerrors.ErrLegacyNotFound) {
			s.cfg.Log.Error("Failed to read legacy schedule", "error", err)
			return nil, unableToResolve(err)
		}
		legacy = nil
	}

	snap := &model.Snapshot{Registry: registry, Legacy: legacy}
	s.checkConsistency(snap)
	s.fillCache(ctx, generation, genErr, snap)
	return snap, nil
}

func (s *footerService) fillCache(ctx context.Context, generation int64, genErr error, snap *model.Snapshot) {
	if genErr != nil {
		s.cfg.Log.Warn("Failed to read snapshot cache generation", "error", genErr)
		return
	}
	err := s.cache.Set(ctx, generation, snap)
	switch {
	case err == nil:
	case errors.Is(err, cache.ErrStaleSnapshot):
		s.cfg.Log.Debug("Discarded snapshot read across a schedule change")
	default:
		s.cfg.Log.Warn("Failed to write snapshot cache", "error", err)
	}
}

func unableToResolve(err error) error {
	return apperrors.Unavailable("Holiday schedule store",
		fmt.Errorf("%w: %v", holidayerrors.ErrUnableToResolve, err))
}

func (s *footerService) checkConsistency(snap *model.Snapshot) {
	if n := resolver.CountActive(snap.Registry); n > 1 {
		first := resolver.FirstActive(snap.Registry)
		s.cfg.Log.Warn("Registry snapshot has more than one active holiday schedule",
			"active_count", n,
			"resolved_id", first.ID,
		)
		metrics.IncInconsistentSnapshot()
	}
}

func sourceKind(src *resolver.Source) model.HolidaySource {
	if src == nil {
		return model.SourceNone
	}
	return src.Kind
}
