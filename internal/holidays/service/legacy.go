package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"salonhours/internal/holidays/cache"
	holidayerrors "salonhours/internal/holidays/errors"
	"salonhours/internal/holidays/events"
	"salonhours/internal/holidays/repository"
	"salonhours/internal/holidays/resolver"
	"salonhours/internal/holidays/validator"
	"salonhours/pkg/config"
	apperrors "salonhours/pkg/errors"
	"salonhours/pkg/model"
	"salonhours/pkg/sanitizer"
)

type LegacyService interface {
	Get(ctx context.Context) (*model.LegacySchedule, error)
	Save(ctx context.Context, ls *model.LegacySchedule) error
}

type legacyService struct {
	repo      repository.LegacyRepository
	validator *validator.HolidayValidator
	cache     cache.SnapshotCache
	events    EventPublisher
	cfg       *config.Config
	now       func() time.Time
}

func NewLegacyService(
	repo repository.LegacyRepository,
	validator *validator.HolidayValidator,
	snapshotCache cache.SnapshotCache,
	publisher EventPublisher,
	cfg *config.Config,
) LegacyService {
	return &legacyService{
		repo:      repo,
		validator: validator,
		cache:     snapshotCache,
		events:    publisher,
		cfg:       cfg,
		now:       cfg.Now,
	}
}

// Get returns the stored legacy schedule, or a disabled blank one when none
// was ever saved.
func (s *legacyService) Get(ctx context.Context) (*model.LegacySchedule, error) {
	ls, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, holidayerrors.ErrLegacyNotFound) {
			return blankLegacySchedule(), nil
		}
		s.cfg.Log.Error("Failed to get legacy schedule", "error", err)
		return nil, apperrors.Internal("Failed to retrieve legacy schedule", err)
	}
	return ls, nil
}

// Save validates and stores the whole legacy document. The cached is_active
// flag is recomputed against today in the salon's time zone.
func (s *legacyService) Save(ctx context.Context, ls *model.LegacySchedule) error {
	s.sanitize(ls)

	if err := s.validator.ValidateLegacy(ls); err != nil {
		s.cfg.Log.Warn("Legacy schedule validation failed",
			"enabled", ls.Enabled,
			"start_date", ls.StartDate,
			"end_date", ls.EndDate,
			"error", err,
		)
		return apperrors.Validation("Legacy schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	ls.IsActive = resolver.LegacyActive(ls, s.now())

	if err := s.repo.Save(ctx, ls); err != nil {
		s.cfg.Log.Error("Failed to save legacy schedule", "error", err)
		return apperrors.Internal("Failed to save legacy schedule", err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.cfg.Log.Warn("Failed to invalidate snapshot cache", "error", err)
	}
	s.events.Publish(ctx, events.TypeLegacySaved, model.LegacyScheduleID, events.LegacySaved{
		Enabled:   ls.Enabled,
		StartDate: ls.StartDate,
		EndDate:   ls.EndDate,
		IsActive:  ls.IsActive,
	})

	s.cfg.Log.Info("Legacy schedule saved successfully",
		"enabled", ls.Enabled,
		"start_date", ls.StartDate,
		"end_date", ls.EndDate,
		"is_active", ls.IsActive,
	)
	return nil
}

func (s *legacyService) sanitize(ls *model.LegacySchedule) {
	ls.StartDate = strings.TrimSpace(ls.StartDate)
	ls.EndDate = strings.TrimSpace(ls.EndDate)
	ls.Hours = sanitizer.TrimMapValues(ls.Hours)
	ls.Dates = sanitizer.TrimMapValues(ls.Dates)
	if ls.Closed == nil {
		ls.Closed = map[model.Weekday]bool{}
	}
}

func blankLegacySchedule() *model.LegacySchedule {
	return &model.LegacySchedule{
		ID:     model.LegacyScheduleID,
		Hours:  map[model.Weekday]string{},
		Closed: map[model.Weekday]bool{},
		Dates:  map[model.Weekday]string{},
	}
}
