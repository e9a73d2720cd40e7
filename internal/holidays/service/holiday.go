package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"salonhours/internal/holidays/activation"
	"salonhours/internal/holidays/cache"
	holidayerrors "salonhours/internal/holidays/errors"
	"salonhours/internal/holidays/events"
	"salonhours/internal/holidays/metrics"
	"salonhours/internal/holidays/repository"
	"salonhours/internal/holidays/validator"
	"salonhours/pkg/config"
	apperrors "salonhours/pkg/errors"
	"salonhours/pkg/model"
	"salonhours/pkg/sanitizer"
)

type HolidayService interface {
	Create(ctx context.Context, hs *model.HolidaySchedule) error
	GetByID(ctx context.Context, id string) (*model.HolidaySchedule, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.HolidaySchedule, int64, error)
	Update(ctx context.Context, id string, updates *model.HolidayScheduleUpdate) (*model.HolidaySchedule, error)
	Delete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) (activation.FlipSet, error)
	DeactivateAll(ctx context.Context) (activation.FlipSet, error)
}

// EventPublisher emits change events after a commit.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any)
}

type holidayService struct {
	repo      repository.HolidayRepository
	validator *validator.HolidayValidator
	cache     cache.SnapshotCache
	events    EventPublisher
	cfg       *config.Config
}

func NewHolidayService(
	repo repository.HolidayRepository,
	validator *validator.HolidayValidator,
	snapshotCache cache.SnapshotCache,
	publisher EventPublisher,
	cfg *config.Config,
) HolidayService {
	return &holidayService{
		repo:      repo,
		validator: validator,
		cache:     snapshotCache,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *holidayService) Create(ctx context.Context, hs *model.HolidaySchedule) error {
	// The store assigns ids; a client-supplied one is ignored.
	hs.ID = ""
	s.sanitize(hs)

	if err := s.validator.Validate(hs); err != nil {
		s.cfg.Log.Warn("Holiday schedule validation failed",
			"name", hs.Name,
			"error", err,
		)
		return apperrors.Validation("Holiday schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	flips, err := s.saveWithActivation(ctx, hs, s.repo.Create)
	if err != nil {
		s.cfg.Log.Error("Failed to create holiday schedule",
			"name", hs.Name,
			"error", err,
		)
		return err
	}

	s.afterWrite(ctx)
	s.publishSaved(ctx, hs, true, flips)

	s.cfg.Log.Info("Holiday schedule created successfully",
		"id", hs.ID,
		"name", hs.Name,
		"type", hs.Type,
		"is_active", hs.IsActive,
	)
	return nil
}

func (s *holidayService) GetByID(ctx context.Context, id string) (*model.HolidaySchedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Holiday schedule ID cannot be empty")
	}

	hs, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve holiday schedule")
	}

	return hs, nil
}

func (s *holidayService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.HolidaySchedule, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var schedules []*model.HolidaySchedule
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(sharedCtx)
		if err != nil {
			s.cfg.Log.Error("Failed to count holiday schedules", "error", err)
			errCount = apperrors.Internal("Failed to count holiday schedules", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		schedules, err = s.repo.FindPage(sharedCtx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get holiday schedules",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve holiday schedules", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return schedules, count, nil
}

func (s *holidayService) Update(ctx context.Context, id string, updates *model.HolidayScheduleUpdate) (*model.HolidaySchedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Holiday schedule ID cannot be empty")
	}
	if updates == nil {
		return nil, apperrors.InvalidInput("Update body cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to check holiday schedule existence")
	}

	merged := mergeHolidayUpdates(existing, updates)
	s.sanitize(merged)

	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Holiday schedule validation failed",
			"id", id,
			"name", merged.Name,
			"error", err,
		)
		return nil, apperrors.Validation("Holiday schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	flips, err := s.saveWithActivation(ctx, merged, func(ctx context.Context, rec *model.HolidaySchedule) error {
		return s.repo.Update(ctx, id, rec)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update holiday schedule", "id", id, "error", err)
		return nil, err
	}

	s.afterWrite(ctx)
	s.publishSaved(ctx, merged, false, flips)

	s.cfg.Log.Info("Holiday schedule updated successfully",
		"id", id,
		"name", merged.Name,
		"is_active", merged.IsActive,
	)
	return merged, nil
}

// Delete removes a record. Deleting the active record leaves the registry
// with nothing active.
func (s *holidayService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Holiday schedule ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return s.mapRepoError(err, id, "Failed to delete holiday schedule")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterWrite(ctx)
	s.events.Publish(ctx, events.TypeScheduleDeleted, id, events.ScheduleDeleted{ID: id})

	s.cfg.Log.Info("Holiday schedule deleted successfully", "id", id)
	return nil
}

func (s *holidayService) Activate(ctx context.Context, id string) (activation.FlipSet, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Holiday schedule ID cannot be empty")
	}
	if !primitive.IsValidObjectID(id) {
		return nil, apperrors.InvalidInput("Invalid holiday schedule ID format")
	}

	var flips activation.FlipSet
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		flips, err = activation.ApplyActivate(sessCtx, s.repo, id)
		if err != nil {
			return s.mapActivationError(err, id)
		}
		return nil
	})
	metrics.IncActivation("activate", err)
	if err != nil {
		s.cfg.Log.Error("Failed to activate holiday schedule", "id", id, "error", err)
		return nil, err
	}

	s.afterWrite(ctx)
	s.events.Publish(ctx, events.TypeScheduleActivated, id, events.ActiveFlagsChanged{
		ActiveID: id,
		Flips:    flips,
	})

	s.cfg.Log.Info("Holiday schedule activated", "id", id, "records", len(flips))
	return flips, nil
}

func (s *holidayService) DeactivateAll(ctx context.Context) (activation.FlipSet, error) {
	var flips activation.FlipSet
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		flips, err = activation.ApplyDeactivateAll(sessCtx, s.repo)
		if err != nil {
			return apperrors.Internal("Failed to deactivate holiday schedules", err)
		}
		return nil
	})
	metrics.IncActivation("deactivate_all", err)
	if err != nil {
		s.cfg.Log.Error("Failed to deactivate holiday schedules", "error", err)
		return nil, err
	}

	s.afterWrite(ctx)
	s.events.Publish(ctx, events.TypeScheduleDeactivated, "all", events.ActiveFlagsChanged{Flips: flips})

	s.cfg.Log.Info("All holiday schedules deactivated", "records", len(flips))
	return flips, nil
}

// saveWithActivation persists rec and, when it is flagged active, the
// flip-set for it in the same transaction. The callback may run more than
// once on transient transaction errors, so the wanted flag is restored on
// every attempt.
func (s *holidayService) saveWithActivation(ctx context.Context, rec *model.HolidaySchedule, save activation.SaveFunc) (activation.FlipSet, error) {
	wantActive := rec.IsActive

	var flips activation.FlipSet
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		rec.IsActive = wantActive
		var err error
		flips, err = activation.OnSave(sessCtx, s.repo, rec, save)
		if err != nil {
			return s.mapActivationError(err, rec.ID)
		}
		return nil
	})
	if wantActive {
		metrics.IncActivation("save", err)
	}
	if err != nil {
		rec.IsActive = wantActive
		return nil, err
	}
	return flips, nil
}

// afterWrite drops the cached snapshot so the footer sees the commit.
func (s *holidayService) afterWrite(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.cfg.Log.Warn("Failed to invalidate snapshot cache", "error", err)
	}
}

func (s *holidayService) publishSaved(ctx context.Context, hs *model.HolidaySchedule, created bool, flips activation.FlipSet) {
	s.events.Publish(ctx, events.TypeScheduleSaved, hs.ID, events.ScheduleSaved{
		ID:       hs.ID,
		Name:     hs.Name,
		Type:     hs.Type,
		IsActive: hs.IsActive,
		Created:  created,
	})
	if flips != nil {
		s.events.Publish(ctx, events.TypeScheduleActivated, hs.ID, events.ActiveFlagsChanged{
			ActiveID: hs.ID,
			Flips:    flips,
		})
	}
}

func (s *holidayService) mapRepoError(err error, id string, message string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, holidayerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Holiday schedule", id)
	}
	if errors.Is(err, holidayerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid holiday schedule ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout("Holiday schedule store did not answer in time", err)
	}
	return apperrors.Internal(message, err)
}

func (s *holidayService) mapActivationError(err error, id string) error {
	if errors.Is(err, holidayerrors.ErrTargetNotInSnapshot) {
		return apperrors.NotFoundWithID("Holiday schedule", id)
	}
	if errors.Is(err, holidayerrors.ErrFlipSetIncomplete) {
		return apperrors.Conflict("Holiday schedules changed during activation, please retry")
	}
	return s.mapRepoError(err, id, "Failed to save holiday schedule")
}

func (s *holidayService) sanitize(hs *model.HolidaySchedule) {
	hs.Name = sanitizer.NormalizeName(hs.Name)
	if hs.Type == "" {
		hs.Type = model.HolidayOther
	}
	hs.Type = model.HolidayType(strings.ToLower(strings.TrimSpace(string(hs.Type))))
	hs.Hours = sanitizer.TrimMapValues(hs.Hours)
	hs.Dates = sanitizer.TrimMapValues(hs.Dates)
	if hs.Closed == nil {
		hs.Closed = map[model.Weekday]bool{}
	}
	if hs.ClosureNotices == nil {
		hs.ClosureNotices = []model.ClosureNotice{}
	}
	for i := range hs.ClosureNotices {
		n := &hs.ClosureNotices[i]
		n.From = strings.TrimSpace(n.From)
		n.To = strings.TrimSpace(n.To)
		if strings.TrimSpace(n.ID) == "" {
			n.ID = uuid.New().String()
		}
	}
}

func mergeHolidayUpdates(existing *model.HolidaySchedule, updates *model.HolidayScheduleUpdate) *model.HolidaySchedule {
	merged := *existing

	if updates.Name != nil {
		merged.Name = *updates.Name
	}
	if updates.Type != nil {
		merged.Type = *updates.Type
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}
	if updates.Hours != nil {
		merged.Hours = mergeWeekdayMap(existing.Hours, updates.Hours)
	}
	if updates.Closed != nil {
		merged.Closed = mergeWeekdayMap(existing.Closed, updates.Closed)
	}
	if updates.Dates != nil {
		merged.Dates = mergeWeekdayMap(existing.Dates, updates.Dates)
	}
	if updates.ClosureNotices != nil {
		merged.ClosureNotices = append([]model.ClosureNotice{}, (*updates.ClosureNotices)...)
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}

// mergeWeekdayMap overlays the days named in patch on a copy of base, so a
// PATCH touching one weekday leaves the others intact.
func mergeWeekdayMap[V any](base, patch map[model.Weekday]V) map[model.Weekday]V {
	out := make(map[model.Weekday]V, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
