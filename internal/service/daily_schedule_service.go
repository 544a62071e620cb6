package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
	appErrors "github.com/shestakov-dev/ClassCompassServer/pkg/errors"
)

type dailyScheduleRepository interface {
	FindByID(ctx context.Context, id string) (*models.DailySchedule, error)
	ListByClass(ctx context.Context, classID string) ([]models.DailySchedule, error)
	Create(ctx context.Context, schedule *models.DailySchedule) error
	Update(ctx context.Context, schedule *models.DailySchedule) error
	SoftDelete(ctx context.Context, id string) error
}

type classResolver interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// DailyScheduleRequest holds payload for creating or updating a daily
// schedule.
type DailyScheduleRequest struct {
	Day     models.Weekday `json:"day" validate:"required,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	ClassID string         `json:"class_id" validate:"required,uuid"`
}

// DailyScheduleService handles daily schedule use-cases. A class holds at
// most one schedule per weekday.
type DailyScheduleService struct {
	repo      dailyScheduleRepository
	classes   classResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDailyScheduleService constructs the daily schedule service.
func NewDailyScheduleService(repo dailyScheduleRepository, classes classResolver, validate *validator.Validate, logger *zap.Logger) *DailyScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyScheduleService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// ListByClass returns the daily schedules of a class ordered by day.
func (s *DailyScheduleService) ListByClass(ctx context.Context, classID string) ([]models.DailySchedule, error) {
	schedules, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list daily schedules")
	}
	return schedules, nil
}

// Get returns a daily schedule by id.
func (s *DailyScheduleService) Get(ctx context.Context, id string) (*models.DailySchedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "daily schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load daily schedule")
	}
	return schedule, nil
}

// Create registers a daily schedule for a class and weekday.
func (s *DailyScheduleService) Create(ctx context.Context, req DailyScheduleRequest) (*models.DailySchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid daily schedule payload")
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve class")
	}
	if err := s.ensureDayFree(ctx, req.ClassID, req.Day, ""); err != nil {
		return nil, err
	}

	schedule := &models.DailySchedule{Day: req.Day, ClassID: req.ClassID}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create daily schedule")
	}
	return schedule, nil
}

// Update modifies an existing daily schedule.
func (s *DailyScheduleService) Update(ctx context.Context, id string, req DailyScheduleRequest) (*models.DailySchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid daily schedule payload")
	}
	schedule, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureDayFree(ctx, req.ClassID, req.Day, id); err != nil {
		return nil, err
	}
	schedule.Day = req.Day
	schedule.ClassID = req.ClassID
	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update daily schedule")
	}
	return schedule, nil
}

// Delete soft-deletes a daily schedule.
func (s *DailyScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete daily schedule")
	}
	return nil
}

func (s *DailyScheduleService) ensureDayFree(ctx context.Context, classID string, day models.Weekday, excludeID string) error {
	existing, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check daily schedules")
	}
	for _, schedule := range existing {
		if schedule.Day == day && schedule.ID != excludeID {
			return appErrors.Clone(appErrors.ErrConflict, "class already has a schedule for this day")
		}
	}
	return nil
}
