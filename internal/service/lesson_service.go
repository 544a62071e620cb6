package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
	"github.com/shestakov-dev/ClassCompassServer/internal/timetable"
	appErrors "github.com/shestakov-dev/ClassCompassServer/pkg/errors"
)

const lessonCacheKeyPrefix = "lessons:active:"

type lessonRepository interface {
	FindActive(ctx context.Context, query models.LessonQuery) ([]models.Lesson, error)
	FindConflicting(ctx context.Context, query models.ConflictQuery) (*models.Lesson, error)
	ListByDailySchedule(ctx context.Context, dailyScheduleID string) ([]models.Lesson, error)
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	SoftDelete(ctx context.Context, id string) error
}

type dailyScheduleResolver interface {
	FindByID(ctx context.Context, id string) (*models.DailySchedule, error)
}

type lessonCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateLessonRequest describes payload for scheduling a lesson.
type CreateLessonRequest struct {
	LessonNumber    int               `json:"lesson_number" validate:"required,min=1"`
	StartTime       time.Time         `json:"start_time" validate:"required"`
	EndTime         time.Time         `json:"end_time" validate:"required"`
	LessonWeek      models.LessonWeek `json:"lesson_week" validate:"omitempty,oneof=odd even every"`
	RoomID          string            `json:"room_id" validate:"required,uuid"`
	TeacherID       string            `json:"teacher_id" validate:"required,uuid"`
	SubjectID       string            `json:"subject_id" validate:"required,uuid"`
	DailyScheduleID string            `json:"daily_schedule_id" validate:"required,uuid"`
}

// UpdateLessonRequest carries a partial lesson update; nil fields keep
// their current values. Every change is re-validated for conflicts.
type UpdateLessonRequest struct {
	LessonNumber    *int               `json:"lesson_number" validate:"omitempty,min=1"`
	StartTime       *time.Time         `json:"start_time"`
	EndTime         *time.Time         `json:"end_time"`
	LessonWeek      *models.LessonWeek `json:"lesson_week" validate:"omitempty,oneof=odd even every"`
	RoomID          *string            `json:"room_id" validate:"omitempty,uuid"`
	TeacherID       *string            `json:"teacher_id" validate:"omitempty,uuid"`
	SubjectID       *string            `json:"subject_id" validate:"omitempty,uuid"`
	DailyScheduleID *string            `json:"daily_schedule_id" validate:"omitempty,uuid"`
}

// LessonService answers which lessons are active at an instant and guards
// lesson writes with overlap conflict detection.
type LessonService struct {
	repo      lessonRepository
	schedules dailyScheduleResolver
	cache     lessonCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService instantiates LessonService. The cache is optional; pass
// nil to disable caching of active-lesson queries.
func NewLessonService(repo lessonRepository, schedules dailyScheduleResolver, cache lessonCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{
		repo:      repo,
		schedules: schedules,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// FindActiveLessons returns the lessons of a school matching the temporal
// filter. The reference instant (timestamp or range start) fixes the
// weekday and ISO-week parity; its clock time is matched inclusively
// against stored lesson boundaries, so a query at an exact lesson
// boundary matches that lesson. Explicit day/week values bypass temporal
// derivation. Result ordering is unspecified.
func (s *LessonService) FindActiveLessons(ctx context.Context, schoolID string, filter models.LessonFilter) ([]models.Lesson, error) {
	query := models.LessonQuery{
		SchoolID:  schoolID,
		ClassID:   filter.ClassID,
		SubjectID: filter.SubjectID,
		RoomID:    filter.RoomID,
		TeacherID: filter.TeacherID,
	}

	var week models.LessonWeek
	hasWeek := false

	switch {
	case filter.From != nil && filter.To != nil:
		if !filter.To.After(*filter.From) {
			return nil, appErrors.Clone(appErrors.ErrValidation, `"to" must be after "from"`)
		}
		windowStart := timetable.NormalizeTimeOfDay(*filter.From)
		windowEnd := timetable.NormalizeTimeOfDay(*filter.To)
		query.WindowStart = &windowStart
		query.WindowEnd = &windowEnd
		query.Day = timetable.DayOfWeek(*filter.From)
		week = timetable.WeekParity(*filter.From)
		hasWeek = true

	case filter.Timestamp != nil:
		// A single timestamp is a zero-width window.
		point := timetable.NormalizeTimeOfDay(*filter.Timestamp)
		query.WindowStart = &point
		query.WindowEnd = &point
		query.Day = timetable.DayOfWeek(*filter.Timestamp)
		week = timetable.WeekParity(*filter.Timestamp)
		hasWeek = true

	case filter.Day != nil || filter.Week != nil:
		if filter.Day != nil {
			query.Day = *filter.Day
		}
		if filter.Week != nil {
			week = *filter.Week
			hasWeek = true
		}

	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, `either "timestamp", both "from" and "to", or explicit "day"/"week" must be provided`)
	}

	if hasWeek && !filter.IgnoreWeek {
		if week == models.WeekEvery {
			query.Weeks = []models.LessonWeek{models.WeekEvery}
		} else {
			query.Weeks = []models.LessonWeek{week, models.WeekEvery}
		}
	}

	if s.cache != nil {
		key := lessonCacheKey(query)
		var cached []models.Lesson
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("lesson cache read failed", zap.Error(err))
		}

		lessons, err := s.repo.FindActive(ctx, query)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to query active lessons")
		}
		if err := s.cache.Set(ctx, key, lessons, s.cacheTTL); err != nil {
			s.logger.Warn("lesson cache write failed", zap.Error(err))
		}
		return lessons, nil
	}

	lessons, err := s.repo.FindActive(ctx, query)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to query active lessons")
	}
	return lessons, nil
}

// CheckOverlap verifies that a candidate lesson does not collide with any
// existing lesson sharing its room, teacher or daily schedule slot on the
// same weekday with overlapping week parity and time range. The time
// comparison is strict, so a lesson may begin exactly when another ends.
// Returns nil when the slot is free.
//
// A successful check immediately followed by a write can still race with
// a concurrent writer; the persistence layer is the place for a hard
// uniqueness guarantee.
func (s *LessonService) CheckOverlap(ctx context.Context, candidate models.LessonCandidate, excludeLessonID string) error {
	schedule, err := s.schedules.FindByID(ctx, candidate.DailyScheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "daily schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve daily schedule")
	}

	existing, err := s.repo.FindConflicting(ctx, models.ConflictQuery{
		ExcludeID:       excludeLessonID,
		RoomID:          candidate.RoomID,
		TeacherID:       candidate.TeacherID,
		DailyScheduleID: candidate.DailyScheduleID,
		Day:             schedule.Day,
		Weeks:           conflictingWeeks(candidate.LessonWeek),
		StartTime:       timetable.NormalizeTimeOfDay(candidate.StartTime),
		EndTime:         timetable.NormalizeTimeOfDay(candidate.EndTime),
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check lesson conflicts")
	}
	if existing == nil {
		return nil
	}

	switch {
	case existing.RoomID == candidate.RoomID:
		return s.wrapConflict(models.ConflictRoom, "room is already booked by an overlapping lesson", existing)
	case existing.TeacherID == candidate.TeacherID:
		return s.wrapConflict(models.ConflictTeacher, "teacher is already booked by an overlapping lesson", existing)
	default:
		return s.wrapConflict(models.ConflictClassSlot, "class slot is already taken by an overlapping lesson", existing)
	}
}

// conflictingWeeks expands a candidate's week parity into the set of
// parities it collides with. An every-week lesson conflicts with anything;
// a single-parity lesson conflicts with its own parity and with
// every-week lessons.
func conflictingWeeks(week models.LessonWeek) []models.LessonWeek {
	if week == models.WeekEvery {
		return []models.LessonWeek{models.WeekEvery, models.WeekOdd, models.WeekEven}
	}
	return []models.LessonWeek{models.WeekEvery, week}
}

// Create schedules a new lesson after conflict detection.
func (s *LessonService) Create(ctx context.Context, req CreateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}

	if req.LessonWeek == "" {
		req.LessonWeek = models.WeekEvery
	}

	startTime := timetable.NormalizeTimeOfDay(req.StartTime)
	endTime := timetable.NormalizeTimeOfDay(req.EndTime)
	if !startTime.Before(endTime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lesson start time must be before end time")
	}

	candidate := models.LessonCandidate{
		StartTime:       startTime,
		EndTime:         endTime,
		LessonWeek:      req.LessonWeek,
		RoomID:          req.RoomID,
		TeacherID:       req.TeacherID,
		SubjectID:       req.SubjectID,
		DailyScheduleID: req.DailyScheduleID,
	}
	if err := s.CheckOverlap(ctx, candidate, ""); err != nil {
		return nil, err
	}

	lesson := models.Lesson{
		LessonNumber:    req.LessonNumber,
		StartTime:       startTime,
		EndTime:         endTime,
		LessonWeek:      req.LessonWeek,
		RoomID:          req.RoomID,
		TeacherID:       req.TeacherID,
		SubjectID:       req.SubjectID,
		DailyScheduleID: req.DailyScheduleID,
	}
	if err := s.repo.Create(ctx, &lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
	}

	s.invalidateCache(ctx)
	return &lesson, nil
}

// Update applies a partial change to a lesson, re-running conflict
// detection against all other lessons.
func (s *LessonService) Update(ctx context.Context, id string, req UpdateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	updated := *existing
	if req.LessonNumber != nil {
		updated.LessonNumber = *req.LessonNumber
	}
	if req.StartTime != nil {
		updated.StartTime = timetable.NormalizeTimeOfDay(*req.StartTime)
	}
	if req.EndTime != nil {
		updated.EndTime = timetable.NormalizeTimeOfDay(*req.EndTime)
	}
	if req.LessonWeek != nil {
		updated.LessonWeek = *req.LessonWeek
	}
	if req.RoomID != nil {
		updated.RoomID = *req.RoomID
	}
	if req.TeacherID != nil {
		updated.TeacherID = *req.TeacherID
	}
	if req.SubjectID != nil {
		updated.SubjectID = *req.SubjectID
	}
	if req.DailyScheduleID != nil {
		updated.DailyScheduleID = *req.DailyScheduleID
	}

	if !updated.StartTime.Before(updated.EndTime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lesson start time must be before end time")
	}

	candidate := models.LessonCandidate{
		StartTime:       updated.StartTime,
		EndTime:         updated.EndTime,
		LessonWeek:      updated.LessonWeek,
		RoomID:          updated.RoomID,
		TeacherID:       updated.TeacherID,
		SubjectID:       updated.SubjectID,
		DailyScheduleID: updated.DailyScheduleID,
	}
	if err := s.CheckOverlap(ctx, candidate, existing.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson")
	}

	s.invalidateCache(ctx)
	return &updated, nil
}

// Delete soft-deletes a lesson; it stops participating in activity and
// conflict checks immediately.
func (s *LessonService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}

	s.invalidateCache(ctx)
	return nil
}

// Get loads a single lesson.
func (s *LessonService) Get(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return lesson, nil
}

// ListByDailySchedule returns the lessons attached to a daily schedule.
func (s *LessonService) ListByDailySchedule(ctx context.Context, dailyScheduleID string) ([]models.Lesson, error) {
	if _, err := s.schedules.FindByID(ctx, dailyScheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "daily schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve daily schedule")
	}

	lessons, err := s.repo.ListByDailySchedule(ctx, dailyScheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	return lessons, nil
}

func (s *LessonService) wrapConflict(dimension, message string, existing *models.Lesson) error {
	domainErr := &models.LessonConflictError{
		Dimension: dimension,
		Message:   message,
		Conflict: models.LessonConflict{
			LessonID:        existing.ID,
			RoomID:          existing.RoomID,
			TeacherID:       existing.TeacherID,
			DailyScheduleID: existing.DailyScheduleID,
			LessonWeek:      existing.LessonWeek,
			StartTime:       existing.StartTime,
			EndTime:         existing.EndTime,
			Dimension:       dimension,
		},
	}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("lesson conflict: %s", message))
}

func (s *LessonService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, lessonCacheKeyPrefix+"*"); err != nil {
		s.logger.Warn("lesson cache invalidation failed", zap.Error(err))
	}
}

func lessonCacheKey(query models.LessonQuery) string {
	payload, err := json.Marshal(query)
	if err != nil {
		return lessonCacheKeyPrefix + query.SchoolID
	}
	sum := sha256.Sum256(payload)
	return lessonCacheKeyPrefix + query.SchoolID + ":" + hex.EncodeToString(sum[:])
}
