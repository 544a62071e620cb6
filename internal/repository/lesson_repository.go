package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
)

const lessonColumns = `l.id, l.lesson_number, l.start_time, l.end_time, l.lesson_week, l.room_id, l.teacher_id, l.subject_id, l.daily_schedule_id, l.created_at, l.updated_at, l.deleted, l.deleted_at`

// LessonRepository provides persistence for lessons. Soft-deleted rows are
// invisible to every query here, including conflict checks.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new lesson repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// FindActive returns non-deleted lessons matching the canonical query:
// school scope via daily_schedules -> classes, weekday, week-parity set,
// inclusive time-of-day overlap and optional entity filters. Ordering is
// unspecified.
func (r *LessonRepository) FindActive(ctx context.Context, query models.LessonQuery) ([]models.Lesson, error) {
	base := fmt.Sprintf(`SELECT %s FROM lessons l
		JOIN daily_schedules ds ON ds.id = l.daily_schedule_id AND ds.deleted = FALSE
		JOIN classes c ON c.id = ds.class_id AND c.deleted = FALSE
		WHERE l.deleted = FALSE`, lessonColumns)

	var conditions []string
	var args []interface{}

	conditions = append(conditions, fmt.Sprintf("c.school_id = $%d", len(args)+1))
	args = append(args, query.SchoolID)

	if query.Day != "" {
		conditions = append(conditions, fmt.Sprintf("ds.day = $%d", len(args)+1))
		args = append(args, query.Day)
	}

	if len(query.Weeks) > 0 {
		placeholders := make([]string, len(query.Weeks))
		for i, week := range query.Weeks {
			placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
			args = append(args, week)
		}
		conditions = append(conditions, fmt.Sprintf("l.lesson_week IN (%s)", strings.Join(placeholders, ", ")))
	}

	if query.WindowStart != nil && query.WindowEnd != nil {
		conditions = append(conditions, fmt.Sprintf("l.start_time <= $%d", len(args)+1))
		args = append(args, *query.WindowEnd)
		conditions = append(conditions, fmt.Sprintf("l.end_time >= $%d", len(args)+1))
		args = append(args, *query.WindowStart)
	}

	if query.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("ds.class_id = $%d", len(args)+1))
		args = append(args, query.ClassID)
	}
	if query.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("l.subject_id = $%d", len(args)+1))
		args = append(args, query.SubjectID)
	}
	if query.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("l.room_id = $%d", len(args)+1))
		args = append(args, query.RoomID)
	}
	if query.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("l.teacher_id = $%d", len(args)+1))
		args = append(args, query.TeacherID)
	}

	sqlQuery := base + " AND " + strings.Join(conditions, " AND ")

	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("find active lessons: %w", err)
	}
	return lessons, nil
}

// FindConflicting returns any one non-deleted lesson colliding with the
// candidate predicate, or nil when the slot is free. Time comparison is
// strict so back-to-back lessons never match.
func (r *LessonRepository) FindConflicting(ctx context.Context, query models.ConflictQuery) (*models.Lesson, error) {
	base := fmt.Sprintf(`SELECT %s FROM lessons l
		JOIN daily_schedules ds ON ds.id = l.daily_schedule_id AND ds.deleted = FALSE
		WHERE l.deleted = FALSE`, lessonColumns)

	var conditions []string
	var args []interface{}

	conditions = append(conditions, fmt.Sprintf("(l.room_id = $%d OR l.teacher_id = $%d OR l.daily_schedule_id = $%d)",
		len(args)+1, len(args)+2, len(args)+3))
	args = append(args, query.RoomID, query.TeacherID, query.DailyScheduleID)

	conditions = append(conditions, fmt.Sprintf("ds.day = $%d", len(args)+1))
	args = append(args, query.Day)

	placeholders := make([]string, len(query.Weeks))
	for i, week := range query.Weeks {
		placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
		args = append(args, week)
	}
	conditions = append(conditions, fmt.Sprintf("l.lesson_week IN (%s)", strings.Join(placeholders, ", ")))

	conditions = append(conditions, fmt.Sprintf("l.start_time < $%d", len(args)+1))
	args = append(args, query.EndTime)
	conditions = append(conditions, fmt.Sprintf("l.end_time > $%d", len(args)+1))
	args = append(args, query.StartTime)

	if query.ExcludeID != "" {
		conditions = append(conditions, fmt.Sprintf("l.id <> $%d", len(args)+1))
		args = append(args, query.ExcludeID)
	}

	sqlQuery := base + " AND " + strings.Join(conditions, " AND ") + " LIMIT 1"

	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, sqlQuery, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find conflicting lesson: %w", err)
	}
	return &lesson, nil
}

// ListByDailySchedule returns non-deleted lessons attached to a daily
// schedule ordered by lesson number.
func (r *LessonRepository) ListByDailySchedule(ctx context.Context, dailyScheduleID string) ([]models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons l WHERE l.daily_schedule_id = $1 AND l.deleted = FALSE ORDER BY l.lesson_number ASC`, lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, dailyScheduleID); err != nil {
		return nil, fmt.Errorf("list lessons by daily schedule: %w", err)
	}
	return lessons, nil
}

// FindByID loads a non-deleted lesson by id.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM lessons l WHERE l.id = $1 AND l.deleted = FALSE`, lessonColumns)
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create stores a new lesson record.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = now

	const query = `INSERT INTO lessons (id, lesson_number, start_time, end_time, lesson_week, room_id, teacher_id, subject_id, daily_schedule_id, created_at, updated_at, deleted, deleted_at) VALUES (:id, :lesson_number, :start_time, :end_time, :lesson_week, :room_id, :teacher_id, :subject_id, :daily_schedule_id, :created_at, :updated_at, :deleted, :deleted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// Update modifies a lesson record.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	lesson.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lessons SET lesson_number = :lesson_number, start_time = :start_time, end_time = :end_time, lesson_week = :lesson_week, room_id = :room_id, teacher_id = :teacher_id, subject_id = :subject_id, daily_schedule_id = :daily_schedule_id, updated_at = :updated_at WHERE id = :id AND deleted = FALSE`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return nil
}

// SoftDelete flags a lesson as deleted so it stops participating in
// activity and conflict checks.
func (r *LessonRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE lessons SET deleted = TRUE, deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted = FALSE`, id, now); err != nil {
		return fmt.Errorf("soft delete lesson: %w", err)
	}
	return nil
}
