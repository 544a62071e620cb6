package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
)

// DailyScheduleRepository provides persistence for daily schedules.
type DailyScheduleRepository struct {
	db *sqlx.DB
}

// NewDailyScheduleRepository creates a new daily schedule repository.
func NewDailyScheduleRepository(db *sqlx.DB) *DailyScheduleRepository {
	return &DailyScheduleRepository{db: db}
}

// FindByID loads a non-deleted daily schedule by id.
func (r *DailyScheduleRepository) FindByID(ctx context.Context, id string) (*models.DailySchedule, error) {
	const query = `SELECT id, day, class_id, created_at, updated_at, deleted, deleted_at FROM daily_schedules WHERE id = $1 AND deleted = FALSE`
	var schedule models.DailySchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListByClass returns non-deleted daily schedules for a class.
func (r *DailyScheduleRepository) ListByClass(ctx context.Context, classID string) ([]models.DailySchedule, error) {
	const query = `SELECT id, day, class_id, created_at, updated_at, deleted, deleted_at FROM daily_schedules WHERE class_id = $1 AND deleted = FALSE ORDER BY day ASC`
	var schedules []models.DailySchedule
	if err := r.db.SelectContext(ctx, &schedules, query, classID); err != nil {
		return nil, fmt.Errorf("list daily schedules by class: %w", err)
	}
	return schedules, nil
}

// Create stores a new daily schedule record.
func (r *DailyScheduleRepository) Create(ctx context.Context, schedule *models.DailySchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `INSERT INTO daily_schedules (id, day, class_id, created_at, updated_at, deleted, deleted_at) VALUES (:id, :day, :class_id, :created_at, :updated_at, :deleted, :deleted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create daily schedule: %w", err)
	}
	return nil
}

// Update modifies a daily schedule record.
func (r *DailyScheduleRepository) Update(ctx context.Context, schedule *models.DailySchedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE daily_schedules SET day = :day, class_id = :class_id, updated_at = :updated_at WHERE id = :id AND deleted = FALSE`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("update daily schedule: %w", err)
	}
	return nil
}

// SoftDelete flags a daily schedule as deleted.
func (r *DailyScheduleRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE daily_schedules SET deleted = TRUE, deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted = FALSE`, id, now); err != nil {
		return fmt.Errorf("soft delete daily schedule: %w", err)
	}
	return nil
}
