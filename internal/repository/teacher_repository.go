package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
)

// TeacherRepository provides persistence for teacher profiles.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new teacher repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListBySchool returns non-deleted teachers of a school.
func (r *TeacherRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.Teacher, error) {
	const query = `SELECT id, full_name, school_id, user_id, created_at, updated_at, deleted, deleted_at FROM teachers WHERE school_id = $1 AND deleted = FALSE ORDER BY full_name ASC`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, schoolID); err != nil {
		return nil, fmt.Errorf("list teachers by school: %w", err)
	}
	return teachers, nil
}

// FindByID loads a non-deleted teacher by id.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	const query = `SELECT id, full_name, school_id, user_id, created_at, updated_at, deleted, deleted_at FROM teachers WHERE id = $1 AND deleted = FALSE`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create stores a new teacher record.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now

	const query = `INSERT INTO teachers (id, full_name, school_id, user_id, created_at, updated_at, deleted, deleted_at) VALUES (:id, :full_name, :school_id, :user_id, :created_at, :updated_at, :deleted, :deleted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update modifies a teacher record.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET full_name = :full_name, school_id = :school_id, user_id = :user_id, updated_at = :updated_at WHERE id = :id AND deleted = FALSE`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return nil
}

// ListSubjects returns the non-deleted subjects assigned to a teacher.
func (r *TeacherRepository) ListSubjects(ctx context.Context, teacherID string) ([]models.Subject, error) {
	const query = `SELECT s.id, s.name, s.school_id, s.created_at, s.updated_at, s.deleted, s.deleted_at
		FROM subjects s
		JOIN teacher_subjects ts ON ts.subject_id = s.id
		WHERE ts.teacher_id = $1 AND s.deleted = FALSE ORDER BY s.name ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher subjects: %w", err)
	}
	return subjects, nil
}

// AssignSubject links a subject to a teacher. Re-assigning is a no-op.
func (r *TeacherRepository) AssignSubject(ctx context.Context, teacherID, subjectID string) error {
	const query = `INSERT INTO teacher_subjects (teacher_id, subject_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, teacherID, subjectID, time.Now().UTC()); err != nil {
		return fmt.Errorf("assign subject to teacher: %w", err)
	}
	return nil
}

// UnassignSubject removes a subject from a teacher.
func (r *TeacherRepository) UnassignSubject(ctx context.Context, teacherID, subjectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM teacher_subjects WHERE teacher_id = $1 AND subject_id = $2`, teacherID, subjectID); err != nil {
		return fmt.Errorf("unassign subject from teacher: %w", err)
	}
	return nil
}

// SoftDelete flags a teacher as deleted.
func (r *TeacherRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE teachers SET deleted = TRUE, deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted = FALSE`, id, now); err != nil {
		return fmt.Errorf("soft delete teacher: %w", err)
	}
	return nil
}
