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

type teacherRepository interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	SoftDelete(ctx context.Context, id string) error
	ListSubjects(ctx context.Context, teacherID string) ([]models.Subject, error)
	AssignSubject(ctx context.Context, teacherID, subjectID string) error
	UnassignSubject(ctx context.Context, teacherID, subjectID string) error
}

// TeacherRequest holds payload for creating or updating a teacher profile.
type TeacherRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	SchoolID string  `json:"school_id" validate:"required,uuid"`
	UserID   *string `json:"user_id" validate:"omitempty,uuid"`
}

// TeacherService handles teacher profile use-cases.
type TeacherService struct {
	repo      teacherRepository
	schools   schoolResolver
	subjects  subjectResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo teacherRepository, schools schoolResolver, subjects subjectResolver, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, schools: schools, subjects: subjects, validator: validate, logger: logger}
}

// ListBySchool returns the teachers of a school.
func (s *TeacherService) ListBySchool(ctx context.Context, schoolID string) ([]models.Teacher, error) {
	teachers, err := s.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create registers a new teacher profile.
func (s *TeacherService) Create(ctx context.Context, req TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	if _, err := s.schools.FindByID(ctx, req.SchoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve school")
	}
	teacher := &models.Teacher{FullName: req.FullName, SchoolID: req.SchoolID, UserID: req.UserID}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	return teacher, nil
}

// Update modifies an existing teacher profile.
func (s *TeacherService) Update(ctx context.Context, id string, req TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	teacher.FullName = req.FullName
	teacher.SchoolID = req.SchoolID
	teacher.UserID = req.UserID
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return teacher, nil
}

// ListSubjects returns the subjects a teacher is assigned to.
func (s *TeacherService) ListSubjects(ctx context.Context, teacherID string) ([]models.Subject, error) {
	if _, err := s.Get(ctx, teacherID); err != nil {
		return nil, err
	}
	subjects, err := s.repo.ListSubjects(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher subjects")
	}
	return subjects, nil
}

// AssignSubject links a subject to a teacher. Both must belong to the same
// school.
func (s *TeacherService) AssignSubject(ctx context.Context, teacherID, subjectID string) error {
	teacher, err := s.Get(ctx, teacherID)
	if err != nil {
		return err
	}
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve subject")
	}
	if subject.SchoolID != teacher.SchoolID {
		return appErrors.Clone(appErrors.ErrValidation, "subject belongs to a different school")
	}
	if err := s.repo.AssignSubject(ctx, teacherID, subjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign subject")
	}
	return nil
}

// UnassignSubject removes a subject from a teacher.
func (s *TeacherService) UnassignSubject(ctx context.Context, teacherID, subjectID string) error {
	if _, err := s.Get(ctx, teacherID); err != nil {
		return err
	}
	if err := s.repo.UnassignSubject(ctx, teacherID, subjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unassign subject")
	}
	return nil
}

// Delete soft-deletes a teacher profile.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}
