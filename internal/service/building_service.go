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

type buildingRepository interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.Building, error)
	FindByID(ctx context.Context, id string) (*models.Building, error)
	Create(ctx context.Context, building *models.Building) error
	Update(ctx context.Context, building *models.Building) error
	SoftDelete(ctx context.Context, id string) error
}

type schoolResolver interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

// BuildingRequest holds payload for creating or updating a building.
type BuildingRequest struct {
	Name     string `json:"name" validate:"required"`
	Address  string `json:"address"`
	SchoolID string `json:"school_id" validate:"required,uuid"`
}

// BuildingService handles building use-cases.
type BuildingService struct {
	repo      buildingRepository
	schools   schoolResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBuildingService constructs the building service.
func NewBuildingService(repo buildingRepository, schools schoolResolver, validate *validator.Validate, logger *zap.Logger) *BuildingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuildingService{repo: repo, schools: schools, validator: validate, logger: logger}
}

// ListBySchool returns the buildings of a school.
func (s *BuildingService) ListBySchool(ctx context.Context, schoolID string) ([]models.Building, error) {
	buildings, err := s.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list buildings")
	}
	return buildings, nil
}

// Get returns a building by id.
func (s *BuildingService) Get(ctx context.Context, id string) (*models.Building, error) {
	building, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "building not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load building")
	}
	return building, nil
}

// Create registers a new building under an existing school.
func (s *BuildingService) Create(ctx context.Context, req BuildingRequest) (*models.Building, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid building payload")
	}
	if _, err := s.schools.FindByID(ctx, req.SchoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve school")
	}
	building := &models.Building{Name: req.Name, Address: req.Address, SchoolID: req.SchoolID}
	if err := s.repo.Create(ctx, building); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create building")
	}
	return building, nil
}

// Update modifies an existing building.
func (s *BuildingService) Update(ctx context.Context, id string, req BuildingRequest) (*models.Building, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid building payload")
	}
	building, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	building.Name = req.Name
	building.Address = req.Address
	building.SchoolID = req.SchoolID
	if err := s.repo.Update(ctx, building); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update building")
	}
	return building, nil
}

// Delete soft-deletes a building.
func (s *BuildingService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete building")
	}
	return nil
}
