package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
	appErrors "github.com/shestakov-dev/ClassCompassServer/pkg/errors"
)

type floorRepository interface {
	ListByBuilding(ctx context.Context, buildingID string) ([]models.Floor, error)
	FindByID(ctx context.Context, id string) (*models.Floor, error)
	Create(ctx context.Context, floor *models.Floor) error
	Update(ctx context.Context, floor *models.Floor) error
	SetPlanKey(ctx context.Context, id string, key *string) error
	SoftDelete(ctx context.Context, id string) error
}

type buildingResolver interface {
	FindByID(ctx context.Context, id string) (*models.Building, error)
}

type planObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

// FloorRequest holds payload for creating or updating a floor.
type FloorRequest struct {
	Number     int    `json:"number" validate:"required"`
	BuildingID string `json:"building_id" validate:"required,uuid"`
}

var planContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".pdf":  "application/pdf",
}

// FloorService handles floor use-cases, including floor plan images kept
// in the object store. Downloads go through short-lived presigned URLs so
// plan objects stay private.
type FloorService struct {
	repo      floorRepository
	buildings buildingResolver
	store     planObjectStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFloorService constructs the floor service. The object store is
// optional; without it floor plan operations return an error.
func NewFloorService(repo floorRepository, buildings buildingResolver, store planObjectStore, validate *validator.Validate, logger *zap.Logger) *FloorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FloorService{repo: repo, buildings: buildings, store: store, validator: validate, logger: logger}
}

// ListByBuilding returns the floors of a building.
func (s *FloorService) ListByBuilding(ctx context.Context, buildingID string) ([]models.Floor, error) {
	floors, err := s.repo.ListByBuilding(ctx, buildingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list floors")
	}
	return floors, nil
}

// Get returns a floor by id.
func (s *FloorService) Get(ctx context.Context, id string) (*models.Floor, error) {
	floor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "floor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load floor")
	}
	return floor, nil
}

// Create registers a new floor under an existing building.
func (s *FloorService) Create(ctx context.Context, req FloorRequest) (*models.Floor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid floor payload")
	}
	if _, err := s.buildings.FindByID(ctx, req.BuildingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "building not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve building")
	}
	floor := &models.Floor{Number: req.Number, BuildingID: req.BuildingID}
	if err := s.repo.Create(ctx, floor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create floor")
	}
	return floor, nil
}

// Update modifies an existing floor.
func (s *FloorService) Update(ctx context.Context, id string, req FloorRequest) (*models.Floor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid floor payload")
	}
	floor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	floor.Number = req.Number
	floor.BuildingID = req.BuildingID
	if err := s.repo.Update(ctx, floor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update floor")
	}
	return floor, nil
}

// Delete soft-deletes a floor and removes its plan object if present.
func (s *FloorService) Delete(ctx context.Context, id string) error {
	floor, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete floor")
	}
	if floor.PlanKey != nil && s.store != nil {
		if err := s.store.Remove(ctx, *floor.PlanKey); err != nil {
			s.logger.Warn("failed to remove floor plan object", zap.String("floor_id", id), zap.Error(err))
		}
	}
	return nil
}

// UploadPlan stores a floor plan image and links it to the floor. A
// previous plan object is replaced.
func (s *FloorService) UploadPlan(ctx context.Context, floorID, filename string, reader io.Reader, size int64) (*models.Floor, error) {
	if s.store == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "object storage is not configured")
	}
	floor, err := s.Get(ctx, floorID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := planContentTypes[ext]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported floor plan format %q", ext))
	}

	oldKey := floor.PlanKey
	key := fmt.Sprintf("floors/%s/%s%s", floorID, uuid.NewString(), ext)
	if _, err := s.store.Put(ctx, key, reader, size, contentType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store floor plan")
	}
	if err := s.repo.SetPlanKey(ctx, floorID, &key); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link floor plan")
	}

	if oldKey != nil {
		if err := s.store.Remove(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to remove replaced floor plan object", zap.String("floor_id", floorID), zap.Error(err))
		}
	}

	floor.PlanKey = &key
	return floor, nil
}

// PlanURL returns a presigned download URL for the floor plan.
func (s *FloorService) PlanURL(ctx context.Context, floorID string) (*models.FloorPlanURL, error) {
	if s.store == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "object storage is not configured")
	}
	floor, err := s.Get(ctx, floorID)
	if err != nil {
		return nil, err
	}
	if floor.PlanKey == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "floor has no plan")
	}
	url, err := s.store.PresignedURL(ctx, *floor.PlanKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to presign floor plan url")
	}
	return &models.FloorPlanURL{URL: url}, nil
}

// DeletePlan unlinks and removes the floor plan object.
func (s *FloorService) DeletePlan(ctx context.Context, floorID string) error {
	if s.store == nil {
		return appErrors.Clone(appErrors.ErrInternal, "object storage is not configured")
	}
	floor, err := s.Get(ctx, floorID)
	if err != nil {
		return err
	}
	if floor.PlanKey == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "floor has no plan")
	}
	if err := s.repo.SetPlanKey(ctx, floorID, nil); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unlink floor plan")
	}
	if err := s.store.Remove(ctx, *floor.PlanKey); err != nil {
		s.logger.Warn("failed to remove floor plan object", zap.String("floor_id", floorID), zap.Error(err))
	}
	return nil
}
