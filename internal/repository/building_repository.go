package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
)

// BuildingRepository provides persistence for buildings.
type BuildingRepository struct {
	db *sqlx.DB
}

// NewBuildingRepository creates a new building repository.
func NewBuildingRepository(db *sqlx.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

// ListBySchool returns non-deleted buildings belonging to a school.
func (r *BuildingRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.Building, error) {
	const query = `SELECT id, name, address, school_id, created_at, updated_at, deleted, deleted_at FROM buildings WHERE school_id = $1 AND deleted = FALSE ORDER BY name ASC`
	var buildings []models.Building
	if err := r.db.SelectContext(ctx, &buildings, query, schoolID); err != nil {
		return nil, fmt.Errorf("list buildings by school: %w", err)
	}
	return buildings, nil
}

// FindByID loads a non-deleted building by id.
func (r *BuildingRepository) FindByID(ctx context.Context, id string) (*models.Building, error) {
	const query = `SELECT id, name, address, school_id, created_at, updated_at, deleted, deleted_at FROM buildings WHERE id = $1 AND deleted = FALSE`
	var building models.Building
	if err := r.db.GetContext(ctx, &building, query, id); err != nil {
		return nil, err
	}
	return &building, nil
}

// Create stores a new building record.
func (r *BuildingRepository) Create(ctx context.Context, building *models.Building) error {
	if building.ID == "" {
		building.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if building.CreatedAt.IsZero() {
		building.CreatedAt = now
	}
	building.UpdatedAt = now

	const query = `INSERT INTO buildings (id, name, address, school_id, created_at, updated_at, deleted, deleted_at) VALUES (:id, :name, :address, :school_id, :created_at, :updated_at, :deleted, :deleted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, building); err != nil {
		return fmt.Errorf("create building: %w", err)
	}
	return nil
}

// Update modifies a building record.
func (r *BuildingRepository) Update(ctx context.Context, building *models.Building) error {
	building.UpdatedAt = time.Now().UTC()
	const query = `UPDATE buildings SET name = :name, address = :address, school_id = :school_id, updated_at = :updated_at WHERE id = :id AND deleted = FALSE`
	if _, err := r.db.NamedExecContext(ctx, query, building); err != nil {
		return fmt.Errorf("update building: %w", err)
	}
	return nil
}

// SoftDelete flags a building as deleted.
func (r *BuildingRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE buildings SET deleted = TRUE, deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted = FALSE`, id, now); err != nil {
		return fmt.Errorf("soft delete building: %w", err)
	}
	return nil
}
