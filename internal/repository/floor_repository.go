package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
)

// FloorRepository provides persistence for floors.
type FloorRepository struct {
	db *sqlx.DB
}

// NewFloorRepository creates a new floor repository.
func NewFloorRepository(db *sqlx.DB) *FloorRepository {
	return &FloorRepository{db: db}
}

// ListByBuilding returns non-deleted floors of a building.
func (r *FloorRepository) ListByBuilding(ctx context.Context, buildingID string) ([]models.Floor, error) {
	const query = `SELECT id, number, building_id, plan_key, created_at, updated_at, deleted, deleted_at FROM floors WHERE building_id = $1 AND deleted = FALSE ORDER BY number ASC`
	var floors []models.Floor
	if err := r.db.SelectContext(ctx, &floors, query, buildingID); err != nil {
		return nil, fmt.Errorf("list floors by building: %w", err)
	}
	return floors, nil
}

// FindByID loads a non-deleted floor by id.
func (r *FloorRepository) FindByID(ctx context.Context, id string) (*models.Floor, error) {
	const query = `SELECT id, number, building_id, plan_key, created_at, updated_at, deleted, deleted_at FROM floors WHERE id = $1 AND deleted = FALSE`
	var floor models.Floor
	if err := r.db.GetContext(ctx, &floor, query, id); err != nil {
		return nil, err
	}
	return &floor, nil
}

// Create stores a new floor record.
func (r *FloorRepository) Create(ctx context.Context, floor *models.Floor) error {
	if floor.ID == "" {
		floor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if floor.CreatedAt.IsZero() {
		floor.CreatedAt = now
	}
	floor.UpdatedAt = now

	const query = `INSERT INTO floors (id, number, building_id, plan_key, created_at, updated_at, deleted, deleted_at) VALUES (:id, :number, :building_id, :plan_key, :created_at, :updated_at, :deleted, :deleted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, floor); err != nil {
		return fmt.Errorf("create floor: %w", err)
	}
	return nil
}

// Update modifies a floor record.
func (r *FloorRepository) Update(ctx context.Context, floor *models.Floor) error {
	floor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE floors SET number = :number, building_id = :building_id, plan_key = :plan_key, updated_at = :updated_at WHERE id = :id AND deleted = FALSE`
	if _, err := r.db.NamedExecContext(ctx, query, floor); err != nil {
		return fmt.Errorf("update floor: %w", err)
	}
	return nil
}

// SetPlanKey records the object-store key of the uploaded floor plan.
func (r *FloorRepository) SetPlanKey(ctx context.Context, id string, key *string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE floors SET plan_key = $2, updated_at = $3 WHERE id = $1 AND deleted = FALSE`, id, key, now); err != nil {
		return fmt.Errorf("set floor plan key: %w", err)
	}
	return nil
}

// SoftDelete flags a floor as deleted.
func (r *FloorRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `UPDATE floors SET deleted = TRUE, deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted = FALSE`, id, now); err != nil {
		return fmt.Errorf("soft delete floor: %w", err)
	}
	return nil
}
