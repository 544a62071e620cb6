package models

import "time"

// School is the tenant root; every class, building and subject belongs to one.
type School struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Address   string     `db:"address" json:"address"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	Deleted   bool       `db:"deleted" json:"-"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// Building groups floors within a school.
type Building struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Address   string     `db:"address" json:"address"`
	SchoolID  string     `db:"school_id" json:"school_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	Deleted   bool       `db:"deleted" json:"-"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// Floor belongs to a building and optionally carries a floor plan image
// stored in the object store under PlanKey.
type Floor struct {
	ID         string     `db:"id" json:"id"`
	Number     int        `db:"number" json:"number"`
	BuildingID string     `db:"building_id" json:"building_id"`
	PlanKey    *string    `db:"plan_key" json:"-"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
	Deleted    bool       `db:"deleted" json:"-"`
	DeletedAt  *time.Time `db:"deleted_at" json:"-"`
}

// FloorPlanURL is the presigned download link for a floor plan.
type FloorPlanURL struct {
	URL string `json:"url"`
}

// Room is a teaching space on a floor.
type Room struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	FloorID   string     `db:"floor_id" json:"floor_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	Deleted   bool       `db:"deleted" json:"-"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}
