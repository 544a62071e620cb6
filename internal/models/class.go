package models

import "time"

// Class is a group of students within a school.
type Class struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	SchoolID  string     `db:"school_id" json:"school_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	Deleted   bool       `db:"deleted" json:"-"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// Subject is a taught discipline within a school.
type Subject struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	SchoolID  string     `db:"school_id" json:"school_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	Deleted   bool       `db:"deleted" json:"-"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// Teacher is the school-side profile of a teaching user.
type Teacher struct {
	ID        string     `db:"id" json:"id"`
	FullName  string     `db:"full_name" json:"full_name"`
	SchoolID  string     `db:"school_id" json:"school_id"`
	UserID    *string    `db:"user_id" json:"user_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	Deleted   bool       `db:"deleted" json:"-"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// Student is the school-side profile of an enrolled user.
type Student struct {
	ID        string     `db:"id" json:"id"`
	FullName  string     `db:"full_name" json:"full_name"`
	ClassID   string     `db:"class_id" json:"class_id"`
	UserID    *string    `db:"user_id" json:"user_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	Deleted   bool       `db:"deleted" json:"-"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}
