package models

import "time"

// DailySchedule binds a weekday to a class; lessons attach to it.
type DailySchedule struct {
	ID        string     `db:"id" json:"id"`
	Day       Weekday    `db:"day" json:"day"`
	ClassID   string     `db:"class_id" json:"class_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	Deleted   bool       `db:"deleted" json:"-"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}
