package models

import "time"

// Weekday enumerates the days a daily schedule can be bound to.
type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// Valid reports whether the weekday is one of the defined values.
func (w Weekday) Valid() bool {
	switch w {
	case Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return true
	}
	return false
}

// LessonWeek classifies which calendar weeks a lesson occurs on.
// Biweekly schedules alternate between odd and even ISO weeks;
// "every" matches both parities.
type LessonWeek string

const (
	WeekOdd   LessonWeek = "odd"
	WeekEven  LessonWeek = "even"
	WeekEvery LessonWeek = "every"
)

// Valid reports whether the week parity is one of the defined values.
func (w LessonWeek) Valid() bool {
	switch w {
	case WeekOdd, WeekEven, WeekEvery:
		return true
	}
	return false
}

// Lesson is a scheduled teaching occurrence tied to a room, teacher,
// subject and a class's daily schedule slot. Start and end times are
// stored with the calendar date pinned to the epoch reference date so
// only the clock time participates in comparisons.
type Lesson struct {
	ID              string     `db:"id" json:"id"`
	LessonNumber    int        `db:"lesson_number" json:"lesson_number"`
	StartTime       time.Time  `db:"start_time" json:"start_time"`
	EndTime         time.Time  `db:"end_time" json:"end_time"`
	LessonWeek      LessonWeek `db:"lesson_week" json:"lesson_week"`
	RoomID          string     `db:"room_id" json:"room_id"`
	TeacherID       string     `db:"teacher_id" json:"teacher_id"`
	SubjectID       string     `db:"subject_id" json:"subject_id"`
	DailyScheduleID string     `db:"daily_schedule_id" json:"daily_schedule_id"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
	Deleted         bool       `db:"deleted" json:"-"`
	DeletedAt       *time.Time `db:"deleted_at" json:"-"`
}

// LessonFilter carries the caller-supplied criteria for the active-lesson
// query. Exactly one temporal input is expected: a single timestamp, a
// from/to range, or explicit day/week values.
type LessonFilter struct {
	Timestamp  *time.Time
	From       *time.Time
	To         *time.Time
	Day        *Weekday
	Week       *LessonWeek
	ClassID    string
	SubjectID  string
	RoomID     string
	TeacherID  string
	IgnoreWeek bool
}

// LessonQuery is the canonical predicate handed to the lesson repository
// after temporal normalization. Weeks empty means any parity. WindowStart
// and WindowEnd bound an inclusive time-of-day overlap check; nil means
// no time constraint.
type LessonQuery struct {
	SchoolID    string
	Day         Weekday
	Weeks       []LessonWeek
	WindowStart *time.Time
	WindowEnd   *time.Time
	ClassID     string
	SubjectID   string
	RoomID      string
	TeacherID   string
}

// LessonCandidate is a lesson about to be created or updated, checked for
// conflicts before it is persisted.
type LessonCandidate struct {
	StartTime       time.Time
	EndTime         time.Time
	LessonWeek      LessonWeek
	RoomID          string
	TeacherID       string
	SubjectID       string
	DailyScheduleID string
}

// ConflictQuery is the predicate used to locate a lesson colliding with a
// candidate: shared room, teacher or daily schedule on the same day with
// overlapping week parity and strictly overlapping times.
type ConflictQuery struct {
	ExcludeID       string
	RoomID          string
	TeacherID       string
	DailyScheduleID string
	Day             Weekday
	Weeks           []LessonWeek
	StartTime       time.Time
	EndTime         time.Time
}

// Conflict dimensions reported by overlap checks.
const (
	ConflictRoom      = "ROOM"
	ConflictTeacher   = "TEACHER"
	ConflictClassSlot = "CLASS_SLOT"
)

// LessonConflict describes an existing lesson that blocks a candidate.
type LessonConflict struct {
	LessonID        string     `json:"lesson_id"`
	RoomID          string     `json:"room_id"`
	TeacherID       string     `json:"teacher_id"`
	DailyScheduleID string     `json:"daily_schedule_id"`
	LessonWeek      LessonWeek `json:"lesson_week"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	Dimension       string     `json:"dimension"`
}

// LessonConflictError is returned when a candidate lesson collides with an
// existing one on room, teacher or class slot.
type LessonConflictError struct {
	Dimension string         `json:"dimension"`
	Message   string         `json:"message"`
	Conflict  LessonConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *LessonConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
