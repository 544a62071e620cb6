// Package timetable converts wall-clock instants into the canonical
// coordinates used by weekly repeating schedules: a normalized
// time-of-day, a weekday and an ISO-week parity.
package timetable

import (
	"time"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
)

// referenceDate is the fixed calendar date all lesson times are pinned to.
// Lessons repeat weekly, so only the clock-time component is meaningful;
// pinning the date makes stored boundaries directly comparable.
var referenceDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// weekdays maps time.Weekday (0 = Sunday) to the schedule weekday tags.
var weekdays = [7]models.Weekday{
	models.Sunday,
	models.Monday,
	models.Tuesday,
	models.Wednesday,
	models.Thursday,
	models.Friday,
	models.Saturday,
}

// NormalizeTimeOfDay replaces the calendar date of t with the reference
// date, preserving the clock time in UTC. Two instants with the same
// time-of-day normalize to equal values regardless of their dates, and
// comparing normalized values is equivalent to comparing clock times.
// The function is idempotent.
func NormalizeTimeOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(
		referenceDate.Year(), referenceDate.Month(), referenceDate.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.UTC,
	)
}

// DayOfWeek returns the schedule weekday tag for t, interpreted in UTC.
func DayOfWeek(t time.Time) models.Weekday {
	return weekdays[int(t.UTC().Weekday())]
}

// WeekParity derives the odd/even classification from the ISO-8601 week
// number of t. ISO numbering has year-boundary quirks (a late-December
// date can fall in week 1 of the next ISO year); callers rely on the rule
// being applied consistently, not on it aligning with calendar years.
func WeekParity(t time.Time) models.LessonWeek {
	_, week := t.UTC().ISOWeek()
	if week%2 == 0 {
		return models.WeekEven
	}
	return models.WeekOdd
}

// Overlaps reports whether the time ranges [aStart, aEnd] and
// [bStart, bEnd] intersect. Inclusive mode counts touching boundaries as
// overlap and suits point-in-time queries; exclusive mode uses strict
// comparison so back-to-back lessons do not collide.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time, inclusive bool) bool {
	if inclusive {
		return !aStart.After(bEnd) && !aEnd.Before(bStart)
	}
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
