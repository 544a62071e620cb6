package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
)

func TestNormalizeTimeOfDayPinsDate(t *testing.T) {
	ts := time.Date(2023, time.March, 15, 9, 30, 45, 123, time.UTC)

	got := NormalizeTimeOfDay(ts)

	assert.Equal(t, 1970, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 1, got.Day())
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, 45, got.Second())
	assert.Equal(t, 123, got.Nanosecond())
}

func TestNormalizeTimeOfDayIdempotent(t *testing.T) {
	ts := time.Date(2024, time.July, 1, 14, 5, 0, 0, time.UTC)

	once := NormalizeTimeOfDay(ts)
	twice := NormalizeTimeOfDay(once)

	assert.True(t, once.Equal(twice))
}

func TestNormalizeTimeOfDayDateIndependent(t *testing.T) {
	a := time.Date(2021, time.February, 3, 8, 15, 0, 0, time.UTC)
	b := time.Date(2025, time.November, 28, 8, 15, 0, 0, time.UTC)

	assert.True(t, NormalizeTimeOfDay(a).Equal(NormalizeTimeOfDay(b)))
}

func TestNormalizeTimeOfDayPreservesOrdering(t *testing.T) {
	earlier := time.Date(2030, time.May, 20, 7, 59, 59, 0, time.UTC)
	later := time.Date(2001, time.January, 8, 8, 0, 0, 0, time.UTC)

	assert.True(t, NormalizeTimeOfDay(earlier).Before(NormalizeTimeOfDay(later)))
}

func TestDayOfWeek(t *testing.T) {
	cases := []struct {
		ts   time.Time
		want models.Weekday
	}{
		{time.Date(2023, time.March, 12, 12, 0, 0, 0, time.UTC), models.Sunday},
		{time.Date(2023, time.March, 13, 12, 0, 0, 0, time.UTC), models.Monday},
		{time.Date(2023, time.March, 15, 12, 0, 0, 0, time.UTC), models.Wednesday},
		{time.Date(2023, time.March, 18, 12, 0, 0, 0, time.UTC), models.Saturday},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DayOfWeek(tc.ts), "for %s", tc.ts)
	}
}

func TestWeekParity(t *testing.T) {
	// 2023-03-15 falls in ISO week 11.
	odd := time.Date(2023, time.March, 15, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, models.WeekOdd, WeekParity(odd))

	// 2023-03-22 falls in ISO week 12.
	even := time.Date(2023, time.March, 22, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, models.WeekEven, WeekParity(even))
}

func TestWeekParityISOYearBoundary(t *testing.T) {
	// 2019-12-30 belongs to ISO week 1 of 2020, so it counts as odd even
	// though it sits in calendar year 2019.
	ts := time.Date(2019, time.December, 30, 10, 0, 0, 0, time.UTC)

	year, week := ts.ISOWeek()
	require.Equal(t, 2020, year)
	require.Equal(t, 1, week)

	assert.Equal(t, models.WeekOdd, WeekParity(ts))
}

func TestOverlapsSymmetry(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(1970, time.January, 1, h, m, 0, 0, time.UTC)
	}

	pairs := []struct {
		aStart, aEnd, bStart, bEnd time.Time
	}{
		{at(9, 0), at(10, 0), at(9, 30), at(9, 45)},
		{at(9, 0), at(10, 0), at(10, 0), at(11, 0)},
		{at(9, 0), at(10, 0), at(12, 0), at(13, 0)},
	}

	for _, p := range pairs {
		for _, inclusive := range []bool{true, false} {
			assert.Equal(t,
				Overlaps(p.aStart, p.aEnd, p.bStart, p.bEnd, inclusive),
				Overlaps(p.bStart, p.bEnd, p.aStart, p.aEnd, inclusive),
			)
		}
	}
}

func TestOverlapsBoundaryTouchDisagreesByMode(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(1970, time.January, 1, h, m, 0, 0, time.UTC)
	}

	// One lesson ends at 10:00 exactly as the next begins. The inclusive
	// mode must see an overlap (a 10:00 query matches both lessons) while
	// the exclusive mode must not (back-to-back lessons are legal).
	assert.True(t, Overlaps(at(9, 0), at(10, 0), at(10, 0), at(11, 0), true))
	assert.False(t, Overlaps(at(9, 0), at(10, 0), at(10, 0), at(11, 0), false))
}

func TestOverlapsContainment(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(1970, time.January, 1, h, m, 0, 0, time.UTC)
	}

	assert.True(t, Overlaps(at(9, 0), at(10, 0), at(9, 30), at(9, 45), false))
	assert.True(t, Overlaps(at(9, 30), at(9, 45), at(9, 0), at(10, 0), false))
	assert.False(t, Overlaps(at(8, 0), at(9, 0), at(9, 30), at(10, 0), false))
}

func TestOverlapsZeroWidthPoint(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(1970, time.January, 1, h, m, 0, 0, time.UTC)
	}

	// A timestamp query is a zero-width window; inclusively it matches any
	// lesson whose range contains the instant, boundaries included.
	point := at(10, 0)
	assert.True(t, Overlaps(point, point, at(9, 0), at(10, 0), true))
	assert.True(t, Overlaps(point, point, at(10, 0), at(11, 0), true))
	assert.False(t, Overlaps(point, point, at(10, 1), at(11, 0), true))
}
