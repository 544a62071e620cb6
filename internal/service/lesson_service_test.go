package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
	"github.com/shestakov-dev/ClassCompassServer/internal/timetable"
	appErrors "github.com/shestakov-dev/ClassCompassServer/pkg/errors"
)

// mockLessonStore backs both the lesson repository and the daily schedule
// resolver, applying the same matching rules the SQL queries implement.
type mockLessonStore struct {
	lessons     map[string]*models.Lesson
	schedules   map[string]*models.DailySchedule
	classSchool map[string]string
}

func newMockLessonStore() *mockLessonStore {
	return &mockLessonStore{
		lessons:     make(map[string]*models.Lesson),
		schedules:   make(map[string]*models.DailySchedule),
		classSchool: make(map[string]string),
	}
}

func (m *mockLessonStore) addSchedule(id string, day models.Weekday, classID, schoolID string) {
	m.schedules[id] = &models.DailySchedule{ID: id, Day: day, ClassID: classID}
	m.classSchool[classID] = schoolID
}

func (m *mockLessonStore) addLesson(lesson models.Lesson) {
	cp := lesson
	m.lessons[lesson.ID] = &cp
}

func (m *mockLessonStore) FindActive(ctx context.Context, query models.LessonQuery) ([]models.Lesson, error) {
	var result []models.Lesson
	for _, l := range m.lessons {
		if l.Deleted {
			continue
		}
		ds, ok := m.schedules[l.DailyScheduleID]
		if !ok || ds.Deleted {
			continue
		}
		if m.classSchool[ds.ClassID] != query.SchoolID {
			continue
		}
		if query.Day != "" && ds.Day != query.Day {
			continue
		}
		if len(query.Weeks) > 0 && !containsWeek(query.Weeks, l.LessonWeek) {
			continue
		}
		if query.WindowStart != nil && query.WindowEnd != nil {
			if !timetable.Overlaps(l.StartTime, l.EndTime, *query.WindowStart, *query.WindowEnd, true) {
				continue
			}
		}
		if query.ClassID != "" && ds.ClassID != query.ClassID {
			continue
		}
		if query.SubjectID != "" && l.SubjectID != query.SubjectID {
			continue
		}
		if query.RoomID != "" && l.RoomID != query.RoomID {
			continue
		}
		if query.TeacherID != "" && l.TeacherID != query.TeacherID {
			continue
		}
		result = append(result, *l)
	}
	return result, nil
}

func (m *mockLessonStore) FindConflicting(ctx context.Context, query models.ConflictQuery) (*models.Lesson, error) {
	for _, l := range m.lessons {
		if l.Deleted || l.ID == query.ExcludeID {
			continue
		}
		if l.RoomID != query.RoomID && l.TeacherID != query.TeacherID && l.DailyScheduleID != query.DailyScheduleID {
			continue
		}
		ds, ok := m.schedules[l.DailyScheduleID]
		if !ok || ds.Deleted || ds.Day != query.Day {
			continue
		}
		if !containsWeek(query.Weeks, l.LessonWeek) {
			continue
		}
		if !timetable.Overlaps(l.StartTime, l.EndTime, query.StartTime, query.EndTime, false) {
			continue
		}
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (m *mockLessonStore) ListByDailySchedule(ctx context.Context, dailyScheduleID string) ([]models.Lesson, error) {
	var result []models.Lesson
	for _, l := range m.lessons {
		if !l.Deleted && l.DailyScheduleID == dailyScheduleID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockLessonStore) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	if l, ok := m.lessons[id]; ok && !l.Deleted {
		cp := *l
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLessonStore) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = "generated"
	}
	cp := *lesson
	m.lessons[lesson.ID] = &cp
	return nil
}

func (m *mockLessonStore) Update(ctx context.Context, lesson *models.Lesson) error {
	cp := *lesson
	m.lessons[lesson.ID] = &cp
	return nil
}

func (m *mockLessonStore) SoftDelete(ctx context.Context, id string) error {
	if l, ok := m.lessons[id]; ok {
		l.Deleted = true
	}
	return nil
}

// scheduleResolver adapts the store to the daily schedule lookup.
type scheduleResolver struct {
	store *mockLessonStore
}

func (r scheduleResolver) FindByID(ctx context.Context, id string) (*models.DailySchedule, error) {
	if ds, ok := r.store.schedules[id]; ok && !ds.Deleted {
		cp := *ds
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func containsWeek(weeks []models.LessonWeek, week models.LessonWeek) bool {
	for _, w := range weeks {
		if w == week {
			return true
		}
	}
	return false
}

func at(h, m int) time.Time {
	return time.Date(1970, time.January, 1, h, m, 0, 0, time.UTC)
}

func newLessonService(store *mockLessonStore) *LessonService {
	return NewLessonService(store, scheduleResolver{store}, nil, 0, validator.New(), zap.NewNop())
}

func conflictDimension(t *testing.T, err error) string {
	t.Helper()
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	var domainErr *models.LessonConflictError
	require.True(t, errors.As(err, &domainErr))
	return domainErr.Dimension
}

func TestCheckOverlapEveryWeekCandidateConflictsWithEitherParity(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-mon", models.Monday, "class-a", "school-1")
	store.addSchedule("ds-mon-b", models.Monday, "class-b", "school-1")
	store.addLesson(models.Lesson{
		ID: "odd-lesson", StartTime: at(9, 30), EndTime: at(9, 45),
		LessonWeek: models.WeekOdd, RoomID: "room-101", TeacherID: "t2", DailyScheduleID: "ds-mon-b",
	})
	svc := newLessonService(store)

	err := svc.CheckOverlap(context.Background(), models.LessonCandidate{
		StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	}, "")

	require.Error(t, err)
	assert.Equal(t, models.ConflictRoom, conflictDimension(t, err))

	// The same candidate must also collide with an even-week occupant.
	store.lessons["odd-lesson"].LessonWeek = models.WeekEven
	err = svc.CheckOverlap(context.Background(), models.LessonCandidate{
		StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	}, "")
	require.Error(t, err)
}

func TestCheckOverlapDisjointParitiesDoNotConflict(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-mon", models.Monday, "class-a", "school-1")
	store.addSchedule("ds-mon-b", models.Monday, "class-b", "school-1")
	store.addLesson(models.Lesson{
		ID: "odd-lesson", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekOdd, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon-b",
	})
	svc := newLessonService(store)

	err := svc.CheckOverlap(context.Background(), models.LessonCandidate{
		StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEven, RoomID: "room-101", TeacherID: "t2", DailyScheduleID: "ds-mon",
	}, "")

	assert.NoError(t, err)
}

func TestCheckOverlapBackToBackLessonsAreLegal(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-mon", models.Monday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "first", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	})
	svc := newLessonService(store)

	// Same room, same teacher, same slot, but starting exactly when the
	// previous lesson ends.
	err := svc.CheckOverlap(context.Background(), models.LessonCandidate{
		StartTime: at(10, 0), EndTime: at(11, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	}, "")

	assert.NoError(t, err)
}

func TestCheckOverlapSharedClassSlotAloneConflicts(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-mon", models.Monday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "existing", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	})
	svc := newLessonService(store)

	// Different room and different teacher, same daily schedule slot.
	err := svc.CheckOverlap(context.Background(), models.LessonCandidate{
		StartTime: at(9, 30), EndTime: at(10, 30),
		LessonWeek: models.WeekEvery, RoomID: "room-202", TeacherID: "t2", DailyScheduleID: "ds-mon",
	}, "")

	require.Error(t, err)
	assert.Equal(t, models.ConflictClassSlot, conflictDimension(t, err))
}

func TestCheckOverlapDifferentDaysDoNotConflict(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-mon", models.Monday, "class-a", "school-1")
	store.addSchedule("ds-tue", models.Tuesday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "monday-lesson", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	})
	svc := newLessonService(store)

	err := svc.CheckOverlap(context.Background(), models.LessonCandidate{
		StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-tue",
	}, "")

	assert.NoError(t, err)
}

func TestCheckOverlapSelfExclusionOnUpdate(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-mon", models.Monday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "self", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	})
	svc := newLessonService(store)

	candidate := models.LessonCandidate{
		StartTime: at(9, 15), EndTime: at(9, 45),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	}

	require.Error(t, svc.CheckOverlap(context.Background(), candidate, ""))
	assert.NoError(t, svc.CheckOverlap(context.Background(), candidate, "self"))
}

func TestCheckOverlapUnknownDailySchedule(t *testing.T) {
	store := newMockLessonStore()
	svc := newLessonService(store)

	err := svc.CheckOverlap(context.Background(), models.LessonCandidate{
		StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "missing",
	}, "")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCheckOverlapIgnoresSoftDeletedLessons(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-mon", models.Monday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "ghost", StartTime: at(9, 0), EndTime: at(10, 0), Deleted: true,
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	})
	svc := newLessonService(store)

	err := svc.CheckOverlap(context.Background(), models.LessonCandidate{
		StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	}, "")

	assert.NoError(t, err)
}

// CheckOverlap is a pure read: two concurrent requests can both pass it
// and then both persist colliding lessons. This pins down the
// check-then-act gap; closing it needs a storage-level guarantee.
func TestCheckOverlapDoesNotReserveTheSlot(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-mon", models.Monday, "class-a", "school-1")
	svc := newLessonService(store)

	candidate := models.LessonCandidate{
		StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	}

	require.NoError(t, svc.CheckOverlap(context.Background(), candidate, ""))
	require.NoError(t, svc.CheckOverlap(context.Background(), candidate, ""))

	// Only after one of the writers persists does the other start failing.
	store.addLesson(models.Lesson{
		ID: "winner", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	})
	require.Error(t, svc.CheckOverlap(context.Background(), candidate, ""))
}

func TestFindActiveLessonsByTimestamp(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-wed", models.Wednesday, "class-a", "school-1")
	store.addSchedule("ds-thu", models.Thursday, "class-a", "school-1")
	store.addSchedule("ds-wed-other", models.Wednesday, "class-x", "school-2")

	store.addLesson(models.Lesson{
		ID: "match-odd", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekOdd, RoomID: "r1", TeacherID: "t1", SubjectID: "sub1", DailyScheduleID: "ds-wed",
	})
	store.addLesson(models.Lesson{
		ID: "match-every", StartTime: at(9, 30), EndTime: at(11, 0),
		LessonWeek: models.WeekEvery, RoomID: "r2", TeacherID: "t2", SubjectID: "sub2", DailyScheduleID: "ds-wed",
	})
	store.addLesson(models.Lesson{
		ID: "wrong-parity", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEven, RoomID: "r3", TeacherID: "t3", DailyScheduleID: "ds-wed",
	})
	store.addLesson(models.Lesson{
		ID: "wrong-day", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekOdd, RoomID: "r4", TeacherID: "t4", DailyScheduleID: "ds-thu",
	})
	store.addLesson(models.Lesson{
		ID: "wrong-time", StartTime: at(11, 0), EndTime: at(12, 0),
		LessonWeek: models.WeekOdd, RoomID: "r5", TeacherID: "t5", DailyScheduleID: "ds-wed",
	})
	store.addLesson(models.Lesson{
		ID: "wrong-school", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekOdd, RoomID: "r6", TeacherID: "t6", DailyScheduleID: "ds-wed-other",
	})

	svc := newLessonService(store)

	// 2023-03-15 is a Wednesday in ISO week 11 (odd).
	ts := time.Date(2023, time.March, 15, 9, 30, 0, 0, time.UTC)
	lessons, err := svc.FindActiveLessons(context.Background(), "school-1", models.LessonFilter{Timestamp: &ts})
	require.NoError(t, err)

	ids := lessonIDs(lessons)
	assert.ElementsMatch(t, []string{"match-odd", "match-every"}, ids)
}

func TestFindActiveLessonsTimestampMatchesBoundary(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-wed", models.Wednesday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "ending", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "r1", TeacherID: "t1", DailyScheduleID: "ds-wed",
	})
	store.addLesson(models.Lesson{
		ID: "starting", StartTime: at(10, 0), EndTime: at(11, 0),
		LessonWeek: models.WeekEvery, RoomID: "r1", TeacherID: "t1", DailyScheduleID: "ds-wed",
	})
	svc := newLessonService(store)

	// A query at exactly 10:00 must match both the lesson ending and the
	// lesson starting at that instant.
	ts := time.Date(2023, time.March, 15, 10, 0, 0, 0, time.UTC)
	lessons, err := svc.FindActiveLessons(context.Background(), "school-1", models.LessonFilter{Timestamp: &ts})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ending", "starting"}, lessonIDs(lessons))
}

func TestFindActiveLessonsRange(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-wed", models.Wednesday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "inside", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekOdd, RoomID: "r1", TeacherID: "t1", DailyScheduleID: "ds-wed",
	})
	store.addLesson(models.Lesson{
		ID: "outside", StartTime: at(13, 0), EndTime: at(14, 0),
		LessonWeek: models.WeekOdd, RoomID: "r2", TeacherID: "t2", DailyScheduleID: "ds-wed",
	})
	svc := newLessonService(store)

	from := time.Date(2023, time.March, 15, 8, 0, 0, 0, time.UTC)
	to := time.Date(2023, time.March, 15, 12, 0, 0, 0, time.UTC)
	lessons, err := svc.FindActiveLessons(context.Background(), "school-1", models.LessonFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []string{"inside"}, lessonIDs(lessons))
}

func TestFindActiveLessonsRangeRequiresToAfterFrom(t *testing.T) {
	store := newMockLessonStore()
	svc := newLessonService(store)

	from := time.Date(2023, time.March, 15, 12, 0, 0, 0, time.UTC)
	to := time.Date(2023, time.March, 15, 8, 0, 0, 0, time.UTC)
	_, err := svc.FindActiveLessons(context.Background(), "school-1", models.LessonFilter{From: &from, To: &to})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFindActiveLessonsIgnoreWeek(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-wed", models.Wednesday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "odd", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekOdd, RoomID: "r1", TeacherID: "t1", DailyScheduleID: "ds-wed",
	})
	store.addLesson(models.Lesson{
		ID: "even", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEven, RoomID: "r2", TeacherID: "t2", DailyScheduleID: "ds-wed",
	})
	svc := newLessonService(store)

	ts := time.Date(2023, time.March, 15, 9, 30, 0, 0, time.UTC)

	lessons, err := svc.FindActiveLessons(context.Background(), "school-1", models.LessonFilter{Timestamp: &ts})
	require.NoError(t, err)
	assert.Equal(t, []string{"odd"}, lessonIDs(lessons))

	lessons, err = svc.FindActiveLessons(context.Background(), "school-1", models.LessonFilter{Timestamp: &ts, IgnoreWeek: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"odd", "even"}, lessonIDs(lessons))
}

func TestFindActiveLessonsExplicitDayAndWeek(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-fri", models.Friday, "class-a", "school-1")
	store.addSchedule("ds-mon", models.Monday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "friday-even", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEven, RoomID: "r1", TeacherID: "t1", DailyScheduleID: "ds-fri",
	})
	store.addLesson(models.Lesson{
		ID: "monday-even", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEven, RoomID: "r2", TeacherID: "t2", DailyScheduleID: "ds-mon",
	})
	svc := newLessonService(store)

	day := models.Friday
	week := models.WeekEven
	lessons, err := svc.FindActiveLessons(context.Background(), "school-1", models.LessonFilter{Day: &day, Week: &week})
	require.NoError(t, err)
	assert.Equal(t, []string{"friday-even"}, lessonIDs(lessons))
}

func TestFindActiveLessonsEntityFilters(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-wed", models.Wednesday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "math", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "r1", TeacherID: "t1", SubjectID: "math", DailyScheduleID: "ds-wed",
	})
	store.addLesson(models.Lesson{
		ID: "physics", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "r2", TeacherID: "t2", SubjectID: "physics", DailyScheduleID: "ds-wed",
	})
	svc := newLessonService(store)

	ts := time.Date(2023, time.March, 15, 9, 30, 0, 0, time.UTC)
	lessons, err := svc.FindActiveLessons(context.Background(), "school-1", models.LessonFilter{Timestamp: &ts, SubjectID: "math"})
	require.NoError(t, err)
	assert.Equal(t, []string{"math"}, lessonIDs(lessons))
}

func TestFindActiveLessonsWithoutTemporalInput(t *testing.T) {
	store := newMockLessonStore()
	svc := newLessonService(store)

	_, err := svc.FindActiveLessons(context.Background(), "school-1", models.LessonFilter{ClassID: "class-a"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

// Lesson write requests validate their ids as UUIDs, so these fixtures use
// UUID-formatted schedule ids.
const mondayScheduleID = "44444444-4444-4444-4444-444444444444"

func TestLessonCreateRejectsConflict(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule(mondayScheduleID, models.Monday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "existing", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "11111111-1111-1111-1111-111111111111", DailyScheduleID: mondayScheduleID,
	})
	svc := newLessonService(store)

	_, err := svc.Create(context.Background(), CreateLessonRequest{
		LessonNumber:    2,
		StartTime:       time.Date(2023, time.March, 13, 9, 30, 0, 0, time.UTC),
		EndTime:         time.Date(2023, time.March, 13, 9, 45, 0, 0, time.UTC),
		LessonWeek:      models.WeekOdd,
		RoomID:          "22222222-2222-2222-2222-222222222222",
		TeacherID:       "11111111-1111-1111-1111-111111111111",
		SubjectID:       "33333333-3333-3333-3333-333333333333",
		DailyScheduleID: mondayScheduleID,
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, store.lessons, 1)
}

func TestLessonCreateNormalizesTimes(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule(mondayScheduleID, models.Monday, "class-a", "school-1")
	svc := newLessonService(store)

	lesson, err := svc.Create(context.Background(), CreateLessonRequest{
		LessonNumber:    1,
		StartTime:       time.Date(2023, time.March, 13, 9, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2023, time.March, 13, 10, 0, 0, 0, time.UTC),
		RoomID:          "22222222-2222-2222-2222-222222222222",
		TeacherID:       "11111111-1111-1111-1111-111111111111",
		SubjectID:       "33333333-3333-3333-3333-333333333333",
		DailyScheduleID: mondayScheduleID,
	})
	require.NoError(t, err)

	assert.Equal(t, 1970, lesson.StartTime.Year())
	assert.Equal(t, 1970, lesson.EndTime.Year())
	assert.Equal(t, models.WeekEvery, lesson.LessonWeek, "lesson week defaults to every")
}

func TestLessonCreateRejectsInvertedTimes(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule(mondayScheduleID, models.Monday, "class-a", "school-1")
	svc := newLessonService(store)

	_, err := svc.Create(context.Background(), CreateLessonRequest{
		LessonNumber:    1,
		StartTime:       time.Date(2023, time.March, 13, 10, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2023, time.March, 13, 9, 0, 0, 0, time.UTC),
		RoomID:          "22222222-2222-2222-2222-222222222222",
		TeacherID:       "11111111-1111-1111-1111-111111111111",
		SubjectID:       "33333333-3333-3333-3333-333333333333",
		DailyScheduleID: mondayScheduleID,
	})

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "start time must be before end time")
}

func TestLessonUpdateMovesLessonIntoFreeSlot(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-mon", models.Monday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "l1", LessonNumber: 1, StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", SubjectID: "s1", DailyScheduleID: "ds-mon",
	})
	svc := newLessonService(store)

	start := time.Date(2023, time.March, 13, 9, 15, 0, 0, time.UTC)
	end := time.Date(2023, time.March, 13, 9, 45, 0, 0, time.UTC)
	updated, err := svc.Update(context.Background(), "l1", UpdateLessonRequest{
		StartTime: &start,
		EndTime:   &end,
	})

	// The only overlapping lesson is l1 itself, which is excluded.
	require.NoError(t, err)
	assert.True(t, updated.StartTime.Equal(at(9, 15)))
	assert.True(t, updated.EndTime.Equal(at(9, 45)))
}

func TestLessonDeleteRemovesFromConflictChecks(t *testing.T) {
	store := newMockLessonStore()
	store.addSchedule("ds-mon", models.Monday, "class-a", "school-1")
	store.addLesson(models.Lesson{
		ID: "l1", StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	})
	svc := newLessonService(store)

	candidate := models.LessonCandidate{
		StartTime: at(9, 0), EndTime: at(10, 0),
		LessonWeek: models.WeekEvery, RoomID: "room-101", TeacherID: "t1", DailyScheduleID: "ds-mon",
	}
	require.Error(t, svc.CheckOverlap(context.Background(), candidate, ""))

	require.NoError(t, svc.Delete(context.Background(), "l1"))
	assert.NoError(t, svc.CheckOverlap(context.Background(), candidate, ""))
}

func lessonIDs(lessons []models.Lesson) []string {
	ids := make([]string, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	return ids
}
