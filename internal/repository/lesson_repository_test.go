package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
)

func newLessonRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func lessonRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "lesson_number", "start_time", "end_time", "lesson_week",
		"room_id", "teacher_id", "subject_id", "daily_schedule_id",
		"created_at", "updated_at", "deleted", "deleted_at",
	})
	for i, id := range ids {
		start := time.Date(1970, 1, 1, 8+i, 0, 0, 0, time.UTC)
		rows.AddRow(id, i+1, start, start.Add(45*time.Minute), "every",
			"room-1", "teacher-1", "subject-1", "schedule-1",
			time.Now(), time.Now(), false, nil)
	}
	return rows
}

func TestLessonRepositoryFindActive(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	windowStart := time.Date(1970, 1, 1, 9, 30, 0, 0, time.UTC)
	windowEnd := windowStart

	mock.ExpectQuery(`SELECT .+ FROM lessons l\s+JOIN daily_schedules ds .+ JOIN classes c .+ c\.school_id = \$1 AND ds\.day = \$2 AND l\.lesson_week IN \(\$3, \$4\) AND l\.start_time <= \$5 AND l\.end_time >= \$6 AND l\.room_id = \$7`).
		WithArgs("school-1", models.Wednesday, models.WeekOdd, models.WeekEvery, windowEnd, windowStart, "room-1").
		WillReturnRows(lessonRows("l1", "l2"))

	lessons, err := repo.FindActive(context.Background(), models.LessonQuery{
		SchoolID:    "school-1",
		Day:         models.Wednesday,
		Weeks:       []models.LessonWeek{models.WeekOdd, models.WeekEvery},
		WindowStart: &windowStart,
		WindowEnd:   &windowEnd,
		RoomID:      "room-1",
	})
	require.NoError(t, err)
	assert.Len(t, lessons, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryFindActiveWithoutWindow(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM lessons l.+c\.school_id = \$1 AND ds\.day = \$2 AND l\.lesson_week IN \(\$3\)`).
		WithArgs("school-1", models.Monday, models.WeekEvery).
		WillReturnRows(lessonRows())

	lessons, err := repo.FindActive(context.Background(), models.LessonQuery{
		SchoolID: "school-1",
		Day:      models.Monday,
		Weeks:    []models.LessonWeek{models.WeekEvery},
	})
	require.NoError(t, err)
	assert.Empty(t, lessons)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryFindConflicting(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	start := time.Date(1970, 1, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	mock.ExpectQuery(`SELECT .+ FROM lessons l\s+JOIN daily_schedules ds .+\(l\.room_id = \$1 OR l\.teacher_id = \$2 OR l\.daily_schedule_id = \$3\) AND ds\.day = \$4 AND l\.lesson_week IN \(\$5, \$6, \$7\) AND l\.start_time < \$8 AND l\.end_time > \$9 AND l\.id <> \$10 LIMIT 1`).
		WithArgs("room-1", "teacher-1", "schedule-1", models.Monday,
			models.WeekEvery, models.WeekOdd, models.WeekEven, end, start, "self").
		WillReturnRows(lessonRows("blocking"))

	lesson, err := repo.FindConflicting(context.Background(), models.ConflictQuery{
		ExcludeID:       "self",
		RoomID:          "room-1",
		TeacherID:       "teacher-1",
		DailyScheduleID: "schedule-1",
		Day:             models.Monday,
		Weeks:           []models.LessonWeek{models.WeekEvery, models.WeekOdd, models.WeekEven},
		StartTime:       start,
		EndTime:         end,
	})
	require.NoError(t, err)
	require.NotNil(t, lesson)
	assert.Equal(t, "blocking", lesson.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryFindConflictingFreeSlot(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	start := time.Date(1970, 1, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM lessons l.+LIMIT 1`).
		WillReturnRows(lessonRows())

	lesson, err := repo.FindConflicting(context.Background(), models.ConflictQuery{
		RoomID:          "room-1",
		TeacherID:       "teacher-1",
		DailyScheduleID: "schedule-1",
		Day:             models.Monday,
		Weeks:           []models.LessonWeek{models.WeekEvery},
		StartTime:       start,
		EndTime:         start.Add(45 * time.Minute),
	})
	require.NoError(t, err)
	assert.Nil(t, lesson)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryCreateAndSoftDelete(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec("INSERT INTO lessons").
		WithArgs(sqlmock.AnyArg(), 1, sqlmock.AnyArg(), sqlmock.AnyArg(), models.WeekEvery,
			"room-1", "teacher-1", "subject-1", "schedule-1",
			sqlmock.AnyArg(), sqlmock.AnyArg(), false, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	lesson := &models.Lesson{
		LessonNumber:    1,
		StartTime:       time.Date(1970, 1, 1, 8, 0, 0, 0, time.UTC),
		EndTime:         time.Date(1970, 1, 1, 8, 45, 0, 0, time.UTC),
		LessonWeek:      models.WeekEvery,
		RoomID:          "room-1",
		TeacherID:       "teacher-1",
		SubjectID:       "subject-1",
		DailyScheduleID: "schedule-1",
	}
	require.NoError(t, repo.Create(context.Background(), lesson))
	assert.NotEmpty(t, lesson.ID)

	mock.ExpectExec("UPDATE lessons SET deleted = TRUE").
		WithArgs(lesson.ID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), lesson.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryListByDailySchedule(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM lessons l WHERE l\.daily_schedule_id = \$1 AND l\.deleted = FALSE ORDER BY l\.lesson_number ASC`).
		WithArgs("schedule-1").
		WillReturnRows(lessonRows("l1", "l2", "l3"))

	lessons, err := repo.ListByDailySchedule(context.Background(), "schedule-1")
	require.NoError(t, err)
	assert.Len(t, lessons, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}
