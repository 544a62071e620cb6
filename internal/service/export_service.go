package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
	appErrors "github.com/shestakov-dev/ClassCompassServer/pkg/errors"
	"github.com/shestakov-dev/ClassCompassServer/pkg/export"
)

type subjectResolver interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type teacherResolver interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type roomResolver interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFormat selects the rendered timetable representation.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered document and its media type.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

var timetableHeaders = []string{"Day", "No", "Start", "End", "Week", "Subject", "Teacher", "Room"}

var dayOrder = map[models.Weekday]int{
	models.Monday:    0,
	models.Tuesday:   1,
	models.Wednesday: 2,
	models.Thursday:  3,
	models.Friday:    4,
	models.Saturday:  5,
	models.Sunday:    6,
}

// ExportService renders weekly class timetables into CSV or PDF
// documents.
type ExportService struct {
	classes   classResolver
	schedules dailyScheduleRepository
	lessons   lessonRepository
	subjects  subjectResolver
	teachers  teacherResolver
	rooms     roomResolver
	csv       datasetRenderer
	pdf       datasetRenderer
	logger    *zap.Logger
}

// NewExportService constructs the timetable export service.
func NewExportService(classes classResolver, schedules dailyScheduleRepository, lessons lessonRepository, subjects subjectResolver, teachers teacherResolver, rooms roomResolver, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		classes:   classes,
		schedules: schedules,
		lessons:   lessons,
		subjects:  subjects,
		teachers:  teachers,
		rooms:     rooms,
		csv:       export.NewCSVRenderer(),
		pdf:       export.NewPDFRenderer(),
		logger:    logger,
	}
}

// ExportClassTimetable renders the full weekly timetable of a class.
func (s *ExportService) ExportClassTimetable(ctx context.Context, classID string, format ExportFormat) (*ExportResult, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}

	dataset, err := s.buildTimetable(ctx, class)
	if err != nil {
		return nil, err
	}

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(*dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable csv")
		}
		return &ExportResult{Payload: payload, ContentType: "text/csv", Filename: fmt.Sprintf("timetable-%s.csv", class.ID)}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(*dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
		}
		return &ExportResult{Payload: payload, ContentType: "application/pdf", Filename: fmt.Sprintf("timetable-%s.pdf", class.ID)}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *ExportService) buildTimetable(ctx context.Context, class *models.Class) (*export.Dataset, error) {
	schedules, err := s.schedules.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list daily schedules")
	}
	sort.Slice(schedules, func(i, j int) bool {
		return dayOrder[schedules[i].Day] < dayOrder[schedules[j].Day]
	})

	dataset := &export.Dataset{
		Title:   fmt.Sprintf("Timetable %s", class.Name),
		Headers: timetableHeaders,
	}

	for _, schedule := range schedules {
		lessons, err := s.lessons.ListByDailySchedule(ctx, schedule.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
		}
		sort.Slice(lessons, func(i, j int) bool {
			if lessons[i].LessonNumber != lessons[j].LessonNumber {
				return lessons[i].LessonNumber < lessons[j].LessonNumber
			}
			return lessons[i].StartTime.Before(lessons[j].StartTime)
		})

		for _, lesson := range lessons {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Day":     string(schedule.Day),
				"No":      fmt.Sprintf("%d", lesson.LessonNumber),
				"Start":   lesson.StartTime.Format("15:04"),
				"End":     lesson.EndTime.Format("15:04"),
				"Week":    string(lesson.LessonWeek),
				"Subject": s.subjectName(ctx, lesson.SubjectID),
				"Teacher": s.teacherName(ctx, lesson.TeacherID),
				"Room":    s.roomName(ctx, lesson.RoomID),
			})
		}
	}
	return dataset, nil
}

func (s *ExportService) subjectName(ctx context.Context, id string) string {
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("failed to resolve subject for export", zap.String("subject_id", id), zap.Error(err))
		return id
	}
	return subject.Name
}

func (s *ExportService) teacherName(ctx context.Context, id string) string {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("failed to resolve teacher for export", zap.String("teacher_id", id), zap.Error(err))
		return id
	}
	return teacher.FullName
}

func (s *ExportService) roomName(ctx context.Context, id string) string {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("failed to resolve room for export", zap.String("room_id", id), zap.Error(err))
		return id
	}
	return room.Name
}
