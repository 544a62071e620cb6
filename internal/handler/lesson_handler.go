package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
	"github.com/shestakov-dev/ClassCompassServer/internal/service"
	appErrors "github.com/shestakov-dev/ClassCompassServer/pkg/errors"
	"github.com/shestakov-dev/ClassCompassServer/pkg/response"
)

// LessonHandler exposes lesson scheduling endpoints.
type LessonHandler struct {
	lessons *service.LessonService
	metrics *service.MetricsService
}

// NewLessonHandler constructs LessonHandler.
func NewLessonHandler(lessons *service.LessonService, metrics *service.MetricsService) *LessonHandler {
	return &LessonHandler{lessons: lessons, metrics: metrics}
}

// Active godoc
// @Summary List active lessons of a school
// @Description Lessons matching a reference instant, a time range, or explicit day/week filters
// @Tags Lessons
// @Produce json
// @Param schoolId path string true "School ID"
// @Param timestamp query string false "Reference instant (RFC 3339)"
// @Param from query string false "Range start (RFC 3339)"
// @Param to query string false "Range end (RFC 3339)"
// @Param day query string false "Explicit weekday"
// @Param week query string false "Explicit week parity (odd|even|every)"
// @Param ignoreWeek query bool false "Skip week parity filtering"
// @Param classId query string false "Filter by class"
// @Param subjectId query string false "Filter by subject"
// @Param roomId query string false "Filter by room"
// @Param teacherId query string false "Filter by teacher"
// @Success 200 {object} response.Envelope
// @Router /schools/{schoolId}/lessons/active [get]
func (h *LessonHandler) Active(c *gin.Context) {
	filter, err := parseLessonFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	lessons, err := h.lessons.FindActiveLessons(c.Request.Context(), c.Param("schoolId"), *filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// Get godoc
// @Summary Get lesson detail
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	lesson, err := h.lessons.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// ListByDailySchedule godoc
// @Summary List lessons of a daily schedule
// @Tags Lessons
// @Produce json
// @Param id path string true "Daily schedule ID"
// @Success 200 {object} response.Envelope
// @Router /daily-schedules/{id}/lessons [get]
func (h *LessonHandler) ListByDailySchedule(c *gin.Context) {
	lessons, err := h.lessons.ListByDailySchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// Create godoc
// @Summary Schedule a lesson
// @Description Creates a lesson after checking room, teacher and class slot availability
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body service.CreateLessonRequest true "Lesson payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req service.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.lessons.Create(c.Request.Context(), req)
	if err != nil {
		h.recordConflict(err)
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Update godoc
// @Summary Update a lesson
// @Description Applies a partial update after re-checking availability
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param payload body service.UpdateLessonRequest true "Lesson payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lessons/{id} [patch]
func (h *LessonHandler) Update(c *gin.Context) {
	var req service.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.lessons.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.recordConflict(err)
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Delete godoc
// @Summary Delete a lesson
// @Tags Lessons
// @Param id path string true "Lesson ID"
// @Success 204
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	if err := h.lessons.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *LessonHandler) recordConflict(err error) {
	if h.metrics == nil {
		return
	}
	var conflictErr *models.LessonConflictError
	if errors.As(err, &conflictErr) {
		h.metrics.RecordConflict(conflictErr.Dimension)
	}
}

func parseLessonFilter(c *gin.Context) (*models.LessonFilter, error) {
	filter := &models.LessonFilter{
		ClassID:   c.Query("classId"),
		SubjectID: c.Query("subjectId"),
		RoomID:    c.Query("roomId"),
		TeacherID: c.Query("teacherId"),
	}

	if raw := c.Query("timestamp"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, `"timestamp" must be RFC 3339`)
		}
		filter.Timestamp = &ts
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, `"from" must be RFC 3339`)
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, `"to" must be RFC 3339`)
		}
		filter.To = &to
	}
	if (filter.From == nil) != (filter.To == nil) {
		return nil, appErrors.Clone(appErrors.ErrValidation, `"from" and "to" must be provided together`)
	}
	if raw := c.Query("day"); raw != "" {
		day := models.Weekday(raw)
		if !day.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, `"day" must be a lowercase weekday name`)
		}
		filter.Day = &day
	}
	if raw := c.Query("week"); raw != "" {
		week := models.LessonWeek(raw)
		if !week.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, `"week" must be one of odd, even, every`)
		}
		filter.Week = &week
	}
	filter.IgnoreWeek = c.Query("ignoreWeek") == "true"

	return filter, nil
}
