package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shestakov-dev/ClassCompassServer/internal/service"
	appErrors "github.com/shestakov-dev/ClassCompassServer/pkg/errors"
	"github.com/shestakov-dev/ClassCompassServer/pkg/response"
)

// DailyScheduleHandler exposes daily schedule endpoints.
type DailyScheduleHandler struct {
	schedules *service.DailyScheduleService
}

// NewDailyScheduleHandler constructs DailyScheduleHandler.
func NewDailyScheduleHandler(schedules *service.DailyScheduleService) *DailyScheduleHandler {
	return &DailyScheduleHandler{schedules: schedules}
}

// ListByClass godoc
// @Summary List daily schedules of a class
// @Tags DailySchedules
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/daily-schedules [get]
func (h *DailyScheduleHandler) ListByClass(c *gin.Context) {
	schedules, err := h.schedules.ListByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// Get godoc
// @Summary Get daily schedule detail
// @Tags DailySchedules
// @Produce json
// @Param id path string true "Daily schedule ID"
// @Success 200 {object} response.Envelope
// @Router /daily-schedules/{id} [get]
func (h *DailyScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.schedules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Create godoc
// @Summary Create daily schedule
// @Tags DailySchedules
// @Accept json
// @Produce json
// @Param payload body service.DailyScheduleRequest true "Daily schedule payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /daily-schedules [post]
func (h *DailyScheduleHandler) Create(c *gin.Context) {
	var req service.DailyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.schedules.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Update godoc
// @Summary Update daily schedule
// @Tags DailySchedules
// @Accept json
// @Produce json
// @Param id path string true "Daily schedule ID"
// @Param payload body service.DailyScheduleRequest true "Daily schedule payload"
// @Success 200 {object} response.Envelope
// @Router /daily-schedules/{id} [put]
func (h *DailyScheduleHandler) Update(c *gin.Context) {
	var req service.DailyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.schedules.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Delete godoc
// @Summary Delete daily schedule
// @Tags DailySchedules
// @Param id path string true "Daily schedule ID"
// @Success 204
// @Router /daily-schedules/{id} [delete]
func (h *DailyScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
