package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shestakov-dev/ClassCompassServer/internal/service"
	appErrors "github.com/shestakov-dev/ClassCompassServer/pkg/errors"
	"github.com/shestakov-dev/ClassCompassServer/pkg/response"
)

// maxPlanUploadBytes caps floor plan uploads at 10 MiB.
const maxPlanUploadBytes = 10 << 20

// FloorHandler exposes floor endpoints including floor plan management.
type FloorHandler struct {
	floors *service.FloorService
}

// NewFloorHandler constructs FloorHandler.
func NewFloorHandler(floors *service.FloorService) *FloorHandler {
	return &FloorHandler{floors: floors}
}

// ListByBuilding godoc
// @Summary List floors of a building
// @Tags Floors
// @Produce json
// @Param id path string true "Building ID"
// @Success 200 {object} response.Envelope
// @Router /buildings/{id}/floors [get]
func (h *FloorHandler) ListByBuilding(c *gin.Context) {
	floors, err := h.floors.ListByBuilding(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, floors, nil)
}

// Get godoc
// @Summary Get floor detail
// @Tags Floors
// @Produce json
// @Param id path string true "Floor ID"
// @Success 200 {object} response.Envelope
// @Router /floors/{id} [get]
func (h *FloorHandler) Get(c *gin.Context) {
	floor, err := h.floors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, floor, nil)
}

// Create godoc
// @Summary Create floor
// @Tags Floors
// @Accept json
// @Produce json
// @Param payload body service.FloorRequest true "Floor payload"
// @Success 201 {object} response.Envelope
// @Router /floors [post]
func (h *FloorHandler) Create(c *gin.Context) {
	var req service.FloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	floor, err := h.floors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, floor)
}

// Update godoc
// @Summary Update floor
// @Tags Floors
// @Accept json
// @Produce json
// @Param id path string true "Floor ID"
// @Param payload body service.FloorRequest true "Floor payload"
// @Success 200 {object} response.Envelope
// @Router /floors/{id} [put]
func (h *FloorHandler) Update(c *gin.Context) {
	var req service.FloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	floor, err := h.floors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, floor, nil)
}

// Delete godoc
// @Summary Delete floor
// @Tags Floors
// @Param id path string true "Floor ID"
// @Success 204
// @Router /floors/{id} [delete]
func (h *FloorHandler) Delete(c *gin.Context) {
	if err := h.floors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadPlan godoc
// @Summary Upload a floor plan image
// @Tags Floors
// @Accept mpfd
// @Produce json
// @Param id path string true "Floor ID"
// @Param file formData file true "Floor plan (png, jpg, svg or pdf)"
// @Success 200 {object} response.Envelope
// @Router /floors/{id}/plan [put]
func (h *FloorHandler) UploadPlan(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, `multipart field "file" is required`))
		return
	}
	if fileHeader.Size > maxPlanUploadBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "floor plan exceeds the 10 MiB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()

	floor, err := h.floors.UploadPlan(c.Request.Context(), c.Param("id"), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, floor, nil)
}

// PlanURL godoc
// @Summary Get a presigned download URL for the floor plan
// @Tags Floors
// @Produce json
// @Param id path string true "Floor ID"
// @Success 200 {object} response.Envelope
// @Router /floors/{id}/plan [get]
func (h *FloorHandler) PlanURL(c *gin.Context) {
	url, err := h.floors.PlanURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, url, nil)
}

// DeletePlan godoc
// @Summary Remove the floor plan
// @Tags Floors
// @Param id path string true "Floor ID"
// @Success 204
// @Router /floors/{id}/plan [delete]
func (h *FloorHandler) DeletePlan(c *gin.Context) {
	if err := h.floors.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
