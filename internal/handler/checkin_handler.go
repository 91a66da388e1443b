package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arturffsantos/gympoint/internal/service"
	"github.com/arturffsantos/gympoint/pkg/response"
)

// CheckinHandler exposes gym-visit endpoints.
type CheckinHandler struct {
	checkins *service.CheckinService
}

// NewCheckinHandler constructs CheckinHandler.
func NewCheckinHandler(checkins *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkins: checkins}
}

// List godoc
// @Summary List checkins for a student
// @Tags Checkins
// @Produce json
// @Param studentId path string true "Student ID"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/checkins [get]
func (h *CheckinHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	checkins, pagination, err := h.checkins.List(c.Request.Context(), c.Param("id"), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, checkins, pagination)
}

// Create godoc
// @Summary Record a checkin
// @Tags Checkins
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{studentId}/checkins [post]
func (h *CheckinHandler) Create(c *gin.Context) {
	checkin, err := h.checkins.Create(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, checkin)
}
