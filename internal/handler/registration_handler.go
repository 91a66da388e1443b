package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arturffsantos/gympoint/internal/models"
	"github.com/arturffsantos/gympoint/internal/service"
	appErrors "github.com/arturffsantos/gympoint/pkg/errors"
	"github.com/arturffsantos/gympoint/pkg/export"
	"github.com/arturffsantos/gympoint/pkg/response"
)

// RegistrationHandler exposes plan enrollment endpoints. The same handler
// serves both the /registrations and /enrollments route families.
type RegistrationHandler struct {
	registrations *service.RegistrationService
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registrations *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

// List godoc
// @Summary List registrations
// @Tags Registrations
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	var filter models.RegistrationFilter
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	registrations, pagination, err := h.registrations.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registrations, pagination)
}

// Create godoc
// @Summary Create registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body service.RegistrationRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req service.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, appErrors.ErrValidation.Message))
		return
	}
	registration, err := h.registrations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, registration)
}

// Update godoc
// @Summary Update registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Param id path string true "Registration ID"
// @Param payload body service.RegistrationRequest true "Registration payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrations/{id} [put]
func (h *RegistrationHandler) Update(c *gin.Context) {
	var req service.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, appErrors.ErrValidation.Message))
		return
	}
	registration, err := h.registrations.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registration, nil)
}

// Export godoc
// @Summary Export the registration roster
// @Tags Registrations
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /registrations/export [get]
func (h *RegistrationHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, appErrors.ErrValidation.Message))
		return
	}

	doc, contentType, err := h.registrations.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="registrations.`+string(format)+`"`)
	c.Data(http.StatusOK, contentType, doc)
}

// Delete godoc
// @Summary Cancel registration
// @Tags Registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrations/{id} [delete]
func (h *RegistrationHandler) Delete(c *gin.Context) {
	registration, err := h.registrations.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registration, nil)
}
