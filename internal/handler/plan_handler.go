package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arturffsantos/gympoint/internal/models"
	"github.com/arturffsantos/gympoint/internal/service"
	appErrors "github.com/arturffsantos/gympoint/pkg/errors"
	"github.com/arturffsantos/gympoint/pkg/response"
)

// PlanHandler exposes membership plan endpoints.
type PlanHandler struct {
	plans *service.PlanService
}

// NewPlanHandler constructs PlanHandler.
func NewPlanHandler(plans *service.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// List godoc
// @Summary List plans
// @Tags Plans
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	var filter models.PlanFilter
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	plans, pagination, err := h.plans.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, pagination)
}

// Create godoc
// @Summary Create plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body service.CreatePlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	var req service.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, appErrors.ErrValidation.Message))
		return
	}
	plan, err := h.plans.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// Update godoc
// @Summary Update plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body service.UpdatePlanRequest true "Plan payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{id} [put]
func (h *PlanHandler) Update(c *gin.Context) {
	var req service.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, appErrors.ErrValidation.Message))
		return
	}
	plan, err := h.plans.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Delete godoc
// @Summary Delete plan
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /plans/{id} [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	plan, err := h.plans.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}
