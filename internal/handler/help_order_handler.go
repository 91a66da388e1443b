package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arturffsantos/gympoint/internal/service"
	appErrors "github.com/arturffsantos/gympoint/pkg/errors"
	"github.com/arturffsantos/gympoint/pkg/response"
)

// HelpOrderHandler exposes help desk endpoints. Students create and read
// their own questions; staff list pending ones and answer them.
type HelpOrderHandler struct {
	helpOrders *service.HelpOrderService
}

// NewHelpOrderHandler constructs HelpOrderHandler.
func NewHelpOrderHandler(helpOrders *service.HelpOrderService) *HelpOrderHandler {
	return &HelpOrderHandler{helpOrders: helpOrders}
}

// ListByStudent godoc
// @Summary List help orders for a student
// @Tags HelpOrders
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/help-orders [get]
func (h *HelpOrderHandler) ListByStudent(c *gin.Context) {
	orders, err := h.helpOrders.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, orders, nil)
}

// Create godoc
// @Summary Create help order
// @Tags HelpOrders
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param payload body service.CreateHelpOrderRequest true "Question payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/{studentId}/help-orders [post]
func (h *HelpOrderHandler) Create(c *gin.Context) {
	var req service.CreateHelpOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, appErrors.ErrValidation.Message))
		return
	}
	order, err := h.helpOrders.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// ListUnanswered godoc
// @Summary List unanswered help orders
// @Tags HelpOrders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /answers [get]
func (h *HelpOrderHandler) ListUnanswered(c *gin.Context) {
	orders, err := h.helpOrders.ListUnanswered(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, orders, nil)
}

// Answer godoc
// @Summary Answer a help order
// @Tags HelpOrders
// @Accept json
// @Produce json
// @Param id path string true "Help order ID"
// @Param payload body service.AnswerHelpOrderRequest true "Answer payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /answers/{id} [post]
func (h *HelpOrderHandler) Answer(c *gin.Context) {
	var req service.AnswerHelpOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, appErrors.ErrValidation.Message))
		return
	}
	order, err := h.helpOrders.Answer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}
