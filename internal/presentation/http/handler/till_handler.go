package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/application/service"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/request"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/response"
)

// TillHandler opens and closes the till
type TillHandler struct {
	tillService *service.TillService
}

// NewTillHandler creates a new till handler
func NewTillHandler(tillService *service.TillService) *TillHandler {
	return &TillHandler{tillService: tillService}
}

// Status reports whether the till is open
// @Summary Till status
// @Tags till
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /till [get]
func (h *TillHandler) Status(c *gin.Context) {
	till, err := h.tillService.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Till status retrieved", till)
}

// Open opens the till after re-checking the operator's credentials
// @Summary Open till
// @Tags till
// @Security BearerAuth
// @Param request body request.TillCredentialsRequest true "Operator credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /till/open [post]
func (h *TillHandler) Open(c *gin.Context) {
	var req request.TillCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	till, err := h.tillService.Open(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Till opened", till)
}

// Close closes the till after re-checking the operator's credentials
// @Summary Close till
// @Tags till
// @Security BearerAuth
// @Param request body request.TillCredentialsRequest true "Operator credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /till/close [post]
func (h *TillHandler) Close(c *gin.Context) {
	var req request.TillCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	till, err := h.tillService.Close(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Till closed", till)
}
