package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/application/service"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/response"
)

// HeldOrderHandler parks and resumes carts
type HeldOrderHandler struct {
	heldService *service.HeldOrderService
}

// NewHeldOrderHandler creates a new held order handler
func NewHeldOrderHandler(heldService *service.HeldOrderService) *HeldOrderHandler {
	return &HeldOrderHandler{heldService: heldService}
}

// List returns the held orders
// @Summary Held orders
// @Tags held-orders
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /held-orders [get]
func (h *HeldOrderHandler) List(c *gin.Context) {
	orders, err := h.heldService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Held orders retrieved successfully", orders)
}

// Hold parks the current cart
// @Summary Hold cart
// @Tags held-orders
// @Security BearerAuth
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /held-orders [post]
func (h *HeldOrderHandler) Hold(c *gin.Context) {
	held, err := h.heldService.Hold(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order held as "+held.DisplayNumber, held)
}

// Get returns one held order
// @Summary Held order
// @Tags held-orders
// @Security BearerAuth
// @Param id path int true "held order id"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /held-orders/{id} [get]
func (h *HeldOrderHandler) Get(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	held, err := h.heldService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Held order retrieved successfully", held)
}

// Resume loads the held order into the cart, replacing its contents
// @Summary Resume held order
// @Tags held-orders
// @Security BearerAuth
// @Param id path int true "held order id"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /held-orders/{id}/resume [post]
func (h *HeldOrderHandler) Resume(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	state, err := h.heldService.Resume(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Held order resumed", state)
}

// Delete discards a held order
// @Summary Delete held order
// @Tags held-orders
// @Security BearerAuth
// @Param id path int true "held order id"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /held-orders/{id} [delete]
func (h *HeldOrderHandler) Delete(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.heldService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Held order deleted", nil)
}

// ClearAll discards every held order
// @Summary Clear held orders
// @Tags held-orders
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /held-orders [delete]
func (h *HeldOrderHandler) ClearAll(c *gin.Context) {
	if err := h.heldService.ClearAll(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "All held orders cleared", nil)
}

// Print prints a slip for the held order
// @Summary Print held order
// @Tags held-orders
// @Security BearerAuth
// @Param id path int true "held order id"
// @Success 200 {object} response.APIResponse
// @Router /held-orders/{id}/print [post]
func (h *HeldOrderHandler) Print(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	receipt, warning, err := h.heldService.PrintHeld(c.Request.Context(), id)
	writePrintResult(c, "Held order slip", receipt, warning, err)
}
