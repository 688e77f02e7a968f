package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/application/service"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-counter/pkg/pagination"
)

// OrderHandler serves previous orders
type OrderHandler struct {
	historyService *service.OrderHistoryService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(historyService *service.OrderHistoryService) *OrderHandler {
	return &OrderHandler{historyService: historyService}
}

// List handles listing previous orders, most recent first
// @Summary Previous orders
// @Tags orders
// @Security BearerAuth
// @Param search query string false "order number, customer or payment method"
// @Param date query string false "YYYY-MM-DD"
// @Param page query int false "page"
// @Param per_page query int false "page size (max 100)"
// @Success 200 {object} response.APIResponse
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter service.OrderHistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.historyService.List(c.Request.Context(), filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// Get returns one previous order by its number
// @Summary Previous order
// @Tags orders
// @Security BearerAuth
// @Param number path int true "order number"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /orders/{number} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	number, ok := intParam(c, "number")
	if !ok {
		return
	}
	order, err := h.historyService.Get(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order retrieved successfully", order)
}

// Print reprints the receipt of a previous order
// @Summary Reprint receipt
// @Tags orders
// @Security BearerAuth
// @Param number path int true "order number"
// @Success 200 {object} response.APIResponse
// @Router /orders/{number}/print [post]
func (h *OrderHandler) Print(c *gin.Context) {
	number, ok := intParam(c, "number")
	if !ok {
		return
	}
	receipt, warning, err := h.historyService.Reprint(c.Request.Context(), number)
	writePrintResult(c, "Order receipt", receipt, warning, err)
}
