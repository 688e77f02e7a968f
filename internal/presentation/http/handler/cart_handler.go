package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/application/service"
	"github.com/sangkips/billing-counter/internal/domain/enum"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/request"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-counter/pkg/apperror"
)

// CartHandler handles the order being composed at the counter
type CartHandler struct {
	billingService *service.BillingService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(billingService *service.BillingService) *CartHandler {
	return &CartHandler{billingService: billingService}
}

// Get returns the cart with its pricing breakdown and pending order number
// @Summary Cart
// @Tags cart
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	response.OK(c, "Cart retrieved successfully", h.billingService.State())
}

// AddItem adds one unit of a menu item
// @Summary Add item
// @Tags cart
// @Security BearerAuth
// @Param request body request.AddItemRequest true "Menu item"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	state, err := h.billingService.AddItem(req.ItemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added", state)
}

// IncrementLine adds one to the line's quantity
// @Summary Increment line
// @Tags cart
// @Security BearerAuth
// @Param index path int true "line index"
// @Success 200 {object} response.APIResponse
// @Router /cart/lines/{index}/increment [post]
func (h *CartHandler) IncrementLine(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	h.respond(c, "Line updated")(h.billingService.IncrementLine(index))
}

// DecrementLine takes one from the line's quantity, never below one
// @Summary Decrement line
// @Tags cart
// @Security BearerAuth
// @Param index path int true "line index"
// @Success 200 {object} response.APIResponse
// @Router /cart/lines/{index}/decrement [post]
func (h *CartHandler) DecrementLine(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	h.respond(c, "Line updated")(h.billingService.DecrementLine(index))
}

// RemoveLine deletes the line
// @Summary Remove line
// @Tags cart
// @Security BearerAuth
// @Param index path int true "line index"
// @Success 200 {object} response.APIResponse
// @Router /cart/lines/{index} [delete]
func (h *CartHandler) RemoveLine(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	h.respond(c, "Line removed")(h.billingService.RemoveLine(index))
}

// UpdateDetails sets customer name, order type and discount
// @Summary Update cart details
// @Tags cart
// @Security BearerAuth
// @Param request body request.CartDetailsRequest true "Cart details"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /cart/details [put]
func (h *CartHandler) UpdateDetails(c *gin.Context) {
	var req request.CartDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	details := service.CartDetails{
		DiscountPercent: req.DiscountPercent,
	}
	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		details.CustomerName = &name
	}
	if req.OrderType != nil {
		orderType, err := enum.ParseOrderType(*req.OrderType)
		if err != nil {
			response.ValidationError(c, []apperror.FieldError{
				{Field: "order_type", Message: "must be Eat In or Take Away"},
			})
			return
		}
		details.OrderType = &orderType
	}

	h.respond(c, "Cart updated")(h.billingService.UpdateDetails(details))
}

// SetPaymentMethod selects Cash or Card
// @Summary Select payment method
// @Tags cart
// @Security BearerAuth
// @Param request body request.PaymentMethodRequest true "Payment method"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /cart/payment-method [put]
func (h *CartHandler) SetPaymentMethod(c *gin.Context) {
	var req request.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	method, err := enum.ParsePaymentMethod(req.PaymentMethod)
	if err != nil || !method.IsSelected() {
		response.ValidationError(c, []apperror.FieldError{
			{Field: "payment_method", Message: "must be Cash or Card"},
		})
		return
	}

	h.respond(c, "Payment method selected")(h.billingService.SelectPaymentMethod(c.Request.Context(), method))
}

// Clear empties the cart
// @Summary Clear cart
// @Tags cart
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	h.respond(c, "Cart cleared")(h.billingService.Clear(c.Request.Context()))
}

// Finalize places the order with the backend and prints the receipt. A
// printer failure still answers 201 with print_warning set.
// @Summary Place order
// @Tags cart
// @Security BearerAuth
// @Param Idempotency-Key header string false "retry key"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /cart/finalize [post]
func (h *CartHandler) Finalize(c *gin.Context) {
	result, err := h.billingService.Finalize(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Order placed successfully"
	if result.PrintWarning != "" {
		message = "Order placed but the receipt was not printed"
	}
	response.Created(c, message, result)
}

// respond writes the cart state or the error from a cart operation.
func (h *CartHandler) respond(c *gin.Context, message string) func(service.CartState, error) {
	return func(state service.CartState, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, message, state)
	}
}
