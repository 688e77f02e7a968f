package request

import "github.com/shopspring/decimal"

// AddItemRequest adds one unit of a menu item to the cart.
type AddItemRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

// CartDetailsRequest updates order-level fields. Omitted fields are left as
// they are.
type CartDetailsRequest struct {
	CustomerName    *string          `json:"customer_name"`
	OrderType       *string          `json:"order_type"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
}

// PaymentMethodRequest selects how the customer pays.
type PaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}
