package entity

import (
	"time"

	"github.com/sangkips/billing-counter/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// FinalizedOrder is an order the backend has accepted and numbered. It is
// also the normalised shape of records read back for previous orders.
type FinalizedOrder struct {
	OrderNumber     int                `json:"order_number"`
	OrderType       enum.OrderType     `json:"order_type"`
	CustomerName    string             `json:"customer_name"`
	ServerName      string             `json:"server_name"`
	Items           []CartLine         `json:"items"`
	Subtotal        decimal.Decimal    `json:"total_amount"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	FinalAmount     decimal.Decimal    `json:"final_amount"`
	PaymentMethod   enum.PaymentMethod `json:"payment_method"`
	CreatedAtUTC    time.Time          `json:"created_at"`
	DisplayDate     string             `json:"date"`
}

// OrderSubmission is what the counter sends when placing an order.
type OrderSubmission struct {
	CustomerName    string
	ServerName      string
	OrderType       enum.OrderType
	Items           []CartLine
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	FinalAmount     decimal.Decimal
	PaymentMethod   enum.PaymentMethod
	CreatedAtUTC    time.Time
	DisplayDate     string
	IdempotencyKey  string
}

// OrderConfirmation carries the backend-assigned fields of a new order.
type OrderConfirmation struct {
	OrderNumber int
	DisplayDate string
	OrderType   string
}
