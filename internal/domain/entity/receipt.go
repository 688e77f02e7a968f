package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the business identity printed at the top of a receipt.
type ReceiptHeader struct {
	BusinessName string `json:"business_name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a value object composed from an order at print time. It is
// never persisted.
type Receipt struct {
	Header          ReceiptHeader   `json:"header"`
	Title           string          `json:"title"`
	OrderNumber     string          `json:"order_number"`
	OrderType       string          `json:"order_type"`
	Customer        string          `json:"customer"`
	PaymentMethod   string          `json:"payment_method"`
	Date            string          `json:"date"`
	Items           []ReceiptItem   `json:"items"`
	TotalQuantity   int             `json:"total_qty"`
	SubTotal        decimal.Decimal `json:"sub_total"`
	VATPercent      decimal.Decimal `json:"vat_percent"`
	VAT             decimal.Decimal `json:"vat"`
	ServicePercent  decimal.Decimal `json:"service_percent"`
	ServiceCharge   decimal.Decimal `json:"service_charge"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Discount        decimal.Decimal `json:"discount"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	Staff           string          `json:"staff,omitempty"`
	CurrencySymbol  string          `json:"currency_symbol"`
}

// HasDiscount reports whether the discount line should be printed.
func (r *Receipt) HasDiscount() bool {
	return r.DiscountPercent.IsPositive()
}
