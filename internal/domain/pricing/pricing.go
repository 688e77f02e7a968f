// Package pricing derives the money figures shown for a cart: the tax and
// service already included in menu prices, the discount and the grand total.
//
// Nothing here rounds. Figures are rounded to two places when rendered.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Rates are the inclusive percentages configured for the deployment.
// InclusiveBase is the divisor used to extract each included figure; it is
// applied to VAT and service separately.
type Rates struct {
	VATPercent     decimal.Decimal
	ServicePercent decimal.Decimal
	InclusiveBase  decimal.Decimal
}

// NewRates builds Rates from configuration values. A non-positive base
// falls back to 100 plus both rates.
func NewRates(vatPercent, servicePercent, inclusiveBase float64) Rates {
	r := Rates{
		VATPercent:     decimal.NewFromFloat(vatPercent),
		ServicePercent: decimal.NewFromFloat(servicePercent),
		InclusiveBase:  decimal.NewFromFloat(inclusiveBase),
	}
	if !r.InclusiveBase.IsPositive() {
		r.InclusiveBase = hundred.Add(r.VATPercent).Add(r.ServicePercent)
	}
	return r
}

func DefaultRates() Rates {
	return NewRates(20, 8, 105)
}

type Breakdown struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	IncludedVAT     decimal.Decimal `json:"included_vat"`
	IncludedService decimal.Decimal `json:"included_service"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
}

// Compute returns the breakdown for subtotal s and discount percent d.
// The included figures are a display aid: they are not guaranteed to sum
// to the tax-exclusive remainder of s.
func Compute(subtotal, discountPercent decimal.Decimal, r Rates) Breakdown {
	discount := subtotal.Mul(discountPercent).Div(hundred)
	return Breakdown{
		Subtotal:        subtotal,
		IncludedVAT:     Included(subtotal, r.VATPercent, r.InclusiveBase),
		IncludedService: Included(subtotal, r.ServicePercent, r.InclusiveBase),
		DiscountPercent: discountPercent,
		DiscountAmount:  discount,
		GrandTotal:      subtotal.Sub(discount),
	}
}

// Included extracts amount*rate/base.
func Included(amount, rate, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return amount.Mul(rate).Div(base)
}
