package backend

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// This file is the only place that sees raw backend shapes. Everything it
// returns is a strict entity type.

var vegTokens = map[string]bool{"true": true, "1": true, "yes": true, "y": true, "veg": true, "v": true}

// vegFields are checked in order; the first present one decides.
var vegFields = []string{"veg", "isVeg", "is_veg", "type", "category_type"}

// NormalizeVeg maps the assorted veg markers the backend has used to a bool.
// Anything unrecognised or absent is non-veg.
func NormalizeVeg(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v == 1
	case int:
		return v == 1
	case int64:
		return v == 1
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 1
	}
	return vegTokens[strings.ToLower(strings.TrimSpace(fmt.Sprint(raw)))]
}

// ResolveCategory returns a plain label for a category given either as a
// string or as an object with a name or title.
func ResolveCategory(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		for _, key := range []string{"name", "title"} {
			if s, ok := v[key]; ok && s != nil {
				return fmt.Sprint(s)
			}
		}
		return ""
	}
	return fmt.Sprint(raw)
}

// CoerceDecimal parses a number or numeric string. Unparseable, NaN and
// infinite values become zero.
func CoerceDecimal(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return leadingNumber(v)
		}
		return d
	}
	return decimal.Zero
}

// leadingNumber reads the numeric prefix of strings like "4.50 GBP".
func leadingNumber(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			break scan
		}
	}
	if end == 0 {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s[:end])
	if err != nil {
		return decimal.Zero
	}
	return d
}

func coerceInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
		if f, err := v.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func coerceString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(raw)
}

// first returns the first non-nil value among keys.
func first(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// normalizeMenuItem maps a backend menu record. Negative prices are read as
// zero.
func normalizeMenuItem(raw map[string]any) entity.MenuItem {
	price := CoerceDecimal(raw["price"])
	if price.IsNegative() {
		price = decimal.Zero
	}
	return entity.MenuItem{
		ID:        coerceString(first(raw, "id", "_id")),
		Name:      coerceString(raw["name"]),
		UnitPrice: price,
		IsVeg:     NormalizeVeg(first(raw, vegFields...)),
		Category:  ResolveCategory(raw["category"]),
	}
}

func normalizeCategory(raw any) string {
	if m, ok := raw.(map[string]any); ok {
		if v := first(m, "name", "title"); v != nil {
			return coerceString(v)
		}
	}
	return ResolveCategory(raw)
}

func normalizeLine(raw map[string]any) entity.CartLine {
	qty, _ := coerceInt(first(raw, "qty", "quantity"))
	line := entity.CartLine{
		ItemID:    coerceString(first(raw, "id", "item_id")),
		Name:      coerceString(raw["name"]),
		UnitPrice: CoerceDecimal(raw["price"]),
		Quantity:  qty,
	}
	if total, ok := raw["total"]; ok && total != nil {
		line.LineTotal = CoerceDecimal(total)
	} else {
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	}
	return line
}

// normalizeOrder reads the field names used across backend versions.
func normalizeOrder(raw map[string]any) entity.FinalizedOrder {
	number, _ := coerceInt(first(raw, "order_number", "orderNo", "orderId"))

	orderType, err := enum.ParseOrderType(coerceString(raw["order_type"]))
	if err != nil {
		orderType = enum.OrderTypeEatIn
	}
	payment, err := enum.ParsePaymentMethod(coerceString(first(raw, "payment_method", "payment")))
	if err != nil || !payment.IsSelected() {
		payment = enum.PaymentMethodCash
	}

	order := entity.FinalizedOrder{
		OrderNumber:     number,
		OrderType:       orderType,
		CustomerName:    coerceString(first(raw, "customer_name", "customer")),
		ServerName:      coerceString(first(raw, "server_name", "server")),
		Items:           []entity.CartLine{},
		Subtotal:        CoerceDecimal(first(raw, "total_amount", "subtotal")),
		DiscountPercent: CoerceDecimal(first(raw, "discount_percent", "discountPercent")),
		DiscountAmount:  CoerceDecimal(first(raw, "discount_amount", "discountAmount")),
		FinalAmount:     CoerceDecimal(first(raw, "final_amount", "grand_total", "total")),
		PaymentMethod:   payment,
		DisplayDate:     coerceString(first(raw, "date", "created_at", "createdAt")),
	}

	if created := coerceString(first(raw, "created_at", "createdAt")); created != "" {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			order.CreatedAtUTC = t.UTC()
		}
	}

	if items, ok := raw["items"].([]any); ok {
		for _, it := range items {
			if m, ok := it.(map[string]any); ok {
				order.Items = append(order.Items, normalizeLine(m))
			}
		}
	}
	return order
}
