package backend

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNormalizeVeg(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want bool
	}{
		{"true bool", true, true},
		{"false bool", false, false},
		{"nil", nil, false},
		{"one", float64(1), true},
		{"zero", float64(0), false},
		{"two", float64(2), false},
		{"json number one", json.Number("1"), true},
		{"veg token", "veg", true},
		{"v token padded", "  V ", true},
		{"yes token", "Yes", true},
		{"string one", "1", true},
		{"non-veg token", "non-veg", false},
		{"nv token", "NV", false},
		{"string zero", "0", false},
		{"unknown token", "vegan-ish", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeVeg(tt.raw); got != tt.want {
				t.Errorf("NormalizeVeg(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeVegIsIdempotent(t *testing.T) {
	inputs := []any{true, false, nil, float64(1), float64(0), "veg", "v", "nv", "no", "garbage", json.Number("1")}
	for _, in := range inputs {
		once := NormalizeVeg(in)
		if twice := NormalizeVeg(once); twice != once {
			t.Errorf("NormalizeVeg(NormalizeVeg(%v)) = %v, want %v", in, twice, once)
		}
	}
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"plain string", "Starters", "Starters"},
		{"object with name", map[string]any{"id": 3, "name": "Curries"}, "Curries"},
		{"object with title", map[string]any{"title": "Drinks"}, "Drinks"},
		{"name wins over title", map[string]any{"name": "A", "title": "B"}, "A"},
		{"empty object", map[string]any{}, ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveCategory(tt.raw); got != tt.want {
				t.Errorf("ResolveCategory() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCoerceDecimal(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"number", float64(4.5), "4.50"},
		{"json number", json.Number("12.25"), "12.25"},
		{"numeric string", "3.10", "3.10"},
		{"string with suffix", "4.50 GBP", "4.50"},
		{"garbage string", "free", "0.00"},
		{"nil", nil, "0.00"},
		{"NaN", math.NaN(), "0.00"},
		{"infinity", math.Inf(1), "0.00"},
		{"bool", true, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceDecimal(tt.raw).StringFixed(2); got != tt.want {
				t.Errorf("CoerceDecimal(%v) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeMenuItemVegFieldOrder(t *testing.T) {
	raw := map[string]any{
		"id":       json.Number("7"),
		"name":     "Paneer Tikka",
		"price":    "6.95",
		"is_veg":   "veg",
		"type":     "nv",
		"category": map[string]any{"name": "Starters"},
	}

	item := normalizeMenuItem(raw)

	if item.ID != "7" || item.Name != "Paneer Tikka" || item.Category != "Starters" {
		t.Errorf("item = %+v", item)
	}
	if !item.IsVeg {
		t.Error("is_veg should be consulted before type")
	}
	if item.UnitPrice.StringFixed(2) != "6.95" {
		t.Errorf("price = %s", item.UnitPrice)
	}
}

func TestNormalizeMenuItemClampsNegativePrice(t *testing.T) {
	tests := []struct {
		name  string
		price any
		want  string
	}{
		{"negative number", json.Number("-3.50"), "0.00"},
		{"negative string", "-2", "0.00"},
		{"negative with unit", "-4.50 GBP", "0.00"},
		{"zero", json.Number("0"), "0.00"},
		{"positive", "4.50 GBP", "4.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := normalizeMenuItem(map[string]any{"id": "1", "name": "Naan", "price": tt.price})
			if got := item.UnitPrice.StringFixed(2); got != tt.want {
				t.Errorf("price = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNormalizeOrderFallbackFields(t *testing.T) {
	raw := map[string]any{
		"orderNo":     "1042",
		"customer":    "Priya",
		"payment":     "card",
		"subtotal":    json.Number("12.00"),
		"grand_total": json.Number("10.80"),
		"createdAt":   "2025-03-01T18:30:00Z",
		"items": []any{
			map[string]any{"name": "Tea", "price": json.Number("2"), "qty": json.Number("3")},
		},
	}

	o := normalizeOrder(raw)

	if o.OrderNumber != 1042 || o.CustomerName != "Priya" || o.PaymentMethod.String() != "Card" {
		t.Errorf("order = %+v", o)
	}
	if o.Subtotal.StringFixed(2) != "12.00" || o.FinalAmount.StringFixed(2) != "10.80" {
		t.Errorf("amounts = %s / %s", o.Subtotal, o.FinalAmount)
	}
	if o.DisplayDate != "2025-03-01T18:30:00Z" || o.CreatedAtUTC.IsZero() {
		t.Errorf("dates = %q / %v", o.DisplayDate, o.CreatedAtUTC)
	}
	if len(o.Items) != 1 || o.Items[0].LineTotal.StringFixed(2) != "6.00" {
		t.Errorf("items = %+v", o.Items)
	}
}

func TestNormalizeOrderDefaultsPaymentToCash(t *testing.T) {
	o := normalizeOrder(map[string]any{"order_number": json.Number("1001")})
	if o.PaymentMethod.String() != "Cash" {
		t.Errorf("payment = %q, want Cash", o.PaymentMethod)
	}
	if o.Items == nil {
		t.Error("items should be an empty slice, not nil")
	}
}
