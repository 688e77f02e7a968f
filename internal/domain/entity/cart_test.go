package entity

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/sangkips/billing-counter/internal/domain/enum"
	"github.com/sangkips/billing-counter/pkg/apperror"
	"github.com/shopspring/decimal"
)

func menuItem(id, name, price string) MenuItem {
	return MenuItem{ID: id, Name: name, UnitPrice: decimal.RequireFromString(price)}
}

func expectedSubtotal(c *Cart) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

func TestCartSubtotalMatchesLinesAfterEveryOperation(t *testing.T) {
	items := []MenuItem{
		menuItem("1", "Tea", "2.00"),
		menuItem("2", "Samosa", "1.50"),
		menuItem("3", "Biryani", "8.95"),
		menuItem("4", "Lassi", "3.10"),
	}
	rng := rand.New(rand.NewSource(42))
	cart := NewCart(enum.OrderTypeEatIn)

	for step := 0; step < 500; step++ {
		idx := 0
		if len(cart.Lines) > 0 {
			idx = rng.Intn(len(cart.Lines))
		}
		switch rng.Intn(4) {
		case 0:
			cart.AddItem(items[rng.Intn(len(items))])
		case 1:
			_ = cart.IncrementLine(idx)
		case 2:
			_ = cart.DecrementLine(idx)
		case 3:
			_ = cart.RemoveLine(idx)
		}

		if !cart.Subtotal().Equal(expectedSubtotal(cart)) {
			t.Fatalf("step %d: subtotal %s != sum of lines %s", step, cart.Subtotal(), expectedSubtotal(cart))
		}
		for _, l := range cart.Lines {
			if l.Quantity < 1 {
				t.Fatalf("step %d: line %s has quantity %d", step, l.Name, l.Quantity)
			}
			if !l.LineTotal.Equal(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))) {
				t.Fatalf("step %d: stale line total on %s", step, l.Name)
			}
		}
	}
}

func TestCartAddItemMergesSameItem(t *testing.T) {
	cart := NewCart(enum.OrderTypeEatIn)
	tea := menuItem("1", "Tea", "2.00")

	cart.AddItem(tea)
	cart.AddItem(tea)
	cart.AddItem(tea)
	cart.AddItem(menuItem("2", "Samosa", "1.50"))
	cart.AddItem(menuItem("2", "Samosa", "1.50"))

	if len(cart.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 3 || cart.Lines[0].LineTotal.StringFixed(2) != "6.00" {
		t.Errorf("tea line = %+v", cart.Lines[0])
	}
	if got := cart.Subtotal().StringFixed(2); got != "9.00" {
		t.Errorf("subtotal = %s, want 9.00", got)
	}
	if cart.TotalQuantity() != 5 {
		t.Errorf("total quantity = %d, want 5", cart.TotalQuantity())
	}
}

func TestCartDecrementStopsAtOne(t *testing.T) {
	cart := NewCart(enum.OrderTypeEatIn)
	cart.AddItem(menuItem("1", "Tea", "2.00"))

	if err := cart.DecrementLine(0); err != nil {
		t.Fatalf("DecrementLine: %v", err)
	}
	if cart.Lines[0].Quantity != 1 {
		t.Errorf("quantity = %d, want 1", cart.Lines[0].Quantity)
	}

	if err := cart.RemoveLine(0); err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if !cart.IsEmpty() {
		t.Error("cart should be empty after remove")
	}
}

func TestCartLineIndexOutOfRange(t *testing.T) {
	cart := NewCart(enum.OrderTypeEatIn)
	cart.AddItem(menuItem("1", "Tea", "2.00"))

	for _, idx := range []int{-1, 1, 7} {
		if err := cart.IncrementLine(idx); !errors.Is(err, apperror.ErrLineNotFound) {
			t.Errorf("IncrementLine(%d) error = %v", idx, err)
		}
		if err := cart.DecrementLine(idx); !errors.Is(err, apperror.ErrLineNotFound) {
			t.Errorf("DecrementLine(%d) error = %v", idx, err)
		}
		if err := cart.RemoveLine(idx); !errors.Is(err, apperror.ErrLineNotFound) {
			t.Errorf("RemoveLine(%d) error = %v", idx, err)
		}
	}
}

func TestCartClearKeepsOrderType(t *testing.T) {
	cart := NewCart(enum.OrderTypeTakeAway)
	cart.AddItem(menuItem("1", "Tea", "2.00"))
	cart.CustomerName = "Bob"
	_ = cart.SetDiscountPercent(decimal.NewFromInt(10))

	cart.Clear()

	if !cart.IsEmpty() || cart.CustomerName != "" || !cart.DiscountPercent.IsZero() {
		t.Errorf("cart not cleared: %+v", cart)
	}
	if cart.OrderType != enum.OrderTypeTakeAway {
		t.Errorf("order type = %v, want Take Away", cart.OrderType)
	}
}

func TestCartSetDiscountPercentBounds(t *testing.T) {
	tests := []struct {
		percent string
		wantErr bool
	}{
		{"0", false},
		{"12.5", false},
		{"100", false},
		{"-1", true},
		{"100.01", true},
	}

	for _, tt := range tests {
		t.Run(tt.percent, func(t *testing.T) {
			cart := NewCart(enum.OrderTypeEatIn)
			err := cart.SetDiscountPercent(decimal.RequireFromString(tt.percent))
			if (err != nil) != tt.wantErr {
				t.Errorf("SetDiscountPercent(%s) error = %v, wantErr %v", tt.percent, err, tt.wantErr)
			}
		})
	}
}

func TestCartSnapshotIsIndependent(t *testing.T) {
	cart := NewCart(enum.OrderTypeEatIn)
	cart.AddItem(menuItem("1", "Tea", "2.00"))

	snap := cart.Snapshot()
	_ = cart.IncrementLine(0)

	if snap.Lines[0].Quantity != 1 {
		t.Errorf("snapshot changed with cart: qty %d", snap.Lines[0].Quantity)
	}
}

func TestCartRestoreRecomputesTotals(t *testing.T) {
	cart := NewCart(enum.OrderTypeEatIn)
	cart.AddItem(menuItem("9", "Old", "1.00"))

	cart.Restore([]CartLine{{ItemID: "1", Name: "Naan", UnitPrice: decimal.RequireFromString("2.50"), Quantity: 2}}, "Ann", enum.OrderTypeTakeAway)

	if len(cart.Lines) != 1 || cart.Lines[0].LineTotal.StringFixed(2) != "5.00" {
		t.Fatalf("restored lines = %+v", cart.Lines)
	}
	if cart.CustomerName != "Ann" || cart.OrderType != enum.OrderTypeTakeAway {
		t.Errorf("restored details = %q %v", cart.CustomerName, cart.OrderType)
	}
}

func TestCartLineDecodesItemID(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"string id", `{"id":"12","qty":1}`, "12"},
		{"numeric id", `{"id":7,"qty":1}`, "7"},
		{"escaped quote", `{"id":"a\"b","qty":1}`, `a"b`},
		{"unicode escape", `{"id":"caf\u00e9","qty":1}`, "café"},
		{"null id", `{"id":null,"qty":1}`, ""},
		{"missing id", `{"qty":1}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var line CartLine
			if err := json.Unmarshal([]byte(tt.data), &line); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if line.ItemID != tt.want {
				t.Errorf("ItemID = %q, want %q", line.ItemID, tt.want)
			}
			if line.Quantity != 1 {
				t.Errorf("Quantity = %d, want 1", line.Quantity)
			}
		})
	}
}
