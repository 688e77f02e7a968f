package entity

import (
	"bytes"
	"encoding/json"

	"github.com/sangkips/billing-counter/internal/domain/enum"
	"github.com/sangkips/billing-counter/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CartLine is one menu item and its quantity. Item data is copied in, so a
// catalog refresh never changes a line already in the cart.
type CartLine struct {
	ItemID    string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"qty"`
	LineTotal decimal.Decimal `json:"total"`
}

// UnmarshalJSON accepts numeric item ids as written by older terminals.
func (l *CartLine) UnmarshalJSON(data []byte) error {
	type plain CartLine
	var aux struct {
		plain
		ItemID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = CartLine(aux.plain)
	l.ItemID = ""
	if len(aux.ItemID) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(aux.ItemID))
	dec.UseNumber()
	var id any
	if err := dec.Decode(&id); err != nil {
		return err
	}
	switch v := id.(type) {
	case string:
		l.ItemID = v
	case json.Number:
		l.ItemID = v.String()
	}
	return nil
}

func (l *CartLine) recompute() {
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the order currently being composed at the counter.
type Cart struct {
	Lines           []CartLine      `json:"lines"`
	CustomerName    string          `json:"customer_name"`
	OrderType       enum.OrderType  `json:"order_type"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

func NewCart(orderType enum.OrderType) *Cart {
	return &Cart{OrderType: orderType}
}

// AddItem bumps the quantity of an existing line for the item or appends a
// new line with quantity 1.
func (c *Cart) AddItem(item MenuItem) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == item.ID {
			c.Lines[i].Quantity++
			c.Lines[i].recompute()
			return
		}
	}
	line := CartLine{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Quantity:  1,
	}
	line.recompute()
	c.Lines = append(c.Lines, line)
}

func (c *Cart) IncrementLine(index int) error {
	if !c.validIndex(index) {
		return apperror.ErrLineNotFound
	}
	c.Lines[index].Quantity++
	c.Lines[index].recompute()
	return nil
}

// DecrementLine never drops a line below quantity 1. RemoveLine is the only
// way to delete a line.
func (c *Cart) DecrementLine(index int) error {
	if !c.validIndex(index) {
		return apperror.ErrLineNotFound
	}
	if c.Lines[index].Quantity <= 1 {
		return nil
	}
	c.Lines[index].Quantity--
	c.Lines[index].recompute()
	return nil
}

func (c *Cart) RemoveLine(index int) error {
	if !c.validIndex(index) {
		return apperror.ErrLineNotFound
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	return nil
}

// Clear empties the lines and resets customer and discount. The order type
// is kept.
func (c *Cart) Clear() {
	c.Lines = nil
	c.CustomerName = ""
	c.DiscountPercent = decimal.Zero
}

func (c *Cart) SetDiscountPercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "discount_percent", Message: "must be between 0 and 100"},
		})
	}
	c.DiscountPercent = percent
	return nil
}

// Restore replaces the cart contents with previously held lines.
func (c *Cart) Restore(lines []CartLine, customerName string, orderType enum.OrderType) {
	c.Clear()
	c.Lines = CopyLines(lines)
	for i := range c.Lines {
		c.Lines[i].recompute()
	}
	c.CustomerName = customerName
	c.OrderType = orderType
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal)
	}
	return total
}

func (c *Cart) TotalQuantity() int {
	return TotalQuantity(c.Lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Snapshot returns a deep copy of the cart safe to hand out of the lock.
func (c *Cart) Snapshot() Cart {
	cp := *c
	cp.Lines = CopyLines(c.Lines)
	return cp
}

func (c *Cart) validIndex(index int) bool {
	return index >= 0 && index < len(c.Lines)
}

func CopyLines(lines []CartLine) []CartLine {
	if lines == nil {
		return []CartLine{}
	}
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

func TotalQuantity(lines []CartLine) int {
	qty := 0
	for _, line := range lines {
		qty += line.Quantity
	}
	return qty
}
