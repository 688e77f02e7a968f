package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/billing-counter/internal/domain/enum"
	"github.com/sangkips/billing-counter/internal/infrastructure/events"
	"github.com/sangkips/billing-counter/pkg/apperror"
)

func TestHoldRequiresOpenTillAndLines(t *testing.T) {
	c := newCounter(t)
	ctx := context.Background()

	c.add(t, "1")
	if _, err := c.held.Hold(ctx); !errors.Is(err, apperror.ErrTillClosed) {
		t.Errorf("error = %v, want ErrTillClosed", err)
	}

	c.openTill(t)
	if _, err := c.billing.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := c.held.Hold(ctx); !errors.Is(err, apperror.ErrEmptyCart) {
		t.Errorf("error = %v, want ErrEmptyCart", err)
	}
	list, err := c.held.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("held list = %d entries after failed holds", len(list))
	}
}

func TestHoldNumbersAndClearsCart(t *testing.T) {
	c := newCounter(t)
	ctx := context.Background()
	c.openTill(t)
	fixed := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	c.held.now = func() time.Time { return fixed }

	c.add(t, "1", "2")
	first, err := c.held.Hold(ctx)
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}
	c.add(t, "3")
	second, err := c.held.Hold(ctx)
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}

	if first.DisplayNumber != "H1001" || second.DisplayNumber != "H1002" {
		t.Errorf("display numbers = %s, %s", first.DisplayNumber, second.DisplayNumber)
	}
	if first.ID != fixed.UnixMilli() {
		t.Errorf("id = %d, want the hold timestamp in ms", first.ID)
	}
	if first.ID == second.ID {
		t.Error("holds in the same millisecond share an id")
	}
	if first.Date != "01/07/2024 10:00:00" {
		t.Errorf("date = %q", first.Date)
	}
	if len(c.billing.State().Cart.Lines) != 0 {
		t.Error("cart not cleared by hold")
	}

	list, err := c.held.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || len(list[0].Items) != 2 {
		t.Errorf("held list = %+v", list)
	}

	found := false
	for _, typ := range c.publisher.types() {
		if typ == events.EventOrderHeld {
			found = true
		}
	}
	if !found {
		t.Error("no order.held event published")
	}
}

func TestResumeRestoresCart(t *testing.T) {
	c := newCounter(t)
	ctx := context.Background()
	c.openTill(t)

	c.add(t, "2", "2")
	name := "Ravi"
	takeAway := enum.OrderTypeTakeAway
	discount := dec("15")
	if _, err := c.billing.UpdateDetails(CartDetails{CustomerName: &name, OrderType: &takeAway, DiscountPercent: &discount}); err != nil {
		t.Fatal(err)
	}
	held, err := c.held.Hold(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// something else in the cart is replaced by the resumed order
	c.add(t, "4")
	state, err := c.held.Resume(ctx, held.ID)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}

	if len(state.Cart.Lines) != 1 || state.Cart.Lines[0].ItemID != "2" || state.Cart.Lines[0].Quantity != 2 {
		t.Errorf("lines = %+v", state.Cart.Lines)
	}
	if got := state.Cart.Lines[0].LineTotal.StringFixed(2); got != "17.00" {
		t.Errorf("line total = %s, want 17.00", got)
	}
	if state.Cart.CustomerName != "Ravi" || state.Cart.OrderType != enum.OrderTypeTakeAway {
		t.Errorf("customer/type = %q/%v", state.Cart.CustomerName, state.Cart.OrderType)
	}
	if !state.Cart.DiscountPercent.IsZero() {
		t.Errorf("discount = %s, want it not restored", state.Cart.DiscountPercent)
	}

	list, err := c.held.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("resumed order still held: %+v", list)
	}

	if _, err := c.held.Resume(ctx, held.ID); !errors.Is(err, apperror.ErrHeldOrderNotFound) {
		t.Errorf("second resume error = %v, want ErrHeldOrderNotFound", err)
	}
}

func TestDeleteAndClearAllHeld(t *testing.T) {
	c := newCounter(t)
	ctx := context.Background()
	c.openTill(t)

	ids := make([]int64, 0, 3)
	for _, item := range []string{"1", "2", "3"} {
		c.add(t, item)
		held, err := c.held.Hold(ctx)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, held.ID)
	}

	if err := c.held.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.held.Delete(ctx, ids[1]); !errors.Is(err, apperror.ErrHeldOrderNotFound) {
		t.Errorf("second delete error = %v", err)
	}
	list, _ := c.held.List(ctx)
	if len(list) != 2 || list[0].ID != ids[0] || list[1].ID != ids[2] {
		t.Errorf("list after delete = %+v", list)
	}

	if err := c.held.ClearAll(ctx); err != nil {
		t.Fatal(err)
	}
	list, _ = c.held.List(ctx)
	if len(list) != 0 {
		t.Errorf("list after clear all = %d entries", len(list))
	}
}

func TestPrintHeld(t *testing.T) {
	c := newCounter(t)
	ctx := context.Background()
	c.openTill(t)
	c.add(t, "1")
	held, err := c.held.Hold(ctx)
	if err != nil {
		t.Fatal(err)
	}

	receipt, warning, err := c.held.PrintHeld(ctx, held.ID)
	if err != nil {
		t.Fatalf("PrintHeld: %v", err)
	}
	if warning != "" {
		t.Errorf("warning = %q", warning)
	}
	if receipt.OrderNumber != "H1001" || receipt.PaymentMethod != "Not paid" {
		t.Errorf("receipt = %q paid by %q", receipt.OrderNumber, receipt.PaymentMethod)
	}
	if c.printer.jobCount() != 1 {
		t.Errorf("printer jobs = %d, want 1", c.printer.jobCount())
	}
}

func TestHeldListSurvivesMalformedState(t *testing.T) {
	c := newCounter(t)
	ctx := context.Background()

	if err := c.store.Set(ctx, "held_orders", []byte("{not json"), 0); err != nil {
		t.Fatal(err)
	}
	list, err := c.held.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("list = %+v, want empty", list)
	}

	c.openTill(t)
	c.add(t, "1")
	held, err := c.held.Hold(ctx)
	if err != nil {
		t.Fatalf("Hold over malformed state: %v", err)
	}
	if held.DisplayNumber != "H1001" {
		t.Errorf("display number = %s, want H1001", held.DisplayNumber)
	}
}
