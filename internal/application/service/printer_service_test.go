package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/enum"
	"github.com/sangkips/billing-counter/internal/domain/pricing"
	"github.com/sangkips/billing-counter/pkg/apperror"
	"github.com/sangkips/billing-counter/pkg/logger"
	"github.com/sangkips/billing-counter/pkg/printer"
)

func sampleOrder() *entity.FinalizedOrder {
	return &entity.FinalizedOrder{
		OrderNumber:  1001,
		OrderType:    enum.OrderTypeEatIn,
		CustomerName: "Ravi",
		Items: []entity.CartLine{
			{ItemID: "2", Name: "Chicken Tikka", UnitPrice: dec("8.00"), Quantity: 16, LineTotal: dec("128.00")},
		},
		Subtotal:        dec("128.00"),
		DiscountPercent: dec("10"),
		PaymentMethod:   enum.PaymentMethodCard,
		DisplayDate:     "01/07/2024 13:30:15",
	}
}

func TestComposeOrderFigures(t *testing.T) {
	c := newCounter(t)
	r := c.printing.ComposeOrder(sampleOrder(), "alice")

	checks := map[string][2]string{
		"subtotal": {r.SubTotal.StringFixed(2), "128.00"},
		"vat":      {r.VAT.StringFixed(2), "24.38"},
		"service":  {r.ServiceCharge.StringFixed(2), "9.75"},
		"discount": {r.Discount.StringFixed(2), "12.80"},
		"grand":    {r.GrandTotal.StringFixed(2), "115.20"},
	}
	for name, pair := range checks {
		if pair[0] != pair[1] {
			t.Errorf("%s = %s, want %s", name, pair[0], pair[1])
		}
	}
	if r.OrderNumber != "1001" || r.PaymentMethod != "Card" || r.Staff != "alice" || r.TotalQuantity != 16 {
		t.Errorf("receipt = %+v", r)
	}
}

func TestComposeOrderDerivesDiscountPercent(t *testing.T) {
	c := newCounter(t)
	order := sampleOrder()
	order.DiscountPercent = dec("0")
	order.DiscountAmount = dec("32.00")

	r := c.printing.ComposeOrder(order, "")
	if !r.DiscountPercent.Equal(dec("25")) {
		t.Errorf("discount percent = %s, want 25", r.DiscountPercent)
	}
}

func TestRenderHTML(t *testing.T) {
	c := newCounter(t)
	html, err := RenderHTML(c.printing.ComposeOrder(sampleOrder(), "alice"))
	if err != nil {
		t.Fatal(err)
	}
	doc := string(html)

	for _, want := range []string{
		"@page { size: 80mm auto; margin: 0; }",
		"width:72mm",
		"<h2>Mirchi Mafiya</h2>",
		"Order Type: Eat In",
		"<strong>Customer:</strong> Ravi",
		"<strong>Order No:</strong> #1001",
		"<strong>Paid By:</strong> Card",
		"<td>Chicken Tikka</td>",
		"<strong>Total Qty:</strong> 16",
		"<strong>Sub Total:</strong> £ 128.00",
		"VAT (20%): £24.38",
		"Service Charge (8%): £9.75",
		"<strong>Discount (10%):</strong> -£12.80",
		"<strong>Grand Total:</strong> £ 115.20",
		"Staff: (alice)",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("receipt html missing %q", want)
		}
	}
}

func TestRenderHTMLWithoutDiscountOrCustomer(t *testing.T) {
	c := newCounter(t)
	order := sampleOrder()
	order.DiscountPercent = dec("0")
	order.CustomerName = ""

	html, err := RenderHTML(c.printing.ComposeOrder(order, ""))
	if err != nil {
		t.Fatal(err)
	}
	doc := string(html)
	if strings.Contains(doc, "Discount") {
		t.Error("discount line rendered for a zero discount")
	}
	if !strings.Contains(doc, "<strong>Customer:</strong> N/A") {
		t.Error("missing N/A for an empty customer")
	}
	if !strings.Contains(doc, "Staff: </p>") {
		t.Error("staff line should be empty when nobody is known")
	}
}

func TestRenderHTMLEscapesNames(t *testing.T) {
	c := newCounter(t)
	order := sampleOrder()
	order.CustomerName = "<script>x</script>"

	html, err := RenderHTML(c.printing.ComposeOrder(order, ""))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Error("customer name was not escaped")
	}
}

func TestFormatReceipt(t *testing.T) {
	c := newCounter(t)
	data := FormatReceipt(c.printing.ComposeOrder(sampleOrder(), "alice"), 48)

	for _, want := range [][]byte{
		[]byte("Mirchi Mafiya"),
		[]byte("Order No:"),
		[]byte("Grand Total:"),
		[]byte("Discount (10%):"),
		[]byte("Staff: (alice)"),
		{0x9C, '1', '1', '5', '.', '2', '0'},
	} {
		if !bytes.Contains(data, want) {
			t.Errorf("receipt bytes missing %q", want)
		}
	}
	if !bytes.HasSuffix(data, []byte{printer.GS, 'V', 0x00}) {
		t.Error("receipt does not end with a cut")
	}
}

func TestFormatReceiptNarrowPaper(t *testing.T) {
	c := newCounter(t)
	r := c.printing.ComposeOrder(sampleOrder(), "alice")

	tests := []struct {
		name   string
		width  int
		header string
	}{
		{"80mm", 48, "Product" + strings.Repeat(" ", 21) + "Price  Qty     Total"},
		{"58mm", 32, "Product" + strings.Repeat(" ", 8) + "Price Qty   Total"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := FormatReceipt(r, tt.width)
			if !bytes.Contains(data, []byte(tt.header)) {
				t.Errorf("item header not laid out for %d columns", tt.width)
			}
			if !bytes.Contains(data, []byte("Phone: +447440086046")) {
				t.Error("missing phone line")
			}
		})
	}
}

func TestPrintFallsBackWhenPrinterUnavailable(t *testing.T) {
	primary := &fakePrinter{typ: "network", openErr: errors.New("connection refused")}
	fallback := &fakePrinter{typ: "spool"}
	svc := NewPrinterService(primary, fallback, ReceiptIdentity{BusinessName: "Mirchi Mafiya", CurrencySymbol: "£"},
		pricing.DefaultRates(), 48, logger.Discard())

	err := svc.Print(context.Background(), svc.ComposeOrder(sampleOrder(), ""))
	if !errors.Is(err, apperror.ErrPrintUnavailable) {
		t.Fatalf("error = %v, want ErrPrintUnavailable", err)
	}
	if fallback.jobCount() != 1 || fallback.closed != 1 {
		t.Fatalf("fallback jobs/closed = %d/%d, want 1/1", fallback.jobCount(), fallback.closed)
	}
	if !bytes.HasPrefix(fallback.jobs[0], []byte("<!doctype html>")) {
		t.Error("fallback did not receive the html receipt")
	}
}

func TestPrintWithoutFallback(t *testing.T) {
	svc := NewPrinterService(printer.NewNullPrinter(), nil, ReceiptIdentity{}, pricing.DefaultRates(), 48, logger.Discard())

	if err := svc.Print(context.Background(), svc.ComposeOrder(sampleOrder(), "")); !errors.Is(err, apperror.ErrPrintUnavailable) {
		t.Errorf("error = %v, want ErrPrintUnavailable", err)
	}
	status := svc.GetStatus()
	if status.Configured || status.Connected || status.Type != "none" || status.Fallback != "" {
		t.Errorf("status = %+v", status)
	}
}

func TestComposeHeld(t *testing.T) {
	c := newCounter(t)
	held := &entity.HeldOrder{
		ID:            1,
		Customer:      "Ravi",
		Server:        "alice",
		Items:         []entity.CartLine{{ItemID: "1", Name: "Samosa", UnitPrice: dec("3.00"), Quantity: 2}},
		Date:          "01/07/2024 10:00:00",
		DisplayNumber: "H1004",
	}

	r := c.printing.ComposeHeld(held)
	if r.OrderNumber != "H1004" || r.Title != "Held Order" {
		t.Errorf("receipt = %+v", r)
	}
	if got := r.GrandTotal.StringFixed(2); got != "6.00" {
		t.Errorf("grand total = %s, want 6.00", got)
	}
	if got := r.Items[0].Total.StringFixed(2); got != "6.00" {
		t.Errorf("line total = %s, want 6.00", got)
	}
}
