package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/pricing"
	"github.com/sangkips/billing-counter/pkg/apperror"
	"github.com/sangkips/billing-counter/pkg/logger"
	"github.com/sangkips/billing-counter/pkg/printer"
	"github.com/shopspring/decimal"
)

//go:embed templates/receipt.html.tmpl
var templateFS embed.FS

var receiptTemplate = template.Must(
	template.New("receipt.html.tmpl").
		Funcs(template.FuncMap{
			"fixed": func(d decimal.Decimal) string { return d.StringFixed(2) },
			"money": money,
		}).
		ParseFS(templateFS, "templates/receipt.html.tmpl"),
)

// ReceiptIdentity is the business identity printed on every receipt.
type ReceiptIdentity struct {
	BusinessName   string
	Address        string
	Phone          string
	Email          string
	CurrencySymbol string
}

// PrinterService composes receipts and sends them to the thermal printer.
// When the printer cannot be reached the HTML rendering goes to the
// fallback printer instead.
type PrinterService struct {
	printer   printer.Printer
	fallback  printer.Printer
	identity  ReceiptIdentity
	rates     pricing.Rates
	charWidth int
	log       *logger.Logger
}

// NewPrinterService creates a new printer service. fallback may be nil.
func NewPrinterService(
	p printer.Printer,
	fallback printer.Printer,
	identity ReceiptIdentity,
	rates pricing.Rates,
	charWidth int,
	log *logger.Logger,
) *PrinterService {
	return &PrinterService{
		printer:   p,
		fallback:  fallback,
		identity:  identity,
		rates:     rates,
		charWidth: charWidth,
		log:       log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Fallback   string `json:"fallback,omitempty"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	status := &PrinterStatus{
		Configured: s.printer.Type() != "none",
		Connected:  s.printer.IsConnected(),
		Type:       s.printer.Type(),
	}
	if s.fallback != nil {
		status.Fallback = s.fallback.Type()
	}
	return status
}

// ComposeOrder builds the receipt for an order the backend has accepted, or
// for a previous order being reprinted.
func (s *PrinterService) ComposeOrder(order *entity.FinalizedOrder, staff string) *entity.Receipt {
	subtotal := order.Subtotal
	if subtotal.IsZero() {
		subtotal = linesSubtotal(order.Items)
	}

	discountPercent := order.DiscountPercent
	if discountPercent.IsZero() && order.DiscountAmount.IsPositive() && subtotal.IsPositive() {
		discountPercent = order.DiscountAmount.Mul(decimal.NewFromInt(100)).Div(subtotal)
	}

	number := ""
	if order.OrderNumber > 0 {
		number = strconv.Itoa(order.OrderNumber)
	}

	r := s.compose(order.Items, subtotal, discountPercent)
	r.Title = "Receipt"
	r.OrderNumber = number
	r.OrderType = order.OrderType.String()
	r.Customer = order.CustomerName
	r.PaymentMethod = order.PaymentMethod.String()
	r.Date = order.DisplayDate
	r.Staff = staff
	return r
}

// ComposeHeld builds a slip for a held order. Held orders carry no discount
// and have not been paid.
func (s *PrinterService) ComposeHeld(held *entity.HeldOrder) *entity.Receipt {
	r := s.compose(held.Items, linesSubtotal(held.Items), decimal.Zero)
	r.Title = "Held Order"
	r.OrderNumber = held.DisplayNumber
	r.OrderType = held.OrderType.String()
	r.Customer = held.Customer
	r.PaymentMethod = "Not paid"
	r.Date = held.Date
	r.Staff = held.Server
	return r
}

func (s *PrinterService) compose(lines []entity.CartLine, subtotal, discountPercent decimal.Decimal) *entity.Receipt {
	b := pricing.Compute(subtotal, discountPercent, s.rates)

	items := make([]entity.ReceiptItem, 0, len(lines))
	for _, l := range lines {
		total := l.LineTotal
		if total.IsZero() {
			total = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		}
		items = append(items, entity.ReceiptItem{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     total,
		})
	}

	return &entity.Receipt{
		Header: entity.ReceiptHeader{
			BusinessName: s.identity.BusinessName,
			Address:      s.identity.Address,
			Phone:        s.identity.Phone,
			Email:        s.identity.Email,
		},
		Items:           items,
		TotalQuantity:   entity.TotalQuantity(lines),
		SubTotal:        b.Subtotal,
		VATPercent:      s.rates.VATPercent,
		VAT:             b.IncludedVAT,
		ServicePercent:  s.rates.ServicePercent,
		ServiceCharge:   b.IncludedService,
		DiscountPercent: b.DiscountPercent,
		Discount:        b.DiscountAmount,
		GrandTotal:      b.GrandTotal,
		CurrencySymbol:  s.identity.CurrencySymbol,
	}
}

// Print sends the receipt to the printer. If the printer cannot take the
// job, the HTML rendering is handed to the fallback and ErrPrintUnavailable
// is returned. Callers treat that as a warning only.
func (s *PrinterService) Print(ctx context.Context, receipt *entity.Receipt) error {
	requestID := logger.RequestID(ctx)

	err := printer.Dispatch(ctx, s.printer, FormatReceipt(receipt, s.charWidth))
	if err == nil {
		s.log.Info("print_receipt", requestID, "receipt #"+receipt.OrderNumber+" printed on "+s.printer.Type())
		return nil
	}
	if errors.Is(err, printer.ErrNotConfigured) || errors.Is(err, printer.ErrSurfaceUnavailable) {
		s.log.Warn("print_receipt", requestID, "printer unavailable, using fallback", err)
	} else {
		s.log.Error("print_receipt", requestID, "print job failed, using fallback", err)
	}

	if s.fallback == nil {
		return apperror.ErrPrintUnavailable
	}
	html, rerr := RenderHTML(receipt)
	if rerr != nil {
		s.log.Error("print_receipt", requestID, "render receipt html", rerr)
		return apperror.ErrPrintUnavailable
	}
	if ferr := printer.Dispatch(ctx, s.fallback, html); ferr != nil {
		s.log.Error("print_receipt", requestID, "fallback print failed", ferr)
	}
	return apperror.ErrPrintUnavailable
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	lines := []entity.CartLine{
		{Name: "Test Item 1", Quantity: 1, UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(10)},
		{Name: "Test Item 2", Quantity: 2, UnitPrice: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(10)},
	}
	receipt := s.compose(lines, linesSubtotal(lines), decimal.Zero)
	receipt.Title = "PRINTER TEST"
	receipt.OrderNumber = "TEST-001"
	receipt.OrderType = "Eat In"
	receipt.PaymentMethod = "Cash"
	receipt.Date = "Test Date"
	receipt.Staff = "System"

	if err := s.Print(ctx, receipt); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// RenderHTML renders the receipt as a self-contained page sized for 80mm
// paper.
func RenderHTML(receipt *entity.Receipt) ([]byte, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, receipt); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

// Column widths for price, quantity and total on the ESC/POS item table.
var (
	itemColumns       = []int{10, 5, 10}
	narrowItemColumns = []int{8, 4, 8}
)

// narrowPaper is the widest line, in characters, treated as 58mm paper.
const narrowPaper = 32

// FormatReceipt converts a Receipt into an ESC/POS byte stream.
func FormatReceipt(r *entity.Receipt, charWidth int) []byte {
	doc := printer.NewDocument(charWidth)
	sym := r.CurrencySymbol
	columns := itemColumns
	if doc.Width() <= narrowPaper {
		columns = narrowItemColumns
	}

	// Header
	doc.SetAlign(printer.AlignCenter)
	doc.SetBold(true).SetFontSize(printer.FontDouble)
	doc.Text(r.Header.BusinessName)
	doc.SetFontSize(printer.FontNormal).SetBold(false)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.TextF("Phone: %s", r.Header.Phone)
	}
	if r.Header.Email != "" {
		doc.Text(r.Header.Email)
	}
	doc.TextF("Order Type: %s", r.OrderType)
	doc.SetAlign(printer.AlignLeft)
	doc.Separator('-')

	// Order info
	doc.KeyValue("Customer:", orDefault(r.Customer, "N/A"))
	doc.KeyValue("Order No:", "#"+orDefault(r.OrderNumber, "-"))
	doc.KeyValue("Paid By:", r.PaymentMethod)
	doc.KeyValue("Date:", orDefault(r.Date, "-"))
	doc.Separator('-')

	// Items
	doc.SetBold(true)
	doc.Row("Product", []string{"Price", "Qty", "Total"}, columns)
	doc.SetBold(false)
	for _, item := range r.Items {
		doc.Row(item.Name, []string{
			money(sym, item.UnitPrice),
			strconv.Itoa(item.Quantity),
			money(sym, item.Total),
		}, columns)
	}
	doc.Separator('-')

	// Totals
	doc.KeyValue("Total Qty:", strconv.Itoa(r.TotalQuantity))
	doc.KeyValue("Sub Total:", money(sym, r.SubTotal))
	doc.KeyValue("Paid By:", r.PaymentMethod)
	doc.Text("Includes:")
	doc.KeyValue("VAT ("+r.VATPercent.String()+"%):", money(sym, r.VAT))
	doc.KeyValue("Service Charge ("+r.ServicePercent.String()+"%):", money(sym, r.ServiceCharge))
	if r.HasDiscount() {
		doc.KeyValue("Discount ("+r.DiscountPercent.String()+"%):", "-"+money(sym, r.Discount))
	}
	doc.SetBold(true)
	doc.KeyValue("Grand Total:", money(sym, r.GrandTotal))
	doc.SetBold(false)

	if r.Staff != "" {
		doc.TextF("Staff: (%s)", r.Staff)
	}
	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter)
	doc.Text("Thank you!")
	doc.Cut()

	return doc.Bytes()
}

func money(symbol string, d decimal.Decimal) string {
	return symbol + d.StringFixed(2)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func linesSubtotal(lines []entity.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.LineTotal.IsZero() {
			total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
			continue
		}
		total = total.Add(l.LineTotal)
	}
	return total
}
