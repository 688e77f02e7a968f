package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/enum"
	"github.com/sangkips/billing-counter/internal/domain/pricing"
	"github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/internal/infrastructure/events"
	"github.com/sangkips/billing-counter/pkg/apperror"
	"github.com/sangkips/billing-counter/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	// DisplayDateLayout is dd/MM/yyyy HH:mm:ss.
	DisplayDateLayout = "02/01/2006 15:04:05"

	firstOrderNumber   = 1001
	unnumberedOrderSeq = 1000
)

// BillingOptions are the deployment settings the counter bills with.
type BillingOptions struct {
	Rates                pricing.Rates
	Location             *time.Location
	DefaultOrderType     enum.OrderType
	DefaultPaymentMethod enum.PaymentMethod
}

// CartState is everything the terminal shows about the order in progress.
type CartState struct {
	Cart               entity.Cart        `json:"cart"`
	Pricing            pricing.Breakdown  `json:"pricing"`
	TotalQuantity      int                `json:"total_qty"`
	PaymentMethod      enum.PaymentMethod `json:"payment_method"`
	PendingOrderNumber int                `json:"pending_order_number"`
}

// CartDetails updates the order-level fields of the cart. Nil fields are
// left alone.
type CartDetails struct {
	CustomerName    *string
	OrderType       *enum.OrderType
	DiscountPercent *decimal.Decimal
}

// FinalizeResult is a placed order and its receipt. PrintWarning is set
// when the receipt could not reach the printer.
type FinalizeResult struct {
	Order        *entity.FinalizedOrder `json:"order"`
	Receipt      *entity.Receipt        `json:"receipt"`
	PrintWarning string                 `json:"print_warning,omitempty"`
}

// BillingService owns the single cart of this counter. All cart changes go
// through its lock. While an order is with the backend the cart can be read
// but not changed.
type BillingService struct {
	catalog     *CatalogService
	till        *TillService
	orderRepo   repository.OrderRepository
	sessionRepo repository.SessionRepository
	printer     *PrinterService
	publisher   events.Publisher
	opts        BillingOptions
	log         *logger.Logger
	now         func() time.Time
	newKey      func() string

	mu            sync.Mutex
	cart          *entity.Cart
	paymentMethod enum.PaymentMethod
	pendingNumber int
	submitting    bool
}

// NewBillingService creates a new billing service
func NewBillingService(
	catalog *CatalogService,
	till *TillService,
	orderRepo repository.OrderRepository,
	sessionRepo repository.SessionRepository,
	printer *PrinterService,
	publisher events.Publisher,
	opts BillingOptions,
	log *logger.Logger,
) *BillingService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &BillingService{
		catalog:       catalog,
		till:          till,
		orderRepo:     orderRepo,
		sessionRepo:   sessionRepo,
		printer:       printer,
		publisher:     publisher,
		opts:          opts,
		log:           log,
		now:           time.Now,
		newKey:        uuid.NewString,
		cart:          entity.NewCart(opts.DefaultOrderType),
		paymentMethod: opts.DefaultPaymentMethod,
		pendingNumber: firstOrderNumber,
	}
}

// State returns a copy of the cart with its pricing.
func (s *BillingService) State() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *BillingService) stateLocked() CartState {
	snapshot := s.cart.Snapshot()
	return CartState{
		Cart:               snapshot,
		Pricing:            pricing.Compute(snapshot.Subtotal(), snapshot.DiscountPercent, s.opts.Rates),
		TotalQuantity:      snapshot.TotalQuantity(),
		PaymentMethod:      s.paymentMethod,
		PendingOrderNumber: s.pendingNumber,
	}
}

// AddItem adds one of the menu item to the cart. Composing the cart is
// allowed while the till is closed.
func (s *BillingService) AddItem(itemID string) (CartState, error) {
	item, err := s.catalog.Lookup(itemID)
	if err != nil {
		return CartState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return CartState{}, apperror.ErrOrderInProgress
	}
	s.cart.AddItem(item)
	return s.stateLocked(), nil
}

func (s *BillingService) IncrementLine(index int) (CartState, error) {
	return s.mutate(func(c *entity.Cart) error { return c.IncrementLine(index) })
}

func (s *BillingService) DecrementLine(index int) (CartState, error) {
	return s.mutate(func(c *entity.Cart) error { return c.DecrementLine(index) })
}

func (s *BillingService) RemoveLine(index int) (CartState, error) {
	return s.mutate(func(c *entity.Cart) error { return c.RemoveLine(index) })
}

// UpdateDetails sets customer name, order type and discount. An invalid
// discount rejects the whole update.
func (s *BillingService) UpdateDetails(d CartDetails) (CartState, error) {
	return s.mutate(func(c *entity.Cart) error {
		if d.DiscountPercent != nil {
			if err := c.SetDiscountPercent(*d.DiscountPercent); err != nil {
				return err
			}
		}
		if d.CustomerName != nil {
			c.CustomerName = *d.CustomerName
		}
		if d.OrderType != nil {
			c.OrderType = *d.OrderType
		}
		return nil
	})
}

// SelectPaymentMethod records how the customer pays. The till must be open.
func (s *BillingService) SelectPaymentMethod(ctx context.Context, method enum.PaymentMethod) (CartState, error) {
	if _, err := s.till.RequireOpen(ctx); err != nil {
		return CartState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return CartState{}, apperror.ErrOrderInProgress
	}
	s.paymentMethod = method
	return s.stateLocked(), nil
}

// Clear empties the cart. The till must be open.
func (s *BillingService) Clear(ctx context.Context) (CartState, error) {
	if _, err := s.till.RequireOpen(ctx); err != nil {
		return CartState{}, err
	}
	return s.mutate(func(c *entity.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *BillingService) mutate(fn func(c *entity.Cart) error) (CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return CartState{}, apperror.ErrOrderInProgress
	}
	if err := fn(s.cart); err != nil {
		return CartState{}, err
	}
	return s.stateLocked(), nil
}

// withCart runs fn under the cart lock. Used by the hold store to park and
// restore carts atomically.
func (s *BillingService) withCart(fn func(c *entity.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return apperror.ErrOrderInProgress
	}
	return fn(s.cart)
}

// Finalize places the cart as an order with the backend. On success the
// receipt is printed, the cart is cleared and the next pending number is
// fetched. A print failure is reported in the result, not as an error.
func (s *BillingService) Finalize(ctx context.Context) (*FinalizeResult, error) {
	requestID := logger.RequestID(ctx)

	order, staff, err := s.submit(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("order_finalize", requestID, "order #"+strconv.Itoa(order.OrderNumber)+" placed")

	result := &FinalizeResult{
		Order:   order,
		Receipt: s.printer.ComposeOrder(order, staff),
	}
	if err := s.printer.Print(ctx, result.Receipt); err != nil {
		result.PrintWarning = apperror.GetAppError(err).Message
	}

	if err := s.publisher.Publish(ctx, events.NewOrderPlacedEvent(order, staff)); err != nil {
		s.log.Warn("order_finalize", requestID, "publish order event", err)
	}

	s.RefreshPendingNumber(ctx)
	return result, nil
}

// submit checks the preconditions and sends the order. The cart lock is
// released while the backend decides; the submitting flag keeps the cart
// unchanged until the answer arrives, and a success clears it.
func (s *BillingService) submit(ctx context.Context) (*entity.FinalizedOrder, string, error) {
	requestID := logger.RequestID(ctx)

	till, err := s.till.RequireOpen(ctx)
	if err != nil {
		return nil, "", err
	}
	submission, err := s.beginSubmission(s.serverName(ctx, till))
	if err != nil {
		return nil, "", err
	}

	conf, err := s.orderRepo.Create(ctx, submission)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		s.log.Error("order_finalize", requestID, "order submission failed", err)
		return nil, "", apperror.ErrOrderSubmissionFailed
	}

	order := &entity.FinalizedOrder{
		OrderNumber:     conf.OrderNumber,
		OrderType:       submission.OrderType,
		CustomerName:    submission.CustomerName,
		ServerName:      submission.ServerName,
		Items:           submission.Items,
		Subtotal:        submission.Subtotal,
		DiscountPercent: submission.DiscountPercent,
		DiscountAmount:  submission.DiscountAmount,
		FinalAmount:     submission.FinalAmount,
		PaymentMethod:   submission.PaymentMethod,
		CreatedAtUTC:    submission.CreatedAtUTC,
		DisplayDate:     submission.DisplayDate,
	}
	if order.OrderNumber <= 0 {
		order.OrderNumber = s.pendingNumber
	}
	if conf.DisplayDate != "" {
		order.DisplayDate = conf.DisplayDate
	}
	if conf.OrderType != "" {
		if t, err := enum.ParseOrderType(conf.OrderType); err == nil {
			order.OrderType = t
		}
	}

	s.cart.Clear()
	s.paymentMethod = s.opts.DefaultPaymentMethod
	return order, till.OpenedBy, nil
}

// beginSubmission snapshots the cart into an order submission and marks
// the cart as being submitted.
func (s *BillingService) beginSubmission(serverName string) (*entity.OrderSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return nil, apperror.ErrOrderInProgress
	}
	if s.cart.IsEmpty() {
		return nil, apperror.ErrEmptyCart
	}
	if !s.paymentMethod.IsSelected() {
		return nil, apperror.ErrNoPaymentMethod
	}

	snapshot := s.cart.Snapshot()
	b := pricing.Compute(snapshot.Subtotal(), snapshot.DiscountPercent, s.opts.Rates)
	now := s.now()

	s.submitting = true
	return &entity.OrderSubmission{
		CustomerName:    snapshot.CustomerName,
		ServerName:      serverName,
		OrderType:       snapshot.OrderType,
		Items:           snapshot.Lines,
		Subtotal:        b.Subtotal,
		DiscountPercent: b.DiscountPercent,
		DiscountAmount:  b.DiscountAmount,
		FinalAmount:     b.GrandTotal,
		PaymentMethod:   s.paymentMethod,
		CreatedAtUTC:    now.UTC(),
		DisplayDate:     now.In(s.opts.Location).Format(DisplayDateLayout),
		IdempotencyKey:  s.newKey(),
	}, nil
}

// serverName is the signed-in operator's first name, falling back to the
// username and then to whoever opened the till.
func (s *BillingService) serverName(ctx context.Context, till *entity.TillSession) string {
	session, err := s.sessionRepo.Get(ctx)
	if err != nil {
		s.log.Warn("order_finalize", logger.RequestID(ctx), "read counter session", err)
	}
	if name := session.DisplayName(); name != "" {
		return name
	}
	return till.OpenedBy
}

// PendingOrderNumber is the number the next order is expected to get. It
// is only shown on screen; the backend assigns the real one.
func (s *BillingService) PendingOrderNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingNumber
}

// RefreshPendingNumber recomputes the pending number from the backend's
// order list. A failed or empty listing gives 1001.
func (s *BillingService) RefreshPendingNumber(ctx context.Context) int {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		s.log.Warn("pending_number", logger.RequestID(ctx), "list orders failed", err)
	}
	next := NextOrderNumber(orders)

	s.mu.Lock()
	s.pendingNumber = next
	s.mu.Unlock()
	return next
}

// NextOrderNumber is one more than the highest order number, where orders
// without a number count as 1000.
func NextOrderNumber(orders []entity.FinalizedOrder) int {
	if len(orders) == 0 {
		return firstOrderNumber
	}
	highest := 0
	for _, o := range orders {
		n := o.OrderNumber
		if n <= 0 {
			n = unnumberedOrderSeq
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1
}
