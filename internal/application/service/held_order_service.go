package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/internal/infrastructure/events"
	"github.com/sangkips/billing-counter/pkg/apperror"
	"github.com/sangkips/billing-counter/pkg/logger"
)

// HeldOrderService parks the cart for later and brings parked carts back.
type HeldOrderService struct {
	billing   *BillingService
	till      *TillService
	heldRepo  repository.HeldOrderRepository
	printer   *PrinterService
	publisher events.Publisher
	log       *logger.Logger
	now       func() time.Time

	// mu serialises read-modify-write of the held list.
	mu sync.Mutex
}

// NewHeldOrderService creates a new held order service
func NewHeldOrderService(
	billing *BillingService,
	till *TillService,
	heldRepo repository.HeldOrderRepository,
	printer *PrinterService,
	publisher events.Publisher,
	log *logger.Logger,
) *HeldOrderService {
	return &HeldOrderService{
		billing:   billing,
		till:      till,
		heldRepo:  heldRepo,
		printer:   printer,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Hold moves the cart into the held list and clears it. The till must be
// open and the cart must have lines.
func (s *HeldOrderService) Hold(ctx context.Context) (*entity.HeldOrder, error) {
	requestID := logger.RequestID(ctx)

	till, err := s.till.RequireOpen(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.heldRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var held *entity.HeldOrder
	err = s.billing.withCart(func(c *entity.Cart) error {
		if c.IsEmpty() {
			return apperror.ErrEmptyCart
		}
		snapshot := c.Snapshot()
		now := s.now()
		held = &entity.HeldOrder{
			ID:            uniqueHeldID(now.UnixMilli(), existing),
			Customer:      snapshot.CustomerName,
			Server:        s.billing.serverName(ctx, till),
			OrderType:     snapshot.OrderType,
			Items:         snapshot.Lines,
			Date:          now.In(s.billing.opts.Location).Format(DisplayDateLayout),
			DisplayNumber: entity.NextHeldDisplayNumber(existing),
		}
		if err := s.heldRepo.Save(ctx, append(existing, *held)); err != nil {
			return err
		}
		c.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order_hold", requestID, "cart held as "+held.DisplayNumber)
	if err := s.publisher.Publish(ctx, events.NewOrderHeldEvent(held)); err != nil {
		s.log.Warn("order_hold", requestID, "publish held event", err)
	}
	s.billing.RefreshPendingNumber(ctx)
	return held, nil
}

// Resume loads a held order into the cart, replacing whatever was there,
// and removes it from the held list. Discount and payment method start
// fresh.
func (s *HeldOrderService) Resume(ctx context.Context, id int64) (CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.heldRepo.List(ctx)
	if err != nil {
		return CartState{}, err
	}
	idx := indexOfHeld(orders, id)
	if idx < 0 {
		return CartState{}, apperror.ErrHeldOrderNotFound
	}
	held := orders[idx]

	remaining := append(orders[:idx:idx], orders[idx+1:]...)
	err = s.billing.withCart(func(c *entity.Cart) error {
		if err := s.heldRepo.Save(ctx, remaining); err != nil {
			return err
		}
		c.Restore(held.Items, held.Customer, held.OrderType)
		return nil
	})
	if err != nil {
		return CartState{}, err
	}

	s.log.Info("order_resume", logger.RequestID(ctx), "resumed held order "+held.DisplayNumber)
	return s.billing.State(), nil
}

// List returns the held orders in the order they were parked.
func (s *HeldOrderService) List(ctx context.Context) ([]entity.HeldOrder, error) {
	return s.heldRepo.List(ctx)
}

// Get returns one held order.
func (s *HeldOrderService) Get(ctx context.Context, id int64) (*entity.HeldOrder, error) {
	orders, err := s.heldRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfHeld(orders, id)
	if idx < 0 {
		return nil, apperror.ErrHeldOrderNotFound
	}
	return &orders[idx], nil
}

// Delete drops a held order without resuming it.
func (s *HeldOrderService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.heldRepo.List(ctx)
	if err != nil {
		return err
	}
	idx := indexOfHeld(orders, id)
	if idx < 0 {
		return apperror.ErrHeldOrderNotFound
	}
	if err := s.heldRepo.Save(ctx, append(orders[:idx:idx], orders[idx+1:]...)); err != nil {
		return err
	}

	s.log.Info("order_hold_delete", logger.RequestID(ctx), "deleted held order "+strconv.FormatInt(id, 10))
	return nil
}

// ClearAll drops every held order.
func (s *HeldOrderService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.heldRepo.Clear(ctx); err != nil {
		return err
	}
	s.log.Info("order_hold_clear", logger.RequestID(ctx), "cleared all held orders")
	return nil
}

// PrintHeld prints a slip for a held order. The returned warning is set
// when the printer could not take the job.
func (s *HeldOrderService) PrintHeld(ctx context.Context, id int64) (*entity.Receipt, string, error) {
	held, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	receipt := s.printer.ComposeHeld(held)
	if err := s.printer.Print(ctx, receipt); err != nil {
		return receipt, apperror.GetAppError(err).Message, nil
	}
	return receipt, "", nil
}

func indexOfHeld(orders []entity.HeldOrder, id int64) int {
	for i, o := range orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// uniqueHeldID keeps ids distinct when two holds land in the same
// millisecond.
func uniqueHeldID(candidate int64, existing []entity.HeldOrder) int64 {
	for indexOfHeld(existing, candidate) >= 0 {
		candidate++
	}
	return candidate
}
