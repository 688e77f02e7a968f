package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/pkg/apperror"
	"github.com/sangkips/billing-counter/pkg/logger"
	"github.com/sangkips/billing-counter/pkg/pagination"
)

// OrderHistoryFilter narrows the previous-orders list. Date is YYYY-MM-DD.
type OrderHistoryFilter struct {
	Search string `form:"search"`
	Date   string `form:"date"`
}

// OrderHistoryService reads placed orders back from the backend for the
// previous-orders screen and reprints.
type OrderHistoryService struct {
	orderRepo repository.OrderRepository
	printer   *PrinterService
	location  *time.Location
	log       *logger.Logger
}

// NewOrderHistoryService creates a new order history service
func NewOrderHistoryService(
	orderRepo repository.OrderRepository,
	printer *PrinterService,
	location *time.Location,
	log *logger.Logger,
) *OrderHistoryService {
	if location == nil {
		location = time.UTC
	}
	return &OrderHistoryService{
		orderRepo: orderRepo,
		printer:   printer,
		location:  location,
		log:       log,
	}
}

// List returns the matching orders, most recent first, one page at a time.
func (s *OrderHistoryService) List(ctx context.Context, filter OrderHistoryFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.FinalizedOrder], error) {
	var day time.Time
	if filter.Date != "" {
		d, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "date", Message: "must be YYYY-MM-DD"},
			})
		}
		day = d
	}

	orders, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]entity.FinalizedOrder, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		o := orders[i]
		if search != "" && !matchesSearch(o, search) {
			continue
		}
		if !day.IsZero() && !s.placedOn(o, day) {
			continue
		}
		matched = append(matched, o)
	}

	return pagination.Paginate(matched, params), nil
}

// Get returns the order with the given number.
func (s *OrderHistoryService) Get(ctx context.Context, number int) (*entity.FinalizedOrder, error) {
	orders, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].OrderNumber == number {
			return &orders[i], nil
		}
	}
	return nil, apperror.ErrOrderNotFound
}

// Reprint prints the receipt of a previous order again. The warning is set
// when the printer could not take the job.
func (s *OrderHistoryService) Reprint(ctx context.Context, number int) (*entity.Receipt, string, error) {
	order, err := s.Get(ctx, number)
	if err != nil {
		return nil, "", err
	}
	receipt := s.printer.ComposeOrder(order, order.ServerName)
	if err := s.printer.Print(ctx, receipt); err != nil {
		return receipt, apperror.GetAppError(err).Message, nil
	}
	s.log.Info("order_reprint", logger.RequestID(ctx), "reprinted order #"+strconv.Itoa(number))
	return receipt, "", nil
}

func (s *OrderHistoryService) all(ctx context.Context) ([]entity.FinalizedOrder, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		s.log.Warn("order_history", logger.RequestID(ctx), "list orders failed", err)
		return nil, apperror.ErrOrdersUnavailable
	}
	return orders, nil
}

// placedOn compares the calendar day of the order. The display date may be
// ISO or dd/MM/yyyy; the UTC timestamp is tried last.
func (s *OrderHistoryService) placedOn(o entity.FinalizedOrder, day time.Time) bool {
	if len(o.DisplayDate) >= 10 {
		prefix := o.DisplayDate[:10]
		if prefix == day.Format("2006-01-02") || prefix == day.Format("02/01/2006") {
			return true
		}
	}
	if !o.CreatedAtUTC.IsZero() {
		return o.CreatedAtUTC.In(s.location).Format("2006-01-02") == day.Format("2006-01-02")
	}
	return false
}

func matchesSearch(o entity.FinalizedOrder, search string) bool {
	return strings.Contains(strconv.Itoa(o.OrderNumber), search) ||
		strings.Contains(strings.ToLower(o.CustomerName), search) ||
		strings.Contains(strings.ToLower(o.PaymentMethod.String()), search)
}
