// Package events announces counter activity (orders placed, till opened or
// closed) to other systems such as a kitchen display. Publishing is best
// effort: callers log failures and carry on.
package events

import (
	"context"
	"strings"
	"time"

	"github.com/sangkips/billing-counter/internal/domain/entity"
)

const (
	EventOrderPlaced = "order.placed"
	EventOrderHeld   = "order.held"
	EventTillOpened  = "till.opened"
	EventTillClosed  = "till.closed"
)

type EventItem struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

type Event struct {
	EventType     string      `json:"event_type"`
	Timestamp     time.Time   `json:"timestamp"`
	OrderNumber   int         `json:"order_number,omitempty"`
	DisplayNumber string      `json:"display_number,omitempty"`
	OrderType     string      `json:"order_type,omitempty"`
	Customer      string      `json:"customer,omitempty"`
	Staff         string      `json:"staff,omitempty"`
	Items         []EventItem `json:"items,omitempty"`
	FinalAmount   string      `json:"final_amount,omitempty"`
	PaymentMethod string      `json:"payment_method,omitempty"`
}

// RoutingKey is the topic key used on the exchange, e.g. "counter.order.placed".
func (e Event) RoutingKey() string {
	return "counter." + e.EventType
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NewOrderPlacedEvent is the kitchen ticket for a finalised order.
func NewOrderPlacedEvent(order *entity.FinalizedOrder, staff string) Event {
	return Event{
		EventType:     EventOrderPlaced,
		Timestamp:     time.Now().UTC(),
		OrderNumber:   order.OrderNumber,
		OrderType:     order.OrderType.String(),
		Customer:      order.CustomerName,
		Staff:         staff,
		Items:         eventItems(order.Items),
		FinalAmount:   order.FinalAmount.StringFixed(2),
		PaymentMethod: order.PaymentMethod.String(),
	}
}

func NewOrderHeldEvent(held *entity.HeldOrder) Event {
	return Event{
		EventType:     EventOrderHeld,
		Timestamp:     time.Now().UTC(),
		DisplayNumber: held.DisplayNumber,
		OrderType:     held.OrderType.String(),
		Customer:      held.Customer,
		Staff:         held.Server,
		Items:         eventItems(held.Items),
	}
}

func NewTillEvent(open bool, username string) Event {
	eventType := EventTillClosed
	if open {
		eventType = EventTillOpened
	}
	return Event{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Staff:     username,
	}
}

func eventItems(lines []entity.CartLine) []EventItem {
	items := make([]EventItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, EventItem{Name: strings.TrimSpace(l.Name), Qty: l.Quantity})
	}
	return items
}

type noopPublisher struct{}

// NewNoopPublisher discards every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
func (noopPublisher) Close() error                         { return nil }
