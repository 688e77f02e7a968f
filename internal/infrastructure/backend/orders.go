package backend

import (
	"context"
	"net/http"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/repository"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type orderItemPayload struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
	Total float64 `json:"total"`
}

type orderPayload struct {
	CustomerName    string             `json:"customer_name"`
	ServerName      string             `json:"server_name"`
	OrderType       string             `json:"order_type"`
	Items           []orderItemPayload `json:"items"`
	TotalAmount     float64            `json:"total_amount"`
	DiscountPercent float64            `json:"discount_percent"`
	DiscountAmount  float64            `json:"discount_amount"`
	FinalAmount     float64            `json:"final_amount"`
	PaymentMethod   string             `json:"payment_method"`
	CreatedAt       string             `json:"created_at"`
	Date            string             `json:"date"`
}

type createOrderResponse struct {
	Order struct {
		OrderNumber any    `json:"order_number"`
		Date        string `json:"date"`
		OrderType   string `json:"order_type"`
	} `json:"order"`
}

type orderRepository struct {
	client *Client
}

// NewOrderRepository places orders with POST /orders and lists them with
// GET /orders/all.
func NewOrderRepository(client *Client) repository.OrderRepository {
	return &orderRepository{client: client}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.OrderSubmission) (*entity.OrderConfirmation, error) {
	payload := orderPayload{
		CustomerName:    order.CustomerName,
		ServerName:      order.ServerName,
		OrderType:       order.OrderType.String(),
		Items:           make([]orderItemPayload, 0, len(order.Items)),
		TotalAmount:     order.Subtotal.InexactFloat64(),
		DiscountPercent: order.DiscountPercent.InexactFloat64(),
		DiscountAmount:  order.DiscountAmount.InexactFloat64(),
		FinalAmount:     order.FinalAmount.InexactFloat64(),
		PaymentMethod:   order.PaymentMethod.String(),
		CreatedAt:       order.CreatedAtUTC.UTC().Format(isoMillis),
		Date:            order.DisplayDate,
	}
	for _, line := range order.Items {
		payload.Items = append(payload.Items, orderItemPayload{
			Name:  line.Name,
			Price: line.UnitPrice.InexactFloat64(),
			Qty:   line.Quantity,
			Total: line.LineTotal.InexactFloat64(),
		})
	}

	headers := map[string]string{}
	if order.IdempotencyKey != "" {
		headers["Idempotency-Key"] = order.IdempotencyKey
	}

	var resp createOrderResponse
	if _, err := r.client.do(ctx, http.MethodPost, "/orders", payload, headers, &resp); err != nil {
		return nil, err
	}

	number, _ := coerceInt(resp.Order.OrderNumber)
	return &entity.OrderConfirmation{
		OrderNumber: number,
		DisplayDate: resp.Order.Date,
		OrderType:   resp.Order.OrderType,
	}, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]entity.FinalizedOrder, error) {
	var raw any
	if _, err := r.client.do(ctx, http.MethodGet, "/orders/all", nil, nil, &raw); err != nil {
		return nil, err
	}

	rows := asList(raw, "orders")
	orders := make([]entity.FinalizedOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, normalizeOrder(row))
	}
	return orders, nil
}
