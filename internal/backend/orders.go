package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/domain"
)

// CreateOrderRequest is the POST /orders payload.
type CreateOrderRequest struct {
	UserID          string             `json:"userId"`
	TotalAmount     float64            `json:"totalAmount"`
	Status          domain.OrderStatus `json:"status"`
	ShippingAddress *domain.Address    `json:"shippingAddress,omitempty"`
	PickupStore     *string            `json:"pickupStore,omitempty"`
	PaymentMethod   string             `json:"paymentMethod"`
	Items           []domain.OrderItem `json:"items"`
}

// CreateOrder submits an order record and returns the backend order ID.
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (string, error) {
	data, err := c.do(ctx, http.MethodPost, "/orders", req)
	if err != nil {
		return "", err
	}

	var payload struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("failed to unmarshal order response: %w", err)
	}
	if payload.OrderID == "" {
		return "", fmt.Errorf("backend returned no order ID")
	}

	c.logger.Info("Order created", zap.String("order_id", payload.OrderID), zap.String("user_id", req.UserID))
	return payload.OrderID, nil
}

// GetOrder fetches an order record, including status and paymentStatus.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	data, err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, err
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	if order.ID == "" {
		order.ID = orderID
	}
	return &order, nil
}
