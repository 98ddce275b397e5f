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

// GetCart fetches the current cart contents for a user.
func (c *Client) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := c.do(ctx, http.MethodGet, "/cart?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	if cart.UserID == "" {
		cart.UserID = userID
	}
	return &cart, nil
}

// ClearCart empties the remote cart. Called exactly once per confirmed
// payment success.
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/cart?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return err
	}
	c.logger.Info("Cart cleared", zap.String("user_id", userID))
	return nil
}
