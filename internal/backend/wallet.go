package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/berat-eth/huglu-storefront/internal/domain"
)

// GetWalletBalance fetches the user's wallet balance projection.
func (c *Client) GetWalletBalance(ctx context.Context, userID string) (*domain.WalletBalance, error) {
	data, err := c.do(ctx, http.MethodGet, "/wallet/balance?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var balance domain.WalletBalance
	if err := json.Unmarshal(data, &balance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet balance: %w", err)
	}
	if balance.UserID == "" {
		balance.UserID = userID
	}
	return &balance, nil
}

// GetWalletTransactions fetches the wallet ledger for a user.
func (c *Client) GetWalletTransactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error) {
	data, err := c.do(ctx, http.MethodGet, "/wallet/transactions?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var transactions []domain.WalletTransaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet transactions: %w", err)
	}
	return transactions, nil
}

// GetPaymentMethods fetches the user's saved payment method descriptors.
func (c *Client) GetPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethodInfo, error) {
	data, err := c.do(ctx, http.MethodGet, "/wallet/payment-methods?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var methods []domain.PaymentMethodInfo
	if err := json.Unmarshal(data, &methods); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment methods: %w", err)
	}
	return methods, nil
}

// GetVouchers fetches the user's wallet vouchers.
func (c *Client) GetVouchers(ctx context.Context, userID string) ([]domain.Voucher, error) {
	data, err := c.do(ctx, http.MethodGet, "/wallet/vouchers?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var vouchers []domain.Voucher
	if err := json.Unmarshal(data, &vouchers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vouchers: %w", err)
	}
	return vouchers, nil
}
