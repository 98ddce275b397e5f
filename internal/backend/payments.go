package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/domain"
	apperrors "github.com/berat-eth/huglu-storefront/pkg/errors"
)

// PaymentRequest is the POST /payments payload. The card travels here once
// and is never logged or persisted.
type PaymentRequest struct {
	OrderID         string             `json:"orderId"`
	PaymentCard     domain.PaymentCard `json:"paymentCard"`
	Buyer           domain.Buyer       `json:"buyer"`
	ShippingAddress *domain.Address    `json:"shippingAddress,omitempty"`
	BillingAddress  *domain.Address    `json:"billingAddress,omitempty"`
}

// PaymentResult is the gateway outcome for a charge or recharge submission.
// Exactly one of these holds: immediate success, a 3DS challenge, or the
// call returned an error.
type PaymentResult struct {
	PaymentID      string
	ConversationID string
	Requires3DS    bool
	ChallengeHTML  string
	CardInfo       domain.MaskedCard
}

// paymentEnvelope covers the non-standard payment response: the 3DS fields
// sit beside the envelope, not inside data.
type paymentEnvelope struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message,omitempty"`
	Requires3DS    bool            `json:"requires3DS,omitempty"`
	ThreeDSHTML    string          `json:"threeDSHtmlContent,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
}

type paymentData struct {
	PaymentID string            `json:"paymentId"`
	CardInfo  domain.MaskedCard `json:"cardInfo"`
}

// SubmitPayment submits card details plus the order identifier to the
// payment endpoint.
func (c *Client) SubmitPayment(ctx context.Context, req *PaymentRequest) (*PaymentResult, error) {
	return c.submitCharge(ctx, "/payments", req, req.OrderID)
}

// RechargeRequest is the POST /wallet/recharge-request payload. Same
// success/3DS-challenge response shape as payments.
type RechargeRequest struct {
	UserID        string             `json:"userId"`
	Amount        float64            `json:"amount"`
	PaymentMethod string             `json:"paymentMethod"`
	PaymentCard   domain.PaymentCard `json:"paymentCard"`
	Buyer         domain.Buyer       `json:"buyer"`
}

// SubmitRecharge submits a wallet top-up charge to the gateway.
func (c *Client) SubmitRecharge(ctx context.Context, req *RechargeRequest) (*PaymentResult, error) {
	return c.submitCharge(ctx, "/wallet/recharge-request", req, "")
}

func (c *Client) submitCharge(ctx context.Context, path string, body interface{}, orderID string) (*PaymentResult, error) {
	raw, err := c.doRaw(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	var envelope paymentEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment response: %w", err)
	}

	if !envelope.Success {
		// Gateway decline: keep the raw message so the workflow's translation
		// table can match it.
		return nil, &apperrors.ErrGatewayDeclined{Raw: envelope.Message}
	}

	result := &PaymentResult{
		Requires3DS:    envelope.Requires3DS,
		ChallengeHTML:  envelope.ThreeDSHTML,
		ConversationID: envelope.ConversationID,
	}
	if len(envelope.Data) > 0 {
		var data paymentData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment data: %w", err)
		}
		result.PaymentID = data.PaymentID
		result.CardInfo = data.CardInfo
	}

	if result.Requires3DS && result.ChallengeHTML == "" {
		return nil, fmt.Errorf("gateway requested 3DS but returned no challenge content")
	}

	c.logger.Info("Charge submitted",
		zap.String("path", path),
		zap.String("order_id", orderID),
		zap.Bool("requires_3ds", result.Requires3DS),
	)
	return result, nil
}
