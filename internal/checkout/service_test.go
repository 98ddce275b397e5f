package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berat-eth/huglu-storefront/internal/backend"
	"github.com/berat-eth/huglu-storefront/internal/cart"
	"github.com/berat-eth/huglu-storefront/internal/domain"
	"github.com/berat-eth/huglu-storefront/internal/payment"
	"github.com/berat-eth/huglu-storefront/internal/vault"
	apperrors "github.com/berat-eth/huglu-storefront/pkg/errors"
)

// fakeGateway scripts backend responses and records what reached it.
type fakeGateway struct {
	createOrderReq *backend.CreateOrderRequest
	orderID        string
	createErr      error

	paymentReq *backend.PaymentRequest
	payResult  *backend.PaymentResult
	payErr     error

	order        *domain.Order
	orderReads   int
	paidAtRead   int // order reports paid starting from this read, 0 = never
	cartItems    []domain.CartItem
	cartErr      error
	clearedUsers []string
	clearErr     error
}

func (f *fakeGateway) CreateOrder(ctx context.Context, req *backend.CreateOrderRequest) (string, error) {
	f.createOrderReq = req
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.orderID, nil
}

func (f *fakeGateway) SubmitPayment(ctx context.Context, req *backend.PaymentRequest) (*backend.PaymentResult, error) {
	f.paymentReq = req
	if f.payErr != nil {
		return nil, f.payErr
	}
	return f.payResult, nil
}

func (f *fakeGateway) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	f.orderReads++
	order := domain.Order{ID: orderID, Status: domain.OrderStatusPending}
	if f.order != nil {
		order = *f.order
	}
	if f.paidAtRead > 0 && f.orderReads >= f.paidAtRead {
		order.Status = domain.OrderStatusPaid
	}
	return &order, nil
}

func (f *fakeGateway) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if f.cartErr != nil {
		return nil, f.cartErr
	}
	return &domain.Cart{UserID: userID, Items: f.cartItems}, nil
}

func (f *fakeGateway) ClearCart(ctx context.Context, userID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.clearedUsers = append(f.clearedUsers, userID)
	return nil
}

func testPolicy() cart.ShippingPolicy {
	return cart.ShippingPolicy{FreeShippingThreshold: 600, FlatFee: 30}
}

func newTestService(gw *fakeGateway) (*Service, *vault.Vault) {
	v := vault.New(nil)
	w := payment.NewWorkflow(v, payment.PollConfig{
		InitialDelay: 0,
		Interval:     time.Millisecond,
		MaxAttempts:  3,
	}, nil)
	cartSvc := cart.NewService(gw, nil, testPolicy(), nil)
	return NewService(gw, cartSvc, w, nil, nil), v
}

func checkoutRequest() *Request {
	return &Request{
		UserID: "u1",
		Card: domain.PaymentCard{
			CardHolderName: "Ali Veli",
			CardNumber:     "4111 1111 1111 1111",
			ExpireMonth:    "12",
			ExpireYear:     "28",
			CVC:            "123",
		},
		Buyer:          domain.Buyer{ID: "u1", Name: "Ali", Surname: "Veli", Phone: "+905550000000"},
		DeliveryMethod: domain.DeliveryShip,
		ShippingAddress: &domain.Address{
			ContactName: "Ali Veli",
			City:        "Konya",
			Country:     "Türkiye",
			Address:     "Huğlu Mah. 1",
		},
	}
}

func TestCheckout_ImmediateSuccess(t *testing.T) {
	gw := &fakeGateway{
		orderID:   "order-9",
		cartItems: []domain.CartItem{{ProductID: 1, Name: "Av Yeleği", Price: 400, Quantity: 1}},
		payResult: &backend.PaymentResult{PaymentID: "pay-9", CardInfo: domain.MaskedCard{Last4: "1111"}},
	}
	svc, v := newTestService(gw)

	outcome, err := svc.Checkout(context.Background(), checkoutRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.AttemptCompleted, outcome.State)
	assert.Equal(t, "order-9", outcome.IntentID)
	assert.Equal(t, "pay-9", outcome.PaymentID)

	// Order totals include the flat shipping fee below the threshold.
	require.NotNil(t, gw.createOrderReq)
	assert.Equal(t, 430.0, gw.createOrderReq.TotalAmount)
	assert.Equal(t, domain.OrderStatusPending, gw.createOrderReq.Status)

	// Cart cleared exactly once, card erased.
	assert.Equal(t, []string{"u1"}, gw.clearedUsers)
	assert.False(t, v.Contains(outcome.AttemptID))
}

func TestCheckout_EmptyCart(t *testing.T) {
	gw := &fakeGateway{orderID: "order-9"}
	svc, _ := newTestService(gw)

	outcome, err := svc.Checkout(context.Background(), checkoutRequest())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, domain.AttemptFailed, outcome.State)
	assert.Nil(t, gw.paymentReq, "no charge for an empty cart")
	assert.Empty(t, gw.clearedUsers)
}

func TestCheckout_PickupOrderCarriesStore(t *testing.T) {
	store := "Huğlu Merkez"
	gw := &fakeGateway{
		orderID:   "order-9",
		cartItems: []domain.CartItem{{ProductID: 1, Price: 100, Quantity: 1}},
		payResult: &backend.PaymentResult{PaymentID: "pay-9"},
	}
	svc, _ := newTestService(gw)

	req := checkoutRequest()
	req.DeliveryMethod = domain.DeliveryPickup
	req.PickupStore = &store
	req.ShippingAddress = nil

	_, err := svc.Checkout(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, gw.createOrderReq.PickupStore)
	assert.Equal(t, store, *gw.createOrderReq.PickupStore)
	assert.Nil(t, gw.createOrderReq.ShippingAddress)
	// Pickup ships free even under the threshold.
	assert.Equal(t, 100.0, gw.createOrderReq.TotalAmount)
}

func TestCheckout_DeclineLeavesCartIntact(t *testing.T) {
	gw := &fakeGateway{
		orderID:   "order-9",
		cartItems: []domain.CartItem{{ProductID: 1, Price: 700, Quantity: 1}},
		payErr:    &apperrors.ErrGatewayDeclined{Raw: "do not honor"},
	}
	svc, v := newTestService(gw)

	outcome, err := svc.Checkout(context.Background(), checkoutRequest())

	var declined *apperrors.ErrGatewayDeclined
	require.True(t, errors.As(err, &declined))
	assert.Equal(t, domain.AttemptFailed, outcome.State)
	assert.Equal(t, "Bankanız işlemi onaylamadı. Lütfen bankanızla iletişime geçin.", outcome.UserMessage)
	assert.Empty(t, gw.clearedUsers, "a declined payment must not clear the cart")
	assert.False(t, v.Contains(outcome.AttemptID))
}

func TestCheckout_ChallengeThenConfirmed(t *testing.T) {
	gw := &fakeGateway{
		orderID:   "order-9",
		cartItems: []domain.CartItem{{ProductID: 1, Price: 700, Quantity: 1}},
		payResult: &backend.PaymentResult{
			ConversationID: "conv-9",
			Requires3DS:    true,
			ChallengeHTML:  "<html>otp</html>",
		},
		paidAtRead: 2,
	}
	svc, v := newTestService(gw)

	outcome, err := svc.Checkout(context.Background(), checkoutRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptAwaitingChallenge, outcome.State)
	require.NotNil(t, outcome.Challenge)
	assert.Equal(t, "<html>otp</html>", outcome.Challenge.HTML)
	assert.Empty(t, gw.clearedUsers, "cart stays until the payment is confirmed")
	assert.False(t, v.Contains(outcome.AttemptID), "card erased while the challenge is pending")

	final, err := svc.CompleteChallenge(context.Background(), "conv-9")
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptCompleted, final.State)
	assert.Equal(t, 2, gw.orderReads)
	assert.Equal(t, []string{"u1"}, gw.clearedUsers)
}

func TestCheckout_ChallengeNeverConfirms(t *testing.T) {
	gw := &fakeGateway{
		orderID:   "order-9",
		cartItems: []domain.CartItem{{ProductID: 1, Price: 700, Quantity: 1}},
		payResult: &backend.PaymentResult{
			ConversationID: "conv-9",
			Requires3DS:    true,
			ChallengeHTML:  "<html>otp</html>",
		},
	}
	svc, _ := newTestService(gw)

	_, err := svc.Checkout(context.Background(), checkoutRequest())
	require.NoError(t, err)

	final, err := svc.CompleteChallenge(context.Background(), "conv-9")

	var unconfirmed *apperrors.ErrUnconfirmed
	require.True(t, errors.As(err, &unconfirmed))
	assert.Equal(t, domain.AttemptFailed, final.State)
	assert.Equal(t, 3, gw.orderReads)
	assert.Empty(t, gw.clearedUsers)
}

func TestCheckout_PaymentStatusFieldCountsAsSettled(t *testing.T) {
	gw := &fakeGateway{
		orderID:   "order-9",
		cartItems: []domain.CartItem{{ProductID: 1, Price: 700, Quantity: 1}},
		payResult: &backend.PaymentResult{
			ConversationID: "conv-9",
			Requires3DS:    true,
			ChallengeHTML:  "<html>otp</html>",
		},
		order: &domain.Order{ID: "order-9", Status: domain.OrderStatusPending, PaymentStatus: "paid"},
	}
	svc, _ := newTestService(gw)

	_, err := svc.Checkout(context.Background(), checkoutRequest())
	require.NoError(t, err)

	final, err := svc.CompleteChallenge(context.Background(), "conv-9")
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptCompleted, final.State)
}

func TestAbandonChallenge(t *testing.T) {
	gw := &fakeGateway{
		orderID:   "order-9",
		cartItems: []domain.CartItem{{ProductID: 1, Price: 700, Quantity: 1}},
		payResult: &backend.PaymentResult{
			ConversationID: "conv-9",
			Requires3DS:    true,
			ChallengeHTML:  "<html>otp</html>",
		},
	}
	svc, _ := newTestService(gw)

	_, err := svc.Checkout(context.Background(), checkoutRequest())
	require.NoError(t, err)

	require.True(t, svc.AbandonChallenge("conv-9"))
	assert.Empty(t, gw.clearedUsers)

	// A fresh checkout for the same user starts cleanly afterwards.
	gw.payResult = &backend.PaymentResult{PaymentID: "pay-10"}
	outcome, err := svc.Checkout(context.Background(), checkoutRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptCompleted, outcome.State)
}

func TestCheckout_DefaultsDeliveryToShipping(t *testing.T) {
	gw := &fakeGateway{
		orderID:   "order-9",
		cartItems: []domain.CartItem{{ProductID: 1, Price: 100, Quantity: 1}},
		payResult: &backend.PaymentResult{PaymentID: "pay-9"},
	}
	svc, _ := newTestService(gw)

	req := checkoutRequest()
	req.DeliveryMethod = ""

	_, err := svc.Checkout(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 130.0, gw.createOrderReq.TotalAmount)
	assert.NotNil(t, gw.createOrderReq.ShippingAddress)
}
