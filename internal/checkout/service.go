// Package checkout wires the payment workflow for the order checkout flow:
// cart snapshot, order creation, gateway charge, optional 3DS detour, then
// cart clearing on confirmed success.
package checkout

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/backend"
	"github.com/berat-eth/huglu-storefront/internal/cart"
	"github.com/berat-eth/huglu-storefront/internal/domain"
	"github.com/berat-eth/huglu-storefront/internal/payment"
	"github.com/berat-eth/huglu-storefront/internal/threeds"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Gateway is the backend surface checkout needs.
type Gateway interface {
	CreateOrder(ctx context.Context, req *backend.CreateOrderRequest) (string, error)
	SubmitPayment(ctx context.Context, req *backend.PaymentRequest) (*backend.PaymentResult, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
}

// Request is one checkout submission from the storefront.
type Request struct {
	UserID          string                `json:"userId"`
	Card            domain.PaymentCard    `json:"paymentCard"`
	Buyer           domain.Buyer          `json:"buyer"`
	DeliveryMethod  domain.DeliveryMethod `json:"deliveryMethod"`
	ShippingAddress *domain.Address       `json:"shippingAddress,omitempty"`
	BillingAddress  *domain.Address       `json:"billingAddress,omitempty"`
	PickupStore     *string               `json:"pickupStore,omitempty"`
}

// Service runs checkouts through the shared payment workflow.
type Service struct {
	gateway  Gateway
	cart     *cart.Service
	workflow *payment.Workflow
	monitor  *threeds.Monitor
	logger   *zap.Logger
}

func NewService(gateway Gateway, cartSvc *cart.Service, workflow *payment.Workflow, monitor *threeds.Monitor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gateway:  gateway,
		cart:     cartSvc,
		workflow: workflow,
		monitor:  monitor,
		logger:   logger,
	}
}

// Checkout validates the card, creates the order from the current cart, and
// submits the charge. The outcome is COMPLETED, FAILED, or
// AWAITING_CHALLENGE with the 3DS content for the embedded browser.
func (s *Service) Checkout(ctx context.Context, req *Request) (*payment.Outcome, error) {
	def := payment.Definition{
		Key:          "checkout:" + req.UserID,
		CreateIntent: s.createOrder(req),
		Submit:       s.submit(req),
		Confirm:      s.confirm(),
		OnSuccess: func(ctx context.Context) error {
			return s.cart.Clear(ctx, req.UserID)
		},
	}

	outcome, err := s.workflow.Run(ctx, def, req.Card)
	if outcome != nil && outcome.Challenge != nil && s.monitor != nil {
		s.monitor.Track(outcome.Challenge)
	}
	return outcome, err
}

// createOrder snapshots the cart and submits the order record. The backend
// owns the order from here on; a later payment failure leaves it as recorded.
func (s *Service) createOrder(req *Request) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		method := req.DeliveryMethod
		if method == "" {
			method = domain.DeliveryShip
		}

		cartState, totals, err := s.cart.Load(ctx, req.UserID, method)
		if err != nil {
			return "", err
		}
		if len(cartState.Items) == 0 {
			return "", ErrEmptyCart
		}

		items := make([]domain.OrderItem, 0, len(cartState.Items))
		for _, it := range cartState.Items {
			items = append(items, domain.OrderItem{
				ProductID: it.ProductID,
				Name:      it.Name,
				Price:     it.Price,
				Quantity:  it.Quantity,
			})
		}

		orderReq := &backend.CreateOrderRequest{
			UserID:        req.UserID,
			TotalAmount:   totals.Total,
			Status:        domain.OrderStatusPending,
			PaymentMethod: "card",
			Items:         items,
		}
		if method == domain.DeliveryPickup {
			orderReq.PickupStore = req.PickupStore
		} else {
			orderReq.ShippingAddress = req.ShippingAddress
		}

		orderID, err := s.gateway.CreateOrder(ctx, orderReq)
		if err != nil {
			return "", err
		}
		s.logger.Info("Checkout order created",
			zap.String("order_id", orderID),
			zap.String("user_id", req.UserID),
			zap.Float64("total", totals.Total),
		)
		return orderID, nil
	}
}

func (s *Service) submit(req *Request) func(ctx context.Context, orderID string, c domain.PaymentCard) (*payment.Intent, error) {
	return func(ctx context.Context, orderID string, c domain.PaymentCard) (*payment.Intent, error) {
		result, err := s.gateway.SubmitPayment(ctx, &backend.PaymentRequest{
			OrderID:         orderID,
			PaymentCard:     c,
			Buyer:           req.Buyer,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
		})
		if err != nil {
			return nil, err
		}
		return &payment.Intent{
			PaymentID:      result.PaymentID,
			ConversationID: result.ConversationID,
			Requires3DS:    result.Requires3DS,
			ChallengeHTML:  result.ChallengeHTML,
			CardInfo:       result.CardInfo,
		}, nil
	}
}

// confirm reads order status; only paid/completed count as settled.
func (s *Service) confirm() func(ctx context.Context, orderID string) (bool, error) {
	return func(ctx context.Context, orderID string) (bool, error) {
		order, err := s.gateway.GetOrder(ctx, orderID)
		if err != nil {
			return false, err
		}
		if order.Status.IsPaid() {
			return true, nil
		}
		return domain.OrderStatus(order.PaymentStatus).IsPaid(), nil
	}
}

// CompleteChallenge resumes a checkout waiting on its 3DS conversation.
func (s *Service) CompleteChallenge(ctx context.Context, conversationID string) (*payment.Outcome, error) {
	return s.workflow.CompleteChallenge(ctx, conversationID)
}

// AbandonChallenge drops a pending 3DS challenge without confirming. The
// backend order stays in whatever state it already has.
func (s *Service) AbandonChallenge(conversationID string) bool {
	if s.monitor != nil {
		s.monitor.Abandon(conversationID)
	}
	return s.workflow.AbandonChallenge(conversationID)
}
