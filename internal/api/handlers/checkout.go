package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/api/middleware"
	"github.com/berat-eth/huglu-storefront/internal/checkout"
	"github.com/berat-eth/huglu-storefront/internal/domain"
	"github.com/berat-eth/huglu-storefront/internal/payment"
)

// OrderReader resolves orders for idempotent replays and status lookups.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
}

// AttemptResponse is the storefront-facing shape of a workflow outcome.
type AttemptResponse struct {
	AttemptID string              `json:"attemptId"`
	State     domain.AttemptState `json:"state"`
	OrderID   string              `json:"orderId,omitempty"`
	PaymentID string              `json:"paymentId,omitempty"`
	CardInfo  *domain.MaskedCard  `json:"cardInfo,omitempty"`
	Challenge *domain.Challenge   `json:"challenge,omitempty"`
	Message   string              `json:"message,omitempty"`
}

func toAttemptResponse(outcome *payment.Outcome) AttemptResponse {
	resp := AttemptResponse{
		AttemptID: outcome.AttemptID,
		State:     outcome.State,
		OrderID:   outcome.IntentID,
		PaymentID: outcome.PaymentID,
		Challenge: outcome.Challenge,
		Message:   outcome.UserMessage,
	}
	if outcome.CardInfo != (domain.MaskedCard{}) {
		info := outcome.CardInfo
		resp.CardInfo = &info
	}
	return resp
}

// HandleCheckoutSubmit handles POST /v1/checkout
func HandleCheckoutSubmit(svc *checkout.Service, orders OrderReader, idem *middleware.IdempotencyStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if this is an idempotent replay
		_, _, existingOrderID, isExisting := middleware.GetIdempotencyInfo(c)
		if isExisting {
			order, err := orders.GetOrder(c.Request.Context(), existingOrderID)
			if err != nil {
				logger.Error("Failed to get existing order for idempotent replay", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			c.JSON(http.StatusOK, AttemptResponse{State: replayState(order), OrderID: order.ID})
			return
		}

		var req checkout.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "userId is required"})
			return
		}

		outcome, err := svc.Checkout(c.Request.Context(), &req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		// Store idempotency key if provided
		idempotencyKey, requestHash, _, _ := middleware.GetIdempotencyInfo(c)
		if idempotencyKey != "" && idem != nil && outcome.IntentID != "" {
			idem.Save(c.Request.Context(), idempotencyKey, requestHash, outcome.IntentID)
		}

		c.JSON(http.StatusOK, toAttemptResponse(outcome))
	}
}

// replayState maps a replayed order's backend status onto an attempt state.
// A pending order may still have its 3DS challenge in flight, so only a
// definitive backend status maps to a terminal state.
func replayState(order *domain.Order) domain.AttemptState {
	switch {
	case order.Status.IsPaid() || domain.OrderStatus(order.PaymentStatus).IsPaid():
		return domain.AttemptCompleted
	case order.Status == domain.OrderStatusFailed || order.Status == domain.OrderStatusCancelled:
		return domain.AttemptFailed
	default:
		return domain.AttemptPollingStatus
	}
}

// HandleAttemptStatus handles GET /v1/payments/attempts/:conversationId
func HandleAttemptStatus(workflow *payment.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		state, ok := workflow.AttemptState(conversationID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown payment attempt"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"conversationId": conversationID,
			"state":          state,
		})
	}
}

// HandleAbandonChallenge handles POST /v1/payments/attempts/:conversationId/abandon.
// Local state resets; no cancellation reaches the backend, so the order may
// stay pending on the server.
func HandleAbandonChallenge(svc *checkout.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		if !svc.AbandonChallenge(conversationID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown payment attempt"})
			return
		}
		logger.Info("Challenge abandoned by client", zap.String("conversation_id", conversationID))
		c.JSON(http.StatusOK, gin.H{"state": domain.AttemptFailed})
	}
}
