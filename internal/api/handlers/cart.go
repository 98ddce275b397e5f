package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/cart"
	"github.com/berat-eth/huglu-storefront/internal/domain"
)

// CartResponse is the cart with its computed totals.
type CartResponse struct {
	Cart   *domain.Cart  `json:"cart"`
	Totals domain.Totals `json:"totals"`
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		method := domain.DeliveryMethod(c.DefaultQuery("deliveryMethod", string(domain.DeliveryShip)))
		cartState, totals, err := svc.Load(c.Request.Context(), userID, method)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, CartResponse{Cart: cartState, Totals: totals})
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		if err := svc.Clear(c.Request.Context(), userID); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleCartBadge handles GET /v1/cart/badge
func HandleCartBadge(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		count, err := svc.BadgeCount(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}
