package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/wallet"
)

// HandleWalletRecharge handles POST /v1/wallet/recharge
func HandleWalletRecharge(svc *wallet.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wallet.RechargeRequest
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

		outcome, err := svc.Recharge(c.Request.Context(), &req)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toAttemptResponse(outcome))
	}
}

// HandleWalletBalance handles GET /v1/wallet/balance
func HandleWalletBalance(svc *wallet.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}
		balance, err := svc.Balance(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, balance)
	}
}

// HandleWalletTransactions handles GET /v1/wallet/transactions
func HandleWalletTransactions(svc *wallet.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}
		transactions, err := svc.Transactions(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": transactions})
	}
}

// HandleWalletPaymentMethods handles GET /v1/wallet/payment-methods
func HandleWalletPaymentMethods(svc *wallet.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}
		methods, err := svc.PaymentMethods(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"paymentMethods": methods})
	}
}

// HandleWalletVouchers handles GET /v1/wallet/vouchers
func HandleWalletVouchers(svc *wallet.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}
		vouchers, err := svc.Vouchers(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"vouchers": vouchers})
	}
}
