package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/api/handlers"
	"github.com/berat-eth/huglu-storefront/internal/api/middleware"
	"github.com/berat-eth/huglu-storefront/internal/cart"
	"github.com/berat-eth/huglu-storefront/internal/checkout"
	"github.com/berat-eth/huglu-storefront/internal/config"
	"github.com/berat-eth/huglu-storefront/internal/payment"
	"github.com/berat-eth/huglu-storefront/internal/threeds"
	"github.com/berat-eth/huglu-storefront/internal/wallet"
)

// Deps carries the wired services the router exposes.
type Deps struct {
	Cart        *cart.Service
	Checkout    *checkout.Service
	Wallet      *wallet.Service
	Orders      handlers.OrderReader
	Workflow    *payment.Workflow
	Monitor     *threeds.Monitor
	Idempotency *middleware.IdempotencyStore
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Deps, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Huglu Storefront API",
			"endpoints": []string{
				"GET /health",
				"GET /v1/cart",
				"DELETE /v1/cart",
				"GET /v1/cart/badge",
				"POST /v1/checkout",
				"GET /v1/orders/:id",
				"POST /v1/wallet/recharge",
				"GET /v1/wallet/balance",
				"GET /v1/wallet/transactions",
				"GET /v1/wallet/payment-methods",
				"GET /v1/wallet/vouchers",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Gateway 3DS redirect target. The path string must match the gateway
	// configuration exactly; both verbs because issuer pages differ.
	router.GET(cfg.Checkout.CallbackPath, handlers.HandleThreeDSCallback(deps.Monitor, logger))
	router.POST(cfg.Checkout.CallbackPath, handlers.HandleThreeDSCallback(deps.Monitor, logger))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		clientRoutes := v1.Group("")
		clientRoutes.Use(middleware.AuthMiddleware(cfg.API.ClientKeyHash, logger))
		clientRoutes.Use(middleware.IdempotencyMiddleware(deps.Idempotency, logger))
		{
			clientRoutes.GET("/cart", handlers.HandleGetCart(deps.Cart, logger))
			clientRoutes.DELETE("/cart", handlers.HandleClearCart(deps.Cart, logger))
			clientRoutes.GET("/cart/badge", handlers.HandleCartBadge(deps.Cart, logger))

			clientRoutes.POST("/checkout", handlers.HandleCheckoutSubmit(deps.Checkout, deps.Orders, deps.Idempotency, logger))
			clientRoutes.GET("/orders/:id", handlers.HandleGetOrder(deps.Orders, logger))

			clientRoutes.GET("/payments/attempts/:conversationId", handlers.HandleAttemptStatus(deps.Workflow))
			clientRoutes.POST("/payments/attempts/:conversationId/abandon", handlers.HandleAbandonChallenge(deps.Checkout, logger))
			clientRoutes.POST("/payments/3ds-navigation", handlers.HandleNavigationEvent(deps.Monitor, logger))

			clientRoutes.POST("/wallet/recharge", handlers.HandleWalletRecharge(deps.Wallet, logger))
			clientRoutes.GET("/wallet/balance", handlers.HandleWalletBalance(deps.Wallet, logger))
			clientRoutes.GET("/wallet/transactions", handlers.HandleWalletTransactions(deps.Wallet, logger))
			clientRoutes.GET("/wallet/payment-methods", handlers.HandleWalletPaymentMethods(deps.Wallet, logger))
			clientRoutes.GET("/wallet/vouchers", handlers.HandleWalletVouchers(deps.Wallet, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
