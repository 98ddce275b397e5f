package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/threeds"
)

// callbackPage is shown inside the embedded browser after the gateway
// redirect lands. The storefront polls the attempt status endpoint for the
// actual result.
const callbackPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Ödeme</title></head>
<body><p>Ödemeniz işleniyor, lütfen bekleyin...</p></body></html>`

// HandleThreeDSCallback serves the gateway's 3DS redirect target. The path
// must match the gateway configuration exactly; completion is keyed by the
// conversationId the gateway echoes back.
func HandleThreeDSCallback(monitor *threeds.Monitor, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Query("conversationId")
		if conversationID == "" {
			conversationID = c.PostForm("conversationId")
		}
		if conversationID == "" {
			c.String(http.StatusBadRequest, "missing conversationId")
			return
		}

		if !monitor.Complete(c.Request.Context(), conversationID) {
			logger.Warn("Callback for unknown conversation", zap.String("conversation_id", conversationID))
			c.String(http.StatusNotFound, "unknown payment session")
			return
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, callbackPage)
	}
}

// HandleNavigationEvent handles POST /v1/payments/3ds-navigation: the
// storefront's embedded browser reports each navigation URL and the monitor
// matches it against the callback path (legacy substring detection).
func HandleNavigationEvent(monitor *threeds.Monitor, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			URL string `json:"url" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "url is required"})
			return
		}

		matched := monitor.ObserveNavigation(c.Request.Context(), req.URL)
		c.JSON(http.StatusOK, gin.H{"matched": matched})
	}
}
