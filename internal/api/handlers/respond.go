package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/checkout"
	"github.com/berat-eth/huglu-storefront/internal/payment"
	apperrors "github.com/berat-eth/huglu-storefront/pkg/errors"
)

// respondError maps workflow errors onto HTTP statuses. Every failure body
// carries the localized message the storefront shows in its alert dialog.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError

	var validation *apperrors.ErrValidation
	var declined *apperrors.ErrGatewayDeclined
	var connectivity *apperrors.ErrConnectivity
	var unconfirmed *apperrors.ErrUnconfirmed
	var inflight *apperrors.ErrAttemptInFlight
	var notFound *apperrors.ErrNotFound

	switch {
	case errors.As(err, &validation):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &declined):
		status = http.StatusPaymentRequired
	case errors.As(err, &connectivity):
		status = http.StatusBadGateway
	case errors.As(err, &unconfirmed):
		status = http.StatusAccepted // payment may still settle on the backend
	case errors.As(err, &inflight):
		status = http.StatusConflict
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.Is(err, checkout.ErrEmptyCart):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	}

	c.JSON(status, gin.H{
		"error":   err.Error(),
		"message": payment.UserMessage(err),
	})
}
