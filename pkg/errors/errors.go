package errors

import (
	"fmt"

	"github.com/berat-eth/huglu-storefront/internal/domain"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when local input validation fails. No network
// call is made once one of these is raised.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ErrInvalidStateTransition is returned when an invalid attempt state
// transition is attempted
type ErrInvalidStateTransition struct {
	From domain.AttemptState
	To   domain.AttemptState
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrGatewayDeclined is returned when the payment gateway rejects a charge.
// Raw carries the backend message verbatim; UserMessage is the localized
// translation shown to the customer.
type ErrGatewayDeclined struct {
	Raw         string
	UserMessage string
}

func (e *ErrGatewayDeclined) Error() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	return e.Raw
}

// ErrConnectivity is returned for transport-level failures (network
// unreachable, timeout). Surfaced as a generic connectivity message.
type ErrConnectivity struct {
	Op  string
	Err error
}

func (e *ErrConnectivity) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ErrConnectivity) Unwrap() error {
	return e.Err
}

// ErrUnconfirmed is returned when the post-challenge status poll exhausts its
// attempts without the backend reporting the order as paid. The order is left
// in whatever state the backend recorded.
type ErrUnconfirmed struct {
	OrderID  string
	Attempts int
}

func (e *ErrUnconfirmed) Error() string {
	return fmt.Sprintf("payment status for order %s could not be confirmed after %d attempts", e.OrderID, e.Attempts)
}

// ErrAttemptInFlight is returned when a second start is requested for an
// attempt key that already has a payment in flight (double-tap guard).
type ErrAttemptInFlight struct {
	Key string
}

func (e *ErrAttemptInFlight) Error() string {
	return fmt.Sprintf("a payment attempt is already in flight for %s", e.Key)
}
