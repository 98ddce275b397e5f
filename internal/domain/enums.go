package domain

import "strings"

// OrderStatus is the backend-owned order lifecycle value as read via polling.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsPaid reports whether the backend considers the payment settled.
// Only paid/completed count; anything else is unconfirmed.
func (s OrderStatus) IsPaid() bool {
	switch OrderStatus(strings.ToLower(string(s))) {
	case OrderStatusPaid, OrderStatusCompleted:
		return true
	default:
		return false
	}
}

// AttemptState is the state of a single payment attempt driven by the
// workflow engine.
type AttemptState string

const (
	AttemptIdle              AttemptState = "IDLE"
	AttemptValidatingInput   AttemptState = "VALIDATING_INPUT"
	AttemptCreatingOrder     AttemptState = "CREATING_ORDER"
	AttemptSubmittingPayment AttemptState = "SUBMITTING_PAYMENT"
	AttemptAwaitingChallenge AttemptState = "AWAITING_CHALLENGE"
	AttemptPollingStatus     AttemptState = "POLLING_STATUS"
	AttemptCompleted         AttemptState = "COMPLETED"
	AttemptFailed            AttemptState = "FAILED"
)

// IsTerminal reports whether the attempt can make no further progress.
func (s AttemptState) IsTerminal() bool {
	return s == AttemptCompleted || s == AttemptFailed
}

// String representation (for logging)
func (s AttemptState) String() string {
	return string(s)
}

// CanTransitionTo checks if an attempt state transition is valid. The attempt
// is strictly sequential: validate, create order, submit payment, then either
// finish or detour through the 3DS challenge and a status poll.
func (s AttemptState) CanTransitionTo(next AttemptState) bool {
	switch s {
	case AttemptIdle:
		return next == AttemptValidatingInput
	case AttemptValidatingInput:
		return next == AttemptCreatingOrder || next == AttemptFailed
	case AttemptCreatingOrder:
		return next == AttemptSubmittingPayment || next == AttemptFailed
	case AttemptSubmittingPayment:
		return next == AttemptCompleted ||
			next == AttemptAwaitingChallenge ||
			next == AttemptFailed
	case AttemptAwaitingChallenge:
		return next == AttemptPollingStatus || next == AttemptFailed
	case AttemptPollingStatus:
		return next == AttemptCompleted || next == AttemptFailed
	case AttemptCompleted, AttemptFailed:
		return false // Terminal states
	default:
		return false
	}
}
