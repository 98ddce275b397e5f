package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusIsPaid(t *testing.T) {
	assert.True(t, OrderStatusPaid.IsPaid())
	assert.True(t, OrderStatusCompleted.IsPaid())
	assert.True(t, OrderStatus("PAID").IsPaid())
	assert.True(t, OrderStatus("Completed").IsPaid())

	assert.False(t, OrderStatusPending.IsPaid())
	assert.False(t, OrderStatusFailed.IsPaid())
	assert.False(t, OrderStatusCancelled.IsPaid())
	assert.False(t, OrderStatus("").IsPaid())
}

func TestAttemptStateTransitions(t *testing.T) {
	assert.True(t, AttemptIdle.CanTransitionTo(AttemptValidatingInput))
	assert.True(t, AttemptValidatingInput.CanTransitionTo(AttemptCreatingOrder))
	assert.True(t, AttemptCreatingOrder.CanTransitionTo(AttemptSubmittingPayment))
	assert.True(t, AttemptSubmittingPayment.CanTransitionTo(AttemptCompleted))
	assert.True(t, AttemptSubmittingPayment.CanTransitionTo(AttemptAwaitingChallenge))
	assert.True(t, AttemptAwaitingChallenge.CanTransitionTo(AttemptPollingStatus))
	assert.True(t, AttemptPollingStatus.CanTransitionTo(AttemptCompleted))

	// No skipping ahead and no leaving a terminal state.
	assert.False(t, AttemptIdle.CanTransitionTo(AttemptSubmittingPayment))
	assert.False(t, AttemptValidatingInput.CanTransitionTo(AttemptAwaitingChallenge))
	assert.False(t, AttemptCompleted.CanTransitionTo(AttemptFailed))
	assert.False(t, AttemptFailed.CanTransitionTo(AttemptValidatingInput))
}

func TestAttemptStateIsTerminal(t *testing.T) {
	assert.True(t, AttemptCompleted.IsTerminal())
	assert.True(t, AttemptFailed.IsTerminal())
	assert.False(t, AttemptAwaitingChallenge.IsTerminal())
	assert.False(t, AttemptPollingStatus.IsTerminal())
}
