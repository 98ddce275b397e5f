package threeds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berat-eth/huglu-storefront/internal/domain"
)

const callbackPath = "/api/payments/3ds-callback"

func newTestMonitor() (*Monitor, *[]string) {
	completed := &[]string{}
	m := NewMonitor(callbackPath, func(_ context.Context, conversationID string) {
		*completed = append(*completed, conversationID)
	}, nil)
	return m, completed
}

func TestObserveNavigation_MatchesCallbackURL(t *testing.T) {
	m, completed := newTestMonitor()
	m.Track(&domain.Challenge{ConversationID: "conv-1"})

	fired := m.ObserveNavigation(context.Background(), "https://api.example.com/api/payments/3ds-callback?conversationId=conv-1&status=success")

	assert.True(t, fired)
	assert.Equal(t, []string{"conv-1"}, *completed)
	assert.False(t, m.Pending("conv-1"))
}

func TestObserveNavigation_IgnoresOtherURLs(t *testing.T) {
	m, completed := newTestMonitor()
	m.Track(&domain.Challenge{ConversationID: "conv-1"})

	for _, u := range []string{
		"https://bank.example.com/3ds/challenge?id=abc",
		"https://bank.example.com/otp/submit",
		"about:blank",
	} {
		assert.False(t, m.ObserveNavigation(context.Background(), u), "url=%q", u)
	}
	assert.Empty(t, *completed)
	assert.True(t, m.Pending("conv-1"))
}

func TestObserveNavigation_SolePendingFallback(t *testing.T) {
	m, completed := newTestMonitor()
	m.Track(&domain.Challenge{ConversationID: "conv-1"})

	// Gateway redirected without the conversation ID in the query.
	fired := m.ObserveNavigation(context.Background(), "https://api.example.com/api/payments/3ds-callback")

	assert.True(t, fired)
	assert.Equal(t, []string{"conv-1"}, *completed)
}

func TestObserveNavigation_AmbiguousWithoutID(t *testing.T) {
	m, completed := newTestMonitor()
	m.Track(&domain.Challenge{ConversationID: "conv-1"})
	m.Track(&domain.Challenge{ConversationID: "conv-2"})

	// Two pending challenges and no ID in the URL: nothing fires.
	fired := m.ObserveNavigation(context.Background(), "https://api.example.com/api/payments/3ds-callback")

	assert.False(t, fired)
	assert.Empty(t, *completed)
}

func TestObserveNavigation_UnknownConversation(t *testing.T) {
	m, completed := newTestMonitor()

	fired := m.ObserveNavigation(context.Background(), "https://api.example.com/api/payments/3ds-callback?conversationId=ghost")

	assert.False(t, fired)
	assert.Empty(t, *completed)
}

func TestComplete_MessagePath(t *testing.T) {
	m, completed := newTestMonitor()
	m.Track(&domain.Challenge{ConversationID: "conv-1"})

	require.True(t, m.Complete(context.Background(), "conv-1"))
	assert.Equal(t, []string{"conv-1"}, *completed)

	// Completions are single-shot per conversation.
	assert.False(t, m.Complete(context.Background(), "conv-1"))
	assert.Len(t, *completed, 1)
}

func TestAbandon(t *testing.T) {
	m, completed := newTestMonitor()
	m.Track(&domain.Challenge{ConversationID: "conv-1"})

	require.True(t, m.Abandon("conv-1"))
	assert.False(t, m.Abandon("conv-1"))
	assert.False(t, m.Pending("conv-1"))

	// An abandoned challenge no longer completes.
	assert.False(t, m.Complete(context.Background(), "conv-1"))
	assert.Empty(t, *completed)
}
