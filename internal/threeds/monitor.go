// Package threeds detects completion of an embedded 3-D Secure challenge.
// Two paths exist: the legacy one watches embedded-browser navigation events
// for the gateway's callback URL, and the message path is hit directly by the
// callback endpoint the gateway redirects to. Both funnel into the same
// completion handler.
package threeds

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/domain"
)

// CompletionHandler resumes the payment attempt waiting on a conversation.
type CompletionHandler func(ctx context.Context, conversationID string)

// Monitor tracks pending challenges and fires the completion handler when
// the callback is observed.
type Monitor struct {
	// callbackPath must match the gateway's redirect target exactly; the
	// navigation check is a substring match against it.
	callbackPath string
	onComplete   CompletionHandler
	logger       *zap.Logger

	mu      sync.Mutex
	pending map[string]*domain.Challenge
}

func NewMonitor(callbackPath string, onComplete CompletionHandler, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		callbackPath: callbackPath,
		onComplete:   onComplete,
		logger:       logger,
		pending:      make(map[string]*domain.Challenge),
	}
}

// Track registers a challenge awaiting completion.
func (m *Monitor) Track(ch *domain.Challenge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[ch.ConversationID] = ch
}

// ObserveNavigation inspects one embedded-browser navigation event. Arrival
// at the callback URL is the trigger; the conversation is read from the
// query string, falling back to the sole pending challenge when the gateway
// sends none. Returns true when a completion fired.
func (m *Monitor) ObserveNavigation(ctx context.Context, rawURL string) bool {
	if !strings.Contains(rawURL, m.callbackPath) {
		return false
	}

	conversationID := ""
	if u, err := url.Parse(rawURL); err == nil {
		conversationID = u.Query().Get("conversationId")
	}

	m.mu.Lock()
	if conversationID == "" && len(m.pending) == 1 {
		for id := range m.pending {
			conversationID = id
		}
	}
	_, known := m.pending[conversationID]
	if known {
		delete(m.pending, conversationID)
	}
	m.mu.Unlock()

	if !known {
		m.logger.Warn("Callback navigation with no matching challenge", zap.String("url", rawURL))
		return false
	}

	m.logger.Info("Challenge callback observed", zap.String("conversation_id", conversationID))
	m.onComplete(ctx, conversationID)
	return true
}

// Complete finishes a tracked challenge directly (message path from the
// callback endpoint). Returns false if the conversation is unknown.
func (m *Monitor) Complete(ctx context.Context, conversationID string) bool {
	m.mu.Lock()
	_, known := m.pending[conversationID]
	if known {
		delete(m.pending, conversationID)
	}
	m.mu.Unlock()

	if !known {
		return false
	}
	m.logger.Info("Challenge completed via message path", zap.String("conversation_id", conversationID))
	m.onComplete(ctx, conversationID)
	return true
}

// Abandon forgets a tracked challenge without completing it.
func (m *Monitor) Abandon(conversationID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, known := m.pending[conversationID]; !known {
		return false
	}
	delete(m.pending, conversationID)
	return true
}

// Pending reports whether a conversation is still awaiting its callback.
func (m *Monitor) Pending(conversationID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, known := m.pending[conversationID]
	return known
}
