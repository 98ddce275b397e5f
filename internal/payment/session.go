package payment

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/berat-eth/huglu-storefront/internal/domain"
	apperrors "github.com/berat-eth/huglu-storefront/pkg/errors"
)

func newAttemptID() string {
	return uuid.New().String()
}

// session is one attempt suspended on a 3DS challenge.
type session struct {
	conversationID string
	attemptID      string
	intentID       string
	key            string
	def            Definition
	state          domain.AttemptState
	finishedAt     time.Time
}

// sessionStore tracks challenge sessions by conversation ID. Terminal
// sessions are kept briefly so callers can read the final state.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

const finishedRetention = time.Hour

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (s *sessionStore) put(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.sessions[sess.conversationID] = sess
}

// take atomically checks the session is in `from` and moves it to `to`.
// A second caller racing on the same conversation loses here, which is what
// makes challenge completion single-shot.
func (s *sessionStore) take(conversationID string, from, to domain.AttemptState) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[conversationID]
	if !ok || sess.state != from || !sess.state.CanTransitionTo(to) {
		return nil, false
	}
	sess.state = to
	return sess, true
}

func (s *sessionStore) finish(sess *session, terminal domain.AttemptState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.state = terminal
	sess.finishedAt = time.Now()
}

func (s *sessionStore) state(conversationID string) (domain.AttemptState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[conversationID]
	if !ok {
		return "", false
	}
	return sess.state, true
}

// prune drops terminal sessions past retention. Caller holds the lock.
func (s *sessionStore) prune() {
	cutoff := time.Now().Add(-finishedRetention)
	for id, sess := range s.sessions {
		if sess.state.IsTerminal() && !sess.finishedAt.IsZero() && sess.finishedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// inflightGuard rejects a second concurrent start for the same attempt key.
type inflightGuard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{keys: make(map[string]struct{})}
}

func (g *inflightGuard) acquire(key string) error {
	if key == "" {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.keys[key]; held {
		return &apperrors.ErrAttemptInFlight{Key: key}
	}
	g.keys[key] = struct{}{}
	return nil
}

func (g *inflightGuard) release(key string) {
	if key == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
}
