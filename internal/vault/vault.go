// Package vault holds card data for the lifetime of a single payment attempt.
// The contract: card fields survive the 3DS redirect window and are erased on
// every attempt exit path, including panics.
package vault

import (
	"sync"

	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/domain"
)

// Vault is an in-memory store of transient card data keyed by attempt ID.
// Main-thread-only in the original client; here a mutex covers the handful of
// goroutines a BFF request can touch.
type Vault struct {
	mu     sync.Mutex
	cards  map[string]*domain.PaymentCard
	logger *zap.Logger
}

func New(logger *zap.Logger) *Vault {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Vault{
		cards:  make(map[string]*domain.PaymentCard),
		logger: logger,
	}
}

// Store keeps a copy of the card under the attempt ID.
func (v *Vault) Store(attemptID string, card domain.PaymentCard) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c := card
	v.cards[attemptID] = &c
}

// Load returns the stored card for an attempt, if any.
func (v *Vault) Load(attemptID string) (domain.PaymentCard, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c, ok := v.cards[attemptID]
	if !ok {
		return domain.PaymentCard{}, false
	}
	return *c, true
}

// Erase zeroes and removes the card for an attempt. Safe to call twice.
func (v *Vault) Erase(attemptID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c, ok := v.cards[attemptID]
	if !ok {
		return
	}
	*c = domain.PaymentCard{}
	delete(v.cards, attemptID)
	v.logger.Debug("Card data erased", zap.String("attempt_id", attemptID))
}

// Scoped stores the card, runs fn, and guarantees erasure on every exit path
// (return, error, panic). This is the only way workflow code touches the
// vault.
func (v *Vault) Scoped(attemptID string, card domain.PaymentCard, fn func() error) error {
	v.Store(attemptID, card)
	defer v.Erase(attemptID)
	return fn()
}

// Contains reports whether card data is still held for an attempt.
func (v *Vault) Contains(attemptID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.cards[attemptID]
	return ok
}
