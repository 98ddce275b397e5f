// Package payment drives a card payment attempt end to end: validate input,
// create the intent, submit the charge, and either finish immediately or
// detour through a 3-D Secure challenge followed by a status poll. Checkout
// and wallet recharge are two parameterizations of the same engine.
package payment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/card"
	"github.com/berat-eth/huglu-storefront/internal/domain"
	"github.com/berat-eth/huglu-storefront/internal/vault"
	apperrors "github.com/berat-eth/huglu-storefront/pkg/errors"
)

// Intent is the gateway outcome of one charge submission.
type Intent struct {
	PaymentID      string
	ConversationID string
	Requires3DS    bool
	ChallengeHTML  string
	CardInfo       domain.MaskedCard
}

// Definition parameterizes one payment attempt. Checkout supplies an order
// creator and a cart-clearing success hook; wallet recharge supplies a
// reference generator and a balance confirmation.
type Definition struct {
	// Key guards against a concurrent second start of the same logical
	// attempt (double-tap). E.g. "checkout:<userID>".
	Key string

	// ValidateExtra runs after card validation, before any network call.
	// Optional.
	ValidateExtra func() error

	// CreateIntent creates the backend record the charge settles against and
	// returns its identifier.
	CreateIntent func(ctx context.Context) (string, error)

	// Submit sends the charge to the gateway.
	Submit func(ctx context.Context, intentID string, c domain.PaymentCard) (*Intent, error)

	// Confirm performs one status check after a 3DS challenge completes.
	Confirm func(ctx context.Context, intentID string) (bool, error)

	// OnSuccess runs exactly once when the payment is confirmed.
	OnSuccess func(ctx context.Context) error
}

// Outcome is what a Run or challenge completion produced.
type Outcome struct {
	AttemptID   string
	State       domain.AttemptState
	IntentID    string
	PaymentID   string
	CardInfo    domain.MaskedCard
	Challenge   *domain.Challenge
	UserMessage string // localized failure text; empty unless State is FAILED
}

// PollConfig controls the post-challenge status poll loop.
type PollConfig struct {
	InitialDelay time.Duration
	Interval     time.Duration
	MaxAttempts  int
}

// Workflow runs payment attempts and tracks the ones suspended on a 3DS
// challenge until they reach a terminal state.
type Workflow struct {
	vault    *vault.Vault
	poll     PollConfig
	logger   *zap.Logger
	guard    *inflightGuard
	sessions *sessionStore
}

func NewWorkflow(v *vault.Vault, poll PollConfig, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	if poll.MaxAttempts < 1 {
		poll.MaxAttempts = 1
	}
	return &Workflow{
		vault:    v,
		poll:     poll,
		logger:   logger,
		guard:    newInflightGuard(),
		sessions: newSessionStore(),
	}
}

// Run executes an attempt up to its first resting point: COMPLETED, FAILED,
// or AWAITING_CHALLENGE (challenge content in the outcome, completion via
// CompleteChallenge). Card data is erased before Run returns on every path.
func (w *Workflow) Run(ctx context.Context, def Definition, pc domain.PaymentCard) (*Outcome, error) {
	if err := w.guard.acquire(def.Key); err != nil {
		return nil, err
	}

	attemptID := newAttemptID()
	outcome := &Outcome{AttemptID: attemptID, State: domain.AttemptIdle}

	var awaiting bool
	err := w.vault.Scoped(attemptID, pc, func() error {
		var err error
		awaiting, err = w.run(ctx, def, attemptID, outcome)
		return err
	})
	// The guard stays held while a challenge is pending; it is released by
	// CompleteChallenge or AbandonChallenge.
	if !awaiting {
		w.guard.release(def.Key)
	}
	if err != nil {
		outcome.State = domain.AttemptFailed
		outcome.UserMessage = UserMessage(err)
		return outcome, err
	}
	return outcome, nil
}

func (w *Workflow) run(ctx context.Context, def Definition, attemptID string, outcome *Outcome) (awaiting bool, err error) {
	state := domain.AttemptIdle
	advance := func(next domain.AttemptState) error {
		if !state.CanTransitionTo(next) {
			return &apperrors.ErrInvalidStateTransition{From: state, To: next}
		}
		state = next
		outcome.State = next
		return nil
	}

	// Validate input first; a rejection here never reaches the network.
	if err := advance(domain.AttemptValidatingInput); err != nil {
		return false, err
	}
	stored, ok := w.vault.Load(attemptID)
	if !ok {
		return false, &apperrors.ErrValidation{Message: "card data missing for attempt"}
	}
	if err := card.Validate(stored); err != nil {
		return false, err
	}
	if def.ValidateExtra != nil {
		if err := def.ValidateExtra(); err != nil {
			return false, err
		}
	}

	if err := advance(domain.AttemptCreatingOrder); err != nil {
		return false, err
	}
	intentID, err := def.CreateIntent(ctx)
	if err != nil {
		w.logger.Warn("Intent creation failed", zap.String("attempt_id", attemptID), zap.Error(err))
		return false, err
	}
	outcome.IntentID = intentID

	if err := advance(domain.AttemptSubmittingPayment); err != nil {
		return false, err
	}
	w.logger.Info("Submitting payment",
		zap.String("attempt_id", attemptID),
		zap.String("intent_id", intentID),
	)
	intent, err := def.Submit(ctx, intentID, stored)
	if err != nil {
		w.logger.Warn("Payment submission failed", zap.String("attempt_id", attemptID), zap.Error(err))
		return false, err
	}
	outcome.PaymentID = intent.PaymentID
	outcome.CardInfo = intent.CardInfo

	if intent.Requires3DS {
		if err := advance(domain.AttemptAwaitingChallenge); err != nil {
			return false, err
		}
		conversationID := intent.ConversationID
		if conversationID == "" {
			conversationID = attemptID
		}
		challenge := &domain.Challenge{
			ConversationID: conversationID,
			HTML:           intent.ChallengeHTML,
			CreatedAt:      time.Now(),
		}
		outcome.Challenge = challenge
		w.sessions.put(&session{
			conversationID: conversationID,
			attemptID:      attemptID,
			intentID:       intentID,
			key:            def.Key,
			def:            def,
			state:          domain.AttemptAwaitingChallenge,
		})
		w.logger.Info("3DS challenge pending",
			zap.String("attempt_id", attemptID),
			zap.String("conversation_id", conversationID),
		)
		return true, nil
	}

	if err := def.OnSuccess(ctx); err != nil {
		w.logger.Warn("Success hook failed after payment", zap.String("attempt_id", attemptID), zap.Error(err))
		// Payment went through; report completion anyway. The cart clear is
		// retried by the next cart load.
	}
	if err := advance(domain.AttemptCompleted); err != nil {
		return false, err
	}
	w.logger.Info("Payment completed", zap.String("attempt_id", attemptID), zap.String("intent_id", intentID))
	return false, nil
}

// CompleteChallenge resumes the attempt waiting on the given conversation:
// transitions to POLLING_STATUS, waits the initial delay, then polls until
// the backend confirms or attempts run out.
func (w *Workflow) CompleteChallenge(ctx context.Context, conversationID string) (*Outcome, error) {
	sess, ok := w.sessions.take(conversationID, domain.AttemptAwaitingChallenge, domain.AttemptPollingStatus)
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "challenge session", ID: conversationID}
	}
	defer w.guard.release(sess.key)

	outcome := &Outcome{
		AttemptID: sess.attemptID,
		IntentID:  sess.intentID,
		State:     domain.AttemptPollingStatus,
	}

	if err := w.wait(ctx, w.poll.InitialDelay); err != nil {
		w.sessions.finish(sess, domain.AttemptFailed)
		outcome.State = domain.AttemptFailed
		outcome.UserMessage = UserMessage(err)
		return outcome, err
	}

	for attempt := 1; ; attempt++ {
		paid, err := sess.def.Confirm(ctx, sess.intentID)
		if err != nil {
			w.logger.Warn("Status poll failed",
				zap.String("conversation_id", conversationID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		} else if paid {
			if hookErr := sess.def.OnSuccess(ctx); hookErr != nil {
				w.logger.Warn("Success hook failed after challenge", zap.String("conversation_id", conversationID), zap.Error(hookErr))
			}
			w.sessions.finish(sess, domain.AttemptCompleted)
			outcome.State = domain.AttemptCompleted
			w.logger.Info("Payment confirmed after challenge",
				zap.String("conversation_id", conversationID),
				zap.Int("attempts", attempt),
			)
			return outcome, nil
		}

		if attempt >= w.poll.MaxAttempts {
			break
		}
		if err := w.wait(ctx, w.poll.Interval); err != nil {
			w.sessions.finish(sess, domain.AttemptFailed)
			outcome.State = domain.AttemptFailed
			outcome.UserMessage = UserMessage(err)
			return outcome, err
		}
	}

	w.sessions.finish(sess, domain.AttemptFailed)
	outcome.State = domain.AttemptFailed
	confirmErr := &apperrors.ErrUnconfirmed{OrderID: sess.intentID, Attempts: w.poll.MaxAttempts}
	outcome.UserMessage = UserMessage(confirmErr)
	return outcome, confirmErr
}

// AbandonChallenge drops a pending challenge (user closed the 3DS view). The
// local attempt fails; no cancellation is sent to the backend, so the intent
// may stay pending on the server.
func (w *Workflow) AbandonChallenge(conversationID string) bool {
	sess, ok := w.sessions.take(conversationID, domain.AttemptAwaitingChallenge, domain.AttemptFailed)
	if !ok {
		return false
	}
	w.guard.release(sess.key)
	w.sessions.finish(sess, domain.AttemptFailed)
	w.logger.Info("3DS challenge abandoned", zap.String("conversation_id", conversationID))
	return true
}

// AttemptState reports the current state of a challenge session, if known.
func (w *Workflow) AttemptState(conversationID string) (domain.AttemptState, bool) {
	return w.sessions.state(conversationID)
}

func (w *Workflow) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
