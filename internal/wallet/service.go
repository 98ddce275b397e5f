// Package wallet exposes wallet reads and the balance top-up flow. Recharge
// reuses the payment workflow engine with a wallet-specific intent and
// confirmation.
package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/backend"
	"github.com/berat-eth/huglu-storefront/internal/domain"
	"github.com/berat-eth/huglu-storefront/internal/payment"
	"github.com/berat-eth/huglu-storefront/internal/threeds"
	apperrors "github.com/berat-eth/huglu-storefront/pkg/errors"
)

// Gateway is the backend surface the wallet needs.
type Gateway interface {
	GetWalletBalance(ctx context.Context, userID string) (*domain.WalletBalance, error)
	GetWalletTransactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error)
	GetPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethodInfo, error)
	GetVouchers(ctx context.Context, userID string) ([]domain.Voucher, error)
	SubmitRecharge(ctx context.Context, req *backend.RechargeRequest) (*backend.PaymentResult, error)
}

// Limits bound the accepted top-up amount, validated before submission.
type Limits struct {
	Min float64
	Max float64
}

// RechargeRequest is one top-up submission.
type RechargeRequest struct {
	UserID string             `json:"userId"`
	Amount float64            `json:"amount"`
	Card   domain.PaymentCard `json:"paymentCard"`
	Buyer  domain.Buyer       `json:"buyer"`
}

// Service serves wallet projections and runs recharges.
type Service struct {
	gateway  Gateway
	workflow *payment.Workflow
	monitor  *threeds.Monitor
	limits   Limits
	logger   *zap.Logger
}

func NewService(gateway Gateway, workflow *payment.Workflow, monitor *threeds.Monitor, limits Limits, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gateway:  gateway,
		workflow: workflow,
		monitor:  monitor,
		limits:   limits,
		logger:   logger,
	}
}

func (s *Service) Balance(ctx context.Context, userID string) (*domain.WalletBalance, error) {
	return s.gateway.GetWalletBalance(ctx, userID)
}

func (s *Service) Transactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error) {
	return s.gateway.GetWalletTransactions(ctx, userID)
}

func (s *Service) PaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethodInfo, error) {
	return s.gateway.GetPaymentMethods(ctx, userID)
}

func (s *Service) Vouchers(ctx context.Context, userID string) ([]domain.Voucher, error) {
	return s.gateway.GetVouchers(ctx, userID)
}

// ValidateAmount checks the top-up amount against the configured range.
func (s *Service) ValidateAmount(amount float64) error {
	if amount < s.limits.Min || amount > s.limits.Max {
		return &apperrors.ErrValidation{
			Field:   "amount",
			Message: fmt.Sprintf("yükleme tutarı %.0f ile %.0f arasında olmalı", s.limits.Min, s.limits.Max),
		}
	}
	return nil
}

// Recharge runs the top-up through the shared payment workflow. The outcome
// mirrors checkout: COMPLETED, FAILED, or AWAITING_CHALLENGE.
func (s *Service) Recharge(ctx context.Context, req *RechargeRequest) (*payment.Outcome, error) {
	// Balance before submission; confirmation after a challenge looks for
	// the credited amount. The wallet contract exposes no recharge-status
	// read, so without this baseline a later confirmation cannot be trusted.
	prior, err := s.gateway.GetWalletBalance(ctx, req.UserID)
	if err != nil {
		s.logger.Warn("Balance read failed before recharge", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}
	balanceBefore := prior.Balance

	def := payment.Definition{
		Key: "wallet-recharge:" + req.UserID,
		ValidateExtra: func() error {
			return s.ValidateAmount(req.Amount)
		},
		CreateIntent: func(ctx context.Context) (string, error) {
			// No backend record precedes a recharge; the reference ties the
			// attempt together for logging and confirmation.
			return "recharge-" + uuid.New().String(), nil
		},
		Submit: func(ctx context.Context, _ string, c domain.PaymentCard) (*payment.Intent, error) {
			result, err := s.gateway.SubmitRecharge(ctx, &backend.RechargeRequest{
				UserID:        req.UserID,
				Amount:        req.Amount,
				PaymentMethod: "card",
				PaymentCard:   c,
				Buyer:         req.Buyer,
			})
			if err != nil {
				return nil, err
			}
			return &payment.Intent{
				PaymentID:      result.PaymentID,
				ConversationID: result.ConversationID,
				Requires3DS:    result.Requires3DS,
				ChallengeHTML:  result.ChallengeHTML,
				CardInfo:       result.CardInfo,
			}, nil
		},
		Confirm: func(ctx context.Context, _ string) (bool, error) {
			current, err := s.gateway.GetWalletBalance(ctx, req.UserID)
			if err != nil {
				return false, err
			}
			return current.Balance >= balanceBefore+req.Amount, nil
		},
		OnSuccess: func(ctx context.Context) error {
			s.logger.Info("Wallet recharged",
				zap.String("user_id", req.UserID),
				zap.Float64("amount", req.Amount),
			)
			return nil
		},
	}

	outcome, err := s.workflow.Run(ctx, def, req.Card)
	if outcome != nil && outcome.Challenge != nil && s.monitor != nil {
		s.monitor.Track(outcome.Challenge)
	}
	return outcome, err
}

// CompleteChallenge resumes a recharge waiting on its 3DS conversation.
func (s *Service) CompleteChallenge(ctx context.Context, conversationID string) (*payment.Outcome, error) {
	return s.workflow.CompleteChallenge(ctx, conversationID)
}
