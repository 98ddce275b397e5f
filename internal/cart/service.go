package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/domain"
)

// Loader is the backend surface the cart service needs.
type Loader interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// Badge is the local counter cache surface. Optional; a nil badge disables
// caching.
type Badge interface {
	Get(ctx context.Context, userID string) (int, error)
	Set(ctx context.Context, userID string, count int) error
	Invalidate(ctx context.Context, userID string) error
}

// Service loads the remote cart, computes totals, and clears cart plus local
// badge state after a confirmed payment.
type Service struct {
	loader Loader
	badge  Badge
	policy ShippingPolicy
	logger *zap.Logger
}

func NewService(loader Loader, badge Badge, policy ShippingPolicy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		loader: loader,
		badge:  badge,
		policy: policy,
		logger: logger,
	}
}

// Load fetches the cart and computes totals for the given delivery method.
func (s *Service) Load(ctx context.Context, userID string, method domain.DeliveryMethod) (*domain.Cart, domain.Totals, error) {
	c, err := s.loader.GetCart(ctx, userID)
	if err != nil {
		return nil, domain.Totals{}, err
	}

	totals := ComputeTotals(c.Items, method, s.policy)

	if s.badge != nil {
		count := 0
		for _, item := range c.Items {
			count += item.Quantity
		}
		if cacheErr := s.badge.Set(ctx, userID, count); cacheErr != nil {
			s.logger.Warn("Failed to refresh cart badge", zap.Error(cacheErr))
		}
	}

	return c, totals, nil
}

// BadgeCount returns the cached cart item count, falling back to the backend
// on a miss.
func (s *Service) BadgeCount(ctx context.Context, userID string) (int, error) {
	if s.badge != nil {
		count, err := s.badge.Get(ctx, userID)
		if err == nil {
			return count, nil
		}
		if !errors.Is(err, ErrBadgeMiss) {
			s.logger.Warn("Badge cache read failed", zap.Error(err))
		}
	}

	c, err := s.loader.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	if s.badge != nil {
		if cacheErr := s.badge.Set(ctx, userID, count); cacheErr != nil {
			s.logger.Warn("Failed to refresh cart badge", zap.Error(cacheErr))
		}
	}
	return count, nil
}

// Clear empties the remote cart and invalidates local badge state. Called
// exactly once per confirmed payment success.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.loader.ClearCart(ctx, userID); err != nil {
		return err
	}
	if s.badge != nil {
		if err := s.badge.Invalidate(ctx, userID); err != nil {
			s.logger.Warn("Failed to invalidate cart badge", zap.Error(err))
		}
	}
	return nil
}
