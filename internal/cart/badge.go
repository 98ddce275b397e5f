package cart

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrBadgeMiss = errors.New("badge cache miss")

// BadgeCache keeps the cart item count per user so the storefront badge does
// not hit the backend on every screen. Invalidated whenever the cart is
// cleared.
type BadgeCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewBadgeCache(client *redis.Client) *BadgeCache {
	return &BadgeCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (b *BadgeCache) Get(ctx context.Context, userID string) (int, error) {
	count, err := b.client.Get(ctx, badgeKey(userID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, ErrBadgeMiss
	}
	if err != nil {
		return 0, fmt.Errorf("redis get failed: %w", err)
	}
	return count, nil
}

func (b *BadgeCache) Set(ctx context.Context, userID string, count int) error {
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := b.baseTTL + jitter
	if err := b.client.Set(ctx, badgeKey(userID), count, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate zeroes the badge immediately so a cleared cart never shows a
// stale count.
func (b *BadgeCache) Invalidate(ctx context.Context, userID string) error {
	if err := b.client.Del(ctx, badgeKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func badgeKey(userID string) string {
	return fmt.Sprintf("cart-badge:%s", userID)
}
