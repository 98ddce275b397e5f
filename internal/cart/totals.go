package cart

import (
	"github.com/berat-eth/huglu-storefront/internal/domain"
)

// ShippingPolicy computes the shipping charge for a cart. Pickup always
// ships free; below the free-shipping threshold a flat fee applies.
type ShippingPolicy struct {
	FreeShippingThreshold float64
	FlatFee               float64
}

// Subtotal sums price times quantity over the cart items.
func Subtotal(items []domain.CartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// ComputeTotals derives the total breakdown from cart items and the selected
// delivery method. Pure; recomputed from source data on every load.
func ComputeTotals(items []domain.CartItem, method domain.DeliveryMethod, policy ShippingPolicy) domain.Totals {
	subtotal := Subtotal(items)

	var shipping float64
	if method != domain.DeliveryPickup && subtotal < policy.FreeShippingThreshold {
		shipping = policy.FlatFee
	}

	return domain.Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}
