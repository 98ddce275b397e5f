package domain

import (
	"time"
)

// CartItem mirrors an item from the remote cart service. The backend owns the
// cart; these are display/total projections only.
type CartItem struct {
	ProductID          int64             `json:"productId"`
	Name               string            `json:"name"`
	Price              float64           `json:"price"`
	Quantity           int               `json:"quantity"`
	SelectedVariations map[string]string `json:"selectedVariations,omitempty"`
	Image              string            `json:"image,omitempty"`
}

// Cart is the remote cart state for a user at load time.
type Cart struct {
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

// DeliveryMethod selects shipping vs in-store pickup at checkout.
type DeliveryMethod string

const (
	DeliveryShip   DeliveryMethod = "ship"
	DeliveryPickup DeliveryMethod = "pickup"
)

// Totals is the computed cart total breakdown.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// PaymentCard holds raw card entry for a single payment attempt.
// Never persisted; the vault erases it on every attempt exit path.
type PaymentCard struct {
	CardNumber     string `json:"cardNumber"`
	CardHolderName string `json:"cardHolderName"`
	ExpireMonth    string `json:"expireMonth"`
	ExpireYear     string `json:"expireYear"`
	CVC            string `json:"cvc"`
}

// MaskedCard is the gateway's echo of the card, safe to surface to callers.
type MaskedCard struct {
	Last4       string `json:"lastFourDigits,omitempty"`
	Association string `json:"cardAssociation,omitempty"`
	Family      string `json:"cardFamily,omitempty"`
}

// Buyer is the customer info submitted with a payment.
type Buyer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phoneNumber"`
}

// Address is a shipping or billing address.
type Address struct {
	ContactName string `json:"contactName"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Address     string `json:"address"`
	ZipCode     string `json:"zipCode,omitempty"`
}

// OrderItem is one line of an order submission.
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is the backend order record. Status transitions are owned entirely by
// the backend; this client only reads them.
type Order struct {
	ID              string      `json:"orderId"`
	UserID          string      `json:"userId"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          OrderStatus `json:"status"`
	PaymentStatus   string      `json:"paymentStatus,omitempty"`
	ShippingAddress *Address    `json:"shippingAddress,omitempty"`
	PickupStore     *string     `json:"pickupStore,omitempty"`
	PaymentMethod   string      `json:"paymentMethod"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"createdAt,omitempty"`
}

// Challenge is the 3-D Secure challenge returned by the gateway. It exists
// only for the duration of the embedded-browser redirect.
type Challenge struct {
	ConversationID string    `json:"conversationId"`
	HTML           string    `json:"threeDSHtmlContent"`
	CreatedAt      time.Time `json:"-"`
}

// WalletBalance is a read-only projection of the user's wallet.
type WalletBalance struct {
	UserID   string  `json:"userId"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

// WalletTransaction is one wallet ledger entry.
type WalletTransaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PaymentMethodInfo is a saved payment method descriptor.
type PaymentMethodInfo struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Label   string `json:"label"`
	Default bool   `json:"isDefault"`
}

// Voucher is a wallet voucher projection.
type Voucher struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Amount    float64   `json:"amount"`
	ExpiresAt time.Time `json:"expiresAt"`
	Used      bool      `json:"used"`
}
