// Package card validates and masks payment card entry. Validation fails fast
// with a field-specific error; no network call is made once it rejects.
package card

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/berat-eth/huglu-storefront/internal/domain"
	apperrors "github.com/berat-eth/huglu-storefront/pkg/errors"
)

const (
	minCardNumberDigits = 16
	minHolderNameLength = 3
	minCVCLength        = 3
)

// CleanNumber strips everything but digits from a card number entry
// ("4111 1111 1111 1111" becomes a 16-digit string).
func CleanNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseExpiry splits an "MM/YY" entry into month and year. Both parts must be
// exactly two digits.
func ParseExpiry(expiry string) (month, year string, err error) {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 {
		return "", "", &apperrors.ErrValidation{Field: "expiry", Message: "son kullanma tarihi AA/YY biçiminde olmalı"}
	}
	month, year = parts[0], parts[1]
	if len(month) != 2 || len(year) != 2 || !allDigits(month) || !allDigits(year) {
		return "", "", &apperrors.ErrValidation{Field: "expiry", Message: "son kullanma tarihi AA/YY biçiminde olmalı"}
	}
	return month, year, nil
}

// Validate checks a card entry against the storefront's input rules.
// It returns the first failing field as *errors.ErrValidation.
func Validate(c domain.PaymentCard) error {
	if len(CleanNumber(c.CardNumber)) < minCardNumberDigits {
		return &apperrors.ErrValidation{Field: "cardNumber", Message: "geçersiz kart numarası"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(c.CardHolderName)) < minHolderNameLength {
		return &apperrors.ErrValidation{Field: "cardHolderName", Message: "kart üzerindeki isim eksik"}
	}
	if len(c.ExpireMonth) != 2 || len(c.ExpireYear) != 2 || !allDigits(c.ExpireMonth) || !allDigits(c.ExpireYear) {
		return &apperrors.ErrValidation{Field: "expiry", Message: "son kullanma tarihi AA/YY biçiminde olmalı"}
	}
	if len(c.CVC) < minCVCLength || !allDigits(c.CVC) {
		return &apperrors.ErrValidation{Field: "cvc", Message: "geçersiz güvenlik kodu"}
	}
	return nil
}

// Mask returns the display form of a card number, keeping only the last four
// digits.
func Mask(number string) string {
	digits := CleanNumber(number)
	if len(digits) < 4 {
		return "****"
	}
	return "**** **** **** " + digits[len(digits)-4:]
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
