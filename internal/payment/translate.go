package payment

import (
	"errors"
	"strings"

	apperrors "github.com/berat-eth/huglu-storefront/pkg/errors"
)

// ConnectivityMessage is shown for any transport-level failure.
const ConnectivityMessage = "Bağlantı hatası. Lütfen internet bağlantınızı kontrol edip tekrar deneyin."

// UnconfirmedMessage is shown when the post-challenge poll exhausts without
// the backend reporting the payment as settled.
const UnconfirmedMessage = "Ödeme durumu doğrulanamadı. Lütfen siparişlerinizi kontrol edin."

// GenericFailureMessage is the fallback when the backend sent no message.
const GenericFailureMessage = "İşlem tamamlanamadı. Lütfen tekrar deneyin."

// declineTranslations maps known gateway error substrings to user-facing
// Turkish text. Matching is case-insensitive; unmatched messages pass through
// raw.
var declineTranslations = []struct {
	match string
	text  string
}{
	{"insufficient", "Kartınızda yeterli bakiye bulunmuyor."},
	{"not sufficient funds", "Kartınızda yeterli bakiye bulunmuyor."},
	{"invalid card", "Kart bilgileri geçersiz. Lütfen kontrol edip tekrar deneyin."},
	{"invalid cvc", "Güvenlik kodu hatalı."},
	{"expired card", "Kartınızın son kullanma tarihi geçmiş."},
	{"do not honor", "Bankanız işlemi onaylamadı. Lütfen bankanızla iletişime geçin."},
	{"do not honour", "Bankanız işlemi onaylamadı. Lütfen bankanızla iletişime geçin."},
	{"lost card", "Bu kart ile işlem yapılamıyor."},
	{"stolen card", "Bu kart ile işlem yapılamıyor."},
	{"fraud", "İşlem güvenlik nedeniyle reddedildi."},
	{"restricted card", "Kartınız bu işleme kapalı. İnternet alışverişi iznini kontrol edin."},
	{"3d secure", "3D Secure doğrulaması başarısız oldu. Lütfen tekrar deneyin."},
	{"limit", "Kart limitiniz bu işlem için yetersiz."},
}

// TranslateDecline maps a raw gateway decline message to localized text,
// falling back to the raw message when nothing matches.
func TranslateDecline(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return GenericFailureMessage
	}
	lower := strings.ToLower(raw)
	for _, t := range declineTranslations {
		if strings.Contains(lower, t.match) {
			return t.text
		}
	}
	return raw
}

// UserMessage renders any attempt error as the text shown to the customer.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validation *apperrors.ErrValidation
	if errors.As(err, &validation) {
		return validation.Message
	}

	var declined *apperrors.ErrGatewayDeclined
	if errors.As(err, &declined) {
		if declined.UserMessage != "" {
			return declined.UserMessage
		}
		return TranslateDecline(declined.Raw)
	}

	var connectivity *apperrors.ErrConnectivity
	if errors.As(err, &connectivity) {
		return ConnectivityMessage
	}

	var unconfirmed *apperrors.ErrUnconfirmed
	if errors.As(err, &unconfirmed) {
		return UnconfirmedMessage
	}

	var inflight *apperrors.ErrAttemptInFlight
	if errors.As(err, &inflight) {
		return "Devam eden bir ödeme işleminiz var. Lütfen bekleyin."
	}

	// Backend business errors surface verbatim; anything else gets the
	// generic fallback.
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericFailureMessage
}
